package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	keyStats   = "stats"
	keyGameSeq = "game_seq"

	gameKeyPrefix = "game:"
)

// GameRecord is one completed driver game.
type GameRecord struct {
	Event       string    `json:"event"`
	Round       int       `json:"round"`
	White       string    `json:"white"`
	Black       string    `json:"black"`
	Result      string    `json:"result"`
	Termination string    `json:"termination,omitempty"`
	Date        time.Time `json:"date"`
	PGN         string    `json:"pgn"`
}

// Stats aggregates results from our engine's point of view.
type Stats struct {
	GamesPlayed int `json:"games_played"`
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`
	Draws       int `json:"draws"`

	// Per-color breakdown, keyed "white"/"black".
	WinsByColor map[string]int `json:"wins_by_color"`
}

// NewStats returns empty statistics.
func NewStats() *Stats {
	return &Stats{WinsByColor: make(map[string]int)}
}

// Score returns the match score (wins plus half the draws).
func (s *Stats) Score() float64 {
	return float64(s.Wins) + 0.5*float64(s.Draws)
}

// Store wraps BadgerDB for persisting records and statistics.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) a store in dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenDefault opens the store in the platform data directory.
func OpenDefault() (*Store, error) {
	dir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dir)
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveGame stores a game record under a fresh sequence number and
// returns that number.
func (s *Store) SaveGame(rec GameRecord) (uint64, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return 0, err
	}

	var seq uint64
	err = s.db.Update(func(txn *badger.Txn) error {
		seq, err = nextSeq(txn)
		if err != nil {
			return err
		}
		return txn.Set(gameKey(seq), data)
	})
	return seq, err
}

// LoadGame retrieves the game record stored under seq.
func (s *Store) LoadGame(seq uint64) (*GameRecord, error) {
	rec := &GameRecord{}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(seq))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// LoadStats loads the aggregate statistics, empty if none recorded yet.
func (s *Store) LoadStats() (*Stats, error) {
	stats := NewStats()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyStats))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, stats)
		})
	})
	return stats, err
}

// RecordResult saves the game and folds its result into the statistics.
// ourColor is "white" or "black"; result is a PGN result string.
func (s *Store) RecordResult(rec GameRecord, ourColor string) error {
	if _, err := s.SaveGame(rec); err != nil {
		return err
	}

	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	switch {
	case rec.Result == "1/2-1/2" || rec.Result == "*":
		stats.Draws++
	case (rec.Result == "1-0") == (ourColor == "white"):
		stats.Wins++
		stats.WinsByColor[ourColor]++
	default:
		stats.Losses++
	}

	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyStats), data)
	})
}

func gameKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%012d", gameKeyPrefix, seq))
}

// nextSeq increments and returns the game sequence counter.
func nextSeq(txn *badger.Txn) (uint64, error) {
	var seq uint64

	item, err := txn.Get([]byte(keyGameSeq))
	switch {
	case err == badger.ErrKeyNotFound:
		seq = 1
	case err != nil:
		return 0, err
	default:
		if err := item.Value(func(val []byte) error {
			seq = binary.BigEndian.Uint64(val) + 1
			return nil
		}); err != nil {
			return 0, err
		}
	}

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, seq)
	return seq, txn.Set([]byte(keyGameSeq), buf)
}
