// Package tablebase persists solved Chomp shapes in BadgerDB so that a solver
// can reuse them across runs.
package tablebase

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"sync"

	"chomp/game"
	"chomp/searcher"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var keyPrefix = []byte("chomp/shape/")

type Config struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path       string
	InMemory   bool
	SyncWrites bool
}

func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// Tablebase is a searcher.Table backed by BadgerDB. Lookups and stores never
// fail the search; the first storage error is kept and reported by Err.
type Tablebase struct {
	db *badger.DB

	mu  sync.Mutex
	err error
}

type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{})   { l.logger.Error().Msgf(format, args...) }
func (l badgerLogger) Warningf(format string, args ...interface{}) { l.logger.Warn().Msgf(format, args...) }
func (l badgerLogger) Infof(format string, args ...interface{})    { l.logger.Debug().Msgf(format, args...) }
func (l badgerLogger) Debugf(format string, args ...interface{})   { l.logger.Trace().Msgf(format, args...) }

func Open(cfg Config) (*Tablebase, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for a persistent tablebase")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create tablebase directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.
		WithSyncWrites(cfg.SyncWrites).
		WithNumVersionsToKeep(1).
		WithLogger(badgerLogger{logger: log.With().Str("component", "badger").Logger()})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open tablebase: %w", err)
	}
	return &Tablebase{db: db}, nil
}

func (t *Tablebase) Close() error {
	return t.db.Close()
}

// Err returns the first storage error seen by Lookup or Store.
func (t *Tablebase) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *Tablebase) fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err == nil {
		t.err = err
	}
	log.Warn().Err(err).Msg("tablebase access failed")
}

func (t *Tablebase) Lookup(key game.StateHash) (searcher.Entry, bool) {
	var entry searcher.Entry
	err := t.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(encodeKey(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			entry, err = decodeEntry(val)
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return searcher.Entry{}, false
	}
	if err != nil {
		t.fail(fmt.Errorf("lookup shape %d: %w", key, err))
		return searcher.Entry{}, false
	}
	return entry, true
}

func (t *Tablebase) Store(key game.StateHash, entry searcher.Entry) {
	err := t.db.Update(func(txn *badger.Txn) error {
		return txn.Set(encodeKey(key), encodeEntry(entry))
	})
	if err != nil {
		t.fail(fmt.Errorf("store shape %d: %w", key, err))
	}
}

// Count returns the number of stored shapes.
func (t *Tablebase) Count() (int, error) {
	n := 0
	err := t.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = keyPrefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

func encodeKey(key game.StateHash) []byte {
	buf := make([]byte, len(keyPrefix)+8)
	copy(buf, keyPrefix)
	binary.BigEndian.PutUint64(buf[len(keyPrefix):], uint64(key))
	return buf
}

// Values are three bytes: win flag, row, column.
func encodeEntry(entry searcher.Entry) []byte {
	val := []byte{0, byte(entry.Move.Row), byte(entry.Move.Col)}
	if entry.Win {
		val[0] = 1
	}
	return val
}

func decodeEntry(val []byte) (searcher.Entry, error) {
	if len(val) != 3 || val[0] > 1 {
		return searcher.Entry{}, fmt.Errorf("corrupt tablebase value %x", val)
	}
	return searcher.Entry{
		Win:  val[0] == 1,
		Move: game.Move{Row: int(val[1]), Col: int(val[2])},
	}, nil
}
