package pagecache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

const badgerKeyPrefix = "page:"

type Badger struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenBadger opens a badger database in dir. An empty dir keeps the database
// in memory.
func OpenBadger(dir string, ttl time.Duration, logger *zap.Logger) (*Badger, error) {
	opts := badger.DefaultOptions(dir).WithLogger(badgerLogger{logger: sugar(logger)})
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger page cache: %w", err)
	}

	return &Badger{db: db, ttl: ttl}, nil
}

func (b *Badger) Get(_ context.Context, path string) ([]byte, bool, error) {
	var body []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(path))
		if err != nil {
			return err
		}
		body, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read page %q: %w", path, err)
	}

	return body, true, nil
}

func (b *Badger) Set(_ context.Context, path string, body []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(badgerKey(path), body)
		if b.ttl > 0 {
			entry = entry.WithTTL(b.ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("write page %q: %w", path, err)
	}
	return nil
}

func (b *Badger) Purge(context.Context) error {
	if err := b.db.DropPrefix([]byte(badgerKeyPrefix)); err != nil {
		return fmt.Errorf("purge page cache: %w", err)
	}
	return nil
}

func (b *Badger) Close() error {
	return b.db.Close()
}

func badgerKey(path string) []byte {
	return []byte(badgerKeyPrefix + NormalizeKey(path))
}

type badgerLogger struct {
	logger *zap.SugaredLogger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Errorf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warnf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debugf(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debugf(format, args...)
}

func sugar(logger *zap.Logger) *zap.SugaredLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger.Named("badger").Sugar()
}
