package tracker

import (
	"database/sql"
	"sync"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// Storage is the local key/value storage a tracker keeps its ledger in.
type Storage interface {
	GetItem(key string) (string, bool, error)
	SetItem(key string, value string) error
}

type MemoryStorage struct {
	mutex sync.RWMutex
	items map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

func (s *MemoryStorage) GetItem(key string) (string, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, ok := s.items[key]
	return value, ok, nil
}

func (s *MemoryStorage) SetItem(key string, value string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.items[key] = value
	return nil
}

const sqliteStorageTable = "Storage"

// SQLiteStorage keeps items in a single table of a SQLite file, so that the
// ledger outlives the process.
type SQLiteStorage struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

func NewSQLiteStorage(dataSource string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dataSource)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open tracker storage")
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS ` + sqliteStorageTable + ` (ItemKey TEXT PRIMARY KEY, ItemValue TEXT NOT NULL)`); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create tracker storage table")
	}

	return &SQLiteStorage{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question).RunWith(db),
	}, nil
}

func (s *SQLiteStorage) GetItem(key string) (string, bool, error) {
	var value string
	err := s.builder.
		Select("ItemValue").
		From(sqliteStorageTable).
		Where(sq.Eq{"ItemKey": key}).
		QueryRow().
		Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "failed to read item %s", key)
	}

	return value, true, nil
}

func (s *SQLiteStorage) SetItem(key string, value string) error {
	_, err := s.builder.
		Insert(sqliteStorageTable).
		Columns("ItemKey", "ItemValue").
		Values(key, value).
		Suffix("ON CONFLICT(ItemKey) DO UPDATE SET ItemValue = excluded.ItemValue").
		Exec()
	if err != nil {
		return errors.Wrapf(err, "failed to write item %s", key)
	}

	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
