package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/camden-git/organizer/models"
)

// driverName is go-sqlite3 with a unicode-aware casefold() function
// registered on every connection; SQLite's own LIKE only folds ASCII.
const driverName = "sqlite3_organizer"

const defaultBusyTimeout = 5 * time.Second

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// errIntegrityCheck is returned when PRAGMA quick_check reports damage.
var errIntegrityCheck = errors.New("integrity check failed")

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("casefold", strings.ToLower, true)
		},
	})
}

// Options tune how the store file is opened.
type Options struct {
	BusyTimeout  time.Duration
	GormLogLevel logger.LogLevel
}

// Handle is the single access point to the store file. It holds one
// connection shared by the raw SQL and GORM layers, and a mutex that
// serializes every operation on it.
type Handle struct {
	mu   sync.Mutex
	db   *sql.DB
	gorm *gorm.DB
}

// WithSQL runs fn with exclusive use of the raw connection.
func (h *Handle) WithSQL(fn func(db *sql.DB) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fn(h.db)
}

// WithGorm runs fn with exclusive use of the GORM session.
func (h *Handle) WithGorm(fn func(db *gorm.DB) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fn(h.gorm)
}

// Close releases the connection.
func (h *Handle) Close() error {
	if h == nil || h.db == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.db.Close()
}

// OpenOrRecreate opens the store at path and makes sure its schema exists.
// If the file turns out to be corrupt or not a database at all, it is
// deleted and a fresh empty store is created in its place, once. Any other
// failure (including a busy or locked file) is reported as
// models.ErrStorageUnavailable and the file is left alone.
func OpenOrRecreate(path string, opts Options) (*Handle, error) {
	h, err := open(path, opts)
	if err == nil {
		return h, nil
	}
	if !IsCorruption(err) {
		return nil, fmt.Errorf("%w: failed to open %s: %w", models.ErrStorageUnavailable, path, err)
	}

	log.Printf("Warning: database %s is unusable (%v), deleting and recreating it", path, err)
	if rmErr := removeStoreFiles(path); rmErr != nil {
		return nil, fmt.Errorf("%w: failed to remove corrupt database %s: %w", models.ErrStorageUnavailable, path, rmErr)
	}

	h, err = open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to recreate %s: %w", models.ErrStorageUnavailable, path, err)
	}
	log.Printf("database recreated at %s", path)
	return h, nil
}

// IsCorruption reports whether err means the file itself is damaged. Only
// these errors may trigger the delete-and-recreate path.
func IsCorruption(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errIntegrityCheck) {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrCorrupt, sqlite3.ErrNotADB:
			return true
		}
	}
	return false
}

func open(path string, opts Options) (*Handle, error) {
	if path == "" {
		return nil, fmt.Errorf("empty database path")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	busy := opts.BusyTimeout
	if busy <= 0 {
		busy = defaultBusyTimeout
	}
	dsn := fmt.Sprintf("%s?_busy_timeout=%d", path, busy.Milliseconds())

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection; the Handle mutex is the only way in
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := probe(db); err != nil {
		db.Close()
		return nil, err
	}

	// enable write-ahead logging for better durability on crashes
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		if IsCorruption(err) {
			db.Close()
			return nil, err
		}
		log.Printf("Warning: failed to set WAL mode: %v", err)
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	gdb, err := newGormDB(db, opts.GormLogLevel)
	if err != nil {
		db.Close()
		return nil, err
	}

	log.Println("database initialized successfully at", path)
	return &Handle{db: db, gorm: gdb}, nil
}

// probe touches the file so that a damaged header or page surfaces here
// rather than in the middle of a session.
func probe(db *sql.DB) error {
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	rows, err := db.Query("PRAGMA quick_check;")
	if err != nil {
		return fmt.Errorf("failed to run integrity check: %w", err)
	}
	defer rows.Close()

	var problems []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return fmt.Errorf("failed to scan integrity check: %w", err)
		}
		if line != "ok" {
			problems = append(problems, line)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read integrity check: %w", err)
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", errIntegrityCheck, strings.Join(problems, "; "))
	}
	return nil
}

func removeStoreFiles(path string) error {
	for _, p := range []string{path, path + "-wal", path + "-shm", path + "-journal"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}
