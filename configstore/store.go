// Package configstore persists per-guild configuration values in a local SQLite file.
//
// Each value is keyed by (guild, key) and tagged with a category: one of
// roles, categories, channels or values. The category is supplied by the caller
// and is not validated here, so new keys can be introduced without touching the
// schema. See Catalog for the declarative list of keys the bot offers.
package configstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/oklahomer/go-kasumi/logger"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Category groups configuration keys for display and partitioning.
type Category string

const (
	CategoryRoles      Category = "roles"
	CategoryCategories Category = "categories"
	CategoryChannels   Category = "channels"
	CategoryValues     Category = "values"
)

// Categories lists the well-known categories in display order.
var Categories = []Category{CategoryRoles, CategoryCategories, CategoryChannels, CategoryValues}

// Entry is a single row of the configurations table.
type Entry struct {
	GuildID  int64          `db:"guild_id"`
	Key      string         `db:"config_key"`
	Value    sql.NullString `db:"config_value"`
	Category Category       `db:"config_type"`
}

// Setting is a key/value pair of a loaded GuildConfig.
type Setting struct {
	Key   string
	Value string
}

// Settings is an ordered set of settings belonging to one category.
type Settings []Setting

// Lookup returns the value stored for key.
func (s Settings) Lookup(key string) (string, bool) {
	for _, setting := range s {
		if setting.Key == key {
			return setting.Value, true
		}
	}
	return "", false
}

// GuildConfig holds every set value of a guild, partitioned by category.
type GuildConfig struct {
	Roles      Settings
	Categories Settings
	Channels   Settings
	Values     Settings
}

// Section returns the settings of the given category.
// Unknown categories yield nil.
func (c *GuildConfig) Section(category Category) Settings {
	switch category {
	case CategoryRoles:
		return c.Roles
	case CategoryCategories:
		return c.Categories
	case CategoryChannels:
		return c.Channels
	case CategoryValues:
		return c.Values
	default:
		return nil
	}
}

// Empty reports whether no value is set in any category.
func (c *GuildConfig) Empty() bool {
	return len(c.Roles) == 0 && len(c.Categories) == 0 && len(c.Channels) == 0 && len(c.Values) == 0
}

func (c *GuildConfig) add(category Category, setting Setting) bool {
	switch category {
	case CategoryRoles:
		c.Roles = append(c.Roles, setting)
	case CategoryCategories:
		c.Categories = append(c.Categories, setting)
	case CategoryChannels:
		c.Channels = append(c.Channels, setting)
	case CategoryValues:
		c.Values = append(c.Values, setting)
	default:
		return false
	}
	return true
}

// Store reads and writes guild configuration.
type Store struct {
	db *sqlx.DB
}

// Open opens the SQLite file at path, creating it and its parent directory when
// absent, and brings the schema up to date. Opening an initialized file again is
// a no-op for the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create directory %s: %w", ErrStorageInit, dir, err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrStorageInit, path, err)
	}

	// A single connection keeps writers from this process out of each other's way;
	// other processes are handled by the busy timeout.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", ErrStorageInit, path, err)
	}

	if err := runMigrations(db.DB); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", ErrStorageInit, err)
	}

	return New(db), nil
}

// New wraps an initialized database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

const upsertQuery = `INSERT OR REPLACE INTO configurations (guild_id, config_key, config_value, config_type) VALUES (?, ?, ?, ?)`

// Set stores value under (guildID, key), replacing any previous value and category.
func (s *Store) Set(ctx context.Context, guildID int64, key, value string, category Category) error {
	_, err := s.db.ExecContext(ctx, upsertQuery, guildID, key, value, string(category))
	if err != nil {
		return fmt.Errorf("%w: set %q for guild %d: %w", ErrStorageIO, key, guildID, err)
	}
	return nil
}

const selectValueQuery = `SELECT config_value FROM configurations WHERE guild_id = ? AND config_key = ?`

// Get returns the value stored under (guildID, key).
// The second return value is false when the key was never set or holds NULL.
func (s *Store) Get(ctx context.Context, guildID int64, key string) (string, bool, error) {
	var value sql.NullString
	err := s.db.GetContext(ctx, &value, selectValueQuery, guildID, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: get %q for guild %d: %w", ErrStorageIO, key, guildID, err)
	}
	if !value.Valid {
		return "", false, nil
	}
	return value.String, true, nil
}

const selectGuildQuery = `SELECT guild_id, config_key, config_value, config_type FROM configurations WHERE guild_id = ? ORDER BY rowid`

// Load returns every set value of the guild partitioned by category.
// NULL and empty values are left out.
func (s *Store) Load(ctx context.Context, guildID int64) (*GuildConfig, error) {
	var entries []Entry
	if err := s.db.SelectContext(ctx, &entries, selectGuildQuery, guildID); err != nil {
		return nil, fmt.Errorf("%w: load guild %d: %w", ErrStorageIO, guildID, err)
	}

	config := &GuildConfig{}
	for _, e := range entries {
		if !e.Value.Valid || e.Value.String == "" {
			continue
		}
		if !config.add(e.Category, Setting{Key: e.Key, Value: e.Value.String}) {
			logger.Debugf("Skipping %q of guild %d with unknown category %q", e.Key, guildID, e.Category)
		}
	}

	return config, nil
}
