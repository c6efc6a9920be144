package configstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

// newMockStore creates a Store over sqlmock with automatic cleanup and expectation checking.
func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return New(sqlx.NewDb(db, "sqlmock")), mock
}

// openStore opens a real SQLite file under a temporary directory.
func openStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "database", "configuration.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Unexpected error: %+v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store, path
}

var entryColumns = []string{"guild_id", "config_key", "config_value", "config_type"}

func TestStore_Set(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(upsertQuery)).
		WithArgs(int64(42), "seller_role", "1001", "roles").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.Set(context.Background(), 42, "seller_role", "1001", CategoryRoles); err != nil {
		t.Fatalf("Unexpected error: %+v", err)
	}
}

func TestStore_Set_IOError(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(upsertQuery)).
		WithArgs(int64(42), "seller_role", "1001", "roles").
		WillReturnError(errors.New("disk I/O error"))

	err := store.Set(context.Background(), 42, "seller_role", "1001", CategoryRoles)
	if !errors.Is(err, ErrStorageIO) {
		t.Fatalf("Expected ErrStorageIO, got %+v", err)
	}
}

func TestStore_Get(t *testing.T) {
	t.Run("set value", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectValueQuery)).
			WithArgs(int64(42), "logs_channel").
			WillReturnRows(sqlmock.NewRows([]string{"config_value"}).AddRow("2002"))

		value, ok, err := store.Get(context.Background(), 42, "logs_channel")
		if err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}
		if !ok || value != "2002" {
			t.Errorf("Expected (%q, true), got (%q, %t)", "2002", value, ok)
		}
	})

	t.Run("never set", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectValueQuery)).
			WithArgs(int64(42), "logs_channel").
			WillReturnRows(sqlmock.NewRows([]string{"config_value"}))

		value, ok, err := store.Get(context.Background(), 42, "logs_channel")
		if err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}
		if ok || value != "" {
			t.Errorf("Expected absent value, got (%q, %t)", value, ok)
		}
	})

	t.Run("null value", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectValueQuery)).
			WithArgs(int64(42), "logs_channel").
			WillReturnRows(sqlmock.NewRows([]string{"config_value"}).AddRow(nil))

		_, ok, err := store.Get(context.Background(), 42, "logs_channel")
		if err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}
		if ok {
			t.Error("Expected NULL value to be reported as absent")
		}
	})

	t.Run("I/O error", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectValueQuery)).
			WithArgs(int64(42), "logs_channel").
			WillReturnError(errors.New("database is locked"))

		_, _, err := store.Get(context.Background(), 42, "logs_channel")
		if !errors.Is(err, ErrStorageIO) {
			t.Fatalf("Expected ErrStorageIO, got %+v", err)
		}
	})
}

func TestStore_Load(t *testing.T) {
	t.Run("partitions by category", func(t *testing.T) {
		store, mock := newMockStore(t)
		rows := sqlmock.NewRows(entryColumns).
			AddRow(int64(42), "seller_role", "1001", "roles").
			AddRow(int64(42), "listing_category", "3003", "categories").
			AddRow(int64(42), "logs_channel", "2002", "channels").
			AddRow(int64(42), "example_value", "hello", "values").
			AddRow(int64(42), "account_ping_role", "1002", "roles")
		mock.ExpectQuery(regexp.QuoteMeta(selectGuildQuery)).WithArgs(int64(42)).WillReturnRows(rows)

		config, err := store.Load(context.Background(), 42)
		if err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}

		expectedRoles := Settings{{Key: "seller_role", Value: "1001"}, {Key: "account_ping_role", Value: "1002"}}
		if len(config.Roles) != len(expectedRoles) {
			t.Fatalf("Expected %d roles, got %d", len(expectedRoles), len(config.Roles))
		}
		for i, s := range expectedRoles {
			if config.Roles[i] != s {
				t.Errorf("Expected role %d to be %+v, got %+v", i, s, config.Roles[i])
			}
		}
		if v, _ := config.Categories.Lookup("listing_category"); v != "3003" {
			t.Errorf("Expected listing_category %q, got %q", "3003", v)
		}
		if v, _ := config.Channels.Lookup("logs_channel"); v != "2002" {
			t.Errorf("Expected logs_channel %q, got %q", "2002", v)
		}
		if v, _ := config.Values.Lookup("example_value"); v != "hello" {
			t.Errorf("Expected example_value %q, got %q", "hello", v)
		}
	})

	t.Run("null, empty and unknown entries are left out", func(t *testing.T) {
		store, mock := newMockStore(t)
		rows := sqlmock.NewRows(entryColumns).
			AddRow(int64(42), "seller_role", nil, "roles").
			AddRow(int64(42), "logs_channel", "", "channels").
			AddRow(int64(42), "mystery", "1", "emojis")
		mock.ExpectQuery(regexp.QuoteMeta(selectGuildQuery)).WithArgs(int64(42)).WillReturnRows(rows)

		config, err := store.Load(context.Background(), 42)
		if err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}
		if !config.Empty() {
			t.Errorf("Expected empty config, got %+v", config)
		}
	})

	t.Run("I/O error", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectGuildQuery)).WithArgs(int64(42)).
			WillReturnError(errors.New("unable to open database file"))

		_, err := store.Load(context.Background(), 42)
		if !errors.Is(err, ErrStorageIO) {
			t.Fatalf("Expected ErrStorageIO, got %+v", err)
		}
	})
}

func TestOpen(t *testing.T) {
	t.Run("creates directory and schema", func(t *testing.T) {
		_, path := openStore(t)

		if _, err := os.Stat(path); err != nil {
			t.Errorf("Expected database file to exist: %+v", err)
		}
	})

	t.Run("reopening an initialized file is a no-op", func(t *testing.T) {
		store, path := openStore(t)
		ctx := context.Background()
		if err := store.Set(ctx, 1, "seller_role", "1001", CategoryRoles); err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}
		store.Close()

		reopened, err := Open(path)
		if err != nil {
			t.Fatalf("Unexpected error on reopen: %+v", err)
		}
		defer reopened.Close()

		value, ok, err := reopened.Get(ctx, 1, "seller_role")
		if err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}
		if !ok || value != "1001" {
			t.Errorf("Expected value to survive reopen, got (%q, %t)", value, ok)
		}
	})

	t.Run("unwritable location", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}

		_, err := Open(filepath.Join(blocker, "configuration.db"))
		if !errors.Is(err, ErrStorageInit) {
			t.Fatalf("Expected ErrStorageInit, got %+v", err)
		}
	})
}

func TestStore_SQLite(t *testing.T) {
	ctx := context.Background()

	t.Run("upsert is idempotent", func(t *testing.T) {
		store, _ := openStore(t)
		for i := 0; i < 2; i++ {
			if err := store.Set(ctx, 7, "example_value", "same", CategoryValues); err != nil {
				t.Fatalf("Unexpected error: %+v", err)
			}
		}

		value, ok, err := store.Get(ctx, 7, "example_value")
		if err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}
		if !ok || value != "same" {
			t.Errorf("Expected (%q, true), got (%q, %t)", "same", value, ok)
		}

		var count int
		if err := store.db.Get(&count, `SELECT COUNT(*) FROM configurations WHERE guild_id = 7`); err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}
		if count != 1 {
			t.Errorf("Expected a single row, got %d", count)
		}
	})

	t.Run("last write wins", func(t *testing.T) {
		store, _ := openStore(t)
		if err := store.Set(ctx, 7, "logs_channel", "1", CategoryChannels); err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}
		if err := store.Set(ctx, 7, "logs_channel", "2", CategoryChannels); err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}

		value, _, err := store.Get(ctx, 7, "logs_channel")
		if err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}
		if value != "2" {
			t.Errorf("Expected %q, got %q", "2", value)
		}
	})

	t.Run("load returns only the guild's entries", func(t *testing.T) {
		store, _ := openStore(t)
		sets := []struct {
			guild    int64
			key      string
			value    string
			category Category
		}{
			{7, "seller_role", "10", CategoryRoles},
			{7, "listing_category", "20", CategoryCategories},
			{7, "logs_channel", "30", CategoryChannels},
			{7, "example_value", "text", CategoryValues},
			{8, "seller_role", "99", CategoryRoles},
		}
		for _, s := range sets {
			if err := store.Set(ctx, s.guild, s.key, s.value, s.category); err != nil {
				t.Fatalf("Unexpected error: %+v", err)
			}
		}

		config, err := store.Load(ctx, 7)
		if err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}
		for _, s := range sets[:4] {
			section := config.Section(s.category)
			if len(section) != 1 {
				t.Errorf("Expected exactly one %s entry, got %+v", s.category, section)
				continue
			}
			if section[0].Key != s.key || section[0].Value != s.value {
				t.Errorf("Expected %s=%s under %s, got %+v", s.key, s.value, s.category, section[0])
			}
		}
	})

	t.Run("null values are left out of load", func(t *testing.T) {
		store, _ := openStore(t)
		if _, err := store.db.Exec(`INSERT INTO configurations (guild_id, config_key, config_value, config_type) VALUES (7, 'seller_role', NULL, 'roles')`); err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}
		if err := store.Set(ctx, 7, "account_ping_role", "11", CategoryRoles); err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}

		config, err := store.Load(ctx, 7)
		if err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}
		if _, ok := config.Roles.Lookup("seller_role"); ok {
			t.Error("Expected NULL entry to be left out")
		}
		if len(config.Roles) != 1 {
			t.Errorf("Expected 1 role, got %+v", config.Roles)
		}
	})
}
