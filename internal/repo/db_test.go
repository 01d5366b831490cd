package repo

import (
	"path/filepath"
	"testing"
)

func TestOpen_SQLiteAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "isobel_test.db")

	db, err := Open("", path, false)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	for _, table := range []string{"users", "accounts", "sessions", "discord_users", "guilds", "guild_members", "settings"} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("expected table %q after migration", table)
		}
	}
}

func TestOpen_SQLiteMissingParentDir(t *testing.T) {
	if _, err := Open("", filepath.Join(t.TempDir(), "no", "such", "dir", "x.db"), false); err == nil {
		t.Fatal("expected error for missing parent directory")
	}
}

func TestOpen_TracedSQLite(t *testing.T) {
	db, err := Open("", filepath.Join(t.TempDir(), "traced.db"), true)
	if err != nil {
		t.Fatalf("Open traced: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
