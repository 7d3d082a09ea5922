// Package psqltest opens a throwaway migrated database for tests. It runs the
// same gorm models and DAOs against a file-backed SQLite database so tests do
// not need a PostgreSQL server.
package psqltest

import (
	"context"
	"path/filepath"
	"testing"

	"meganote/meganote/sources/psql"

	"github.com/glebarez/sqlite"
)

func NewDatabase(t testing.TB) *psql.Database {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "meganote.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := psql.Open(sqlite.Open(dsn))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(db.Close)

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
