// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"

	"blockpress/internal/database"
	"blockpress/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "blockpress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "blockpress")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testLanguage creates a throwaway non-default language and removes it,
// with everything it owns, when the test finishes.
func testLanguage(t *testing.T, db *sql.DB, code string) *models.Language {
	t.Helper()
	ctx := context.Background()
	cleanLanguage(db, code)

	l, err := NewLanguageStore(db).Create(ctx, code, "Test "+code, false)
	if err != nil {
		t.Fatalf("create language %s: %v", code, err)
	}
	t.Cleanup(func() { cleanLanguage(db, code) })
	return l
}

func cleanLanguage(db *sql.DB, code string) {
	db.Exec(`DELETE FROM blocks WHERE language_id IN (SELECT id FROM languages WHERE code = $1)`, code)
	db.Exec(`DELETE FROM pages WHERE language_id IN (SELECT id FROM languages WHERE code = $1)`, code)
	db.Exec(`DELETE FROM posts WHERE language_id IN (SELECT id FROM languages WHERE code = $1)`, code)
	db.Exec(`DELETE FROM languages WHERE code = $1`, code)
}

// cleanMediaByKey removes test media by object key. Call in t.Cleanup().
func cleanMediaByKey(db *sql.DB, keys ...string) {
	for _, key := range keys {
		db.Exec("DELETE FROM media WHERE object_key = $1", key)
	}
}

func ptr[T any](v T) *T { return &v }
