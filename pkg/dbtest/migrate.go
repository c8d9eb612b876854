// Package dbtest prepares real databases for integration tests.
package dbtest

import (
	"fmt"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib" // golang postgres driver
	"github.com/jmoiron/sqlx"
)

// MigrateFromFile executes all SQL queries from the files over a database
// connection.
func MigrateFromFile(db *sqlx.DB, fileNames ...string) error {
	for _, fileName := range fileNames {
		fileBytes, err := os.ReadFile(fileName)
		if err != nil {
			return fmt.Errorf("os.ReadFile: %w", err)
		}

		if _, err = db.Exec(string(fileBytes)); err != nil {
			return fmt.Errorf("db.Exec(%s): %w", fileName, err)
		}
	}

	return nil
}

// Postgres connects to the database named by the dsnEnv variable, applies the
// migrations and empties the given tables. The test is skipped when the
// variable is not set.
func Postgres(t *testing.T, dsnEnv string, migrations []string, truncate ...string) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		t.Skipf("%s is not set", dsnEnv)
	}

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		t.Fatalf("sqlx.Connect: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })

	if err = MigrateFromFile(db, migrations...); err != nil {
		t.Fatalf("MigrateFromFile: %v", err)
	}

	for _, table := range truncate {
		if _, err = db.Exec("TRUNCATE " + table); err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}

	return db
}
