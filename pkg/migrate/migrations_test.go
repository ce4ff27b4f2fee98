package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
}

func TestInitSchemaCreatesAllTables(t *testing.T) {
	entries, err := os.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}

	var initSQL string
	for _, e := range entries {
		if strings.Contains(e.Name(), "init_schema") {
			b, err := os.ReadFile(filepath.Join("migrations", e.Name()))
			if err != nil {
				t.Fatalf("read init migration: %v", err)
			}
			initSQL = string(b)
		}
	}
	if initSQL == "" {
		t.Fatal("init_schema migration not found")
	}

	for _, table := range []string{"users", "orders", "calculations", "notifications"} {
		if !strings.Contains(initSQL, "CREATE TABLE "+table) {
			t.Fatalf("init migration missing table %q", table)
		}
		if !strings.Contains(initSQL, "DROP TABLE IF EXISTS "+table) {
			t.Fatalf("init migration missing drop for %q", table)
		}
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Loyalty Points!")
	if err != nil {
		t.Fatalf("CreateSQLMigration: %v", err)
	}
	base := filepath.Base(path)
	if !strings.HasSuffix(base, "_add_loyalty_points.sql") {
		t.Fatalf("unexpected filename: %s", base)
	}

	if err := ValidateDir(dir); err != nil {
		t.Fatalf("ValidateDir on generated migration: %v", err)
	}
}
