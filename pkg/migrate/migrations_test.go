package migrate_test

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/angelmondragon/storefront-admin/pkg/config"
	"github.com/angelmondragon/storefront-admin/pkg/db"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	"github.com/angelmondragon/storefront-admin/pkg/migrate"
)

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	files, err := migrate.Files("")
	if err != nil {
		t.Fatalf("Files returned error: %v", err)
	}
	if err := migrate.Validate(files); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestMigrationsCreateStoreTables(t *testing.T) {
	files, err := migrate.Files("")
	if err != nil {
		t.Fatalf("Files returned error: %v", err)
	}
	matches, err := fs.Glob(files, "*.sql")
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration files embedded")
	}

	var all strings.Builder
	for _, m := range matches {
		data, err := fs.ReadFile(files, m)
		if err != nil {
			t.Fatalf("read migration file: %v", err)
		}
		all.Write(data)
	}
	content := all.String()

	checks := []string{
		"CREATE TABLE IF NOT EXISTS store_collection",
		"CREATE TABLE IF NOT EXISTS store_promotion",
		"CREATE TABLE IF NOT EXISTS store_product",
		"CREATE TABLE IF NOT EXISTS store_product_promotions",
		"CREATE TABLE IF NOT EXISTS store_customer",
		"CREATE TABLE IF NOT EXISTS store_order",
		"CREATE TABLE IF NOT EXISTS store_orderitem",
		"CREATE TABLE IF NOT EXISTS admin_staff",
		"CREATE TABLE IF NOT EXISTS admin_logentry",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_store_product_slug",
		"REFERENCES store_collection (id) ON DELETE RESTRICT",
		"REFERENCES store_order (id) ON DELETE CASCADE",
		"CHECK (inventory >= 0)",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestValidateRejectsBadFiles(t *testing.T) {
	cases := map[string]fstest.MapFS{
		"bad name": {
			"create_things.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		},
		"duplicate version": {
			"20250301100000_a.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
			"20250301100000_b.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		},
		"missing down": {
			"20250301100000_a.sql": {Data: []byte("-- +goose Up\nSELECT 1;\n")},
		},
		"open statement": {
			"20250301100000_a.sql": {Data: []byte("-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose Down\n")},
		},
	}
	for name, files := range cases {
		t.Run(name, func(t *testing.T) {
			if err := migrate.Validate(files); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestFilesRejectsMissingDir(t *testing.T) {
	if _, err := migrate.Files(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing dir")
	}
}

func TestCreateWritesValidMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 2, 8, 30, 0, 0, time.UTC)

	path, err := migrate.Create(dir, "Add Product Index!", now)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if filepath.Base(path) != "20250302083000_add_product_index.sql" {
		t.Fatalf("unexpected migration path %q", path)
	}

	// same second: the version moves past the existing one
	second, err := migrate.Create(dir, "add customer index", now)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if filepath.Base(second) != "20250302083001_add_customer_index.sql" {
		t.Fatalf("unexpected second migration path %q", second)
	}

	files, err := migrate.Files(dir)
	if err != nil {
		t.Fatalf("Files returned error: %v", err)
	}
	if err := migrate.Validate(files); err != nil {
		t.Fatalf("generated migrations do not validate: %v", err)
	}
}

func TestCreateRejectsEmptyName(t *testing.T) {
	if _, err := migrate.Create(t.TempDir(), " -- ", time.Now()); err == nil {
		t.Fatal("expected error for empty slug")
	}
}

func TestAutoMigrateModelsBuildsSQLiteSchema(t *testing.T) {
	client, err := db.New(context.Background(), config.DBConfig{
		DSN:    "file:" + t.Name() + "?mode=memory&cache=shared",
		Driver: config.DBDriverSQLite,
	}, nil)
	if err != nil {
		t.Fatalf("db.New returned error: %v", err)
	}
	defer client.Close()

	if err := migrate.AutoMigrateModels(context.Background(), client); err != nil {
		t.Fatalf("AutoMigrateModels returned error: %v", err)
	}
	for _, model := range models.All() {
		if !client.DB().Migrator().HasTable(model) {
			t.Fatalf("expected table for %T", model)
		}
	}
}
