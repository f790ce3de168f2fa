package repo

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	return conn
}

func TestBaseDB_BindsContext(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	withCtx := base.DB(ctx)
	if withCtx.Statement.Context != ctx {
		t.Fatalf("expected context to flow through, got %v", withCtx.Statement.Context)
	}

	if base.DB(nil) != db {
		t.Fatalf("expected nil context to return raw connection")
	}
}

func TestBaseWithTx(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	err := db.Transaction(func(tx *gorm.DB) error {
		bound := base.WithTx(tx)
		if bound.db != tx {
			t.Fatalf("expected tx-bound base")
		}
		if base.db != db {
			t.Fatalf("expected original base untouched")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
}

type widget struct {
	ID   uint
	Name string
}

func TestFirst(t *testing.T) {
	db := newTestDB(t)
	if err := db.AutoMigrate(&widget{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Create(&[]widget{{Name: "bolt"}, {Name: "nut"}}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	base := NewBase(db)

	got, err := First[widget](context.Background(), base, "name = ?", "nut")
	if err != nil {
		t.Fatalf("First: %v", err)
	}
	if got.Name != "nut" || got.ID == 0 {
		t.Fatalf("unexpected row %+v", got)
	}

	if _, err := First[widget](context.Background(), base, "name = ?", "gear"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
