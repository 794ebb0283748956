package repository

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-inventory-sku/internal/apperr"
	"go-inventory-sku/internal/model"
)

func testStore(t *testing.T) *RecoverableStore[model.Category] {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&model.Category{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRecoverableStore[model.Category](db, "category")
}

func mustCreate(t *testing.T, store *RecoverableStore[model.Category], name string) *model.Category {
	t.Helper()

	rec := &model.Category{Name: name, Code: strings.ToUpper(name[:3]), Status: "active"}
	if err := store.Create(rec); err != nil {
		t.Fatalf("create: %v", err)
	}
	return rec
}

func TestStoreLifecycle(t *testing.T) {
	store := testStore(t)
	rec := mustCreate(t, store, "Apparel")

	if rec.ID == uuid.Nil {
		t.Fatal("id not assigned on create")
	}

	got, err := store.FindByID(rec.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Name != "Apparel" {
		t.Fatalf("name = %q", got.Name)
	}

	if err := store.SoftDelete(rec.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	// Active reads no longer see it, recycle-bin reads do.
	var nf *apperr.NotFoundError
	if _, err := store.FindByID(rec.ID); !errors.As(err, &nf) {
		t.Fatalf("find after delete: want NotFoundError, got %v", err)
	}
	trashed, err := store.FindDeletedByID(rec.ID)
	if err != nil {
		t.Fatalf("find deleted: %v", err)
	}
	if trashed.DeletedAt.Time.IsZero() {
		t.Fatal("deleted_at not stamped")
	}

	if err := store.Restore(rec.ID); err != nil {
		t.Fatalf("restore: %v", err)
	}
	back, err := store.FindByID(rec.ID)
	if err != nil {
		t.Fatalf("find after restore: %v", err)
	}
	if back.DeletedAt.Valid {
		t.Fatal("deleted_at still set after restore")
	}
}

func TestStoreListPartitions(t *testing.T) {
	store := testStore(t)
	kept := mustCreate(t, store, "Apparel")
	gone := mustCreate(t, store, "Electronics")

	if err := store.SoftDelete(gone.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	active, err := store.List(false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 1 || active[0].ID != kept.ID {
		t.Fatalf("active = %+v", active)
	}

	deleted, err := store.ListDeleted()
	if err != nil {
		t.Fatalf("list deleted: %v", err)
	}
	if len(deleted) != 1 || deleted[0].ID != gone.ID {
		t.Fatalf("deleted = %+v", deleted)
	}

	both, err := store.List(true)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(both) != 2 {
		t.Fatalf("all = %d records, want 2", len(both))
	}
}

func TestStoreHardDeleteGuard(t *testing.T) {
	store := testStore(t)
	rec := mustCreate(t, store, "Apparel")

	// Hard delete is a recycle-bin operation only.
	var invalid *apperr.InvalidStateError
	if err := store.HardDelete(rec.ID); !errors.As(err, &invalid) {
		t.Fatalf("hard delete of active record: want InvalidStateError, got %v", err)
	}

	if err := store.SoftDelete(rec.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if err := store.HardDelete(rec.ID); err != nil {
		t.Fatalf("hard delete: %v", err)
	}

	var nf *apperr.NotFoundError
	if _, err := store.FindDeletedByID(rec.ID); !errors.As(err, &nf) {
		t.Fatalf("record survived hard delete: %v", err)
	}
}

func TestStoreMissingIDs(t *testing.T) {
	store := testStore(t)

	var nf *apperr.NotFoundError
	if _, err := store.FindByID(uuid.New()); !errors.As(err, &nf) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
	if err := store.SoftDelete(uuid.New()); !errors.As(err, &nf) {
		t.Fatalf("soft delete missing: want NotFoundError, got %v", err)
	}
	if err := store.Restore(uuid.New()); !errors.As(err, &nf) {
		t.Fatalf("restore missing: want NotFoundError, got %v", err)
	}
}
