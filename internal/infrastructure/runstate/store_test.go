package runstate

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"qualrecon/internal/infrastructure/persistence/sqlite/model"
	"qualrecon/internal/ports"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "runstate.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(&model.RunStateKV{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return NewStore(db)
}

func TestAcquireIsExclusivePerJob(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if err := store.Acquire(ctx, "reconcile"); err != nil {
		t.Fatalf("first Acquire() error = %v", err)
	}
	if err := store.Acquire(ctx, "reconcile"); !errors.Is(err, ports.ErrRunInProgress) {
		t.Fatalf("second Acquire() error = %v, want ErrRunInProgress", err)
	}

	// Other jobs are independent.
	if err := store.Acquire(ctx, "reconcile-funding"); err != nil {
		t.Fatalf("Acquire() other job error = %v", err)
	}

	if err := store.Release(ctx, "reconcile"); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if err := store.Acquire(ctx, "reconcile"); err != nil {
		t.Fatalf("Acquire() after release error = %v", err)
	}
}

func TestReleaseWithoutAcquireIsIdempotent(t *testing.T) {
	store := setupStore(t)
	if err := store.Release(context.Background(), "reconcile"); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
}

func TestRecordRunAndLastRun(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if _, found, err := store.LastRun(ctx, "reconcile"); err != nil || found {
		t.Fatalf("LastRun() before record = found %t, err %v", found, err)
	}

	if err := store.RecordRun(ctx, "reconcile", "processed=10"); err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}
	if err := store.RecordRun(ctx, "reconcile", "processed=25"); err != nil {
		t.Fatalf("RecordRun() second error = %v", err)
	}

	summary, found, err := store.LastRun(ctx, "reconcile")
	if err != nil {
		t.Fatalf("LastRun() error = %v", err)
	}
	if !found {
		t.Fatal("LastRun() found = false")
	}
	if summary != "processed=25" {
		t.Fatalf("LastRun() summary = %q, want latest", summary)
	}
}

func TestJobNameIsRequired(t *testing.T) {
	store := setupStore(t)
	if err := store.Acquire(context.Background(), "  "); err == nil {
		t.Fatal("Acquire() expected error for blank job name")
	}
}
