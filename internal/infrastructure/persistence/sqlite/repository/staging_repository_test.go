package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"qualrecon/internal/domain/register"
	"qualrecon/internal/infrastructure/persistence/sqlite/model"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "staging.sqlite")
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
	if err := db.AutoMigrate(
		&model.ActionType{},
		&model.ProcessStatus{},
		&model.LifecycleStage{},
		&model.FundingOfferType{},
		&model.StagedQualification{},
		&model.ImportedFundingOffer{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func TestListStagedPagePreservesInsertOrder(t *testing.T) {
	db := setupDB(t)
	repo := NewStagingRepository(db)
	ctx := context.Background()

	records := make([]register.StagedRecord, 0, 5)
	for i := 0; i < 5; i++ {
		records = append(records, register.StagedRecord{
			Qan:               fmt.Sprintf("qan%d", i),
			QualificationName: fmt.Sprintf("Qualification %d", i),
			Ukprn:             10001,
		})
	}
	if err := repo.InsertStagedRecords(ctx, records); err != nil {
		t.Fatalf("InsertStagedRecords() error = %v", err)
	}

	count, err := repo.CountStaged(ctx)
	if err != nil {
		t.Fatalf("CountStaged() error = %v", err)
	}
	if count != 5 {
		t.Fatalf("CountStaged() = %d, want 5", count)
	}

	page, err := repo.ListStagedPage(ctx, 2, 2)
	if err != nil {
		t.Fatalf("ListStagedPage() error = %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("ListStagedPage() len = %d, want 2", len(page))
	}
	if page[0].Qan != "qan2" || page[1].Qan != "qan3" {
		t.Fatalf("ListStagedPage() qans = %s, %s; want qan2, qan3", page[0].Qan, page[1].Qan)
	}

	tail, err := repo.ListStagedPage(ctx, 5, 2)
	if err != nil {
		t.Fatalf("ListStagedPage() past end error = %v", err)
	}
	if len(tail) != 0 {
		t.Fatalf("ListStagedPage() past end len = %d, want 0", len(tail))
	}
}

func TestSeedReferenceDataIsIdempotent(t *testing.T) {
	db := setupDB(t)
	repo := NewReferenceDataRepository(db)
	ctx := context.Background()

	if err := repo.Seed(ctx); err != nil {
		t.Fatalf("first Seed() error = %v", err)
	}
	if err := repo.Seed(ctx); err != nil {
		t.Fatalf("second Seed() error = %v", err)
	}

	actionTypes, err := repo.ListActionTypes(ctx)
	if err != nil {
		t.Fatalf("ListActionTypes() error = %v", err)
	}
	if len(actionTypes) != 3 {
		t.Fatalf("action types = %d, want 3", len(actionTypes))
	}

	statuses, err := repo.ListProcessStatuses(ctx)
	if err != nil {
		t.Fatalf("ListProcessStatuses() error = %v", err)
	}
	names := make(map[string]bool, len(statuses))
	for _, status := range statuses {
		names[status.Name] = true
	}
	for _, want := range []string{"Decision Required", "No Action Required", "Approved", "Rejected", "On Hold"} {
		if !names[want] {
			t.Fatalf("process statuses missing %q: %v", want, statuses)
		}
	}
}
