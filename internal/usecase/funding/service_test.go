package funding

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"qualrecon/internal/bootstrap/config"
	"qualrecon/internal/domain/register"
	"qualrecon/internal/infrastructure/persistence/sqlite/model"
	"qualrecon/internal/infrastructure/persistence/sqlite/repository"
	"qualrecon/internal/infrastructure/persistence/sqlite/uow"
)

func setupService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "funding.sqlite")
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
		&model.Organisation{},
		&model.Qualification{},
		&model.VersionFieldChange{},
		&model.QualificationVersion{},
		&model.QualificationDiscussionHistory{},
		&model.QualificationFunding{},
		&model.QualificationFundingFeedback{},
		&model.ImportedFundingOffer{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	refRepo := repository.NewReferenceDataRepository(db)
	if err := refRepo.Seed(context.Background()); err != nil {
		t.Fatalf("seed reference data: %v", err)
	}

	cfg := config.Config{
		Reconcile: config.ReconcileConfig{
			BatchSize:        100,
			FundingFlushSize: 1000,
			ImportUser:       "register import",
		},
	}
	svc := NewService(
		repository.NewFundingRepository(db),
		repository.NewRegisterRepository(db),
		refRepo,
		uow.NewUnitOfWork(db),
		cfg,
	)
	return svc, db
}

// seedQualification writes a qualification with the given number of version
// rows and returns the latest version id.
func seedQualification(t *testing.T, db *gorm.DB, qan string, versions int) (qualID, latestVersionID uint64) {
	t.Helper()

	qual := model.Qualification{Qan: qan, QualificationName: "Qualification " + qan}
	if err := db.Create(&qual).Error; err != nil {
		t.Fatalf("create qualification: %v", err)
	}
	for v := 1; v <= versions; v++ {
		fieldChange := model.VersionFieldChange{VersionNumber: v}
		if err := db.Create(&fieldChange).Error; err != nil {
			t.Fatalf("create field change: %v", err)
		}
		row := model.QualificationVersion{
			Version:              v,
			QualificationID:      qual.ID,
			OrganisationID:       1,
			ProcessStatusID:      1,
			LifecycleStageID:     1,
			VersionFieldChangeID: fieldChange.ID,
		}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("create version: %v", err)
		}
		latestVersionID = row.ID
	}
	return qual.ID, latestVersionID
}

func importOffer(t *testing.T, db *gorm.DB, qan, name string, available bool, start, end *time.Time) {
	t.Helper()
	row := model.ImportedFundingOffer{
		Qan:              qan,
		Name:             name,
		FundingAvailable: available,
		StartDate:        start,
		EndDate:          end,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create imported offer: %v", err)
	}
}

func dateRef(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func TestReconcileOffersInsertsOnLatestVersion(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	latestByQan := make(map[string]uint64, 4)
	for i := 1; i <= 4; i++ {
		qan := fmt.Sprintf("qan%d", i)
		_, latestID := seedQualification(t, db, qan, 2)
		latestByQan[qan] = latestID
		importOffer(t, db, qan, "Age 16-18", true, dateRef(2023, time.August, 1), dateRef(2024, time.July, 31))
	}

	ok, err := svc.ReconcileOffers(ctx)
	if err != nil {
		t.Fatalf("ReconcileOffers() error = %v", err)
	}
	if !ok {
		t.Fatal("ReconcileOffers() ok = false")
	}

	var rows []model.QualificationFunding
	if err := db.Find(&rows).Error; err != nil {
		t.Fatalf("load funding rows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("funding rows = %d, want 4", len(rows))
	}
	versionIDs := make(map[uint64]bool, len(rows))
	for _, row := range rows {
		versionIDs[row.QualificationVersionID] = true
	}
	for qan, latestID := range latestByQan {
		if !versionIDs[latestID] {
			t.Fatalf("no funding row on latest version of %s", qan)
		}
	}

	var discussions int64
	if err := db.Model(&model.QualificationDiscussionHistory{}).Count(&discussions).Error; err != nil {
		t.Fatalf("count discussions: %v", err)
	}
	if discussions != 4 {
		t.Fatalf("discussion entries = %d, want 4", discussions)
	}
}

func TestReconcileOffersUpdatesDriftedDates(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	_, latestID := seedQualification(t, db, "qan1", 1)

	var offerType model.FundingOfferType
	if err := db.Where("name = ?", "Age 16-18").Take(&offerType).Error; err != nil {
		t.Fatalf("load offer type: %v", err)
	}
	existing := model.QualificationFunding{
		QualificationVersionID: latestID,
		FundingOfferTypeID:     offerType.ID,
		StartDate:              dateRef(2022, time.August, 1),
		EndDate:                dateRef(2023, time.July, 31),
		Comments:               "Imported from funding feed",
	}
	if err := db.Create(&existing).Error; err != nil {
		t.Fatalf("create existing funding: %v", err)
	}

	importOffer(t, db, "qan1", "Age 16-18", true, dateRef(2023, time.August, 1), dateRef(2024, time.July, 31))
	importOffer(t, db, "qan1", "Age 19+", true, dateRef(2023, time.August, 1), nil)

	ok, err := svc.ReconcileOffers(ctx)
	if err != nil {
		t.Fatalf("ReconcileOffers() error = %v", err)
	}
	if !ok {
		t.Fatal("ReconcileOffers() ok = false")
	}

	var rows []model.QualificationFunding
	if err := db.Order("id asc").Find(&rows).Error; err != nil {
		t.Fatalf("load funding rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("funding rows = %d, want 2 (updated + inserted)", len(rows))
	}

	updated := rows[0]
	if updated.StartDate == nil || !updated.StartDate.Equal(time.Date(2023, time.August, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("updated start date = %v", updated.StartDate)
	}
	if !strings.Contains(updated.Comments, "Dates updated from funding feed") {
		t.Fatalf("updated comments = %q, want audit note", updated.Comments)
	}
}

func TestReconcileOffersNoChangeIsNoOp(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	_, latestID := seedQualification(t, db, "qan1", 1)
	var offerType model.FundingOfferType
	if err := db.Where("name = ?", "Age 16-18").Take(&offerType).Error; err != nil {
		t.Fatalf("load offer type: %v", err)
	}
	existing := model.QualificationFunding{
		QualificationVersionID: latestID,
		FundingOfferTypeID:     offerType.ID,
		StartDate:              dateRef(2023, time.August, 1),
		EndDate:                dateRef(2024, time.July, 31),
		Comments:               "Imported from funding feed",
	}
	if err := db.Create(&existing).Error; err != nil {
		t.Fatalf("create existing funding: %v", err)
	}
	importOffer(t, db, "qan1", "Age 16-18", true, dateRef(2023, time.August, 1), dateRef(2024, time.July, 31))

	if _, err := svc.ReconcileOffers(ctx); err != nil {
		t.Fatalf("ReconcileOffers() error = %v", err)
	}

	var count int64
	if err := db.Model(&model.QualificationFunding{}).Count(&count).Error; err != nil {
		t.Fatalf("count funding rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("funding rows = %d, want 1", count)
	}
	var discussions int64
	if err := db.Model(&model.QualificationDiscussionHistory{}).Count(&discussions).Error; err != nil {
		t.Fatalf("count discussions: %v", err)
	}
	if discussions != 0 {
		t.Fatalf("discussion entries = %d, want 0 for a no-op", discussions)
	}
}

func TestReconcileOffersSkipsUnknownOfferType(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	seedQualification(t, db, "qan1", 1)
	importOffer(t, db, "qan1", "Unknown Offer Scheme", true, nil, nil)

	ok, err := svc.ReconcileOffers(ctx)
	if err != nil {
		t.Fatalf("ReconcileOffers() error = %v", err)
	}
	if !ok {
		t.Fatal("ReconcileOffers() ok = false")
	}

	var count int64
	if err := db.Model(&model.QualificationFunding{}).Count(&count).Error; err != nil {
		t.Fatalf("count funding rows: %v", err)
	}
	if count != 0 {
		t.Fatalf("funding rows = %d, want 0 for unknown offer type", count)
	}
}

func TestReconcileOffersFailsWhenVersionsMissing(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	seedQualification(t, db, "qan1", 0)
	importOffer(t, db, "qan1", "Age 16-18", true, nil, nil)

	ok, err := svc.ReconcileOffers(ctx)
	if err == nil {
		t.Fatal("ReconcileOffers() expected error for versionless qualification")
	}
	if ok {
		t.Fatal("ReconcileOffers() ok = true on failure")
	}
	if !errors.Is(err, register.ErrNoVersions) {
		t.Fatalf("error = %v, want register.ErrNoVersions", err)
	}
}

func TestReconcileOffersIgnoresUnavailableOffers(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	seedQualification(t, db, "qan1", 1)
	importOffer(t, db, "qan1", "Age 16-18", false, nil, nil)

	ok, err := svc.ReconcileOffers(ctx)
	if err != nil {
		t.Fatalf("ReconcileOffers() error = %v", err)
	}
	if !ok {
		t.Fatal("ReconcileOffers() ok = false")
	}

	var count int64
	if err := db.Model(&model.QualificationFunding{}).Count(&count).Error; err != nil {
		t.Fatalf("count funding rows: %v", err)
	}
	if count != 0 {
		t.Fatalf("funding rows = %d, want 0", count)
	}
}
