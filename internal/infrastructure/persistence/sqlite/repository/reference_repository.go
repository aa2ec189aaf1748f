package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"qualrecon/internal/errs"
	"qualrecon/internal/infrastructure/persistence/sqlite/model"
	"qualrecon/internal/ports"
)

// Canonical reference data names. Seeded once, looked up by the resolver,
// never written by the reconciliation passes.
var (
	seedActionTypes     = []string{"Action Required", "No Action Required", "Ignore"}
	seedProcessStatuses = []string{"Decision Required", "No Action Required", "Approved", "Rejected", "On Hold"}
	seedLifecycleStages = []string{"New", "Changed"}
	seedOfferTypes      = []string{"Age 16-18", "Age 19+", "Local Flexibility", "Legal Entitlement L2", "Legal Entitlement L3", "Digital Entitlement", "ESF", "Advanced Learner Loan", "Free Courses for Jobs"}
)

type ReferenceDataRepository struct {
	db *gorm.DB
}

var _ ports.ReferenceDataRepository = (*ReferenceDataRepository)(nil)

func NewReferenceDataRepository(db *gorm.DB) *ReferenceDataRepository {
	return &ReferenceDataRepository{db: db}
}

func (r *ReferenceDataRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

func (r *ReferenceDataRepository) ListActionTypes(ctx context.Context) ([]ports.ReferenceItem, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.ActionType
	if err := db.Order("id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query action types")
	}

	items := make([]ports.ReferenceItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.ReferenceItem{ID: row.ID, Name: row.Name})
	}
	return items, nil
}

func (r *ReferenceDataRepository) ListProcessStatuses(ctx context.Context) ([]ports.ReferenceItem, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.ProcessStatus
	if err := db.Order("id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query process statuses")
	}

	items := make([]ports.ReferenceItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.ReferenceItem{ID: row.ID, Name: row.Name})
	}
	return items, nil
}

func (r *ReferenceDataRepository) ListLifecycleStages(ctx context.Context) ([]ports.ReferenceItem, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.LifecycleStage
	if err := db.Order("id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query lifecycle stages")
	}

	items := make([]ports.ReferenceItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.ReferenceItem{ID: row.ID, Name: row.Name})
	}
	return items, nil
}

func (r *ReferenceDataRepository) ListFundingOfferTypes(ctx context.Context) ([]ports.ReferenceItem, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.FundingOfferType
	if err := db.Order("id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query funding offer types")
	}

	items := make([]ports.ReferenceItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.ReferenceItem{ID: row.ID, Name: row.Name})
	}
	return items, nil
}

// Seed inserts the canonical names, skipping any that already exist.
func (r *ReferenceDataRepository) Seed(ctx context.Context) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	onNameConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}

	for _, name := range seedActionTypes {
		if err := db.Clauses(onNameConflict).Create(&model.ActionType{Name: name}).Error; err != nil {
			return errs.Wrapf(err, "seed action type %q", name)
		}
	}
	for _, name := range seedProcessStatuses {
		if err := db.Clauses(onNameConflict).Create(&model.ProcessStatus{Name: name}).Error; err != nil {
			return errs.Wrapf(err, "seed process status %q", name)
		}
	}
	for _, name := range seedLifecycleStages {
		if err := db.Clauses(onNameConflict).Create(&model.LifecycleStage{Name: name}).Error; err != nil {
			return errs.Wrapf(err, "seed lifecycle stage %q", name)
		}
	}
	for _, name := range seedOfferTypes {
		if err := db.Clauses(onNameConflict).Create(&model.FundingOfferType{Name: name}).Error; err != nil {
			return errs.Wrapf(err, "seed funding offer type %q", name)
		}
	}

	return nil
}
