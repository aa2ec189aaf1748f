package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"qualrecon/internal/domain/register"
	"qualrecon/internal/errs"
	"qualrecon/internal/infrastructure/persistence/sqlite/model"
	"qualrecon/internal/ports"
)

type StagingRepository struct {
	db *gorm.DB
}

var _ ports.StagingRepository = (*StagingRepository)(nil)

func NewStagingRepository(db *gorm.DB) *StagingRepository {
	return &StagingRepository{db: db}
}

func (r *StagingRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
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

// ListStagedPage reads one skip/take page in stable id order.
func (r *StagingRepository) ListStagedPage(ctx context.Context, offset, limit int) ([]register.StagedRecord, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}

	var rows []model.StagedQualification
	if err := db.
		Order("id asc").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query staged page")
	}

	records := make([]register.StagedRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, stagedFromModel(row))
	}
	return records, nil
}

func (r *StagingRepository) InsertStagedRecords(ctx context.Context, records []register.StagedRecord) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	rows := make([]*model.StagedQualification, 0, len(records))
	for _, rec := range records {
		row := stagedToModel(rec)
		rows = append(rows, &row)
	}
	if err := db.CreateInBatches(rows, insertChunkSize).Error; err != nil {
		return errs.Wrap(err, "insert staged records")
	}
	return nil
}

func (r *StagingRepository) CountStaged(ctx context.Context) (int64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := db.Model(&model.StagedQualification{}).Count(&count).Error; err != nil {
		return 0, errs.Wrap(err, "count staged records")
	}
	return count, nil
}

func (r *StagingRepository) InsertImportedOffers(ctx context.Context, offers []register.ImportedOffer) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}
	if len(offers) == 0 {
		return nil
	}

	rows := make([]*model.ImportedFundingOffer, 0, len(offers))
	for _, offer := range offers {
		row := offerToModel(offer)
		rows = append(rows, &row)
	}
	if err := db.CreateInBatches(rows, insertChunkSize).Error; err != nil {
		return errs.Wrap(err, "insert imported funding offers")
	}
	return nil
}
