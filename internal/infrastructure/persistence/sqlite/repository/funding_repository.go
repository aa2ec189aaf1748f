package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"qualrecon/internal/errs"
	"qualrecon/internal/infrastructure/persistence/sqlite/model"
	"qualrecon/internal/ports"
)

type FundingRepository struct {
	db *gorm.DB
}

var _ ports.FundingRepository = (*FundingRepository)(nil)

func NewFundingRepository(db *gorm.DB) *FundingRepository {
	return &FundingRepository{db: db}
}

func (r *FundingRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
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

// ListImportedFundedQualifications joins the imported funding feed to the
// persisted qualification graph by QAN, keeping only qualifications with at
// least one funding_available offer. Feed rows with no matching
// qualification are left out; they belong to a later register import.
func (r *FundingRepository) ListImportedFundedQualifications(ctx context.Context) ([]ports.ImportedQualification, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	sub := db.Model(&model.ImportedFundingOffer{}).
		Select("qan").
		Where("funding_available = ?", true)

	var quals []model.Qualification
	if err := db.
		Model(&model.Qualification{}).
		Where("qan IN (?)", sub).
		Order("id asc").
		Find(&quals).Error; err != nil {
		return nil, errs.Wrap(err, "query imported funded qualifications")
	}

	items := make([]ports.ImportedQualification, 0, len(quals))
	for _, qual := range quals {
		var offerRows []model.ImportedFundingOffer
		if err := db.
			Where("qan = ?", qual.Qan).
			Order("id asc").
			Find(&offerRows).Error; err != nil {
			return nil, errs.Wrapf(err, "query imported offers for qan %q", qual.Qan)
		}

		item := ports.ImportedQualification{Qualification: qualificationFromModel(qual)}
		for _, row := range offerRows {
			item.Offers = append(item.Offers, offerFromModel(row))
		}
		items = append(items, item)
	}
	return items, nil
}

// ListExistingFundings returns every user/system funding row joined back to
// its qualification through the version graph.
func (r *FundingRepository) ListExistingFundings(ctx context.Context) ([]ports.ExistingFunding, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	type joinedRow struct {
		model.QualificationFunding
		QualificationID uint64 `gorm:"column:join_qualification_id"`
		OfferTypeName   string `gorm:"column:join_offer_type_name"`
	}

	var rows []joinedRow
	if err := db.
		Model(&model.QualificationFunding{}).
		Select("qualification_fundings.*, qualification_versions.qualification_id as join_qualification_id, funding_offer_types.name as join_offer_type_name").
		Joins("join qualification_versions on qualification_versions.id = qualification_fundings.qualification_version_id").
		Joins("join funding_offer_types on funding_offer_types.id = qualification_fundings.funding_offer_type_id").
		Order("qualification_fundings.id asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query existing fundings")
	}

	items := make([]ports.ExistingFunding, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.ExistingFunding{
			Funding:         fundingFromModel(row.QualificationFunding),
			OfferTypeName:   row.OfferTypeName,
			QualificationID: row.QualificationID,
		})
	}
	return items, nil
}

func (r *FundingRepository) ApplyFundingBatch(ctx context.Context, batch ports.FundingBatch) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	if len(batch.Inserts) > 0 {
		rows := make([]*model.QualificationFunding, 0, len(batch.Inserts))
		for _, funding := range batch.Inserts {
			rows = append(rows, &model.QualificationFunding{
				QualificationVersionID: funding.QualificationVersionID,
				FundingOfferTypeID:     funding.FundingOfferTypeID,
				StartDate:              funding.StartDate,
				EndDate:                funding.EndDate,
				Comments:               funding.Comments,
			})
		}
		if err := db.CreateInBatches(rows, insertChunkSize).Error; err != nil {
			return errs.Wrap(err, "insert funding rows")
		}
		for i, row := range rows {
			batch.Inserts[i].ID = row.ID
		}
	}

	for _, funding := range batch.Updates {
		if err := db.Model(&model.QualificationFunding{}).
			Where("id = ?", funding.ID).
			Updates(map[string]any{
				"start_date": funding.StartDate,
				"end_date":   funding.EndDate,
				"comments":   funding.Comments,
			}).Error; err != nil {
			return errs.Wrapf(err, "update funding row %d", funding.ID)
		}
	}

	if len(batch.Discussions) > 0 {
		rows := make([]*model.QualificationDiscussionHistory, 0, len(batch.Discussions))
		for _, entry := range batch.Discussions {
			row := discussionToModel(entry)
			rows = append(rows, &row)
		}
		if err := db.CreateInBatches(rows, insertChunkSize).Error; err != nil {
			return errs.Wrap(err, "insert funding discussion history")
		}
	}

	return nil
}

func (r *FundingRepository) ListApprovedVersionIDs(ctx context.Context) ([]uint64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var ids []uint64
	if err := db.
		Model(&model.QualificationFundingFeedback{}).
		Where("approved = ?", true).
		Pluck("qualification_version_id", &ids).Error; err != nil {
		return nil, errs.Wrap(err, "query approved version ids")
	}
	return ids, nil
}
