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

const insertChunkSize = 200

type RegisterRepository struct {
	db *gorm.DB
}

var _ ports.RegisterRepository = (*RegisterRepository)(nil)

func NewRegisterRepository(db *gorm.DB) *RegisterRepository {
	return &RegisterRepository{db: db}
}

func (r *RegisterRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
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

func (r *RegisterRepository) GetOrganisationByUkprn(ctx context.Context, ukprn int64) (register.Organisation, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return register.Organisation{}, err
	}

	var row model.Organisation
	if err := db.Where("ukprn = ?", ukprn).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return register.Organisation{}, ports.ErrOrganisationNotFound
		}
		return register.Organisation{}, errs.Wrap(err, "query organisation by ukprn")
	}

	return organisationFromModel(row), nil
}

func (r *RegisterRepository) GetQualificationByQan(ctx context.Context, qan string) (register.Qualification, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return register.Qualification{}, err
	}

	var row model.Qualification
	if err := db.Where("qan = ?", qan).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return register.Qualification{}, ports.ErrQualificationNotFound
		}
		return register.Qualification{}, errs.Wrap(err, "query qualification by qan")
	}

	return qualificationFromModel(row), nil
}

func (r *RegisterRepository) GetLatestVersion(ctx context.Context, qualificationID uint64) (register.QualificationVersion, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return register.QualificationVersion{}, err
	}

	var row model.QualificationVersion
	if err := db.
		Where("qualification_id = ?", qualificationID).
		Order("version desc").
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return register.QualificationVersion{}, ports.ErrVersionNotFound
		}
		return register.QualificationVersion{}, errs.Wrap(err, "query latest qualification version")
	}

	return versionFromModel(row), nil
}

// SaveReconcileBatch persists one staged batch's decisions. Insert order
// matters: entities first so the pending versions can resolve foreign keys
// through their cache pointers, then field-change rows, then versions, then
// discussion history.
func (r *RegisterRepository) SaveReconcileBatch(ctx context.Context, batch ports.ReconcileBatch) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	if len(batch.NewOrganisations) > 0 {
		rows := make([]*model.Organisation, 0, len(batch.NewOrganisations))
		for _, org := range batch.NewOrganisations {
			row := organisationToModel(org)
			rows = append(rows, &row)
		}
		if err := db.CreateInBatches(rows, insertChunkSize).Error; err != nil {
			return errs.Wrap(err, "insert organisations")
		}
		for i, row := range rows {
			batch.NewOrganisations[i].ID = row.ID
		}
	}

	for _, org := range batch.UpdatedOrganisations {
		if err := db.Model(&model.Organisation{}).
			Where("id = ?", org.ID).
			Updates(map[string]any{
				"recognition_number": org.RecognitionNumber,
				"name_ofqual":        org.NameOfqual,
				"acronym":            org.Acronym,
			}).Error; err != nil {
			return errs.Wrapf(err, "update organisation %d", org.ID)
		}
	}

	if len(batch.NewQualifications) > 0 {
		rows := make([]*model.Qualification, 0, len(batch.NewQualifications))
		for _, qual := range batch.NewQualifications {
			row := qualificationToModel(qual)
			rows = append(rows, &row)
		}
		if err := db.CreateInBatches(rows, insertChunkSize).Error; err != nil {
			return errs.Wrap(err, "insert qualifications")
		}
		for i, row := range rows {
			batch.NewQualifications[i].ID = row.ID
		}
	}

	for _, qual := range batch.UpdatedQualifications {
		if err := db.Model(&model.Qualification{}).
			Where("id = ?", qual.ID).
			Update("qualification_name", qual.QualificationName).Error; err != nil {
			return errs.Wrapf(err, "update qualification %d", qual.ID)
		}
	}

	if len(batch.NewVersions) == 0 {
		return nil
	}

	fieldChanges := make([]*model.VersionFieldChange, 0, len(batch.NewVersions))
	for _, pv := range batch.NewVersions {
		fieldChanges = append(fieldChanges, &model.VersionFieldChange{
			VersionNumber:     pv.Version,
			ChangedFieldNames: pv.ChangedFieldNames,
		})
	}
	if err := db.CreateInBatches(fieldChanges, insertChunkSize).Error; err != nil {
		return errs.Wrap(err, "insert version field changes")
	}

	versions := make([]*model.QualificationVersion, 0, len(batch.NewVersions))
	for i, pv := range batch.NewVersions {
		row := model.QualificationVersion{
			Version:              pv.Version,
			QualificationID:      pv.Qualification.ID,
			OrganisationID:       pv.Organisation.ID,
			ProcessStatusID:      pv.ProcessStatusID,
			LifecycleStageID:     pv.LifecycleStageID,
			VersionFieldChangeID: fieldChanges[i].ID,
		}
		applySnapshotToVersionModel(pv.Snapshot, &row)
		versions = append(versions, &row)
	}
	if err := db.CreateInBatches(versions, insertChunkSize).Error; err != nil {
		return errs.Wrap(err, "insert qualification versions")
	}

	discussions := make([]*model.QualificationDiscussionHistory, 0, len(batch.NewVersions))
	for _, pv := range batch.NewVersions {
		if pv.Discussion == nil {
			continue
		}
		discussions = append(discussions, &model.QualificationDiscussionHistory{
			QualificationID: pv.Qualification.ID,
			ActionTypeID:    pv.Discussion.ActionTypeID,
			Notes:           pv.Discussion.Notes,
			Timestamp:       pv.Discussion.Timestamp,
			UserDisplayName: pv.Discussion.UserDisplayName,
		})
	}
	if len(discussions) > 0 {
		if err := db.CreateInBatches(discussions, insertChunkSize).Error; err != nil {
			return errs.Wrap(err, "insert discussion history")
		}
	}

	return nil
}

func (r *RegisterRepository) ListQualifications(ctx context.Context, limit int) ([]ports.QualificationSummary, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var quals []model.Qualification
	query := db.Model(&model.Qualification{}).Order("qan asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&quals).Error; err != nil {
		return nil, errs.Wrap(err, "query qualifications")
	}

	items := make([]ports.QualificationSummary, 0, len(quals))
	for _, qual := range quals {
		summary := ports.QualificationSummary{Qualification: qualificationFromModel(qual)}

		var latest model.QualificationVersion
		err := db.Where("qualification_id = ?", qual.ID).Order("version desc").First(&latest).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Wrap(err, "query latest version for summary")
		}
		if err == nil {
			summary.LatestVersion = latest.Version

			var status model.ProcessStatus
			if err := db.Where("id = ?", latest.ProcessStatusID).Take(&status).Error; err == nil {
				summary.ProcessStatusName = status.Name
			}
			var org model.Organisation
			if err := db.Where("id = ?", latest.OrganisationID).Take(&org).Error; err == nil {
				summary.OrganisationName = org.NameOfqual
			}
		}

		items = append(items, summary)
	}
	return items, nil
}

func (r *RegisterRepository) ListVersions(ctx context.Context, qualificationID uint64) ([]register.QualificationVersion, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.QualificationVersion
	if err := db.
		Where("qualification_id = ?", qualificationID).
		Order("version asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query qualification versions")
	}

	versions := make([]register.QualificationVersion, 0, len(rows))
	for _, row := range rows {
		versions = append(versions, versionFromModel(row))
	}
	return versions, nil
}

func (r *RegisterRepository) ListDiscussionHistory(ctx context.Context, qualificationID uint64) ([]ports.DiscussionView, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.QualificationDiscussionHistory
	if err := db.
		Where("qualification_id = ?", qualificationID).
		Order("id asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query discussion history")
	}

	views := make([]ports.DiscussionView, 0, len(rows))
	for _, row := range rows {
		view := ports.DiscussionView{
			Entry: register.DiscussionEntry{
				ID:              row.ID,
				QualificationID: row.QualificationID,
				ActionTypeID:    row.ActionTypeID,
				Notes:           row.Notes,
				Timestamp:       row.Timestamp,
				UserDisplayName: row.UserDisplayName,
			},
		}

		var actionType model.ActionType
		if err := db.Where("id = ?", row.ActionTypeID).Take(&actionType).Error; err == nil {
			view.ActionTypeName = actionType.Name
		}

		views = append(views, view)
	}
	return views, nil
}
