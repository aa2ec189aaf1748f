// Package reconcile implements the qualification reconciliation engine: it
// streams staged register records in batches and decides, per record,
// whether it is a brand-new qualification, a new organisation, an unchanged
// version, or a changed version requiring a new version row.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"qualrecon/internal/bootstrap/config"
	"qualrecon/internal/bootstrap/logging"
	"qualrecon/internal/domain/register"
	"qualrecon/internal/errs"
	"qualrecon/internal/ports"
	"qualrecon/internal/usecase/refdata"
)

type Service struct {
	registerRepo ports.RegisterRepository
	stagingRepo  ports.StagingRepository
	refdataRepo  ports.ReferenceDataRepository
	uow          ports.UnitOfWork
	evaluator    *register.Evaluator
	batchSize    int
	importUser   string
}

func NewService(
	registerRepo ports.RegisterRepository,
	stagingRepo ports.StagingRepository,
	refdataRepo ports.ReferenceDataRepository,
	unitOfWork ports.UnitOfWork,
	evaluator *register.Evaluator,
	cfg config.Config,
) *Service {
	return &Service{
		registerRepo: registerRepo,
		stagingRepo:  stagingRepo,
		refdataRepo:  refdataRepo,
		uow:          unitOfWork,
		evaluator:    evaluator,
		batchSize:    cfg.Reconcile.BatchSize,
		importUser:   cfg.Reconcile.ImportUser,
	}
}

// resolvedIDs snapshots the reference identifiers the engine needs. A
// missing name fails the whole run before any record is touched.
type resolvedIDs struct {
	actionRequired uint64
	actionNoAction uint64
	statusDecision uint64
	statusNoAction uint64
	stageNew       uint64
	stageChanged   uint64
}

// Run processes staged batches until the staging source is exhausted and
// returns the number of records processed. Decisions for a batch are
// computed fully in memory, then flushed in one transaction.
func (s *Service) Run(ctx context.Context) (int, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "usecase.reconcile"))

	resolver, err := refdata.Load(logCtx, s.refdataRepo)
	if err != nil {
		return 0, errs.Wrap(err, "load reference data")
	}
	ids, err := resolveIDs(resolver)
	if err != nil {
		return 0, err
	}

	caches := newRunCaches()
	total := 0
	for offset := 0; ; {
		processed, err := s.processStagedBatch(logCtx, ids, caches, offset)
		if err != nil {
			return total, errs.Wrap(err, "process staged batch")
		}
		if processed == 0 {
			break
		}
		total += processed
		offset += processed
	}

	logging.Info(logCtx, "reconciliation run finished", slog.Int("processed", total))
	return total, nil
}

func resolveIDs(resolver *refdata.Resolver) (resolvedIDs, error) {
	var ids resolvedIDs
	var err error

	if ids.actionRequired, err = resolver.ActionTypeID(refdata.ActionRequired); err != nil {
		return ids, err
	}
	if ids.actionNoAction, err = resolver.ActionTypeID(refdata.ActionNoActionRequired); err != nil {
		return ids, err
	}
	if ids.statusDecision, err = resolver.ProcessStatusID(refdata.StatusDecisionRequired); err != nil {
		return ids, err
	}
	if ids.statusNoAction, err = resolver.ProcessStatusID(refdata.StatusNoActionRequired); err != nil {
		return ids, err
	}
	if ids.stageNew, err = resolver.LifecycleStageID(refdata.StageNew); err != nil {
		return ids, err
	}
	if ids.stageChanged, err = resolver.LifecycleStageID(refdata.StageChanged); err != nil {
		return ids, err
	}
	return ids, nil
}

// processStagedBatch reads one page, decides every record in memory, then
// flushes all new rows together. Returns the page size (zero when the
// staging source is exhausted).
func (s *Service) processStagedBatch(ctx context.Context, ids resolvedIDs, caches *runCaches, offset int) (int, error) {
	records, err := s.stagingRepo.ListStagedPage(ctx, offset, s.batchSize)
	if err != nil {
		return 0, errs.Wrap(err, "read staged page")
	}
	if len(records) == 0 {
		return 0, nil
	}

	batch := &ports.ReconcileBatch{}
	for _, rec := range records {
		if err := s.decide(ctx, ids, caches, batch, rec); err != nil {
			return 0, errs.Wrapf(err, "decide staged record qan %q", rec.Qan)
		}
	}

	if !batch.Empty() {
		if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
			return s.registerRepo.SaveReconcileBatch(txCtx, *batch)
		}); err != nil {
			return 0, errs.Wrap(err, "flush reconcile batch")
		}
	}

	logging.Info(ctx, "staged batch processed",
		slog.Int("records", len(records)),
		slog.Int("new_organisations", len(batch.NewOrganisations)),
		slog.Int("new_qualifications", len(batch.NewQualifications)),
		slog.Int("new_versions", len(batch.NewVersions)),
	)
	return len(records), nil
}

func (s *Service) decide(ctx context.Context, ids resolvedIDs, caches *runCaches, batch *ports.ReconcileBatch, rec register.StagedRecord) error {
	org, err := s.resolveOrganisation(ctx, caches, batch, rec)
	if err != nil {
		return err
	}

	qual, qualIsNew, err := s.resolveQualification(ctx, caches, batch, rec)
	if err != nil {
		return err
	}

	if qualIsNew {
		s.appendFirstVersion(ids, caches, batch, rec, org, qual)
		return nil
	}

	latest, hasLatest, err := s.latestVersion(ctx, caches, qual)
	if err != nil {
		return err
	}
	if !hasLatest {
		// Qualification row exists but no version was ever written; treat
		// like a first sighting.
		s.appendFirstVersion(ids, caches, batch, rec, org, qual)
		return nil
	}

	changes := register.DetectChanges(rec, latest, *org, *qual)
	if changes.Empty() {
		return nil
	}

	s.applyEntityUpdates(caches, batch, rec, org, qual)
	s.appendNextVersion(ids, caches, batch, rec, org, qual, latest, changes)
	return nil
}

func (s *Service) resolveOrganisation(ctx context.Context, caches *runCaches, batch *ports.ReconcileBatch, rec register.StagedRecord) (*register.Organisation, error) {
	if org, ok := caches.orgsByUkprn[rec.Ukprn]; ok {
		return org, nil
	}

	found, err := s.registerRepo.GetOrganisationByUkprn(ctx, rec.Ukprn)
	switch {
	case err == nil:
		org := found
		caches.orgsByUkprn[rec.Ukprn] = &org
		return &org, nil
	case errors.Is(err, ports.ErrOrganisationNotFound):
		org := &register.Organisation{
			Ukprn:             rec.Ukprn,
			RecognitionNumber: rec.OrganisationRecognitionNumber,
			NameOfqual:        rec.OrganisationName,
			Acronym:           rec.OrganisationAcronym,
		}
		batch.NewOrganisations = append(batch.NewOrganisations, org)
		caches.orgsByUkprn[rec.Ukprn] = org
		return org, nil
	default:
		return nil, errs.Wrap(err, "resolve organisation")
	}
}

func (s *Service) resolveQualification(ctx context.Context, caches *runCaches, batch *ports.ReconcileBatch, rec register.StagedRecord) (*register.Qualification, bool, error) {
	if qual, ok := caches.qualsByQan[rec.Qan]; ok {
		return qual, false, nil
	}

	found, err := s.registerRepo.GetQualificationByQan(ctx, rec.Qan)
	switch {
	case err == nil:
		qual := found
		caches.qualsByQan[rec.Qan] = &qual
		return &qual, false, nil
	case errors.Is(err, ports.ErrQualificationNotFound):
		qual := &register.Qualification{
			Qan:               rec.Qan,
			QualificationName: rec.QualificationName,
		}
		batch.NewQualifications = append(batch.NewQualifications, qual)
		caches.qualsByQan[rec.Qan] = qual
		return qual, true, nil
	default:
		return nil, false, errs.Wrap(err, "resolve qualification")
	}
}

func (s *Service) latestVersion(ctx context.Context, caches *runCaches, qual *register.Qualification) (register.QualificationVersion, bool, error) {
	if latest, ok := caches.latestByQan[qual.Qan]; ok {
		return latest, true, nil
	}

	latest, err := s.registerRepo.GetLatestVersion(ctx, qual.ID)
	switch {
	case err == nil:
		caches.latestByQan[qual.Qan] = latest
		return latest, true, nil
	case errors.Is(err, ports.ErrVersionNotFound):
		return register.QualificationVersion{}, false, nil
	default:
		return register.QualificationVersion{}, false, errs.Wrap(err, "resolve latest version")
	}
}

func (s *Service) appendFirstVersion(ids resolvedIDs, caches *runCaches, batch *ports.ReconcileBatch, rec register.StagedRecord, org *register.Organisation, qual *register.Qualification) {
	statusID := ids.statusNoAction
	actionID := ids.actionNoAction
	reason := s.evaluator.DetermineFailureReason(rec)
	if s.evaluator.EligibleForFunding(rec) {
		statusID = ids.statusDecision
		actionID = ids.actionRequired
	}

	pv := &ports.PendingVersion{
		Organisation:     org,
		Qualification:    qual,
		Version:          1,
		ProcessStatusID:  statusID,
		LifecycleStageID: ids.stageNew,
		Snapshot:         rec.Snapshot,
		Discussion: &ports.PendingDiscussion{
			ActionTypeID:    actionID,
			Notes:           reason.Note(),
			Timestamp:       time.Now().UTC(),
			UserDisplayName: s.importUser,
		},
	}
	batch.NewVersions = append(batch.NewVersions, pv)

	caches.latestByQan[qual.Qan] = register.QualificationVersion{
		Version:          1,
		ProcessStatusID:  statusID,
		LifecycleStageID: ids.stageNew,
		Snapshot:         rec.Snapshot,
	}
}

func (s *Service) appendNextVersion(ids resolvedIDs, caches *runCaches, batch *ports.ReconcileBatch, rec register.StagedRecord, org *register.Organisation, qual *register.Qualification, latest register.QualificationVersion, changes register.ChangeSet) {
	// A cosmetic-only change keeps the previous funding decision; a key
	// field change re-runs eligibility.
	statusID := latest.ProcessStatusID
	actionID := ids.actionNoAction
	notes := "Fields changed: " + changes.Joined()
	if changes.KeyFieldsChanged {
		if s.evaluator.EligibleForFunding(rec) {
			statusID = ids.statusDecision
			actionID = ids.actionRequired
		} else {
			statusID = ids.statusNoAction
		}
		notes = fmt.Sprintf("%s. %s", s.evaluator.DetermineFailureReason(rec).Note(), notes)
	}

	pv := &ports.PendingVersion{
		Organisation:      org,
		Qualification:     qual,
		Version:           latest.Version + 1,
		ProcessStatusID:   statusID,
		LifecycleStageID:  ids.stageChanged,
		Snapshot:          rec.Snapshot,
		ChangedFieldNames: changes.Joined(),
		Discussion: &ports.PendingDiscussion{
			ActionTypeID:    actionID,
			Notes:           notes,
			Timestamp:       time.Now().UTC(),
			UserDisplayName: s.importUser,
		},
	}
	batch.NewVersions = append(batch.NewVersions, pv)

	caches.latestByQan[qual.Qan] = register.QualificationVersion{
		Version:          pv.Version,
		ProcessStatusID:  statusID,
		LifecycleStageID: ids.stageChanged,
		Snapshot:         rec.Snapshot,
	}
}

// applyEntityUpdates carries incoming organisation/qualification display
// fields onto the owning rows so the next run diffs against current values.
func (s *Service) applyEntityUpdates(caches *runCaches, batch *ports.ReconcileBatch, rec register.StagedRecord, org *register.Organisation, qual *register.Qualification) {
	if qual.ID != 0 && rec.QualificationName != qual.QualificationName {
		qual.QualificationName = rec.QualificationName
		if !caches.qualMarkedUpdated[qual.Qan] {
			caches.qualMarkedUpdated[qual.Qan] = true
			batch.UpdatedQualifications = append(batch.UpdatedQualifications, qual)
		}
	}

	orgChanged := rec.OrganisationName != org.NameOfqual ||
		rec.OrganisationAcronym != org.Acronym ||
		rec.OrganisationRecognitionNumber != org.RecognitionNumber
	if org.ID != 0 && orgChanged {
		org.NameOfqual = rec.OrganisationName
		org.Acronym = rec.OrganisationAcronym
		org.RecognitionNumber = rec.OrganisationRecognitionNumber
		if !caches.orgMarkedUpdated[org.Ukprn] {
			caches.orgMarkedUpdated[org.Ukprn] = true
			batch.UpdatedOrganisations = append(batch.UpdatedOrganisations, org)
		}
	}
}
