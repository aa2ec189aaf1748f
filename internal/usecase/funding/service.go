// Package funding reconciles externally-imported funding offers against the
// user-curated funding records attached to qualification versions.
package funding

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
	fundingRepo  ports.FundingRepository
	registerRepo ports.RegisterRepository
	refdataRepo  ports.ReferenceDataRepository
	uow          ports.UnitOfWork
	flushSize    int
	importUser   string
}

func NewService(
	fundingRepo ports.FundingRepository,
	registerRepo ports.RegisterRepository,
	refdataRepo ports.ReferenceDataRepository,
	unitOfWork ports.UnitOfWork,
	cfg config.Config,
) *Service {
	return &Service{
		fundingRepo:  fundingRepo,
		registerRepo: registerRepo,
		refdataRepo:  refdataRepo,
		uow:          unitOfWork,
		flushSize:    cfg.Reconcile.FundingFlushSize,
		importUser:   cfg.Reconcile.ImportUser,
	}
}

// ReconcileOffers compares the imported funding feed against existing
// funding rows and inserts or updates accordingly. It returns a success
// flag: a qualification with zero versions is fatal for the whole pass.
func (s *Service) ReconcileOffers(ctx context.Context) (bool, error) {
	if ctx == nil {
		return false, errors.New("context is required")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "usecase.funding"))

	resolver, err := refdata.Load(logCtx, s.refdataRepo)
	if err != nil {
		return false, errs.Wrap(err, "load reference data")
	}
	discussionActionID, err := resolver.ActionTypeID(refdata.ActionNoActionRequired)
	if err != nil {
		return false, err
	}

	imported, err := s.fundingRepo.ListImportedFundedQualifications(logCtx)
	if err != nil {
		return false, errs.Wrap(err, "list imported funded qualifications")
	}
	existing, err := s.fundingRepo.ListExistingFundings(logCtx)
	if err != nil {
		return false, errs.Wrap(err, "list existing fundings")
	}

	existingByQual := make(map[uint64][]ports.ExistingFunding)
	for _, row := range existing {
		existingByQual[row.QualificationID] = append(existingByQual[row.QualificationID], row)
	}

	batch := &ports.FundingBatch{}
	processed := 0
	inserted := 0
	updated := 0

	for _, iq := range imported {
		latest, err := s.registerRepo.GetLatestVersion(logCtx, iq.Qualification.ID)
		if err != nil {
			if errors.Is(err, ports.ErrVersionNotFound) {
				// Conservative: abort the whole pass rather than silently
				// under-process a broken qualification.
				return false, errs.Wrapf(register.ErrNoVersions, "qualification %q", iq.Qualification.Qan)
			}
			return false, errs.Wrap(err, "load latest version")
		}

		rows := existingByQual[iq.Qualification.ID]
		var qualInserted, qualUpdated int
		if len(rows) == 0 {
			qualInserted = s.insertOffers(logCtx, resolver, batch, iq, latest)
		} else {
			qualInserted, qualUpdated = s.updateOffers(logCtx, resolver, batch, iq, latest, rows)
		}

		if qualInserted+qualUpdated > 0 {
			batch.Discussions = append(batch.Discussions, &register.DiscussionEntry{
				QualificationID: iq.Qualification.ID,
				ActionTypeID:    discussionActionID,
				Notes:           fmt.Sprintf("Funding offers reconciled: %d added, %d updated", qualInserted, qualUpdated),
				Timestamp:       time.Now().UTC(),
				UserDisplayName: s.importUser,
			})
		}
		inserted += qualInserted
		updated += qualUpdated

		processed++
		if processed%s.flushSize == 0 {
			if err := s.flush(logCtx, batch); err != nil {
				return false, err
			}
			batch = &ports.FundingBatch{}
		}
	}

	if err := s.flush(logCtx, batch); err != nil {
		return false, err
	}

	logging.Info(logCtx, "funding reconciliation finished",
		slog.Int("qualifications", processed),
		slog.Int("inserted", inserted),
		slog.Int("updated", updated),
	)
	return true, nil
}

// insertOffers handles a qualification with no funding rows yet: every
// available offer with a known type gets a fresh row on the latest version.
func (s *Service) insertOffers(ctx context.Context, resolver *refdata.Resolver, batch *ports.FundingBatch, iq ports.ImportedQualification, latest register.QualificationVersion) int {
	inserted := 0
	for _, offer := range iq.Offers {
		if !offer.FundingAvailable {
			continue
		}

		typeID, err := resolver.FundingOfferTypeID(offer.Name)
		if err != nil {
			// An unmapped offer name skips the offer, not the batch.
			logging.Warn(ctx, "unknown funding offer type, skipping",
				slog.String("qan", iq.Qualification.Qan),
				slog.String("offer", offer.Name),
			)
			continue
		}

		batch.Inserts = append(batch.Inserts, &register.Funding{
			QualificationVersionID: latest.ID,
			FundingOfferTypeID:     typeID,
			StartDate:              offer.StartDate,
			EndDate:                offer.EndDate,
			Comments:               "Imported from funding feed",
		})
		inserted++
	}
	return inserted
}

// updateOffers handles a qualification that already has funding rows:
// matching offer types get a date refresh, unmatched ones a new row.
func (s *Service) updateOffers(ctx context.Context, resolver *refdata.Resolver, batch *ports.FundingBatch, iq ports.ImportedQualification, latest register.QualificationVersion, rows []ports.ExistingFunding) (int, int) {
	inserted := 0
	updated := 0
	for _, offer := range iq.Offers {
		if !offer.FundingAvailable {
			continue
		}

		match := matchByOfferType(rows, offer.Name)
		if match == nil {
			typeID, err := resolver.FundingOfferTypeID(offer.Name)
			if err != nil {
				logging.Warn(ctx, "unknown funding offer type, skipping",
					slog.String("qan", iq.Qualification.Qan),
					slog.String("offer", offer.Name),
				)
				continue
			}
			batch.Inserts = append(batch.Inserts, &register.Funding{
				QualificationVersionID: latest.ID,
				FundingOfferTypeID:     typeID,
				StartDate:              offer.StartDate,
				EndDate:                offer.EndDate,
				Comments:               "Imported from funding feed",
			})
			inserted++
			continue
		}

		if sameDate(match.Funding.StartDate, offer.StartDate) && sameDate(match.Funding.EndDate, offer.EndDate) {
			continue
		}

		row := match.Funding
		row.StartDate = offer.StartDate
		row.EndDate = offer.EndDate
		row.Comments = appendAudit(row.Comments, "Dates updated from funding feed")
		batch.Updates = append(batch.Updates, &row)
		updated++
	}
	return inserted, updated
}

func (s *Service) flush(ctx context.Context, batch *ports.FundingBatch) error {
	if batch.Empty() {
		return nil
	}
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		return s.fundingRepo.ApplyFundingBatch(txCtx, *batch)
	}); err != nil {
		return errs.Wrap(err, "flush funding batch")
	}
	return nil
}

// approvedVersionSet backs the feedback-approval gate: offers on approved
// versions used to be excluded from updates. The gate is disabled pending a
// product decision on whether approval should freeze funding rows.
func (s *Service) approvedVersionSet(ctx context.Context) (map[uint64]struct{}, error) {
	ids, err := s.fundingRepo.ListApprovedVersionIDs(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "list approved version ids")
	}

	set := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func matchByOfferType(rows []ports.ExistingFunding, offerName string) *ports.ExistingFunding {
	for i := range rows {
		if rows[i].OfferTypeName == offerName {
			return &rows[i]
		}
	}
	return nil
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.UTC().Equal(b.UTC())
}

func appendAudit(comments, note string) string {
	if comments == "" {
		return note
	}
	return comments + "; " + note
}
