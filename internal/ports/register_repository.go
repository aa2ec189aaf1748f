package ports

import (
	"context"
	"errors"
	"time"

	"qualrecon/internal/domain/register"
)

var (
	ErrOrganisationNotFound  = errors.New("organisation not found")
	ErrQualificationNotFound = errors.New("qualification not found")
	ErrVersionNotFound       = errors.New("qualification version not found")
)

// PendingDiscussion is a discussion-history row decided but not yet
// persisted; the qualification id is resolved at flush time.
type PendingDiscussion struct {
	ActionTypeID    uint64
	Notes           string
	Timestamp       time.Time
	UserDisplayName string
}

// PendingVersion is a version decision computed in memory. Organisation and
// Qualification point into the batch caches so foreign keys resolve after
// the entity inserts, including entities created earlier in the same batch.
type PendingVersion struct {
	Organisation      *register.Organisation
	Qualification     *register.Qualification
	Version           int
	ProcessStatusID   uint64
	LifecycleStageID  uint64
	Snapshot          register.Snapshot
	ChangedFieldNames string
	Discussion        *PendingDiscussion
}

// ReconcileBatch carries every row produced by one staged batch, persisted
// together after the whole batch's decisions are computed.
type ReconcileBatch struct {
	NewOrganisations      []*register.Organisation
	NewQualifications     []*register.Qualification
	UpdatedOrganisations  []*register.Organisation
	UpdatedQualifications []*register.Qualification
	NewVersions           []*PendingVersion
}

func (b *ReconcileBatch) Empty() bool {
	return len(b.NewOrganisations) == 0 &&
		len(b.NewQualifications) == 0 &&
		len(b.UpdatedOrganisations) == 0 &&
		len(b.UpdatedQualifications) == 0 &&
		len(b.NewVersions) == 0
}

// QualificationSummary is a console/read-model row.
type QualificationSummary struct {
	Qualification     register.Qualification
	LatestVersion     int
	ProcessStatusName string
	OrganisationName  string
}

// DiscussionView joins a discussion entry to its action type name.
type DiscussionView struct {
	Entry          register.DiscussionEntry
	ActionTypeName string
}

type RegisterRepository interface {
	GetOrganisationByUkprn(ctx context.Context, ukprn int64) (register.Organisation, error)
	GetQualificationByQan(ctx context.Context, qan string) (register.Qualification, error)
	GetLatestVersion(ctx context.Context, qualificationID uint64) (register.QualificationVersion, error)
	SaveReconcileBatch(ctx context.Context, batch ReconcileBatch) error

	ListQualifications(ctx context.Context, limit int) ([]QualificationSummary, error)
	ListVersions(ctx context.Context, qualificationID uint64) ([]register.QualificationVersion, error)
	ListDiscussionHistory(ctx context.Context, qualificationID uint64) ([]DiscussionView, error)
}
