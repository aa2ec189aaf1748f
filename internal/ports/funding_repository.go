package ports

import (
	"context"

	"qualrecon/internal/domain/register"
)

// ImportedQualification pairs a persisted qualification with its imported
// funding feed offers.
type ImportedQualification struct {
	Qualification register.Qualification
	Offers        []register.ImportedOffer
}

// ExistingFunding is a user/system funding row joined back to its
// qualification and offer type name.
type ExistingFunding struct {
	Funding         register.Funding
	OfferTypeName   string
	QualificationID uint64
}

// FundingBatch is the buffered write set of one funding reconciliation
// flush window.
type FundingBatch struct {
	Inserts     []*register.Funding
	Updates     []*register.Funding
	Discussions []*register.DiscussionEntry
}

func (b *FundingBatch) Empty() bool {
	return len(b.Inserts) == 0 && len(b.Updates) == 0 && len(b.Discussions) == 0
}

type FundingRepository interface {
	// ListImportedFundedQualifications returns qualifications whose imported
	// offers carry funding_available, joined by QAN.
	ListImportedFundedQualifications(ctx context.Context) ([]ImportedQualification, error)
	ListExistingFundings(ctx context.Context) ([]ExistingFunding, error)
	ApplyFundingBatch(ctx context.Context, batch FundingBatch) error

	// ListApprovedVersionIDs backs the feedback-approval gate. The gate is
	// currently disabled in the reconciliation pass.
	ListApprovedVersionIDs(ctx context.Context) ([]uint64, error)
}
