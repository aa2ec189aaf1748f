package ports

import "context"

// ReferenceItem is one row of a closed {id, name} reference table.
type ReferenceItem struct {
	ID   uint64
	Name string
}

// ReferenceDataRepository reads (and seeds) the closed enumeration tables.
// The reconciliation engine never writes these; Seed is an operator command.
type ReferenceDataRepository interface {
	ListActionTypes(ctx context.Context) ([]ReferenceItem, error)
	ListProcessStatuses(ctx context.Context) ([]ReferenceItem, error)
	ListLifecycleStages(ctx context.Context) ([]ReferenceItem, error)
	ListFundingOfferTypes(ctx context.Context) ([]ReferenceItem, error)
	Seed(ctx context.Context) error
}
