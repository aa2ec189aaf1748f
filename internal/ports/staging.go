package ports

import (
	"context"

	"qualrecon/internal/domain/register"
)

// StagingRepository is the staging source boundary: externally imported
// register records and funding feed rows, paged with skip/take semantics.
type StagingRepository interface {
	ListStagedPage(ctx context.Context, offset, limit int) ([]register.StagedRecord, error)
	InsertStagedRecords(ctx context.Context, records []register.StagedRecord) error
	CountStaged(ctx context.Context) (int64, error)
	InsertImportedOffers(ctx context.Context, offers []register.ImportedOffer) error
}
