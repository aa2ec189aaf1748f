package register

// StagedRecord is one not-yet-reconciled register snapshot awaiting a
// diff-and-version decision. Field shapes mirror the staging feed.
type StagedRecord struct {
	Qan                           string
	QualificationName             string
	Ukprn                         int64
	OrganisationName              string
	OrganisationAcronym           string
	OrganisationRecognitionNumber string
	Snapshot
}
