package register

import "time"

// Entities are modelled arena-style: generated ids plus explicit foreign-key
// fields, resolved by lookup rather than pointer traversal.

type Organisation struct {
	ID                uint64
	Ukprn             int64
	RecognitionNumber string
	NameOfqual        string
	Acronym           string
}

type Qualification struct {
	ID                uint64
	Qan               string
	QualificationName string
}

// QualificationVersion is an immutable snapshot of a qualification's
// regulatory and funding-relevant attributes. A detected change produces a
// new version row, never an edit.
type QualificationVersion struct {
	ID                   uint64
	Version              int
	QualificationID      uint64
	OrganisationID       uint64
	ProcessStatusID      uint64
	LifecycleStageID     uint64
	VersionFieldChangeID uint64
	Snapshot
}

// Snapshot holds the descriptive register fields carried on every version.
type Snapshot struct {
	Status                                string
	QualificationType                     string
	Ssa                                   string
	Level                                 string
	SubLevel                              string
	EqfLevel                              string
	GradingType                           string
	GradingScale                          string
	TotalCredits                          *int
	Tqt                                   *int
	Glh                                   *int
	MinimumGlh                            *int
	MaximumGlh                            *int
	RegulationStartDate                   *time.Time
	OperationalStartDate                  *time.Time
	OperationalEndDate                    *time.Time
	CertificationEndDate                  *time.Time
	ReviewDate                            *time.Time
	AppealDate                            *time.Time
	OfferedInEngland                      bool
	OfferedInNorthernIreland              *bool
	OfferedInternationally                *bool
	Specialism                            string
	Pathways                              string
	AssessmentMethods                     string
	ApprovedForDelFundedProgramme         string
	LinkToSpecification                   string
	ApprenticeshipStandardReferenceNumber string
	ApprenticeshipStandardTitle           string
	RegulatedByNorthernIreland            *bool
	NiDiscountCode                        string
	GceSizeEquivalence                    string
	GcseSizeEquivalence                   string
	EntitlementFrameworkDesign            string
	LastUpdatedDate                       *time.Time
	UiLastUpdatedDate                     *time.Time
	InsertedDate                          *time.Time
}

// VersionFieldChange records which fields changed relative to the previous
// version. ChangedFieldNames is empty for the first version.
type VersionFieldChange struct {
	ID                uint64
	VersionNumber     int
	ChangedFieldNames string
}

// DiscussionEntry is one append-only audit log row for a qualification.
type DiscussionEntry struct {
	ID              uint64
	QualificationID uint64
	ActionTypeID    uint64
	Notes           string
	Timestamp       time.Time
	UserDisplayName string
}

// Funding is the user/system-of-record copy of a funding offer grant for a
// specific qualification version.
type Funding struct {
	ID                     uint64
	QualificationVersionID uint64
	FundingOfferTypeID     uint64
	StartDate              *time.Time
	EndDate                *time.Time
	Comments               string
}

// FundingFeedback carries an approval flag against a version. It is recorded
// but does not currently gate funding updates.
type FundingFeedback struct {
	ID                     uint64
	QualificationVersionID uint64
	Approved               bool
	Comments               string
}

// ImportedOffer is one row of the external funding feed for a qualification.
type ImportedOffer struct {
	ID               uint64
	Qan              string
	Name             string
	FundingAvailable bool
	StartDate        *time.Time
	EndDate          *time.Time
}
