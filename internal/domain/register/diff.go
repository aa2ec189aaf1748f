package register

import (
	"strings"
	"time"
)

// ChangeSet is the field-diff result for one staged record against its
// current baseline entities.
type ChangeSet struct {
	// ChangedFields lists canonical field names in first-hit order, no
	// duplicates.
	ChangedFields []string
	// KeyFieldsChanged is true only when a change touched a field that can
	// affect a funding or process decision.
	KeyFieldsChanged bool
}

func (c ChangeSet) Empty() bool {
	return len(c.ChangedFields) == 0
}

// Joined returns the comma-joined changed-field list as stored on a
// VersionFieldChange row.
func (c ChangeSet) Joined() string {
	return strings.Join(c.ChangedFields, ",")
}

// DetectChanges compares an incoming staged record pairwise against the
// current latest version, its organisation and its qualification. Every
// unequal pair is reported; the key-field classification additionally
// ignores title differences that reduce to whitespace only.
func DetectChanges(in StagedRecord, version QualificationVersion, org Organisation, qual Qualification) ChangeSet {
	d := newDiff()

	// Qualification-level fields. A title change is always reported, but it
	// only counts as a key change when the values still differ after
	// whitespace normalisation.
	if in.QualificationName != qual.QualificationName {
		d.record("Title", !titleEquivalent(in.QualificationName, qual.QualificationName))
	}
	d.str("Qan", in.Qan, qual.Qan, false)

	// Organisation-level fields.
	d.str("OrganisationName", in.OrganisationName, org.NameOfqual, false)
	d.str("OrganisationAcronym", in.OrganisationAcronym, org.Acronym, false)
	d.str("RecognitionNumber", in.OrganisationRecognitionNumber, org.RecognitionNumber, false)

	// Version snapshot fields.
	d.str("Status", in.Status, version.Status, false)
	d.str("QualificationType", in.QualificationType, version.QualificationType, false)
	d.str("Ssa", in.Ssa, version.Ssa, false)
	d.str("Level", in.Level, version.Level, true)
	d.str("SubLevel", in.SubLevel, version.SubLevel, false)
	d.str("EqfLevel", in.EqfLevel, version.EqfLevel, false)
	d.str("GradingType", in.GradingType, version.GradingType, false)
	d.str("GradingScale", in.GradingScale, version.GradingScale, false)
	d.intPtr("TotalCredits", in.TotalCredits, version.TotalCredits, false)
	d.intPtr("Tqt", in.Tqt, version.Tqt, true)
	d.intPtr("Glh", in.Glh, version.Glh, true)
	d.intPtr("MinimumGlh", in.MinimumGlh, version.MinimumGlh, false)
	d.intPtr("MaximumGlh", in.MaximumGlh, version.MaximumGlh, false)
	d.datePtr("RegulationStartDate", in.RegulationStartDate, version.RegulationStartDate, false)
	d.datePtr("OperationalStartDate", in.OperationalStartDate, version.OperationalStartDate, true)
	d.datePtr("OperationalEndDate", in.OperationalEndDate, version.OperationalEndDate, true)
	d.datePtr("CertificationEndDate", in.CertificationEndDate, version.CertificationEndDate, false)
	d.datePtr("ReviewDate", in.ReviewDate, version.ReviewDate, false)
	d.datePtr("AppealDate", in.AppealDate, version.AppealDate, false)
	d.boolVal("OfferedInEngland", in.OfferedInEngland, version.OfferedInEngland, true)
	d.boolPtr("OfferedInNorthernIreland", in.OfferedInNorthernIreland, version.OfferedInNorthernIreland, false)
	d.boolPtr("OfferedInternationally", in.OfferedInternationally, version.OfferedInternationally, false)
	d.str("Specialism", in.Specialism, version.Specialism, false)
	d.str("Pathways", in.Pathways, version.Pathways, false)
	d.str("AssessmentMethods", in.AssessmentMethods, version.AssessmentMethods, false)
	d.str("ApprovedForDelFundedProgramme", in.ApprovedForDelFundedProgramme, version.ApprovedForDelFundedProgramme, false)
	d.str("LinkToSpecification", in.LinkToSpecification, version.LinkToSpecification, false)
	d.str("ApprenticeshipStandardReferenceNumber", in.ApprenticeshipStandardReferenceNumber, version.ApprenticeshipStandardReferenceNumber, false)
	d.str("ApprenticeshipStandardTitle", in.ApprenticeshipStandardTitle, version.ApprenticeshipStandardTitle, false)
	d.boolPtr("RegulatedByNorthernIreland", in.RegulatedByNorthernIreland, version.RegulatedByNorthernIreland, false)
	d.str("NiDiscountCode", in.NiDiscountCode, version.NiDiscountCode, false)
	d.str("GceSizeEquivalence", in.GceSizeEquivalence, version.GceSizeEquivalence, false)
	d.str("GcseSizeEquivalence", in.GcseSizeEquivalence, version.GcseSizeEquivalence, false)
	d.str("EntitlementFrameworkDesign", in.EntitlementFrameworkDesign, version.EntitlementFrameworkDesign, false)
	d.datePtr("LastUpdatedDate", in.LastUpdatedDate, version.LastUpdatedDate, false)
	d.datePtr("UiLastUpdatedDate", in.UiLastUpdatedDate, version.UiLastUpdatedDate, false)
	d.datePtr("InsertedDate", in.InsertedDate, version.InsertedDate, false)

	return d.result()
}

type diff struct {
	fields []string
	seen   map[string]struct{}
	key    bool
}

func newDiff() *diff {
	return &diff{seen: make(map[string]struct{}, 8)}
}

func (d *diff) record(name string, key bool) {
	if _, ok := d.seen[name]; !ok {
		d.seen[name] = struct{}{}
		d.fields = append(d.fields, name)
	}
	if key {
		d.key = true
	}
}

func (d *diff) str(name, a, b string, key bool) {
	if a != b {
		d.record(name, key)
	}
}

func (d *diff) boolVal(name string, a, b bool, key bool) {
	if a != b {
		d.record(name, key)
	}
}

func (d *diff) intPtr(name string, a, b *int, key bool) {
	if !intPtrEqual(a, b) {
		d.record(name, key)
	}
}

func (d *diff) boolPtr(name string, a, b *bool, key bool) {
	if !boolPtrEqual(a, b) {
		d.record(name, key)
	}
}

func (d *diff) datePtr(name string, a, b *time.Time, key bool) {
	if !datePtrEqual(a, b) {
		d.record(name, key)
	}
}

func (d *diff) result() ChangeSet {
	return ChangeSet{ChangedFields: d.fields, KeyFieldsChanged: d.key}
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func boolPtrEqual(a, b *bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func datePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.UTC().Equal(b.UTC())
}

// titleEquivalent reports whether two titles differ by whitespace only:
// runs of spaces, leading/trailing space, non-breaking space, tabs and
// newlines all collapse before comparison.
func titleEquivalent(a, b string) bool {
	return normalizeTitle(a) == normalizeTitle(b)
}

func normalizeTitle(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}
