package register

import (
	"strings"
	"testing"
	"time"
)

func baselineRecord() StagedRecord {
	glh := 120
	tqt := 150
	start := time.Date(2019, time.August, 1, 0, 0, 0, 0, time.UTC)
	return StagedRecord{
		Qan:                           "60012345",
		QualificationName:             "Level 2 Certificate in Plumbing",
		Ukprn:                         10001,
		OrganisationName:              "City Awarding Body",
		OrganisationAcronym:           "CAB",
		OrganisationRecognitionNumber: "RN1234",
		Snapshot: Snapshot{
			Status:               "Available to learners",
			Level:                "2",
			Glh:                  &glh,
			Tqt:                  &tqt,
			OperationalStartDate: &start,
			OfferedInEngland:     true,
		},
	}
}

func baselineEntities(rec StagedRecord) (QualificationVersion, Organisation, Qualification) {
	version := QualificationVersion{Version: 1, Snapshot: rec.Snapshot}
	org := Organisation{
		ID:                1,
		Ukprn:             rec.Ukprn,
		NameOfqual:        rec.OrganisationName,
		Acronym:           rec.OrganisationAcronym,
		RecognitionNumber: rec.OrganisationRecognitionNumber,
	}
	qual := Qualification{ID: 1, Qan: rec.Qan, QualificationName: rec.QualificationName}
	return version, org, qual
}

func TestDetectChangesIdenticalRecord(t *testing.T) {
	rec := baselineRecord()
	version, org, qual := baselineEntities(rec)

	changes := DetectChanges(rec, version, org, qual)
	if !changes.Empty() {
		t.Fatalf("DetectChanges() fields = %v, want none", changes.ChangedFields)
	}
	if changes.KeyFieldsChanged {
		t.Fatal("DetectChanges() KeyFieldsChanged = true, want false")
	}
}

func TestDetectChangesWhitespaceOnlyTitleIsNotKey(t *testing.T) {
	variants := map[string]string{
		"double space":       "Level 2  Certificate in Plumbing",
		"trailing newline":   "Level 2 Certificate in Plumbing\n",
		"leading space":      " Level 2 Certificate in Plumbing",
		"non-breaking space": "Level 2\u00a0Certificate in Plumbing",
		"tab":                "Level 2\tCertificate in Plumbing",
	}

	for name, title := range variants {
		rec := baselineRecord()
		version, org, qual := baselineEntities(rec)
		rec.QualificationName = title

		changes := DetectChanges(rec, version, org, qual)
		if len(changes.ChangedFields) != 1 || changes.ChangedFields[0] != "Title" {
			t.Fatalf("%s: DetectChanges() fields = %v, want [Title]", name, changes.ChangedFields)
		}
		if changes.KeyFieldsChanged {
			t.Fatalf("%s: whitespace-only title flagged as key change", name)
		}
	}
}

func TestDetectChangesMeaningfulTitleIsKey(t *testing.T) {
	rec := baselineRecord()
	version, org, qual := baselineEntities(rec)
	rec.QualificationName = "Level 2 Diploma in Plumbing"

	changes := DetectChanges(rec, version, org, qual)
	if len(changes.ChangedFields) != 1 || changes.ChangedFields[0] != "Title" {
		t.Fatalf("DetectChanges() fields = %v, want [Title]", changes.ChangedFields)
	}
	if !changes.KeyFieldsChanged {
		t.Fatal("meaningful title change not flagged as key")
	}
}

func TestDetectChangesLevelIsKey(t *testing.T) {
	rec := baselineRecord()
	version, org, qual := baselineEntities(rec)
	rec.Level = "3"

	changes := DetectChanges(rec, version, org, qual)
	if !changes.KeyFieldsChanged {
		t.Fatal("level change not flagged as key")
	}
	if changes.Joined() != "Level" {
		t.Fatalf("Joined() = %q, want Level", changes.Joined())
	}
}

func TestDetectChangesNonKeyFields(t *testing.T) {
	rec := baselineRecord()
	version, org, qual := baselineEntities(rec)
	rec.Ssa = "Construction"
	rec.OrganisationAcronym = "CAB2"

	changes := DetectChanges(rec, version, org, qual)
	if changes.KeyFieldsChanged {
		t.Fatalf("non-key fields flagged as key: %v", changes.ChangedFields)
	}
	joined := changes.Joined()
	if !strings.Contains(joined, "Ssa") || !strings.Contains(joined, "OrganisationAcronym") {
		t.Fatalf("Joined() = %q, want Ssa and OrganisationAcronym", joined)
	}
}

func TestDetectChangesDatePointerComparesInstants(t *testing.T) {
	rec := baselineRecord()
	version, org, qual := baselineEntities(rec)

	local := rec.OperationalStartDate.In(time.FixedZone("CET", 3600))
	rec.OperationalStartDate = &local

	changes := DetectChanges(rec, version, org, qual)
	if !changes.Empty() {
		t.Fatalf("same instant in a different zone reported as change: %v", changes.ChangedFields)
	}
}

func TestDetectChangesNilVersusValuePointer(t *testing.T) {
	rec := baselineRecord()
	version, org, qual := baselineEntities(rec)
	rec.Glh = nil

	changes := DetectChanges(rec, version, org, qual)
	if changes.Joined() != "Glh" {
		t.Fatalf("Joined() = %q, want Glh", changes.Joined())
	}
	if !changes.KeyFieldsChanged {
		t.Fatal("GLH change not flagged as key")
	}
}
