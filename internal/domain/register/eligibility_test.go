package register

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func eligibleRecord() StagedRecord {
	glh := 5
	tqt := 10
	start := time.Date(2014, time.September, 1, 0, 0, 0, 0, time.UTC)
	return StagedRecord{
		Qan:               "60090001",
		QualificationName: "Level 3 Diploma in Engineering",
		Snapshot: Snapshot{
			Glh:                  &glh,
			Tqt:                  &tqt,
			OperationalStartDate: &start,
			OfferedInEngland:     true,
		},
	}
}

func TestEligibleAtMinimumBoundary(t *testing.T) {
	evaluator := NewEvaluator(DefaultEligibilityRules())
	rec := eligibleRecord()

	if !evaluator.EligibleForFunding(rec) {
		t.Fatal("record starting exactly on the minimum operational date should be eligible")
	}
	if reason := evaluator.DetermineFailureReason(rec); reason != ReasonDecisionRequired {
		t.Fatalf("DetermineFailureReason() = %v, want %v", reason, ReasonDecisionRequired)
	}
}

func TestIneligibleOutsideEngland(t *testing.T) {
	evaluator := NewEvaluator(DefaultEligibilityRules())
	rec := eligibleRecord()
	rec.OfferedInEngland = false

	if evaluator.EligibleForFunding(rec) {
		t.Fatal("record not offered in England should be ineligible")
	}
	if reason := evaluator.DetermineFailureReason(rec); reason != ReasonNoAction {
		t.Fatalf("DetermineFailureReason() = %v, want %v", reason, ReasonNoAction)
	}
}

func TestIneligibleBeforeMinimumDate(t *testing.T) {
	evaluator := NewEvaluator(DefaultEligibilityRules())
	rec := eligibleRecord()
	early := time.Date(2014, time.August, 31, 0, 0, 0, 0, time.UTC)
	rec.OperationalStartDate = &early

	if evaluator.EligibleForFunding(rec) {
		t.Fatal("record starting before the minimum operational date should be ineligible")
	}
	if reason := evaluator.DetermineFailureReason(rec); reason != ReasonNoAction {
		t.Fatalf("DetermineFailureReason() = %v, want %v", reason, ReasonNoAction)
	}
}

func TestIneligibleMissingStartDate(t *testing.T) {
	evaluator := NewEvaluator(DefaultEligibilityRules())
	rec := eligibleRecord()
	rec.OperationalStartDate = nil

	if evaluator.EligibleForFunding(rec) {
		t.Fatal("record with no operational start date should be ineligible")
	}
	if reason := evaluator.DetermineFailureReason(rec); reason != ReasonNoAction {
		t.Fatalf("DetermineFailureReason() = %v, want %v", reason, ReasonNoAction)
	}
}

func TestIneligibleWorkload(t *testing.T) {
	evaluator := NewEvaluator(DefaultEligibilityRules())
	zero := 0
	ten := 10

	cases := map[string]struct {
		glh *int
		tqt *int
	}{
		"both nil":       {nil, nil},
		"zero glh":       {&zero, &ten},
		"zero tqt":       {&ten, &zero},
		"glh above tqt":  {intRef(20), &ten},
		"missing tqt":    {&ten, nil},
		"missing glh":    {nil, &ten},
		"both zero glh ": {&zero, &zero},
	}
	for name, tc := range cases {
		rec := eligibleRecord()
		rec.Glh = tc.glh
		rec.Tqt = tc.tqt

		if evaluator.EligibleForFunding(rec) {
			t.Fatalf("%s: should be ineligible", name)
		}
		if reason := evaluator.DetermineFailureReason(rec); reason != ReasonNoGlhOrTqt {
			t.Fatalf("%s: DetermineFailureReason() = %v, want %v", name, reason, ReasonNoGlhOrTqt)
		}
	}
}

func TestIneligibleTitles(t *testing.T) {
	evaluator := NewEvaluator(DefaultEligibilityRules())

	titles := []string{
		"GCSE (9-1) in Mathematics",
		"GCE A Level in History",
		"PGCE Secondary Education",
		"HND in Business",
	}
	for _, title := range titles {
		rec := eligibleRecord()
		rec.QualificationName = title

		if evaluator.EligibleForFunding(rec) {
			t.Fatalf("title %q should be ineligible", title)
		}
		if reason := evaluator.DetermineFailureReason(rec); reason != ReasonNoAction {
			t.Fatalf("title %q: DetermineFailureReason() = %v, want %v", title, reason, ReasonNoAction)
		}
	}
}

func TestReasonPrecedenceEnglandBeforeWorkload(t *testing.T) {
	evaluator := NewEvaluator(DefaultEligibilityRules())
	rec := eligibleRecord()
	rec.OfferedInEngland = false
	rec.Glh = nil
	rec.Tqt = nil

	if reason := evaluator.DetermineFailureReason(rec); reason != ReasonNoAction {
		t.Fatalf("DetermineFailureReason() = %v, want %v (England rule wins)", reason, ReasonNoAction)
	}
}

func TestLoadEligibilityRulesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.toml")
	content := `min_operational_date = "2016-01-01"
ineligible_names = ["Custom Name"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write rules file: %v", err)
	}

	rules, err := LoadEligibilityRules(path)
	if err != nil {
		t.Fatalf("LoadEligibilityRules() error = %v", err)
	}
	want := time.Date(2016, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !rules.MinOperationalDate.Equal(want) {
		t.Fatalf("MinOperationalDate = %v, want %v", rules.MinOperationalDate, want)
	}
	if len(rules.IneligibleNames) != 1 || rules.IneligibleNames[0] != "Custom Name" {
		t.Fatalf("IneligibleNames = %v", rules.IneligibleNames)
	}
	// Unset keys keep the defaults.
	if len(rules.IneligibleAbbreviations) == 0 {
		t.Fatal("IneligibleAbbreviations should keep defaults")
	}
}

func TestLoadEligibilityRulesEmptyPathReturnsDefaults(t *testing.T) {
	rules, err := LoadEligibilityRules("")
	if err != nil {
		t.Fatalf("LoadEligibilityRules() error = %v", err)
	}
	if !rules.MinOperationalDate.Equal(DefaultEligibilityRules().MinOperationalDate) {
		t.Fatalf("MinOperationalDate = %v", rules.MinOperationalDate)
	}
}

func intRef(v int) *int {
	return &v
}
