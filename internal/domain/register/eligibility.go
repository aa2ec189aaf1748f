package register

import (
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"qualrecon/internal/errs"
)

// ImportReason classifies the outcome of the funding-eligibility check for
// a staged record.
type ImportReason string

const (
	ReasonDecisionRequired ImportReason = "DecisionRequired"
	ReasonNoAction         ImportReason = "NoActionRequired"
	ReasonNoGlhOrTqt       ImportReason = "NoGlhOrTqt"
)

// Note returns the human-readable text recorded on discussion history.
func (r ImportReason) Note() string {
	switch r {
	case ReasonDecisionRequired:
		return "Funding decision required for imported qualification"
	case ReasonNoGlhOrTqt:
		return "No GLH or TQT values present on the imported record"
	default:
		return "Qualification is not eligible for funding"
	}
}

// EligibilityRules is the immutable rule data injected into the Evaluator.
// Swapped per environment via a TOML rules file.
type EligibilityRules struct {
	MinOperationalDate      time.Time
	IneligibleNames         []string
	IneligibleAbbreviations []string
}

// DefaultEligibilityRules returns the built-in rule set.
func DefaultEligibilityRules() EligibilityRules {
	return EligibilityRules{
		MinOperationalDate: time.Date(2014, time.September, 1, 0, 0, 0, 0, time.UTC),
		IneligibleNames: []string{
			"GCSE",
			"GCE A Level",
			"GCE AS Level",
			"Entry Level",
			"Key Skills",
			"Functional Skills",
			"Postgraduate Certificate in Education",
			"Higher National Certificate",
			"Higher National Diploma",
		},
		IneligibleAbbreviations: []string{
			"PGCE",
			"PGDE",
			"HNC",
			"HND",
		},
	}
}

type eligibilityRulesFile struct {
	MinOperationalDate      string   `toml:"min_operational_date"`
	IneligibleNames         []string `toml:"ineligible_names"`
	IneligibleAbbreviations []string `toml:"ineligible_abbreviations"`
}

// LoadEligibilityRules reads a TOML rules file. An empty path returns the
// defaults.
func LoadEligibilityRules(path string) (EligibilityRules, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultEligibilityRules(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return EligibilityRules{}, errs.Wrap(err, "read eligibility rules file")
	}

	var file eligibilityRulesFile
	if err := toml.Unmarshal(raw, &file); err != nil {
		return EligibilityRules{}, errs.Wrap(err, "parse eligibility rules file")
	}

	rules := DefaultEligibilityRules()
	if file.MinOperationalDate != "" {
		min, err := time.ParseInLocation("2006-01-02", file.MinOperationalDate, time.UTC)
		if err != nil {
			return EligibilityRules{}, errs.Wrap(err, "parse min_operational_date")
		}
		rules.MinOperationalDate = min
	}
	if file.IneligibleNames != nil {
		rules.IneligibleNames = file.IneligibleNames
	}
	if file.IneligibleAbbreviations != nil {
		rules.IneligibleAbbreviations = file.IneligibleAbbreviations
	}

	return rules, nil
}

// Evaluator decides funding eligibility for staged records.
type Evaluator struct {
	rules EligibilityRules
}

func NewEvaluator(rules EligibilityRules) *Evaluator {
	return &Evaluator{rules: rules}
}

// EligibleForFunding reports whether the record passes every funding rule.
func (e *Evaluator) EligibleForFunding(rec StagedRecord) bool {
	return rec.OfferedInEngland &&
		e.startsOnOrAfterMinimum(rec) &&
		hasWorkload(rec) &&
		e.titleFundable(rec)
}

// DetermineFailureReason classifies the record by the first failing rule,
// in precedence order: offered in England, operational start date, GLH/TQT,
// ineligible title. An eligible record maps to ReasonDecisionRequired.
func (e *Evaluator) DetermineFailureReason(rec StagedRecord) ImportReason {
	switch {
	case !rec.OfferedInEngland:
		return ReasonNoAction
	case !e.startsOnOrAfterMinimum(rec):
		return ReasonNoAction
	case !hasWorkload(rec):
		return ReasonNoGlhOrTqt
	case !e.titleFundable(rec):
		return ReasonNoAction
	}
	return ReasonDecisionRequired
}

func (e *Evaluator) startsOnOrAfterMinimum(rec StagedRecord) bool {
	return rec.OperationalStartDate != nil && !rec.OperationalStartDate.Before(e.rules.MinOperationalDate)
}

// hasWorkload requires both GLH and TQT present and non-zero, with GLH not
// exceeding TQT.
func hasWorkload(rec StagedRecord) bool {
	if rec.Glh == nil || rec.Tqt == nil {
		return false
	}
	if *rec.Glh == 0 || *rec.Tqt == 0 {
		return false
	}
	return *rec.Glh <= *rec.Tqt
}

// Substring matching is case-sensitive: the rule lists carry the exact
// register spellings.
func (e *Evaluator) titleFundable(rec StagedRecord) bool {
	for _, name := range e.rules.IneligibleNames {
		if strings.Contains(rec.QualificationName, name) {
			return false
		}
	}
	for _, abbr := range e.rules.IneligibleAbbreviations {
		if strings.Contains(rec.QualificationName, abbr) {
			return false
		}
	}
	return true
}
