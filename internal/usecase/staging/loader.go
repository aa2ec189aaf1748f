// Package staging parses the external register and funding feed CSV files
// into staged records ready for reconciliation.
package staging

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"qualrecon/internal/domain/register"
	"qualrecon/internal/errs"
)

// Column names are matched case-insensitively against the CSV header. Only
// the identity columns are mandatory; missing snapshot columns stay zero.
const (
	columnQan               = "qan"
	columnTitle             = "title"
	columnUkprn             = "ukprn"
	columnOrganisationName  = "organisation_name"
	columnAcronym           = "organisation_acronym"
	columnRecognitionNumber = "organisation_recognition_number"

	columnOfferName        = "offer_name"
	columnFundingAvailable = "funding_available"
	columnStartDate        = "start_date"
	columnEndDate          = "end_date"
)

var dateLayouts = []string{"2006-01-02", time.RFC3339, "02/01/2006"}

type header struct {
	indexes map[string]int
}

func parseHeader(fields []string) header {
	indexes := make(map[string]int, len(fields))
	for i, field := range fields {
		name := strings.ToLower(strings.TrimSpace(field))
		if name == "" {
			continue
		}
		indexes[name] = i
	}
	return header{indexes: indexes}
}

func (h header) str(row []string, name string) string {
	i, ok := h.indexes[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (h header) intPtr(row []string, name string) (*int, error) {
	raw := h.str(row, name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", name, err)
	}
	return &value, nil
}

func (h header) boolValue(row []string, name string) (bool, error) {
	raw := h.str(row, name)
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(strings.ToLower(raw))
	if err != nil {
		return false, fmt.Errorf("column %s: %w", name, err)
	}
	return value, nil
}

func (h header) boolPtr(row []string, name string) (*bool, error) {
	raw := h.str(row, name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(strings.ToLower(raw))
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", name, err)
	}
	return &value, nil
}

func (h header) datePtr(row []string, name string) (*time.Time, error) {
	raw := h.str(row, name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if value, err := time.Parse(layout, raw); err == nil {
			utc := value.UTC()
			return &utc, nil
		}
	}
	return nil, fmt.Errorf("column %s: unparseable date %q", name, raw)
}

// ParseRegisterCSV reads the staged register feed. Rows missing a QAN or a
// parseable UKPRN fail the whole load; the feed is expected to be clean.
func ParseRegisterCSV(r io.Reader) ([]register.StagedRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headerRow, err := reader.Read()
	if err != nil {
		return nil, errs.Wrap(err, "read register csv header")
	}
	h := parseHeader(headerRow)
	if _, ok := h.indexes[columnQan]; !ok {
		return nil, fmt.Errorf("register csv is missing the %s column", columnQan)
	}
	if _, ok := h.indexes[columnUkprn]; !ok {
		return nil, fmt.Errorf("register csv is missing the %s column", columnUkprn)
	}

	var records []register.StagedRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.Wrapf(err, "read register csv line %d", line+1)
		}
		line++

		rec, err := parseRegisterRow(h, row)
		if err != nil {
			return nil, errs.Wrapf(err, "register csv line %d", line)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRegisterRow(h header, row []string) (register.StagedRecord, error) {
	rec := register.StagedRecord{
		Qan:                           h.str(row, columnQan),
		QualificationName:             h.str(row, columnTitle),
		OrganisationName:              h.str(row, columnOrganisationName),
		OrganisationAcronym:           h.str(row, columnAcronym),
		OrganisationRecognitionNumber: h.str(row, columnRecognitionNumber),
	}
	if rec.Qan == "" {
		return rec, fmt.Errorf("column %s is required", columnQan)
	}

	ukprnRaw := h.str(row, columnUkprn)
	ukprn, err := strconv.ParseInt(ukprnRaw, 10, 64)
	if err != nil {
		return rec, fmt.Errorf("column %s: %w", columnUkprn, err)
	}
	rec.Ukprn = ukprn

	rec.Status = h.str(row, "status")
	rec.QualificationType = h.str(row, "qualification_type")
	rec.Ssa = h.str(row, "ssa")
	rec.Level = h.str(row, "level")
	rec.SubLevel = h.str(row, "sub_level")
	rec.EqfLevel = h.str(row, "eqf_level")
	rec.GradingType = h.str(row, "grading_type")
	rec.GradingScale = h.str(row, "grading_scale")
	rec.Specialism = h.str(row, "specialism")
	rec.Pathways = h.str(row, "pathways")
	rec.AssessmentMethods = h.str(row, "assessment_methods")
	rec.ApprovedForDelFundedProgramme = h.str(row, "approved_for_del_funded_programme")
	rec.LinkToSpecification = h.str(row, "link_to_specification")
	rec.ApprenticeshipStandardReferenceNumber = h.str(row, "apprenticeship_standard_reference_number")
	rec.ApprenticeshipStandardTitle = h.str(row, "apprenticeship_standard_title")
	rec.NiDiscountCode = h.str(row, "ni_discount_code")
	rec.GceSizeEquivalence = h.str(row, "gce_size_equivalence")
	rec.GcseSizeEquivalence = h.str(row, "gcse_size_equivalence")
	rec.EntitlementFrameworkDesign = h.str(row, "entitlement_framework_design")

	if rec.TotalCredits, err = h.intPtr(row, "total_credits"); err != nil {
		return rec, err
	}
	if rec.Tqt, err = h.intPtr(row, "tqt"); err != nil {
		return rec, err
	}
	if rec.Glh, err = h.intPtr(row, "glh"); err != nil {
		return rec, err
	}
	if rec.MinimumGlh, err = h.intPtr(row, "minimum_glh"); err != nil {
		return rec, err
	}
	if rec.MaximumGlh, err = h.intPtr(row, "maximum_glh"); err != nil {
		return rec, err
	}

	if rec.RegulationStartDate, err = h.datePtr(row, "regulation_start_date"); err != nil {
		return rec, err
	}
	if rec.OperationalStartDate, err = h.datePtr(row, "operational_start_date"); err != nil {
		return rec, err
	}
	if rec.OperationalEndDate, err = h.datePtr(row, "operational_end_date"); err != nil {
		return rec, err
	}
	if rec.CertificationEndDate, err = h.datePtr(row, "certification_end_date"); err != nil {
		return rec, err
	}
	if rec.ReviewDate, err = h.datePtr(row, "review_date"); err != nil {
		return rec, err
	}
	if rec.AppealDate, err = h.datePtr(row, "appeal_date"); err != nil {
		return rec, err
	}
	if rec.LastUpdatedDate, err = h.datePtr(row, "last_updated_date"); err != nil {
		return rec, err
	}
	if rec.UiLastUpdatedDate, err = h.datePtr(row, "ui_last_updated_date"); err != nil {
		return rec, err
	}
	if rec.InsertedDate, err = h.datePtr(row, "inserted_date"); err != nil {
		return rec, err
	}

	if rec.OfferedInEngland, err = h.boolValue(row, "offered_in_england"); err != nil {
		return rec, err
	}
	if rec.OfferedInNorthernIreland, err = h.boolPtr(row, "offered_in_northern_ireland"); err != nil {
		return rec, err
	}
	if rec.OfferedInternationally, err = h.boolPtr(row, "offered_internationally"); err != nil {
		return rec, err
	}
	if rec.RegulatedByNorthernIreland, err = h.boolPtr(row, "regulated_by_northern_ireland"); err != nil {
		return rec, err
	}

	return rec, nil
}

// ParseFundingCSV reads the external funding offer feed.
func ParseFundingCSV(r io.Reader) ([]register.ImportedOffer, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headerRow, err := reader.Read()
	if err != nil {
		return nil, errs.Wrap(err, "read funding csv header")
	}
	h := parseHeader(headerRow)
	for _, required := range []string{columnQan, columnOfferName} {
		if _, ok := h.indexes[required]; !ok {
			return nil, fmt.Errorf("funding csv is missing the %s column", required)
		}
	}

	var offers []register.ImportedOffer
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.Wrapf(err, "read funding csv line %d", line+1)
		}
		line++

		offer := register.ImportedOffer{
			Qan:  h.str(row, columnQan),
			Name: h.str(row, columnOfferName),
		}
		if offer.Qan == "" {
			return nil, fmt.Errorf("funding csv line %d: column %s is required", line, columnQan)
		}
		if offer.Name == "" {
			return nil, fmt.Errorf("funding csv line %d: column %s is required", line, columnOfferName)
		}
		if offer.FundingAvailable, err = h.boolValue(row, columnFundingAvailable); err != nil {
			return nil, fmt.Errorf("funding csv line %d: %w", line, err)
		}
		if offer.StartDate, err = h.datePtr(row, columnStartDate); err != nil {
			return nil, fmt.Errorf("funding csv line %d: %w", line, err)
		}
		if offer.EndDate, err = h.datePtr(row, columnEndDate); err != nil {
			return nil, fmt.Errorf("funding csv line %d: %w", line, err)
		}
		offers = append(offers, offer)
	}
	return offers, nil
}
