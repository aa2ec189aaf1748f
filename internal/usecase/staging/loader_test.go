package staging

import (
	"strings"
	"testing"
	"time"
)

func TestParseRegisterCSV(t *testing.T) {
	csvData := `qan,title,ukprn,organisation_name,organisation_acronym,level,glh,tqt,operational_start_date,offered_in_england
60012345,Level 2 Certificate in Plumbing,10001,City Awarding Body,CAB,2,120,150,2019-08-01,true
60012346,Level 3 Diploma in Plumbing,10001,City Awarding Body,CAB,3,,,2020-01-15,false
`
	records, err := ParseRegisterCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ParseRegisterCSV() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("ParseRegisterCSV() len = %d, want 2", len(records))
	}

	first := records[0]
	if first.Qan != "60012345" || first.Ukprn != 10001 {
		t.Fatalf("first record identity = %q/%d", first.Qan, first.Ukprn)
	}
	if first.Glh == nil || *first.Glh != 120 {
		t.Fatalf("first record glh = %v", first.Glh)
	}
	if !first.OfferedInEngland {
		t.Fatal("first record should be offered in England")
	}
	want := time.Date(2019, time.August, 1, 0, 0, 0, 0, time.UTC)
	if first.OperationalStartDate == nil || !first.OperationalStartDate.Equal(want) {
		t.Fatalf("first record start date = %v", first.OperationalStartDate)
	}

	second := records[1]
	if second.Glh != nil || second.Tqt != nil {
		t.Fatalf("empty workload columns should stay nil: glh=%v tqt=%v", second.Glh, second.Tqt)
	}
	if second.OfferedInEngland {
		t.Fatal("second record should not be offered in England")
	}
}

func TestParseRegisterCSVMissingQanColumn(t *testing.T) {
	csvData := "title,ukprn\nfoo,10001\n"
	if _, err := ParseRegisterCSV(strings.NewReader(csvData)); err == nil {
		t.Fatal("ParseRegisterCSV() expected error for missing qan column")
	}
}

func TestParseRegisterCSVBadUkprn(t *testing.T) {
	csvData := "qan,ukprn\n60012345,not-a-number\n"
	if _, err := ParseRegisterCSV(strings.NewReader(csvData)); err == nil {
		t.Fatal("ParseRegisterCSV() expected error for bad ukprn")
	}
}

func TestParseFundingCSV(t *testing.T) {
	csvData := `qan,offer_name,funding_available,start_date,end_date
60012345,Age 16-18,true,2023-08-01,2024-07-31
60012345,Age 19+,false,,
`
	offers, err := ParseFundingCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ParseFundingCSV() error = %v", err)
	}
	if len(offers) != 2 {
		t.Fatalf("ParseFundingCSV() len = %d, want 2", len(offers))
	}
	if offers[0].Name != "Age 16-18" || !offers[0].FundingAvailable {
		t.Fatalf("first offer = %+v", offers[0])
	}
	if offers[0].StartDate == nil || offers[0].EndDate == nil {
		t.Fatal("first offer should carry both dates")
	}
	if offers[1].FundingAvailable || offers[1].StartDate != nil {
		t.Fatalf("second offer = %+v", offers[1])
	}
}

func TestParseFundingCSVRequiresOfferName(t *testing.T) {
	csvData := "qan,offer_name\n60012345,\n"
	if _, err := ParseFundingCSV(strings.NewReader(csvData)); err == nil {
		t.Fatal("ParseFundingCSV() expected error for empty offer name")
	}
}
