package model

import "time"

// StagedQualification mirrors the register feed row-for-row; it is read in
// pages by the reconciliation engine and never mutated by it.
type StagedQualification struct {
	ID                            uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	Qan                           string `gorm:"column:qan;type:text;not null;index"`
	QualificationName             string `gorm:"column:qualification_name;type:text;not null"`
	Ukprn                         int64  `gorm:"column:ukprn;not null"`
	OrganisationName              string `gorm:"column:organisation_name;type:text;not null"`
	OrganisationAcronym           string `gorm:"column:organisation_acronym;type:text;not null"`
	OrganisationRecognitionNumber string `gorm:"column:organisation_recognition_number;type:text;not null"`

	Status                                string     `gorm:"column:status;type:text;not null"`
	QualificationType                     string     `gorm:"column:qualification_type;type:text;not null"`
	Ssa                                   string     `gorm:"column:ssa;type:text;not null"`
	Level                                 string     `gorm:"column:level;type:text;not null"`
	SubLevel                              string     `gorm:"column:sub_level;type:text;not null"`
	EqfLevel                              string     `gorm:"column:eqf_level;type:text;not null"`
	GradingType                           string     `gorm:"column:grading_type;type:text;not null"`
	GradingScale                          string     `gorm:"column:grading_scale;type:text;not null"`
	TotalCredits                          *int       `gorm:"column:total_credits"`
	Tqt                                   *int       `gorm:"column:tqt"`
	Glh                                   *int       `gorm:"column:glh"`
	MinimumGlh                            *int       `gorm:"column:minimum_glh"`
	MaximumGlh                            *int       `gorm:"column:maximum_glh"`
	RegulationStartDate                   *time.Time `gorm:"column:regulation_start_date"`
	OperationalStartDate                  *time.Time `gorm:"column:operational_start_date"`
	OperationalEndDate                    *time.Time `gorm:"column:operational_end_date"`
	CertificationEndDate                  *time.Time `gorm:"column:certification_end_date"`
	ReviewDate                            *time.Time `gorm:"column:review_date"`
	AppealDate                            *time.Time `gorm:"column:appeal_date"`
	OfferedInEngland                      bool       `gorm:"column:offered_in_england;not null;default:0"`
	OfferedInNorthernIreland              *bool      `gorm:"column:offered_in_northern_ireland"`
	OfferedInternationally                *bool      `gorm:"column:offered_internationally"`
	Specialism                            string     `gorm:"column:specialism;type:text;not null"`
	Pathways                              string     `gorm:"column:pathways;type:text;not null"`
	AssessmentMethods                     string     `gorm:"column:assessment_methods;type:text;not null"`
	ApprovedForDelFundedProgramme         string     `gorm:"column:approved_for_del_funded_programme;type:text;not null"`
	LinkToSpecification                   string     `gorm:"column:link_to_specification;type:text;not null"`
	ApprenticeshipStandardReferenceNumber string     `gorm:"column:apprenticeship_standard_reference_number;type:text;not null"`
	ApprenticeshipStandardTitle           string     `gorm:"column:apprenticeship_standard_title;type:text;not null"`
	RegulatedByNorthernIreland            *bool      `gorm:"column:regulated_by_northern_ireland"`
	NiDiscountCode                        string     `gorm:"column:ni_discount_code;type:text;not null"`
	GceSizeEquivalence                    string     `gorm:"column:gce_size_equivalence;type:text;not null"`
	GcseSizeEquivalence                   string     `gorm:"column:gcse_size_equivalence;type:text;not null"`
	EntitlementFrameworkDesign            string     `gorm:"column:entitlement_framework_design;type:text;not null"`
	LastUpdatedDate                       *time.Time `gorm:"column:last_updated_date"`
	UiLastUpdatedDate                     *time.Time `gorm:"column:ui_last_updated_date"`
	InsertedDate                          *time.Time `gorm:"column:inserted_date"`
}

func (StagedQualification) TableName() string {
	return "staged_qualifications"
}
