package model

import "time"

type QualificationFunding struct {
	ID                     uint64     `gorm:"column:id;primaryKey;autoIncrement"`
	QualificationVersionID uint64     `gorm:"column:qualification_version_id;not null;index"`
	FundingOfferTypeID     uint64     `gorm:"column:funding_offer_type_id;not null"`
	StartDate              *time.Time `gorm:"column:start_date"`
	EndDate                *time.Time `gorm:"column:end_date"`
	Comments               string     `gorm:"column:comments;type:text;not null"`
}

func (QualificationFunding) TableName() string {
	return "qualification_fundings"
}

// QualificationFundingFeedback is recorded by the review UI but not read by
// the reconciliation passes while the approval gate stays disabled.
type QualificationFundingFeedback struct {
	ID                     uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	QualificationVersionID uint64 `gorm:"column:qualification_version_id;not null;index"`
	Approved               bool   `gorm:"column:approved;not null;default:0"`
	Comments               string `gorm:"column:comments;type:text;not null"`
}

func (QualificationFundingFeedback) TableName() string {
	return "qualification_funding_feedbacks"
}

type ImportedFundingOffer struct {
	ID               uint64     `gorm:"column:id;primaryKey;autoIncrement"`
	Qan              string     `gorm:"column:qan;type:text;not null;index"`
	Name             string     `gorm:"column:name;type:text;not null"`
	FundingAvailable bool       `gorm:"column:funding_available;not null;default:0"`
	StartDate        *time.Time `gorm:"column:start_date"`
	EndDate          *time.Time `gorm:"column:end_date"`
}

func (ImportedFundingOffer) TableName() string {
	return "imported_funding_offers"
}
