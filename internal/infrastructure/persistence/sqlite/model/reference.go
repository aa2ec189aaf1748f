package model

type ActionType struct {
	ID   uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;type:text;not null;uniqueIndex"`
}

func (ActionType) TableName() string {
	return "action_types"
}

type ProcessStatus struct {
	ID   uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;type:text;not null;uniqueIndex"`
}

func (ProcessStatus) TableName() string {
	return "process_statuses"
}

type LifecycleStage struct {
	ID   uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;type:text;not null;uniqueIndex"`
}

func (LifecycleStage) TableName() string {
	return "lifecycle_stages"
}

type FundingOfferType struct {
	ID   uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;type:text;not null;uniqueIndex"`
}

func (FundingOfferType) TableName() string {
	return "funding_offer_types"
}
