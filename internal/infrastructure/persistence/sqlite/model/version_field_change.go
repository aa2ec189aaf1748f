package model

type VersionFieldChange struct {
	ID                uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	VersionNumber     int    `gorm:"column:version_number;not null"`
	ChangedFieldNames string `gorm:"column:changed_field_names;type:text;not null"`
}

func (VersionFieldChange) TableName() string {
	return "version_field_changes"
}
