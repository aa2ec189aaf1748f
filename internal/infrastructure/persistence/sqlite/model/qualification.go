package model

type Qualification struct {
	ID                uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	Qan               string `gorm:"column:qan;type:text;not null;uniqueIndex"`
	QualificationName string `gorm:"column:qualification_name;type:text;not null"`
}

func (Qualification) TableName() string {
	return "qualifications"
}
