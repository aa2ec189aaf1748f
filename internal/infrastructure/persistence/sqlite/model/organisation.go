package model

type Organisation struct {
	ID                uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	Ukprn             int64  `gorm:"column:ukprn;not null;uniqueIndex"`
	RecognitionNumber string `gorm:"column:recognition_number;type:text;not null"`
	NameOfqual        string `gorm:"column:name_ofqual;type:text;not null"`
	Acronym           string `gorm:"column:acronym;type:text;not null"`
}

func (Organisation) TableName() string {
	return "organisations"
}
