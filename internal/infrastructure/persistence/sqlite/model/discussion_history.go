package model

import "time"

type QualificationDiscussionHistory struct {
	ID              uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	QualificationID uint64    `gorm:"column:qualification_id;not null;index"`
	ActionTypeID    uint64    `gorm:"column:action_type_id;not null"`
	Notes           string    `gorm:"column:notes;type:text;not null"`
	Timestamp       time.Time `gorm:"column:timestamp;not null"`
	UserDisplayName string    `gorm:"column:user_display_name;type:text;not null"`
}

func (QualificationDiscussionHistory) TableName() string {
	return "qualification_discussion_history"
}
