package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Application is one tracked job application owned by a user.
// Timeline holds a JSON history of status changes appended on update.
type Application struct {
	gorm.Model
	UserID   uint           `gorm:"column:user_id;index;not null"`
	Company  string         `gorm:"column:company;not null"`
	Position string         `gorm:"column:position;not null"`
	Status   string         `gorm:"column:status;default:pending;not null"`
	JobType  string         `gorm:"column:job_type;default:full-time;not null"`
	Location string         `gorm:"column:location"`
	Notes    string         `gorm:"column:notes"`
	Timeline datatypes.JSON `gorm:"column:timeline"`
}

// TimelineEntry is one element of an application's status history.
type TimelineEntry struct {
	Status    string `json:"status"`
	ChangedAt string `json:"changed_at"`
}
