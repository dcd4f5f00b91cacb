package dto

import "time"

type CreateApplicationRequest struct {
	Company  string `json:"company" binding:"required,min=1,max=100"`
	Position string `json:"position" binding:"required,min=1,max=100"`
	Status   string `json:"status" binding:"omitempty,oneof=pending interview declined offer"`
	JobType  string `json:"job_type" binding:"omitempty,oneof=full-time part-time remote internship"`
	Location string `json:"location" binding:"omitempty,max=100"`
	Notes    string `json:"notes" binding:"omitempty,max=2000"`
}

type UpdateApplicationRequest struct {
	Company  string `json:"company" binding:"omitempty,min=1,max=100"`
	Position string `json:"position" binding:"omitempty,min=1,max=100"`
	Status   string `json:"status" binding:"omitempty,oneof=pending interview declined offer"`
	JobType  string `json:"job_type" binding:"omitempty,oneof=full-time part-time remote internship"`
	Location string `json:"location" binding:"omitempty,max=100"`
	Notes    string `json:"notes" binding:"omitempty,max=2000"`
}

// ApplicationFilter narrows list queries. Empty fields mean no filter.
type ApplicationFilter struct {
	Status  string `form:"status" binding:"omitempty,oneof=pending interview declined offer"`
	JobType string `form:"job_type" binding:"omitempty,oneof=full-time part-time remote internship"`
}

type ApplicationResponse struct {
	ID        uint      `json:"id"`
	Company   string    `json:"company"`
	Position  string    `json:"position"`
	Status    string    `json:"status"`
	JobType   string    `json:"job_type"`
	Location  string    `json:"location,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Timeline  any       `json:"timeline,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatsResponse aggregates a user's applications for the dashboard.
type StatsResponse struct {
	Defaults            map[string]int64     `json:"defaults"`
	MonthlyApplications []MonthlyApplication `json:"monthly_applications"`
}

// MonthlyApplication is one month's application count, oldest first.
type MonthlyApplication struct {
	Date  string `json:"date"` // "Jan 2026"
	Count int64  `json:"count"`
}

type LetterRequest struct {
	Tone string `json:"tone" binding:"omitempty,oneof=formal friendly enthusiastic"`
}

type LetterResponse struct {
	Letter string `json:"letter"`
}
