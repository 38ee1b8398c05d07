package models

import (
	"time"

	"github.com/google/uuid"
)

// Summary is the single rolling status record of a project.
type Summary struct {
	ID         uuid.UUID  `json:"id"`
	SoftwareID uuid.UUID  `json:"softwareId"`
	Summary    string     `json:"summary"`
	NextSteps  string     `json:"nextSteps"`
	Deadline   *time.Time `json:"deadline"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// UpsertSummaryRequest is the payload for creating or replacing a summary.
// Deadline accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
type UpsertSummaryRequest struct {
	Summary   string  `json:"summary"`
	NextSteps string  `json:"nextSteps"`
	Deadline  *string `json:"deadline"`
}
