package models

import (
	"time"

	"github.com/google/uuid"
)

// ActionType classifies a change recorded in the activity ledger.
type ActionType string

const (
	ActionAdded   ActionType = "added"
	ActionUpdated ActionType = "updated"
	ActionRemoved ActionType = "removed"
)

// Valid reports whether a is one of the known action kinds.
func (a ActionType) Valid() bool {
	switch a {
	case ActionAdded, ActionUpdated, ActionRemoved:
		return true
	}
	return false
}

// ActivityLogEntry is one immutable change event recorded against a project.
// Software is only populated on reads that join the owning project.
type ActivityLogEntry struct {
	ID          uuid.UUID    `json:"id"`
	SoftwareID  uuid.UUID    `json:"softwareId"`
	ActionType  ActionType   `json:"actionType"`
	Description string       `json:"description"`
	CreatedAt   time.Time    `json:"createdAt"`
	Software    *SoftwareRef `json:"software,omitempty"`
}

// AppendActivityRequest is the payload for logging a change.
type AppendActivityRequest struct {
	SoftwareID  string `json:"softwareId" binding:"required"`
	ActionType  string `json:"actionType" binding:"required,oneof=added updated removed"`
	Description string `json:"description" binding:"required"`
}

// AppendActivityResponse mirrors the acknowledgement shape clients expect.
type AppendActivityResponse struct {
	Success  bool             `json:"success"`
	Activity ActivityLogEntry `json:"activity"`
}

// RecentActivityParams are the query parameters of the recent activity view.
type RecentActivityParams struct {
	Limit int `form:"limit"`
}
