package models

import (
	"time"

	"github.com/google/uuid"
)

// Software is a tracked project. It owns every activity entry, comment
// and summary that references it.
type Software struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Developer   string    `json:"developer"`
	Stack       string    `json:"stack"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateSoftwareRequest is the payload for registering a project.
// Name, version and developer are limited to 255 characters.
type CreateSoftwareRequest struct {
	Name        string  `json:"name" binding:"required,notblank,max=255"`
	Version     string  `json:"version" binding:"required,notblank,max=255"`
	Developer   string  `json:"developer" binding:"required,notblank,max=255"`
	Stack       string  `json:"stack" binding:"required,notblank"`
	Description *string `json:"description"`
}

// SoftwareRef is the read-time projection of the owning project that is
// attached to activity entries and comments.
type SoftwareRef struct {
	Name string `json:"name"`
}
