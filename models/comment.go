package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultAuthor is recorded when a reviewer leaves the author blank.
const DefaultAuthor = "Anonymous"

// Comment is free-text feedback on a project.
type Comment struct {
	ID         uuid.UUID    `json:"id"`
	SoftwareID uuid.UUID    `json:"softwareId"`
	Comment    string       `json:"comment"`
	Author     string       `json:"author"`
	CreatedAt  time.Time    `json:"createdAt"`
	Software   *SoftwareRef `json:"software,omitempty"`
}

// CreateCommentRequest is the payload for leaving a review. The project
// comes from the URL.
type CreateCommentRequest struct {
	Comment string  `json:"comment" binding:"required,notblank"`
	Author  *string `json:"author" binding:"omitempty,max=255"`
}
