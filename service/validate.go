package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"devtrack/models"
	"devtrack/validation"
)

// missingIDSentinel is what the web client sends when it has no project id
// yet. It is rejected as a missing id, never looked up.
const missingIDSentinel = "undefined"

// parseSoftwareID validates a project id supplied for a write.
func parseSoftwareID(raw string) (uuid.UUID, *models.FieldError) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == missingIDSentinel {
		return uuid.Nil, &models.FieldError{Field: "softwareId", Message: "invalid software ID"}
	}
	id, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, &models.FieldError{Field: "softwareId", Message: "invalid software ID"}
	}
	return id, nil
}

// softwareID is parseSoftwareID for writes where the id is the only input.
func softwareID(raw string) (uuid.UUID, error) {
	id, fieldErr := parseSoftwareID(raw)
	if fieldErr != nil {
		return uuid.Nil, &models.ValidationError{Errors: []models.FieldError{*fieldErr}}
	}
	return id, nil
}

// lookupID parses an id used only to find a project. Anything that is not a
// UUID cannot name a stored project, so ok is false and callers answer as
// they would for an unknown id.
func lookupID(raw string) (id uuid.UUID, ok bool) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	return id, err == nil
}

// targetID resolves the project a summary write is aimed at. A missing id
// is invalid input; a malformed one names no project.
func targetID(raw string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == missingIDSentinel {
		return softwareID(raw)
	}
	id, ok := lookupID(trimmed)
	if !ok {
		return uuid.Nil, fmt.Errorf("software %q: %w", trimmed, models.ErrNotFound)
	}
	return id, nil
}

func validateSoftware(req models.CreateSoftwareRequest) error {
	return validation.Struct(req)
}

func validateActivity(req models.AppendActivityRequest) (uuid.UUID, error) {
	errs := validation.Fields(req)

	id, fieldErr := parseSoftwareID(req.SoftwareID)
	if fieldErr != nil && !hasField(errs, fieldErr.Field) {
		errs = append(errs, *fieldErr)
	}

	if len(errs) > 0 {
		return uuid.Nil, &models.ValidationError{Errors: errs}
	}
	return id, nil
}

func validateComment(rawSoftwareID string, req models.CreateCommentRequest) (uuid.UUID, error) {
	errs := validation.Fields(req)

	id, fieldErr := parseSoftwareID(rawSoftwareID)
	if fieldErr != nil {
		errs = append(errs, *fieldErr)
	}

	if len(errs) > 0 {
		return uuid.Nil, &models.ValidationError{Errors: errs}
	}
	return id, nil
}

func hasField(errs []models.FieldError, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

// authorOrDefault returns the author as given, or DefaultAuthor when absent
// or blank.
func authorOrDefault(author *string) string {
	if author == nil || strings.TrimSpace(*author) == "" {
		return models.DefaultAuthor
	}
	return *author
}

// parseDeadline accepts a calendar date or an RFC 3339 timestamp. Absent or
// blank means no deadline.
func parseDeadline(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)

	if d, err := time.Parse(time.DateOnly, value); err == nil {
		return &d, nil
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		d := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		return &d, nil
	}
	return nil, models.NewValidationError("deadline", "must be a date (2006-01-02) or RFC 3339 timestamp")
}

func validateLimit(limit, defaultLimit, maxLimit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
