package errors

import (
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// MaxTitleLength is the longest task title accepted, in characters.
const MaxTitleLength = 255

// ValidateTitle validates a task title and returns it trimmed.
//
// The validation rules:
//   - Not empty after trimming whitespace
//   - No control characters
//   - Maximum length of MaxTitleLength characters (runes, not bytes)
func ValidateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", New(ErrCodeInvalidInput, "Title is required")
	}

	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", New(ErrCodeInvalidInput, "title too long (max %d characters)", MaxTitleLength)
	}

	for _, r := range title {
		if unicode.IsControl(r) {
			return "", New(ErrCodeInvalidInput, "title contains invalid control characters")
		}
	}

	return title, nil
}

// ParseTaskID parses a task identifier from its textual form (a URL path
// segment or a CLI argument). Identifiers are positive integers.
func ParseTaskID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, New(ErrCodeInvalidID, "Invalid ID")
	}
	if err := ValidateTaskID(id); err != nil {
		return 0, err
	}
	return id, nil
}

// ValidateTaskID rejects non-positive identifiers. Storage assigns ids
// starting at 1, so zero and negative values can never name a task.
func ValidateTaskID(id int64) error {
	if id <= 0 {
		return New(ErrCodeInvalidID, "Invalid ID: %d", id)
	}
	return nil
}

// ValidateTaskIDs checks every id in ids with ValidateTaskID.
func ValidateTaskIDs(ids []int64) error {
	for _, id := range ids {
		if err := ValidateTaskID(id); err != nil {
			return err
		}
	}
	return nil
}

// ParseDueDate parses an optional due date.
//
// An empty string means "no due date" and yields nil. A calendar date in
// YYYY-MM-DD form is placed at noon in loc so that it never shifts to a
// neighbouring day when rendered in another time zone. Full RFC 3339
// timestamps are accepted as-is.
func ParseDueDate(raw string, loc *time.Location) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}

	if d, err := time.ParseInLocation(time.DateOnly, raw, loc); err == nil {
		noon := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, loc)
		return &noon, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return &ts, nil
	}
	return nil, New(ErrCodeInvalidDate, "invalid due date %q (want YYYY-MM-DD)", raw)
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
