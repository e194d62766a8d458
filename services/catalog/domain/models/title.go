package models

import "fmt"

// Title is a value object representing a valid listing title.
// Encapsulates validation rules: 1 <= len(title) <= 255.
type Title string

const (
	minTitleLength = 1
	maxTitleLength = 255
)

// NewTitle constructs a valid Title or returns an error if constraints are violated.
func NewTitle(s string) (Title, error) {
	if len(s) < minTitleLength {
		return "", fmt.Errorf("listing title must be at least %d character", minTitleLength)
	}
	if len(s) > maxTitleLength {
		return "", fmt.Errorf("listing title must not exceed %d characters", maxTitleLength)
	}
	return Title(s), nil
}

// String returns the underlying string value.
func (t Title) String() string {
	return string(t)
}
