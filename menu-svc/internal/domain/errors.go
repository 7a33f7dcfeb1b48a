package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNoValidItems      = errors.New("no valid items found in text")
	ErrInconsistentState = errors.New("inconsistent state")
	ErrInvalidHierarchy  = errors.New("invalid category hierarchy")
)

type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// SchemaInvalidError carries every structural violation found in a document.
type SchemaInvalidError struct {
	Violations []Violation
}

func (e *SchemaInvalidError) Error() string {
	if len(e.Violations) == 1 {
		return fmt.Sprintf("schema invalid: %s: %s", e.Violations[0].Path, e.Violations[0].Message)
	}
	return fmt.Sprintf("schema invalid: %d violations", len(e.Violations))
}

type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return "parse error: " + e.Message
}

type CategoryLinkError struct {
	CategoryID string
}

func (e *CategoryLinkError) Error() string {
	return fmt.Sprintf("category link failed: category id %q not found in categories list", e.CategoryID)
}
