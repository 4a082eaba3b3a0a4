package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by every NotFoundError through errors.Is
var ErrNotFound = errors.New("not found")

// NotFoundError is returned when no document exists for the requested key
type NotFoundError struct {
	Collection string
	ID         string
}

func (e *NotFoundError) Error() string {
	if e.Collection == "" {
		return fmt.Sprintf("document %q not found", e.ID)
	}
	return fmt.Sprintf("document %q not found in %s", e.ID, e.Collection)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
