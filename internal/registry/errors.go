package registry

import (
	"fmt"

	"warespace/internal/models"
)

// NotFoundError reports a referenced location id that does not exist in the
// catalogue. ID may be empty when the operation cannot attribute the miss to
// a single id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return "location not found"
	}
	return fmt.Sprintf("location %s not found", e.ID)
}

// ConflictError reports a location whose current status disallows the
// requested transition.
type ConflictError struct {
	ID     string
	Status models.LocationStatus
	Op     string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("location %s is %s, cannot %s", e.ID, e.Status, e.Op)
}

// ReservationNotFoundError reports a missing reservation id
type ReservationNotFoundError struct {
	ID string
}

func (e *ReservationNotFoundError) Error() string {
	return fmt.Sprintf("reservation %s not found", e.ID)
}
