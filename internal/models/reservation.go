package models

// Reservation represents a named hold over a set of locations
type Reservation struct {
	ID          string            `json:"id"`
	LocationIDs []string          `json:"location_ids"`
	Ref         string            `json:"ref,omitempty"`
	FromTS      string            `json:"from_ts,omitempty"`
	UntilTS     string            `json:"until_ts,omitempty"`
	Status      ReservationStatus `json:"status"`
}

// ReservationStatus represents the lifecycle state of a reservation
type ReservationStatus string

const (
	// Reservation statuses. Only ACTIVE is produced today; the others
	// exist so cancellation and expiry can be represented later.
	ReservationActive    ReservationStatus = "ACTIVE"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationExpired   ReservationStatus = "EXPIRED"
)
