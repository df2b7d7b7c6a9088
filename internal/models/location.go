package models

// Location represents a single physical storage slot in the warehouse
type Location struct {
	ID       string   `json:"id"`
	AreaID   string   `json:"area_id"`
	AreaType AreaType `json:"area_type"`

	// Positional coordinates apply to RACKED locations only
	Aisle    *int `json:"aisle,omitempty"`
	Bay      *int `json:"bay,omitempty"`
	Level    *int `json:"level,omitempty"`
	Position *int `json:"position,omitempty"`

	LengthMM    int `json:"length_mm"`
	WidthMM     int `json:"width_mm"`
	HeightMM    int `json:"height_mm"`
	MaxWeightKG int `json:"max_weight_kg"`

	Status  LocationStatus `json:"status"`
	GroupID string         `json:"group_id"`
}

// LocationStatus represents the occupancy status of a location
type LocationStatus string

const (
	// Location statuses
	StatusFree     LocationStatus = "FREE"
	StatusOccupied LocationStatus = "OCCUPIED"
	StatusReserved LocationStatus = "RESERVED"
	StatusBlocked  LocationStatus = "BLOCKED"
	StatusMaint    LocationStatus = "MAINT"
)

// Valid reports whether s is one of the defined location statuses
func (s LocationStatus) Valid() bool {
	switch s {
	case StatusFree, StatusOccupied, StatusReserved, StatusBlocked, StatusMaint:
		return true
	}
	return false
}

// AreaType represents the kind of zone a location belongs to
type AreaType string

const (
	// Area types
	AreaRacked AreaType = "RACKED"
	AreaFlex   AreaType = "FLEX"
	AreaDock   AreaType = "DOCK"
	AreaYard   AreaType = "YARD"
)

// Valid reports whether t is one of the defined area types
func (t AreaType) Valid() bool {
	switch t {
	case AreaRacked, AreaFlex, AreaDock, AreaYard:
		return true
	}
	return false
}
