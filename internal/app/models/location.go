package models

import (
	"time"

	"github.com/google/uuid"
)

// Country is the root of the location hierarchy. Boundary geometry is kept
// as WKT; countries created by the importer get the triggering pin's point
// as a degenerate boundary.
type Country struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Geometry  string    `json:"geometry,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// State belongs to exactly one country; (country_id, name) is unique.
// States created on a fuzzy miss carry no geometry.
type State struct {
	ID        uuid.UUID `json:"id"`
	CountryID uuid.UUID `json:"country_id"`
	Name      string    `json:"name"`
	Geometry  string    `json:"geometry,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// City belongs to exactly one state; (state_id, name) is unique.
type City struct {
	ID        uuid.UUID `json:"id"`
	StateID   uuid.UUID `json:"state_id"`
	Name      string    `json:"name"`
	Geometry  string    `json:"geometry,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CityHierarchy carries a city together with its resolved ancestors, as
// needed when a social post inherits the location of a matched pin.
type CityHierarchy struct {
	CityID    uuid.UUID
	StateID   uuid.UUID
	CountryID uuid.UUID
}
