package models

import (
	"time"

	"github.com/google/uuid"
)

// PostPlatform is a registry entry for a content platform (YouTube,
// Instagram, ...). Name and code are each unique.
type PostPlatform struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Website   string    `json:"website,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// SocialPost is a social-media post linked to at most one pin. Link is
// globally unique and serves as the import idempotency key. The pin link
// and the inherited location hierarchy are set once at import time.
type SocialPost struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	PlatformID  *uuid.UUID    `json:"-"`
	Platform    *PostPlatform `json:"platform,omitempty"`
	Link        string        `json:"link"`
	Description string        `json:"description,omitempty"`
	Language    string        `json:"language,omitempty"`
	Published   bool          `json:"published"`
	Pin         *PinRef       `json:"pin,omitempty"`
	CountryID   *uuid.UUID    `json:"-"`
	StateID     *uuid.UUID    `json:"-"`
	CityID      *uuid.UUID    `json:"-"`
	Tags        []string      `json:"tags"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
