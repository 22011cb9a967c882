package models

import "github.com/google/uuid"

// CTACategory groups call-to-action buttons for display.
type CTACategory struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Icon string    `json:"icon,omitempty"`
}

// CTAButton is display metadata attached to a pin. Stored buttons are
// curated in the admin; the API also derives website/booking/directions
// buttons at read time.
type CTAButton struct {
	ID         uuid.UUID `json:"id,omitempty"`
	Text       string    `json:"text"`
	BtnColor   string    `json:"btncolor,omitempty"`
	URL        string    `json:"url"`
	Pin        PinRef    `json:"-"`
	CategoryID uuid.UUID `json:"-"`
	Category   string    `json:"category,omitempty"`
	BtnRanking int       `json:"btn_ranking"`
	CatRanking int       `json:"cat_ranking"`
	BtnSize    string    `json:"btn_size"`
	Published  bool      `json:"-"`
}
