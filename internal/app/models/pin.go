package models

import (
	"time"

	"github.com/google/uuid"
)

// Category discriminates the thirteen pin variants. All variants share an
// identical shape, so pins live in one table keyed by this value.
type Category string

const (
	CategoryMainAttraction   Category = "main_attraction"
	CategoryThingsToDo       Category = "things_to_do"
	CategoryPlacesToVisit    Category = "places_to_visit"
	CategoryPlacesToEat      Category = "places_to_eat"
	CategoryMarket           Category = "market"
	CategoryCountryInfo      Category = "country_info"
	CategoryDestinationGuide Category = "destination_guide"
	CategoryPlaceInformation Category = "place_information"
	CategoryTravelHacks      Category = "travel_hacks"
	CategoryFestivals        Category = "festivals"
	CategoryFamousPhotoPoint Category = "famous_photo_point"
	CategoryActivities       Category = "activities"
	CategoryHotel            Category = "hotel"
)

// categoryInfo carries per-category presentation and lookup metadata.
type categoryInfo struct {
	display    string
	slugPrefix string
	tableName  string
	aliases    []string
}

// categoryOrder is the declaration order of the original category tables.
// Candidate tie-breaking depends on it, so it must stay stable.
var categoryOrder = []Category{
	CategoryMainAttraction,
	CategoryThingsToDo,
	CategoryPlacesToVisit,
	CategoryPlacesToEat,
	CategoryMarket,
	CategoryCountryInfo,
	CategoryDestinationGuide,
	CategoryPlaceInformation,
	CategoryTravelHacks,
	CategoryFestivals,
	CategoryFamousPhotoPoint,
	CategoryActivities,
	CategoryHotel,
}

var categoryRegistry = map[Category]categoryInfo{
	CategoryMainAttraction:   {"Main Attraction", "mainattraction", "main_attractions", nil},
	CategoryThingsToDo:       {"Things to Do", "thingstodo", "things_to_do", nil},
	CategoryPlacesToVisit:    {"Places to Visit", "placestovisit", "places_to_visit", nil},
	CategoryPlacesToEat:      {"Places to Eat", "placestoeat", "places_to_eat", nil},
	CategoryMarket:           {"Market", "market", "markets", []string{"Markets"}},
	CategoryCountryInfo:      {"Country Info", "countryinfo", "country_info", nil},
	CategoryDestinationGuide: {"Destination Guide", "destinationguide", "destination_guides", nil},
	CategoryPlaceInformation: {"Place Information", "placeinformation", "place_information", nil},
	CategoryTravelHacks:      {"Travel Hacks", "travelhacks", "travel_hacks", nil},
	CategoryFestivals:        {"Festivals", "festivals", "festivals", []string{"Festival"}},
	CategoryFamousPhotoPoint: {"Famous Photo Point", "famousphotopoint", "famous_photo_points", nil},
	CategoryActivities:       {"Activities", "activities", "activities", nil},
	CategoryHotel:            {"Hotel", "hotel", "hotels", []string{"Hotels"}},
}

// Categories returns all categories in declaration order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// Display returns the human-readable category name as it appears in CSVs.
func (c Category) Display() string { return categoryRegistry[c].display }

// SlugPrefix returns the compact prefix used when generating pin slugs.
func (c Category) SlugPrefix() string { return categoryRegistry[c].slugPrefix }

// TableName returns the public API path segment for the category.
func (c Category) TableName() string { return categoryRegistry[c].tableName }

// Aliases returns the display name plus any accepted CSV spellings.
func (c Category) Aliases() []string {
	info := categoryRegistry[c]
	return append([]string{info.display}, info.aliases...)
}

// Valid reports whether c is one of the thirteen known categories.
func (c Category) Valid() bool {
	_, ok := categoryRegistry[c]
	return ok
}

// CategoryFromDisplay maps an exact CSV category_name (e.g. "Main
// Attraction", "Hotels") to its category.
func CategoryFromDisplay(name string) (Category, bool) {
	for _, c := range categoryOrder {
		for _, alias := range c.Aliases() {
			if alias == name {
				return c, true
			}
		}
	}
	return "", false
}

// CategoryFromTableName maps an API path segment (e.g. "main_attractions")
// to its category.
func CategoryFromTableName(table string) (Category, bool) {
	for _, c := range categoryOrder {
		if categoryRegistry[c].tableName == table {
			return c, true
		}
	}
	return "", false
}

// TableNames returns the public path segments in declaration order, used
// for the "available tables" error payload.
func TableNames() []string {
	out := make([]string, 0, len(categoryOrder))
	for _, c := range categoryOrder {
		out = append(out, categoryRegistry[c].tableName)
	}
	return out
}

// Pin is a single geo-located point of interest. The slug is generated once
// at creation and never rewritten; (city_id, category, slug) is unique.
type Pin struct {
	ID          uuid.UUID  `json:"id"`
	Category    Category   `json:"type"`
	Name        string     `json:"name"`
	CityID      uuid.UUID  `json:"-"`
	CityName    string     `json:"city_name,omitempty"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	HeaderImage string     `json:"header_image,omitempty"`
	Icon        string     `json:"icon,omitempty"`
	MarkerIcon  string     `json:"marker_icon,omitempty"`
	Link        string     `json:"link,omitempty"`
	Rating      *float64   `json:"rating"`
	Published   bool       `json:"published"`
	CreatedBy   *uuid.UUID `json:"-"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// PinRef identifies a pin across categories, replacing the thirteen
// mutually exclusive foreign keys of the legacy schema.
type PinRef struct {
	Category Category  `json:"category"`
	ID       uuid.UUID `json:"id"`
}

// PinCandidate is a spatial search hit with its computed distance in
// meters. A nil distance means the backend could not annotate it.
type PinCandidate struct {
	Pin      Pin
	Distance *float64
}

// PinFilter drives the read-API list queries.
type PinFilter struct {
	Category      *Category
	CityID        *uuid.UUID
	NameSubstring string
	PublishedOnly bool
}
