package importer

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tourato/tourato-api/internal/app/models"
	"github.com/tourato/tourato-api/internal/pkg/geo"
	"github.com/tourato/tourato-api/internal/pkg/geocode"
)

// memLocations is an in-memory location.Repository.
type memLocations struct {
	countries []models.Country
	states    []models.State
	cities    []models.City
}

func (m *memLocations) GetCountryByName(_ context.Context, name string) (*models.Country, error) {
	for i := range m.countries {
		if strings.EqualFold(m.countries[i].Name, name) {
			return &m.countries[i], nil
		}
	}
	return nil, nil
}

func (m *memLocations) ListCountryNames(context.Context) ([]string, error) {
	var names []string
	for _, c := range m.countries {
		names = append(names, c.Name)
	}
	return names, nil
}

func (m *memLocations) CreateCountry(_ context.Context, name, _ string) (*models.Country, error) {
	c := models.Country{ID: uuid.New(), Name: name, IsActive: true}
	m.countries = append(m.countries, c)
	return &c, nil
}

func (m *memLocations) GetStateByName(_ context.Context, countryID uuid.UUID, name string) (*models.State, error) {
	for i := range m.states {
		if m.states[i].CountryID == countryID && strings.EqualFold(m.states[i].Name, name) {
			return &m.states[i], nil
		}
	}
	return nil, nil
}

func (m *memLocations) ListStateNames(_ context.Context, countryID uuid.UUID) ([]string, error) {
	var names []string
	for _, s := range m.states {
		if s.CountryID == countryID {
			names = append(names, s.Name)
		}
	}
	return names, nil
}

func (m *memLocations) CreateState(_ context.Context, countryID uuid.UUID, name string) (*models.State, error) {
	s := models.State{ID: uuid.New(), CountryID: countryID, Name: name, IsActive: true}
	m.states = append(m.states, s)
	return &s, nil
}

func (m *memLocations) GetCityByName(_ context.Context, stateID uuid.UUID, name string) (*models.City, error) {
	for i := range m.cities {
		if m.cities[i].StateID == stateID && strings.EqualFold(m.cities[i].Name, name) {
			return &m.cities[i], nil
		}
	}
	return nil, nil
}

func (m *memLocations) ListCityNames(_ context.Context, stateID uuid.UUID) ([]string, error) {
	var names []string
	for _, c := range m.cities {
		if c.StateID == stateID {
			names = append(names, c.Name)
		}
	}
	return names, nil
}

func (m *memLocations) CreateCity(_ context.Context, stateID uuid.UUID, name string) (*models.City, error) {
	c := models.City{ID: uuid.New(), StateID: stateID, Name: name, IsActive: true}
	m.cities = append(m.cities, c)
	return &c, nil
}

func (m *memLocations) GetCityHierarchy(_ context.Context, cityID uuid.UUID) (*models.CityHierarchy, error) {
	for _, c := range m.cities {
		if c.ID != cityID {
			continue
		}
		for _, s := range m.states {
			if s.ID == c.StateID {
				return &models.CityHierarchy{CityID: c.ID, StateID: s.ID, CountryID: s.CountryID}, nil
			}
		}
	}
	return nil, nil
}

// memPins is an in-memory pin.Repository with haversine spatial checks.
type memPins struct {
	pins []models.Pin
}

func (m *memPins) CreatePin(_ context.Context, p *models.Pin) (uuid.UUID, error) {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	m.pins = append(m.pins, *p)
	return p.ID, nil
}

func (m *memPins) GetBySlug(_ context.Context, slug string) (*models.Pin, error) {
	for i := range m.pins {
		if m.pins[i].Slug == slug {
			return &m.pins[i], nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memPins) GetByRef(_ context.Context, ref models.PinRef) (*models.Pin, error) {
	for i := range m.pins {
		if m.pins[i].ID == ref.ID && m.pins[i].Category == ref.Category {
			return &m.pins[i], nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memPins) List(_ context.Context, filter models.PinFilter) ([]models.Pin, error) {
	var out []models.Pin
	for _, p := range m.pins {
		if filter.Category != nil && p.Category != *filter.Category {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *memPins) FindWithinRadius(_ context.Context, category models.Category, lon, lat, radiusMeters float64, limit int) ([]models.PinCandidate, error) {
	var out []models.PinCandidate
	for _, p := range m.pins {
		if p.Category != category {
			continue
		}
		d := geo.Haversine(lon, lat, p.Longitude, p.Latitude)
		if d <= radiusMeters {
			dist := d
			out = append(out, models.PinCandidate{Pin: p, Distance: &dist})
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memPins) FindExactPoint(_ context.Context, category models.Category, lon, lat float64, limit int) ([]models.PinCandidate, error) {
	var out []models.PinCandidate
	for _, p := range m.pins {
		if p.Category == category && p.Longitude == lon && p.Latitude == lat {
			zero := 0.0
			out = append(out, models.PinCandidate{Pin: p, Distance: &zero})
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memPins) DuplicateCategoriesNear(_ context.Context, cityID uuid.UUID, lon, lat, toleranceMeters float64) ([]models.Category, error) {
	seen := map[models.Category]bool{}
	for _, p := range m.pins {
		if p.CityID != cityID {
			continue
		}
		if geo.Haversine(lon, lat, p.Longitude, p.Latitude) <= toleranceMeters {
			seen[p.Category] = true
		}
	}
	var out []models.Category
	for _, c := range models.Categories() {
		if seen[c] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memPins) ScanSample(_ context.Context, category models.Category, limit int) ([]models.Pin, error) {
	var out []models.Pin
	for _, p := range m.pins {
		if p.Category == category {
			out = append(out, p)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// memSocial is an in-memory social.Repository.
type memSocial struct {
	platforms []models.PostPlatform
	posts     []models.SocialPost
}

func (m *memSocial) LinkExists(_ context.Context, link string) (bool, error) {
	for _, p := range m.posts {
		if p.Link == link {
			return true, nil
		}
	}
	return false, nil
}

func (m *memSocial) CreatePost(_ context.Context, post *models.SocialPost) (uuid.UUID, error) {
	post.ID = uuid.New()
	m.posts = append(m.posts, *post)
	return post.ID, nil
}

func (m *memSocial) ListPostsForPin(_ context.Context, ref models.PinRef) ([]models.SocialPost, error) {
	var out []models.SocialPost
	for _, p := range m.posts {
		if p.Pin != nil && *p.Pin == ref {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memSocial) GetPlatformByName(_ context.Context, name string) (*models.PostPlatform, error) {
	for i := range m.platforms {
		if strings.EqualFold(m.platforms[i].Name, name) {
			return &m.platforms[i], nil
		}
	}
	return nil, nil
}

func (m *memSocial) GetPlatformByCode(_ context.Context, code string) (*models.PostPlatform, error) {
	for i := range m.platforms {
		if strings.EqualFold(m.platforms[i].Code, code) {
			return &m.platforms[i], nil
		}
	}
	return nil, nil
}

func (m *memSocial) ListPlatformNames(context.Context) ([]string, error) {
	var names []string
	for _, p := range m.platforms {
		names = append(names, p.Name)
	}
	return names, nil
}

func (m *memSocial) ListPlatforms(context.Context) ([]models.PostPlatform, error) {
	return m.platforms, nil
}

func (m *memSocial) CreatePlatform(_ context.Context, name, code string) (*models.PostPlatform, error) {
	p := models.PostPlatform{ID: uuid.New(), Name: name, Code: code, Active: true}
	m.platforms = append(m.platforms, p)
	return &p, nil
}

// stubGeocoder returns a fixed address for every coordinate.
type stubGeocoder struct {
	addr  geocode.Address
	calls int
}

func (s *stubGeocoder) Reverse(context.Context, float64, float64) geocode.Address {
	s.calls++
	return s.addr
}
