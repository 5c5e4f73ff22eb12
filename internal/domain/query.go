package domain

import "strings"

// PropertyQuery is a conjunction of optional predicates. Zero values are
// ignored; MaxPrice 0 means no upper bound.
type PropertyQuery struct {
	Type         PropertyType
	Status       PropertyStatus
	City         string
	MinPrice     float64
	MaxPrice     float64
	MinBedrooms  int
	MinBathrooms int
	MinArea      float64
	Feature      string
}

func (q PropertyQuery) Validate() error {
	if q.Type != "" {
		if _, err := ParsePropertyType(string(q.Type)); err != nil {
			return err
		}
	}
	if q.Status != "" {
		if _, err := ParsePropertyStatus(string(q.Status)); err != nil {
			return err
		}
	}
	switch {
	case q.MinPrice < 0:
		return NewValidationError("min_price", "must be >= 0")
	case q.MaxPrice < 0:
		return NewValidationError("max_price", "must be >= 0")
	case q.MaxPrice > 0 && q.MinPrice > q.MaxPrice:
		return NewValidationError("min_price", "must not exceed max_price")
	case q.MinBedrooms < 0:
		return NewValidationError("min_bedrooms", "must be >= 0")
	case q.MinBathrooms < 0:
		return NewValidationError("min_bathrooms", "must be >= 0")
	case q.MinArea < 0:
		return NewValidationError("min_area", "must be >= 0")
	}
	return nil
}

func (q PropertyQuery) Match(p Property) bool {
	if q.Type != "" && !strings.EqualFold(string(q.Type), string(p.Type)) {
		return false
	}
	if q.Status != "" && !strings.EqualFold(string(q.Status), string(p.Status)) {
		return false
	}
	if q.City != "" && !containsFold(p.City, q.City) {
		return false
	}
	if p.Price < q.MinPrice {
		return false
	}
	if q.MaxPrice > 0 && p.Price > q.MaxPrice {
		return false
	}
	if p.Bedrooms < q.MinBedrooms || p.Bathrooms < q.MinBathrooms || p.Area < q.MinArea {
		return false
	}
	if q.Feature != "" && !p.HasFeature(q.Feature) {
		return false
	}
	return true
}

// ClientQuery filters clients by name substring, type and preferred city.
type ClientQuery struct {
	Name string
	Type ClientType
	City string
}

func (q ClientQuery) Validate() error {
	if q.Type != "" {
		if _, err := ParseClientType(string(q.Type)); err != nil {
			return err
		}
	}
	return nil
}

func (q ClientQuery) Match(c Client) bool {
	if q.Name != "" && !containsFold(c.FullName(), q.Name) {
		return false
	}
	if q.Type != "" && !strings.EqualFold(string(q.Type), string(c.Type)) {
		return false
	}
	if q.City != "" && !containsFold(c.Preferences.City, q.City) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(substr)))
}
