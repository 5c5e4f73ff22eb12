package domain

import (
	"strings"
	"time"

	"github.com/talkincode/realtydesk/pkg/common"
)

// PropertyType listing category
type PropertyType string

const (
	TypeHouse      PropertyType = "house"
	TypeApartment  PropertyType = "apartment"
	TypeCondo      PropertyType = "condo"
	TypeTownhouse  PropertyType = "townhouse"
	TypeLand       PropertyType = "land"
	TypeCommercial PropertyType = "commercial"
)

var PropertyTypes = []PropertyType{TypeHouse, TypeApartment, TypeCondo, TypeTownhouse, TypeLand, TypeCommercial}

// ParsePropertyType accepts any casing and surrounding whitespace.
func ParsePropertyType(s string) (PropertyType, error) {
	v := PropertyType(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range PropertyTypes {
		if v == t {
			return v, nil
		}
	}
	return "", NewValidationError("type", "unknown property type %q", s)
}

// PropertyStatus listing lifecycle state
type PropertyStatus string

const (
	StatusAvailable PropertyStatus = "available"
	StatusPending   PropertyStatus = "pending"
	StatusSold      PropertyStatus = "sold"
)

var PropertyStatuses = []PropertyStatus{StatusAvailable, StatusPending, StatusSold}

func ParsePropertyStatus(s string) (PropertyStatus, error) {
	v := PropertyStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range PropertyStatuses {
		if v == st {
			return v, nil
		}
	}
	return "", NewValidationError("status", "unknown property status %q", s)
}

// CanTransition reports whether a listing may move from s to next.
// Only available -> pending -> sold is allowed; going back requires a reset.
func (s PropertyStatus) CanTransition(next PropertyStatus) bool {
	switch {
	case s == next:
		return true
	case s == StatusAvailable && next == StatusPending:
		return true
	case s == StatusPending && next == StatusSold:
		return true
	}
	return false
}

// Property real estate listing
type Property struct {
	ID             int64          `json:"id,string" gorm:"primaryKey;autoIncrement:false"`
	Address        string         `json:"address" validate:"required"`
	City           string         `json:"city" gorm:"index"`
	State          string         `json:"state"`
	ZipCode        string         `json:"zip_code"`
	Type           PropertyType   `json:"type" gorm:"size:32;index" validate:"required,oneof=house apartment condo townhouse land commercial"`
	Status         PropertyStatus `json:"status" gorm:"size:32;index" validate:"required,oneof=available pending sold"`
	Price          float64        `json:"price" validate:"gte=0"`
	Bedrooms       int            `json:"bedrooms" validate:"gte=0"`
	Bathrooms      int            `json:"bathrooms" validate:"gte=0"`
	Area           float64        `json:"area" validate:"gt=0"`
	YearBuilt      int            `json:"year_built" validate:"omitempty,gte=1600,lte=2200"`
	Description    string         `json:"description" gorm:"type:text"`
	Features       []string       `json:"features" gorm:"serializer:json"`
	ListingDate    time.Time      `json:"listing_date"`
	AgentID        int64          `json:"agent_id,string" gorm:"index"`
	TransactionIDs []int64        `json:"transaction_ids" gorm:"serializer:json"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// TableName Specify table name
func (Property) TableName() string {
	return "re_property"
}

func (p Property) EntityID() int64 {
	return p.ID
}

// Normalize trims text fields, lowercases enums and drops empty features.
func (p *Property) Normalize() {
	p.Address = strings.TrimSpace(p.Address)
	p.City = strings.TrimSpace(p.City)
	p.State = strings.TrimSpace(p.State)
	p.ZipCode = strings.TrimSpace(p.ZipCode)
	p.Description = strings.TrimSpace(p.Description)
	p.Type = PropertyType(strings.ToLower(strings.TrimSpace(string(p.Type))))
	p.Status = PropertyStatus(strings.ToLower(strings.TrimSpace(string(p.Status))))
	p.Features = cleanStrings(p.Features)
}

func (p Property) Validate() error {
	return validateStruct(p)
}

// HasFeature matches case-insensitively.
func (p Property) HasFeature(name string) bool {
	for _, f := range p.Features {
		if strings.EqualFold(f, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

// PropertyFields lists the column names understood by Property.Field.
var PropertyFields = []string{
	"id", "address", "city", "state", "zip_code", "type", "status", "price",
	"price_display", "bedrooms", "bathrooms", "area", "year_built", "description", "features",
	"listing_date", "agent_id", "created_at", "updated_at",
}

// Field returns the value of a named column.
func (p Property) Field(name string) (interface{}, bool) {
	switch name {
	case "id":
		return p.ID, true
	case "address":
		return p.Address, true
	case "city":
		return p.City, true
	case "state":
		return p.State, true
	case "zip_code":
		return p.ZipCode, true
	case "type":
		return string(p.Type), true
	case "status":
		return string(p.Status), true
	case "price":
		return p.Price, true
	case "price_display":
		return common.FormatMoney(p.Price), true
	case "bedrooms":
		return p.Bedrooms, true
	case "bathrooms":
		return p.Bathrooms, true
	case "area":
		return p.Area, true
	case "year_built":
		return p.YearBuilt, true
	case "description":
		return p.Description, true
	case "features":
		return p.Features, true
	case "listing_date":
		return p.ListingDate, true
	case "agent_id":
		return p.AgentID, true
	case "created_at":
		return p.CreatedAt, true
	case "updated_at":
		return p.UpdatedAt, true
	}
	return nil, false
}

// propertyPatchFields are the keys accepted by a property update.
var propertyPatchFields = map[string]bool{
	"address": true, "city": true, "state": true, "zip_code": true,
	"type": true, "status": true, "price": true, "bedrooms": true,
	"bathrooms": true, "area": true, "year_built": true,
	"description": true, "features": true, "listing_date": true,
}

// Patch applies a partial update to p. Values are weakly typed, so "3"
// decodes into an int field.
func (p *Property) Patch(fields map[string]interface{}) error {
	return applyPatch(p, fields, propertyPatchFields)
}

func cleanStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
