package domain

import (
	"strings"
	"time"
)

// ClientType the role a client plays in a deal
type ClientType string

const (
	ClientBuyer    ClientType = "buyer"
	ClientSeller   ClientType = "seller"
	ClientTenant   ClientType = "tenant"
	ClientLandlord ClientType = "landlord"
)

var ClientTypes = []ClientType{ClientBuyer, ClientSeller, ClientTenant, ClientLandlord}

func ParseClientType(s string) (ClientType, error) {
	v := ClientType(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range ClientTypes {
		if v == t {
			return v, nil
		}
	}
	return "", NewValidationError("type", "unknown client type %q", s)
}

// Seeking reports whether the client is looking for a property.
func (t ClientType) Seeking() bool {
	return t == ClientBuyer || t == ClientTenant
}

// Preferences what a client is looking for. Zero values mean "no preference".
type Preferences struct {
	PropertyType PropertyType `json:"property_type" gorm:"size:32" validate:"omitempty,oneof=house apartment condo townhouse land commercial"`
	MinBedrooms  int          `json:"min_bedrooms" validate:"gte=0"`
	MinBathrooms int          `json:"min_bathrooms" validate:"gte=0"`
	City         string       `json:"city"`
	MaxPrice     float64      `json:"max_price" validate:"gte=0"`
	MinArea      float64      `json:"min_area" validate:"gte=0"`
}

// Client prospective buyer, seller or renter
type Client struct {
	ID                   int64       `json:"id,string" gorm:"primaryKey;autoIncrement:false"`
	FirstName            string      `json:"first_name" gorm:"index" validate:"required"`
	LastName             string      `json:"last_name" gorm:"index"`
	Email                string      `json:"email" validate:"omitempty,email"`
	Phone                string      `json:"phone"`
	Type                 ClientType  `json:"type" gorm:"size:32;index" validate:"required,oneof=buyer seller tenant landlord"`
	BudgetMin            float64     `json:"budget_min" validate:"gte=0"`
	BudgetMax            float64     `json:"budget_max" validate:"gte=0"`
	Preferences          Preferences `json:"preferences" gorm:"embedded;embeddedPrefix:pref_"`
	InterestedProperties []int64     `json:"interested_properties" gorm:"serializer:json"`
	Notes                string      `json:"notes" gorm:"type:text"`
	TransactionIDs       []int64     `json:"transaction_ids" gorm:"serializer:json"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

// TableName Specify table name
func (Client) TableName() string {
	return "re_client"
}

func (c Client) EntityID() int64 {
	return c.ID
}

func (c Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

func (c *Client) Normalize() {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Notes = strings.TrimSpace(c.Notes)
	c.Type = ClientType(strings.ToLower(strings.TrimSpace(string(c.Type))))
	c.Preferences.City = strings.TrimSpace(c.Preferences.City)
	c.Preferences.PropertyType = PropertyType(strings.ToLower(strings.TrimSpace(string(c.Preferences.PropertyType))))
}

// Validate checks field rules and that the budget range is ordered.
// A zero BudgetMax means the client gave no upper bound.
func (c Client) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}
	if c.BudgetMax > 0 && c.BudgetMin > c.BudgetMax {
		return NewValidationError("budget_min", "must not exceed budget_max (%v > %v)", c.BudgetMin, c.BudgetMax)
	}
	return nil
}

var ClientFields = []string{
	"id", "first_name", "last_name", "name", "email", "phone", "type",
	"budget_min", "budget_max", "pref_property_type", "pref_min_bedrooms",
	"pref_min_bathrooms", "pref_city", "pref_max_price", "pref_min_area",
	"interested_properties", "notes", "created_at", "updated_at",
}

func (c Client) Field(name string) (interface{}, bool) {
	switch name {
	case "id":
		return c.ID, true
	case "first_name":
		return c.FirstName, true
	case "last_name":
		return c.LastName, true
	case "name":
		return c.FullName(), true
	case "email":
		return c.Email, true
	case "phone":
		return c.Phone, true
	case "type":
		return string(c.Type), true
	case "budget_min":
		return c.BudgetMin, true
	case "budget_max":
		return c.BudgetMax, true
	case "pref_property_type":
		return string(c.Preferences.PropertyType), true
	case "pref_min_bedrooms":
		return c.Preferences.MinBedrooms, true
	case "pref_min_bathrooms":
		return c.Preferences.MinBathrooms, true
	case "pref_city":
		return c.Preferences.City, true
	case "pref_max_price":
		return c.Preferences.MaxPrice, true
	case "pref_min_area":
		return c.Preferences.MinArea, true
	case "interested_properties":
		return c.InterestedProperties, true
	case "notes":
		return c.Notes, true
	case "created_at":
		return c.CreatedAt, true
	case "updated_at":
		return c.UpdatedAt, true
	}
	return nil, false
}

var clientPatchFields = map[string]bool{
	"first_name": true, "last_name": true, "email": true, "phone": true,
	"type": true, "budget_min": true, "budget_max": true, "preferences": true,
	"interested_properties": true, "notes": true,
}

// Patch applies a partial update. Preferences are addressed as a nested map,
// e.g. {"preferences": {"city": "Austin"}}.
func (c *Client) Patch(fields map[string]interface{}) error {
	return applyPatch(c, fields, clientPatchFields)
}
