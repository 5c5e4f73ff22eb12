package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProperty() Property {
	return Property{
		Address:   "123 Main St",
		City:      "New York",
		Type:      TypeHouse,
		Status:    StatusAvailable,
		Price:     750000,
		Bedrooms:  3,
		Bathrooms: 2,
		Area:      2200,
	}
}

func TestPropertyValidate(t *testing.T) {
	require.NoError(t, validProperty().Validate())

	tests := []struct {
		name   string
		mutate func(p *Property)
		field  string
	}{
		{"missing address", func(p *Property) { p.Address = "" }, "address"},
		{"missing type", func(p *Property) { p.Type = "" }, "type"},
		{"unknown type", func(p *Property) { p.Type = "castle" }, "type"},
		{"negative price", func(p *Property) { p.Price = -1 }, "price"},
		{"negative bedrooms", func(p *Property) { p.Bedrooms = -2 }, "bedrooms"},
		{"negative bathrooms", func(p *Property) { p.Bathrooms = -1 }, "bathrooms"},
		{"zero area", func(p *Property) { p.Area = 0 }, "area"},
		{"bad year", func(p *Property) { p.YearBuilt = 12 }, "year_built"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProperty()
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusAvailable.CanTransition(StatusPending))
	assert.True(t, StatusPending.CanTransition(StatusSold))
	assert.True(t, StatusSold.CanTransition(StatusSold))

	assert.False(t, StatusAvailable.CanTransition(StatusSold))
	assert.False(t, StatusPending.CanTransition(StatusAvailable))
	assert.False(t, StatusSold.CanTransition(StatusPending))
	assert.False(t, StatusSold.CanTransition(StatusAvailable))
}

func TestParseEnums(t *testing.T) {
	pt, err := ParsePropertyType(" House ")
	require.NoError(t, err)
	assert.Equal(t, TypeHouse, pt)

	_, err = ParsePropertyType("igloo")
	assert.True(t, IsValidation(err))

	st, err := ParsePropertyStatus("SOLD")
	require.NoError(t, err)
	assert.Equal(t, StatusSold, st)

	ct, err := ParseClientType("Tenant")
	require.NoError(t, err)
	assert.Equal(t, ClientTenant, ct)
	assert.True(t, ct.Seeking())
	assert.False(t, ClientSeller.Seeking())
}

func TestPropertyNormalize(t *testing.T) {
	p := Property{Address: "  1 Elm ", Type: "CONDO", Status: " Pending", Features: []string{" Pool", "", "  "}}
	p.Normalize()
	assert.Equal(t, "1 Elm", p.Address)
	assert.Equal(t, TypeCondo, p.Type)
	assert.Equal(t, StatusPending, p.Status)
	assert.Equal(t, []string{"Pool"}, p.Features)
	assert.True(t, p.HasFeature("pool"))
}

func TestPropertyField(t *testing.T) {
	p := validProperty()
	p.ID = 42
	for _, name := range PropertyFields {
		_, ok := p.Field(name)
		assert.True(t, ok, name)
	}
	v, ok := p.Field("price")
	require.True(t, ok)
	assert.Equal(t, 750000.0, v)

	_, ok = p.Field("garage")
	assert.False(t, ok)
}

func TestPropertyPatch(t *testing.T) {
	p := validProperty()
	p.Features = []string{"Garage", "Pool", "Garden"}

	err := p.Patch(map[string]interface{}{
		"price":        "699000",
		"bedrooms":     "4",
		"features":     "Renovated",
		"listing_date": "2024-01-15",
	})
	require.NoError(t, err)
	assert.Equal(t, 699000.0, p.Price)
	assert.Equal(t, 4, p.Bedrooms)
	assert.Equal(t, []string{"Renovated"}, p.Features)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), p.ListingDate.UTC())
	// untouched
	assert.Equal(t, "123 Main St", p.Address)
}

func TestPropertyPatchRejects(t *testing.T) {
	p := validProperty()

	err := p.Patch(map[string]interface{}{"id": 7})
	require.True(t, IsValidation(err))

	err = p.Patch(map[string]interface{}{"bedrooms": "many"})
	require.True(t, IsValidation(err))

	err = p.Patch(nil)
	require.True(t, IsValidation(err))
}

func TestPropertyQuery(t *testing.T) {
	p := validProperty()
	p.Features = []string{"Garage"}

	assert.True(t, PropertyQuery{}.Match(p))
	assert.True(t, PropertyQuery{Type: "HOUSE", City: "york", MinPrice: 700000, MaxPrice: 800000}.Match(p))
	assert.True(t, PropertyQuery{Feature: "garage", MinBedrooms: 3}.Match(p))
	assert.False(t, PropertyQuery{Type: TypeApartment}.Match(p))
	assert.False(t, PropertyQuery{MaxPrice: 500000}.Match(p))
	assert.False(t, PropertyQuery{MinArea: 3000}.Match(p))
	assert.False(t, PropertyQuery{Status: StatusSold}.Match(p))

	assert.Error(t, PropertyQuery{MinPrice: 10, MaxPrice: 5}.Validate())
	assert.Error(t, PropertyQuery{Type: "boat"}.Validate())
	assert.NoError(t, PropertyQuery{MinPrice: 10}.Validate())
}
