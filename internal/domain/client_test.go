package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validClient() Client {
	return Client{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john@example.com",
		Type:      ClientBuyer,
		BudgetMin: 500000,
		BudgetMax: 800000,
		Preferences: Preferences{
			PropertyType: TypeHouse,
			MinBedrooms:  3,
			City:         "New York",
		},
	}
}

func TestClientValidate(t *testing.T) {
	require.NoError(t, validClient().Validate())

	c := validClient()
	c.FirstName = ""
	assert.True(t, IsValidation(c.Validate()))

	c = validClient()
	c.Email = "not-an-email"
	assert.True(t, IsValidation(c.Validate()))

	c = validClient()
	c.BudgetMin = 900000
	err := c.Validate()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "budget_min", verr.Field)

	c = validClient()
	c.Preferences.MinBedrooms = -1
	require.ErrorAs(t, c.Validate(), &verr)
	assert.Equal(t, "min_bedrooms", verr.Field)

	// no upper bound
	c = validClient()
	c.BudgetMax = 0
	assert.NoError(t, c.Validate())
}

func TestClientPatchNestedPreferences(t *testing.T) {
	c := validClient()
	err := c.Patch(map[string]interface{}{
		"preferences":           map[string]interface{}{"city": "Austin", "min_bedrooms": "2"},
		"interested_properties": "11,12",
	})
	require.NoError(t, err)
	assert.Equal(t, "Austin", c.Preferences.City)
	assert.Equal(t, 2, c.Preferences.MinBedrooms)
	assert.Equal(t, TypeHouse, c.Preferences.PropertyType)
	assert.Equal(t, []int64{11, 12}, c.InterestedProperties)
}

func TestClientQuery(t *testing.T) {
	c := validClient()
	assert.True(t, ClientQuery{Name: "john d"}.Match(c))
	assert.True(t, ClientQuery{Type: ClientBuyer, City: "new"}.Match(c))
	assert.False(t, ClientQuery{Name: "jane"}.Match(c))
	assert.Error(t, ClientQuery{Type: "broker"}.Validate())
}

func TestTransactionRules(t *testing.T) {
	assert.True(t, DealPending.CanTransition(DealCompleted))
	assert.True(t, DealPending.CanTransition(DealCancelled))
	assert.False(t, DealCompleted.CanTransition(DealCancelled))
	assert.False(t, DealCancelled.CanTransition(DealPending))

	tx := Transaction{PropertyID: 1, ClientID: 2, Kind: DealSale, Amount: 0, Status: DealPending}
	var verr *ValidationError
	require.ErrorAs(t, tx.Validate(), &verr)
	assert.Equal(t, "amount", verr.Field)

	kind, err := ParseDealKind("RENT")
	require.NoError(t, err)
	assert.Equal(t, DealRent, kind)
}

func TestErrorKinds(t *testing.T) {
	nf := &NotFoundError{Kind: "property", ID: 9}
	assert.Equal(t, "property 9 not found", nf.Error())
	assert.True(t, IsNotFound(nf))
	assert.False(t, IsValidation(nf))
	assert.Equal(t, "invalid price: must be >= 0", NewValidationError("price", "must be >= 0").Error())
}
