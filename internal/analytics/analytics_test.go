package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/realtydesk/internal/domain"
)

func TestMortgagePayment(t *testing.T) {
	m, err := MortgagePayment(200000, 0.06, 360)
	require.NoError(t, err)
	assert.InDelta(t, 1199.10, m, 0.01)

	m, err = MortgagePayment(100000, 0, 12)
	require.NoError(t, err)
	assert.Equal(t, 100000.0/12, m)

	tests := []struct {
		name      string
		principal float64
		rate      float64
		term      int
	}{
		{"zero principal", 0, 0.05, 12},
		{"negative principal", -1, 0.05, 12},
		{"negative rate", 1000, -0.01, 12},
		{"zero term", 1000, 0.05, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MortgagePayment(tt.principal, tt.rate, tt.term)
			assert.True(t, domain.IsValidation(err))
		})
	}
}

func TestMortgageQuote(t *testing.T) {
	q, err := MortgageQuote(250000, 50000, 0.06, 30)
	require.NoError(t, err)
	assert.Equal(t, 200000.0, q.LoanAmount)
	assert.Equal(t, 360, q.TermMonths)
	assert.InDelta(t, 1199.10, q.MonthlyPayment, 0.01)
	assert.InDelta(t, q.MonthlyPayment*360, q.TotalPayment, 1e-6)
	assert.InDelta(t, q.TotalPayment-200000, q.TotalInterest, 1e-6)

	_, err = MortgageQuote(100, 100, 0.05, 30)
	assert.True(t, domain.IsValidation(err))
	_, err = MortgageQuote(100, 0, 0.05, 0)
	assert.True(t, domain.IsValidation(err))
}

func prop(id int64, typ domain.PropertyType, city string, price float64) domain.Property {
	return domain.Property{
		ID: id, Address: "x", City: city, Type: typ, Status: domain.StatusAvailable,
		Price: price, Bedrooms: 3, Bathrooms: 2, Area: 1500,
	}
}

func TestMarketTrend(t *testing.T) {
	got, err := MarketTrend(nil, "type")
	require.NoError(t, err)
	assert.Empty(t, got)

	props := []domain.Property{
		prop(1, domain.TypeHouse, "Austin", 100),
		prop(2, domain.TypeHouse, "Austin", 300),
		prop(3, domain.TypeHouse, "Dallas", 200),
		prop(4, domain.TypeCondo, "Dallas", 50),
	}
	got, err = MarketTrend(props, "type")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, PriceSummary{Count: 3, Average: 200, Median: 200, Min: 100, Max: 300}, got["house"])
	assert.Equal(t, PriceSummary{Count: 1, Average: 50, Median: 50, Min: 50, Max: 50}, got["condo"])
	assert.Equal(t, []string{"condo", "house"}, SortedKeys(got))

	got, err = MarketTrend(props, "bedrooms")
	require.NoError(t, err)
	assert.Equal(t, 4, got["3"].Count)

	_, err = MarketTrend(props, "color")
	assert.True(t, domain.IsValidation(err))

	all, err := OverallTrend(props)
	require.NoError(t, err)
	assert.Equal(t, 4, all.Count)
	assert.Equal(t, 162.5, all.Average)
	assert.Equal(t, 150.0, all.Median)

	empty, err := OverallTrend(nil)
	require.NoError(t, err)
	assert.Zero(t, empty)
}

func TestBudgetFit(t *testing.T) {
	c := domain.Client{BudgetMin: 200, BudgetMax: 400}
	assert.Equal(t, 1.0, BudgetFit(c, 300))
	assert.Equal(t, 1.0, BudgetFit(c, 400))
	assert.InDelta(t, 0.5, BudgetFit(c, 420), 1e-9)
	assert.Equal(t, 0.0, BudgetFit(c, 500))
	assert.InDelta(t, 0.5, BudgetFit(c, 100), 1e-9)
	assert.Equal(t, 1.0, BudgetFit(domain.Client{}, 1e9))
}

func TestPreferenceFit(t *testing.T) {
	p := prop(1, domain.TypeHouse, "Austin", 300)
	assert.Equal(t, 1.0, PreferenceFit(domain.Preferences{}, p))

	pref := domain.Preferences{PropertyType: domain.TypeHouse, City: "aus", MinBedrooms: 4}
	assert.InDelta(t, 50.0/75.0, PreferenceFit(pref, p), 1e-9)

	pref = domain.Preferences{PropertyType: domain.TypeCondo, MaxPrice: 100}
	assert.Equal(t, 0.0, PreferenceFit(pref, p))
}

func TestMatchScoreBounds(t *testing.T) {
	c := domain.Client{BudgetMax: 100, Preferences: domain.Preferences{PropertyType: domain.TypeLand}}
	p := prop(1, domain.TypeHouse, "Austin", 1000)
	assert.Equal(t, 0.0, MatchScore(c, p))

	c = domain.Client{BudgetMin: 100, BudgetMax: 2000, Preferences: domain.Preferences{PropertyType: domain.TypeHouse}}
	assert.InDelta(t, 1.0, MatchScore(c, p), 1e-9)
}

func TestMatchClients(t *testing.T) {
	buyer := domain.Client{
		ID: 10, FirstName: "Ada", Type: domain.ClientBuyer, BudgetMax: 400,
		Preferences: domain.Preferences{PropertyType: domain.TypeHouse, City: "Austin"},
	}
	seller := domain.Client{ID: 11, FirstName: "Sam", Type: domain.ClientSeller}

	sold := prop(5, domain.TypeHouse, "Austin", 300)
	sold.Status = domain.StatusSold
	props := []domain.Property{
		prop(3, domain.TypeHouse, "Austin", 300),
		prop(1, domain.TypeHouse, "Austin", 350),
		prop(2, domain.TypeHouse, "Dallas", 300),
		prop(4, domain.TypeCondo, "Dallas", 900),
		sold,
	}

	got, err := MatchClients([]domain.Client{buyer, seller}, props, DefaultMatchOptions())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(10), got[0].Client.ID)

	var ids []int64
	for _, m := range got[0].Matches {
		ids = append(ids, m.Property.ID)
		assert.GreaterOrEqual(t, m.Score, DefaultMatchThreshold)
	}
	assert.Equal(t, []int64{1, 3, 2}, ids, "score desc, then id")

	got, err = MatchClients([]domain.Client{buyer}, props, MatchOptions{Threshold: 0.5, Limit: 1})
	require.NoError(t, err)
	require.Len(t, got[0].Matches, 1)
	assert.Equal(t, int64(1), got[0].Matches[0].Property.ID)

	_, err = MatchClients(nil, props, MatchOptions{Threshold: 2, Limit: 1})
	assert.True(t, domain.IsValidation(err))
	_, err = MatchClient(buyer, props, MatchOptions{Threshold: 0.5})
	assert.True(t, domain.IsValidation(err))
}

func TestEstimateValue(t *testing.T) {
	subject := prop(1, domain.TypeHouse, "Austin", 400000)
	assert.Equal(t, Valuation{Estimate: 400000}, EstimateValue(subject, nil))

	subject.Features = []string{"garage", "Pool", "Fireplace"}
	comps := []domain.Property{
		prop(2, domain.TypeHouse, "Austin", 380000),
		prop(3, domain.TypeHouse, "Austin", 420000),
	}
	v := EstimateValue(subject, comps)
	assert.Equal(t, 400000.0, v.CompMean)
	assert.Equal(t, 2, v.CompCount)
	assert.Equal(t, []string{"Garage", "Pool"}, v.Features)
	assert.InDelta(t, 440000, v.Estimate, 1e-6)
}
