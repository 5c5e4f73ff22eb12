package analytics

import (
	"sort"
	"strings"

	"github.com/talkincode/realtydesk/internal/domain"
)

const (
	DefaultMatchThreshold = 0.5
	DefaultMatchLimit     = 5

	budgetWeight     = 0.4
	preferenceWeight = 0.6

	// overBudgetTolerance is how far above BudgetMax a price may go before
	// the budget fit reaches zero.
	overBudgetTolerance = 0.10
)

// preference weights, in points
const (
	weightType      = 30
	weightBedrooms  = 25
	weightCity      = 20
	weightMaxPrice  = 15
	weightBathrooms = 5
	weightArea      = 5
)

// MatchScore rates how well p suits c, from 0 to 1.
func MatchScore(c domain.Client, p domain.Property) float64 {
	return clamp01(budgetWeight*BudgetFit(c, p.Price) + preferenceWeight*PreferenceFit(c.Preferences, p))
}

// BudgetFit is 1 inside the budget range. Above BudgetMax it falls linearly
// to 0 at 10% over; below BudgetMin it is price/BudgetMin. Zero bounds are
// open.
func BudgetFit(c domain.Client, price float64) float64 {
	if c.BudgetMax > 0 && price > c.BudgetMax {
		over := (price - c.BudgetMax) / c.BudgetMax
		return clamp01(1 - over/overBudgetTolerance)
	}
	if c.BudgetMin > 0 && price < c.BudgetMin {
		return clamp01(price / c.BudgetMin)
	}
	return 1
}

// PreferenceFit is the weighted share of stated preferences that p meets.
// A client without preferences fits everything.
func PreferenceFit(pref domain.Preferences, p domain.Property) float64 {
	var total, met float64
	check := func(weight float64, set, ok bool) {
		if !set {
			return
		}
		total += weight
		if ok {
			met += weight
		}
	}
	check(weightType, pref.PropertyType != "", strings.EqualFold(string(pref.PropertyType), string(p.Type)))
	check(weightBedrooms, pref.MinBedrooms > 0, p.Bedrooms >= pref.MinBedrooms)
	check(weightCity, pref.City != "",
		strings.Contains(strings.ToLower(p.City), strings.ToLower(pref.City)))
	check(weightMaxPrice, pref.MaxPrice > 0, p.Price <= pref.MaxPrice)
	check(weightBathrooms, pref.MinBathrooms > 0, p.Bathrooms >= pref.MinBathrooms)
	check(weightArea, pref.MinArea > 0, p.Area >= pref.MinArea)
	if total == 0 {
		return 1
	}
	return met / total
}

type MatchOptions struct {
	Threshold float64
	Limit     int
}

func DefaultMatchOptions() MatchOptions {
	return MatchOptions{Threshold: DefaultMatchThreshold, Limit: DefaultMatchLimit}
}

func (o MatchOptions) Validate() error {
	if o.Threshold < 0 || o.Threshold > 1 {
		return domain.NewValidationError("threshold", "must be between 0 and 1")
	}
	if o.Limit <= 0 {
		return domain.NewValidationError("limit", "must be > 0")
	}
	return nil
}

type Match struct {
	Property domain.Property `json:"property"`
	Score    float64         `json:"score"`
}

type ClientMatches struct {
	Client  domain.Client `json:"client"`
	Matches []Match       `json:"matches"`
}

// MatchClient ranks the available or pending properties for one client,
// best first, ties broken by property id.
func MatchClient(c domain.Client, props []domain.Property, opts MatchOptions) ([]Match, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	var out []Match
	for _, p := range props {
		if p.Status != domain.StatusAvailable && p.Status != domain.StatusPending {
			continue
		}
		if s := MatchScore(c, p); s >= opts.Threshold {
			out = append(out, Match{Property: p, Score: s})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Property.ID < out[j].Property.ID
	})
	if len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

// MatchClients runs MatchClient for every buyer or tenant, in input order.
// Clients with no match are included with an empty list.
func MatchClients(clients []domain.Client, props []domain.Property, opts MatchOptions) ([]ClientMatches, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	var out []ClientMatches
	for _, c := range clients {
		if !c.Type.Seeking() {
			continue
		}
		matches, err := MatchClient(c, props, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, ClientMatches{Client: c, Matches: matches})
	}
	return out, nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
