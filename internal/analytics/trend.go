package analytics

import (
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/talkincode/realtydesk/internal/domain"
)

// PriceSummary aggregate price statistics of a group of listings
type PriceSummary struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Median  float64 `json:"median"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// TrendGroups are the property fields MarketTrend can group by.
var TrendGroups = []string{"type", "status", "city", "state", "zip", "bedrooms"}

func groupKey(p domain.Property, groupBy string) (string, bool) {
	switch groupBy {
	case "type":
		return string(p.Type), true
	case "status":
		return string(p.Status), true
	case "city":
		return p.City, true
	case "state":
		return p.State, true
	case "zip":
		return p.ZipCode, true
	case "bedrooms":
		return cast.ToString(p.Bedrooms), true
	}
	return "", false
}

// MarketTrend summarizes price per group. Properties with an empty group
// value are collected under "".
func MarketTrend(props []domain.Property, groupBy string) (map[string]PriceSummary, error) {
	if _, ok := groupKey(domain.Property{}, groupBy); !ok {
		return nil, domain.NewValidationError("group_by", "unknown field %q", groupBy)
	}
	prices := make(map[string]stats.Float64Data)
	for _, p := range props {
		key, _ := groupKey(p, groupBy)
		prices[key] = append(prices[key], p.Price)
	}
	out := make(map[string]PriceSummary, len(prices))
	for key, data := range prices {
		s, err := summarize(data)
		if err != nil {
			return nil, errors.Wrapf(err, "summarize %s=%s", groupBy, key)
		}
		out[key] = s
	}
	return out, nil
}

// OverallTrend is the summary over every property. The zero summary is
// returned for an empty input.
func OverallTrend(props []domain.Property) (PriceSummary, error) {
	if len(props) == 0 {
		return PriceSummary{}, nil
	}
	data := make(stats.Float64Data, len(props))
	for i, p := range props {
		data[i] = p.Price
	}
	return summarize(data)
}

func summarize(data stats.Float64Data) (PriceSummary, error) {
	s := PriceSummary{Count: data.Len()}
	var err error
	if s.Average, err = data.Mean(); err != nil {
		return s, err
	}
	if s.Median, err = data.Median(); err != nil {
		return s, err
	}
	if s.Min, err = data.Min(); err != nil {
		return s, err
	}
	if s.Max, err = data.Max(); err != nil {
		return s, err
	}
	return s, nil
}

// SortedKeys returns the group keys of a trend in ascending order.
func SortedKeys(trend map[string]PriceSummary) []string {
	keys := make([]string, 0, len(trend))
	for k := range trend {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
