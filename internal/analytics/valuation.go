package analytics

import (
	"github.com/montanaflynn/stats"

	"github.com/talkincode/realtydesk/internal/domain"
)

// premiumFeatures each add a share of the subject's own price on top of the
// comparable mean.
var premiumFeatures = []string{"Garage", "Pool", "Renovated"}

const featurePremium = 0.05

type Valuation struct {
	Estimate   float64  `json:"estimate"`
	CompMean   float64  `json:"comp_mean"`
	CompCount  int      `json:"comp_count"`
	Adjustment float64  `json:"adjustment"`
	Features   []string `json:"features"`
}

// EstimateValue prices subject from comparable sales. Without comps the
// subject's own price is returned unadjusted.
func EstimateValue(subject domain.Property, comps []domain.Property) Valuation {
	if len(comps) == 0 {
		return Valuation{Estimate: subject.Price}
	}
	prices := make(stats.Float64Data, len(comps))
	for i, c := range comps {
		prices[i] = c.Price
	}
	mean, _ := prices.Mean()
	v := Valuation{CompMean: mean, CompCount: len(comps)}
	for _, f := range premiumFeatures {
		if subject.HasFeature(f) {
			v.Features = append(v.Features, f)
			v.Adjustment += featurePremium * subject.Price
		}
	}
	v.Estimate = v.CompMean + v.Adjustment
	return v
}
