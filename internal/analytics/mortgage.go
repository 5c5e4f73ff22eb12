package analytics

import (
	"math"

	"github.com/talkincode/realtydesk/internal/domain"
)

// MortgagePayment returns the fixed monthly payment that amortizes principal
// over termMonths. annualRate is a fraction, 0.06 for 6%.
func MortgagePayment(principal, annualRate float64, termMonths int) (float64, error) {
	switch {
	case principal <= 0 || math.IsNaN(principal) || math.IsInf(principal, 0):
		return 0, domain.NewValidationError("principal", "must be > 0")
	case annualRate < 0 || math.IsNaN(annualRate) || math.IsInf(annualRate, 0):
		return 0, domain.NewValidationError("rate", "must be >= 0")
	case termMonths <= 0:
		return 0, domain.NewValidationError("term_months", "must be > 0")
	}
	n := float64(termMonths)
	if annualRate == 0 {
		return principal / n, nil
	}
	r := annualRate / 12
	return principal * r / (1 - math.Pow(1+r, -n)), nil
}

// Quote summarizes a loan taken to buy at price.
type Quote struct {
	LoanAmount     float64 `json:"loan_amount"`
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPayment   float64 `json:"total_payment"`
	TotalInterest  float64 `json:"total_interest"`
	TermMonths     int     `json:"term_months"`
}

// MortgageQuote finances price minus downPayment over years.
func MortgageQuote(price, downPayment, annualRate float64, years int) (Quote, error) {
	switch {
	case price <= 0:
		return Quote{}, domain.NewValidationError("price", "must be > 0")
	case downPayment < 0:
		return Quote{}, domain.NewValidationError("down_payment", "must be >= 0")
	case downPayment >= price:
		return Quote{}, domain.NewValidationError("down_payment", "must be less than price")
	case years <= 0:
		return Quote{}, domain.NewValidationError("years", "must be > 0")
	}
	q := Quote{LoanAmount: price - downPayment, TermMonths: years * 12}
	monthly, err := MortgagePayment(q.LoanAmount, annualRate, q.TermMonths)
	if err != nil {
		return Quote{}, err
	}
	q.MonthlyPayment = monthly
	q.TotalPayment = monthly * float64(q.TermMonths)
	q.TotalInterest = q.TotalPayment - q.LoanAmount
	return q, nil
}
