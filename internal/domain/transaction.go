package domain

import (
	"strings"
	"time"
)

type DealKind string

const (
	DealSale DealKind = "sale"
	DealRent DealKind = "rent"
)

func ParseDealKind(s string) (DealKind, error) {
	switch v := DealKind(strings.ToLower(strings.TrimSpace(s))); v {
	case DealSale, DealRent:
		return v, nil
	}
	return "", NewValidationError("kind", "unknown deal kind %q", s)
}

type DealStatus string

const (
	DealPending   DealStatus = "pending"
	DealCompleted DealStatus = "completed"
	DealCancelled DealStatus = "cancelled"
)

// CanTransition only pending deals can be closed, either way.
func (s DealStatus) CanTransition(next DealStatus) bool {
	return s == DealPending && (next == DealCompleted || next == DealCancelled)
}

// Transaction links a property and a client with an agreed amount. Both
// sides keep its id in TransactionIDs; neither owns it.
type Transaction struct {
	ID         int64      `json:"id,string" gorm:"primaryKey;autoIncrement:false"`
	PropertyID int64      `json:"property_id,string" gorm:"index" validate:"required"`
	ClientID   int64      `json:"client_id,string" gorm:"index" validate:"required"`
	AgentID    int64      `json:"agent_id,string" gorm:"index"`
	Kind       DealKind   `json:"kind" gorm:"size:16" validate:"required,oneof=sale rent"`
	Amount     float64    `json:"amount" validate:"gt=0"`
	Commission float64    `json:"commission" validate:"gte=0"`
	Date       time.Time  `json:"date"`
	Status     DealStatus `json:"status" gorm:"size:16;index" validate:"required,oneof=pending completed cancelled"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName Specify table name
func (Transaction) TableName() string {
	return "re_transaction"
}

func (t Transaction) EntityID() int64 {
	return t.ID
}

func (t Transaction) Validate() error {
	return validateStruct(t)
}

var TransactionFields = []string{
	"id", "property_id", "client_id", "agent_id", "kind", "amount", "commission", "date",
	"status", "created_at", "updated_at",
}

func (t Transaction) Field(name string) (interface{}, bool) {
	switch name {
	case "id":
		return t.ID, true
	case "property_id":
		return t.PropertyID, true
	case "client_id":
		return t.ClientID, true
	case "agent_id":
		return t.AgentID, true
	case "kind":
		return string(t.Kind), true
	case "amount":
		return t.Amount, true
	case "commission":
		return t.Commission, true
	case "date":
		return t.Date, true
	case "status":
		return string(t.Status), true
	case "created_at":
		return t.CreatedAt, true
	case "updated_at":
		return t.UpdatedAt, true
	}
	return nil, false
}
