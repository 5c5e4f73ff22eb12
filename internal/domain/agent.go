package domain

import (
	"strings"
	"time"
)

// Agent sales agent who lists properties and earns commission on deals.
// TotalSales is the sum of completed deal amounts.
type Agent struct {
	ID                 int64     `json:"id,string" gorm:"primaryKey;autoIncrement:false"`
	FirstName          string    `json:"first_name" gorm:"index" validate:"required"`
	LastName           string    `json:"last_name" gorm:"index"`
	Email              string    `json:"email" validate:"omitempty,email"`
	Phone              string    `json:"phone"`
	CommissionRate     float64   `json:"commission_rate" validate:"gte=0,lte=1"`
	TotalSales         float64   `json:"total_sales" validate:"gte=0"`
	AssignedProperties []int64   `json:"assigned_properties" gorm:"serializer:json"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Agent) TableName() string {
	return "re_agent"
}

func (a Agent) EntityID() int64 {
	return a.ID
}

func (a Agent) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

func (a *Agent) Normalize() {
	a.FirstName = strings.TrimSpace(a.FirstName)
	a.LastName = strings.TrimSpace(a.LastName)
	a.Email = strings.TrimSpace(a.Email)
	a.Phone = strings.TrimSpace(a.Phone)
}

func (a Agent) Validate() error {
	return validateStruct(a)
}

// Assigned reports whether the agent lists property id.
func (a Agent) Assigned(id int64) bool {
	for _, pid := range a.AssignedProperties {
		if pid == id {
			return true
		}
	}
	return false
}

var AgentFields = []string{
	"id", "first_name", "last_name", "name", "email", "phone",
	"commission_rate", "total_sales", "assigned_properties",
	"created_at", "updated_at",
}

func (a Agent) Field(name string) (interface{}, bool) {
	switch name {
	case "id":
		return a.ID, true
	case "first_name":
		return a.FirstName, true
	case "last_name":
		return a.LastName, true
	case "name":
		return a.FullName(), true
	case "email":
		return a.Email, true
	case "phone":
		return a.Phone, true
	case "commission_rate":
		return a.CommissionRate, true
	case "total_sales":
		return a.TotalSales, true
	case "assigned_properties":
		return a.AssignedProperties, true
	case "created_at":
		return a.CreatedAt, true
	case "updated_at":
		return a.UpdatedAt, true
	}
	return nil, false
}

// total_sales and assigned_properties follow deals and assignments only.
var agentPatchFields = map[string]bool{
	"first_name": true, "last_name": true, "email": true, "phone": true,
	"commission_rate": true,
}

func (a *Agent) Patch(fields map[string]interface{}) error {
	return applyPatch(a, fields, agentPatchFields)
}
