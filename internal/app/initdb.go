package app

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/talkincode/realtydesk/internal/domain"
)

// SeedResult counts the records SeedSampleData created.
type SeedResult struct {
	Properties int `json:"properties"`
	Clients    int `json:"clients"`
}

func sampleProperties() []domain.Property {
	return []domain.Property{
		{
			Address:     "123 Main St",
			City:        "New York",
			State:       "NY",
			ZipCode:     "10001",
			Type:        domain.TypeTownhouse,
			Status:      domain.StatusAvailable,
			Price:       750000,
			Bedrooms:    3,
			Bathrooms:   2,
			Area:        2200,
			YearBuilt:   2010,
			Description: "Beautiful modern townhouse",
			ListingDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local),
			Features:    []string{"Garage", "Garden", "Pool"},
		},
		{
			Address:     "456 Oak Ave",
			City:        "Los Angeles",
			State:       "CA",
			ZipCode:     "90001",
			Type:        domain.TypeCommercial,
			Status:      domain.StatusAvailable,
			Price:       5000,
			Bedrooms:    0,
			Bathrooms:   2,
			Area:        1500,
			YearBuilt:   2015,
			Description: "Prime commercial space",
			ListingDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.Local),
			Features:    []string{"Parking", "Security", "AC"},
		},
	}
}

// SeedSampleData adds the demo records that are not present yet, matching
// properties by address and clients by email. Running it twice is harmless.
func (a *Application) SeedSampleData(ctx context.Context) (SeedResult, error) {
	var res SeedResult
	propIDs, added, err := a.checkProperties(ctx)
	if err != nil {
		return res, err
	}
	res.Properties = added
	if res.Clients, err = a.checkClients(ctx, propIDs); err != nil {
		return res, err
	}
	return res, nil
}

// checkProperties returns the id of every sample address, existing or new.
func (a *Application) checkProperties(ctx context.Context) (map[string]int64, int, error) {
	existing, err := a.properties.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	ids := make(map[string]int64)
	for _, p := range existing {
		ids[strings.ToLower(p.Address)] = p.ID
	}

	added := 0
	for _, p := range sampleProperties() {
		key := strings.ToLower(p.Address)
		if _, ok := ids[key]; ok {
			continue
		}
		id, err := a.properties.Add(ctx, p)
		if err != nil {
			return nil, added, err
		}
		ids[key] = id
		added++
		zap.L().Info("initialized sample property", zap.String("address", p.Address))
	}
	return ids, added, nil
}

func (a *Application) checkClients(ctx context.Context, propIDs map[string]int64) (int, error) {
	existing, err := a.clients.List(ctx)
	if err != nil {
		return 0, err
	}
	for _, c := range existing {
		if strings.EqualFold(c.Email, "john@example.com") {
			return 0, nil
		}
	}

	c := domain.Client{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john@example.com",
		Phone:     "555-0101",
		Type:      domain.ClientBuyer,
		BudgetMax: 800000,
		Preferences: domain.Preferences{
			PropertyType: domain.TypeTownhouse,
			MinBedrooms:  3,
			City:         "New York",
		},
		Notes: "Looking for family home",
	}
	if id, ok := propIDs["123 main st"]; ok {
		c.InterestedProperties = []int64{id}
	}
	if _, err := a.clients.Add(ctx, c); err != nil {
		return 0, err
	}
	zap.L().Info("initialized sample client", zap.String("email", c.Email))
	return 1, nil
}
