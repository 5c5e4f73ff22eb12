package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/talkincode/realtydesk/internal/domain"
	"github.com/talkincode/realtydesk/pkg/common"
)

// Requires a scratch PostgreSQL database, e.g.
// REALTYDESK_TEST_DSN="host=127.0.0.1 user=postgres dbname=realtydesk_test sslmode=disable"
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("REALTYDESK_TEST_DSN")
	if dsn == "" {
		t.Skip("REALTYDESK_TEST_DSN not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrator().DropTable(domain.Tables...))
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	t.Cleanup(func() {
		_ = db.Migrator().DropTable(domain.Tables...)
	})
	return db
}

func TestGormBackend(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	b := NewGormBackend[domain.Property](db)

	first := sampleProperty(common.NextID(), "1 Elm St")
	second := sampleProperty(common.NextID(), "2 Pine St")
	require.NoError(t, b.Insert(ctx, first))
	require.NoError(t, b.Insert(ctx, second))
	assert.ErrorIs(t, b.Insert(ctx, first), ErrDuplicateID)

	got, err := b.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Garage"}, got.Features)

	got.Features = nil
	got.Price = 0
	require.NoError(t, b.Update(ctx, got))
	got, err = b.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Price, "zero values are written")

	list, err := b.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)

	require.NoError(t, b.Delete(ctx, first.ID))
	assert.ErrorIs(t, b.Delete(ctx, first.ID), ErrNoRecord)
	_, err = b.Get(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNoRecord)
}

func TestGormClientEmbeddedPreferences(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	b := NewGormBackend[domain.Client](db)

	c := domain.Client{
		ID:          common.NextID(),
		FirstName:   "Ada",
		Type:        domain.ClientBuyer,
		Preferences: domain.Preferences{City: "Austin", MinBedrooms: 3},
	}
	require.NoError(t, b.Insert(ctx, c))
	got, err := b.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Austin", got.Preferences.City)
	assert.Equal(t, 3, got.Preferences.MinBedrooms)
}
