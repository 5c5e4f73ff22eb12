package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/realtydesk/config"
	"github.com/talkincode/realtydesk/internal/domain"
)

func newTestApp(t *testing.T, storage string) *Application {
	t.Helper()
	cfg := config.DefaultAppConfig()
	cfg.System.Workdir = t.TempDir()
	cfg.Database.Type = storage
	cfg.Logger.Level = "error"

	a := NewApplication(cfg)
	require.NoError(t, a.Init())
	t.Cleanup(a.Release)
	return a
}

func TestInitStorages(t *testing.T) {
	ctx := context.Background()
	for _, storage := range []string{config.StorageMemory, config.StorageFile, config.StorageBolt} {
		t.Run(storage, func(t *testing.T) {
			a := newTestApp(t, storage)
			res, err := a.SeedSampleData(ctx)
			require.NoError(t, err)
			assert.Equal(t, SeedResult{Properties: 2, Clients: 1}, res)

			props, err := a.Properties().List(ctx)
			require.NoError(t, err)
			require.Len(t, props, 2)
			assert.Equal(t, "123 Main St", props[0].Address)
		})
	}
}

func TestInitUnknownStorage(t *testing.T) {
	cfg := config.DefaultAppConfig()
	cfg.System.Workdir = t.TempDir()
	cfg.Database.Type = "tape"
	err := NewApplication(cfg).Init()
	assert.True(t, domain.IsValidation(err))
}

func TestFileStoragePersists(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultAppConfig()
	cfg.System.Workdir = t.TempDir()
	cfg.Logger.Level = "error"

	a := NewApplication(cfg)
	require.NoError(t, a.Init())
	_, err := a.SeedSampleData(ctx)
	require.NoError(t, err)
	a.Release()

	assert.FileExists(t, filepath.Join(cfg.GetDataDir(), "properties.jsonl"))
	assert.FileExists(t, filepath.Join(cfg.GetDataDir(), "clients.jsonl"))

	b := NewApplication(cfg)
	require.NoError(t, b.Init())
	defer b.Release()
	res, err := b.SeedSampleData(ctx)
	require.NoError(t, err)
	assert.Zero(t, res, "seeding is idempotent")

	clients, err := b.Clients().List(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	require.Len(t, clients[0].InterestedProperties, 1)
	props, err := b.Properties().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, props[0].ID, clients[0].InterestedProperties[0])
}

func TestAuditHandlersAcceptEvents(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, config.StorageMemory)
	_, err := a.SeedSampleData(ctx)
	require.NoError(t, err)

	props, err := a.Properties().List(ctx)
	require.NoError(t, err)
	clients, err := a.Clients().List(ctx)
	require.NoError(t, err)

	tx, err := a.Deals().Open(ctx, domain.Transaction{PropertyID: props[0].ID, ClientID: clients[0].ID, Amount: 740000})
	require.NoError(t, err)
	assert.InDelta(t, 22200, tx.Commission, 0.001)
	_, err = a.Deals().Cancel(ctx, tx.ID)
	require.NoError(t, err)

	agentID, err := a.Agents().Add(ctx, domain.Agent{FirstName: "Sam", CommissionRate: 0.05})
	require.NoError(t, err)
	_, err = a.Agents().Assign(ctx, agentID, props[0].ID)
	require.NoError(t, err)
	tx, err = a.Deals().Open(ctx, domain.Transaction{PropertyID: props[0].ID, ClientID: clients[0].ID, Amount: 740000})
	require.NoError(t, err)
	assert.InDelta(t, 37000, tx.Commission, 0.001)
	_, err = a.Deals().Complete(ctx, tx.ID)
	require.NoError(t, err)
	agent, err := a.Agents().Get(ctx, agentID)
	require.NoError(t, err)
	assert.InDelta(t, 740000, agent.TotalSales, 0.001)

	require.NoError(t, a.Agents().Delete(ctx, agentID))
	require.NoError(t, a.Properties().Delete(ctx, props[1].ID))
	require.NoError(t, a.Clients().Delete(ctx, clients[0].ID))
}

func TestRunJobs(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, config.StorageMemory)
	_, err := a.SeedSampleData(ctx)
	require.NoError(t, err)

	files, err := a.WriteReports(ctx)
	require.NoError(t, err)
	require.Len(t, files, 5)
	data, err := os.ReadFile(filepath.Join(a.Config().GetReportDir(), "properties.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, strings.Join(a.Config().Report.PropertyFields, ","), lines[0])
	assert.FileExists(t, filepath.Join(a.Config().GetReportDir(), "realtydesk.xlsx"))

	files, err = a.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, files, 4)
	for _, f := range files {
		assert.FileExists(t, f)
	}

	require.NoError(t, a.RunJobNow(ctx, JobReport))
	require.NoError(t, a.RunJobNow(ctx, JobSnapshot))
	assert.True(t, domain.IsValidation(a.RunJobNow(ctx, "vacuum")))
}

func TestScheduler(t *testing.T) {
	a := newTestApp(t, config.StorageMemory)
	assert.Equal(t, 2, a.StartScheduler())

	cfg := config.DefaultAppConfig()
	cfg.System.Workdir = t.TempDir()
	cfg.Database.Type = config.StorageMemory
	cfg.Logger.Level = "error"
	cfg.Jobs.SnapshotSpec = ""
	b := NewApplication(cfg)
	require.NoError(t, b.Init())
	defer b.Release()
	assert.Equal(t, 1, b.StartScheduler())
}
