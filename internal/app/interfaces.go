package app

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/talkincode/realtydesk/config"
	"github.com/talkincode/realtydesk/internal/notify"
	"github.com/talkincode/realtydesk/internal/store"
)

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// StoreProvider provides the record stores
type StoreProvider interface {
	Properties() *store.PropertyStore
	Clients() *store.ClientStore
	Agents() *store.AgentStore
	Deals() *store.TransactionStore
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context.
// Commands depend on this rather than on *Application.
type AppContext interface {
	ConfigProvider
	StoreProvider
	SchedulerProvider

	Mailer() *notify.Mailer

	// SeedSampleData adds the demo listings and clients that are missing
	SeedSampleData(ctx context.Context) (SeedResult, error)
	// WriteReports regenerates the CSV and XLSX reports
	WriteReports(ctx context.Context) ([]string, error)
	// Snapshot dumps every store to JSONL in the backup dir
	Snapshot(ctx context.Context) ([]string, error)
	// RunJobNow runs a scheduled job by name
	RunJobNow(ctx context.Context, name string) error
	// StartScheduler starts the configured cron jobs
	StartScheduler() int
	Release()
}
