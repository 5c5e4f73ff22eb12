package app

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/talkincode/realtydesk/internal/domain"
	"github.com/talkincode/realtydesk/internal/report"
)

// Job names accepted by RunJobNow.
const (
	JobReport   = "report"
	JobSnapshot = "snapshot"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// initJob registers the configured jobs; StartScheduler runs them.
func (a *Application) initJob() {
	a.sched = cron.New(cron.WithLocation(timeLocation(a.appConfig.System.Location)), cron.WithParser(cronParser))

	jobs := []struct {
		name string
		spec string
	}{
		{JobReport, a.appConfig.Jobs.ReportSpec},
		{JobSnapshot, a.appConfig.Jobs.SnapshotSpec},
	}
	for _, job := range jobs {
		if job.spec == "" {
			continue
		}
		name := job.name
		if _, err := a.sched.AddFunc(job.spec, func() { a.schedTask(name) }); err != nil {
			zap.S().Errorf("init job %s error %s", name, err.Error())
		}
	}
}

// StartScheduler starts the cron runner and returns the number of jobs.
func (a *Application) StartScheduler() int {
	a.sched.Start()
	return len(a.sched.Entries())
}

func (a *Application) schedTask(name string) {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	if err := a.RunJobNow(context.Background(), name); err != nil {
		zap.L().Error("scheduled job failed", zap.String("job", name), zap.Error(err))
	}
}

// RunJobNow triggers a job immediately by name
func (a *Application) RunJobNow(ctx context.Context, name string) error {
	var (
		files []string
		err   error
	)
	switch name {
	case JobReport:
		files, err = a.WriteReports(ctx)
	case JobSnapshot:
		files, err = a.Snapshot(ctx)
	default:
		return domain.NewValidationError("job", "unknown job %q", name)
	}
	if err != nil {
		return err
	}
	zap.L().Info("job finished", zap.String("job", name), zap.Strings("files", files))
	return nil
}

// WriteReports writes properties.csv, clients.csv, agents.csv,
// transactions.csv and a realtydesk.xlsx workbook with the configured columns.
func (a *Application) WriteReports(ctx context.Context) ([]string, error) {
	cfg := a.appConfig
	dir := cfg.GetReportDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create report dir")
	}

	props, err := a.properties.List(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := a.clients.List(ctx)
	if err != nil {
		return nil, err
	}
	agents, err := a.agents.List(ctx)
	if err != nil {
		return nil, err
	}
	deals, err := a.deals.List(ctx)
	if err != nil {
		return nil, err
	}

	sheets := []report.Sheet{
		{Name: "properties", Fields: cfg.Report.PropertyFields, Records: report.Properties(props)},
		{Name: "clients", Fields: cfg.Report.ClientFields, Records: report.Clients(clients)},
		{Name: "agents", Fields: cfg.Report.AgentFields, Records: report.Agents(agents)},
		{Name: "transactions", Fields: cfg.Report.TransactionFields, Records: report.Transactions(deals)},
	}

	var files []string
	for _, sh := range sheets {
		path := filepath.Join(dir, sh.Name+".csv")
		if err := writeFile(path, func(f *os.File) error {
			return report.GenerateCSV(f, sh.Records, sh.Fields)
		}); err != nil {
			return files, err
		}
		files = append(files, path)
	}

	path := filepath.Join(dir, "realtydesk.xlsx")
	if err := writeFile(path, func(f *os.File) error {
		return report.WriteWorkbook(f, sheets...)
	}); err != nil {
		return files, err
	}
	return append(files, path), nil
}

func writeFile(path string, fn func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "close %s", path)
}
