package app

import (
	"context"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/talkincode/realtydesk/config"
	"github.com/talkincode/realtydesk/internal/domain"
	"github.com/talkincode/realtydesk/internal/notify"
	"github.com/talkincode/realtydesk/internal/store"
)

const boltFile = "realtydesk.db"

type Application struct {
	appConfig  *config.AppConfig
	gormDB     *gorm.DB
	boltDB     *bolt.DB
	sched      *cron.Cron
	bus        EventBus.Bus
	properties *store.PropertyStore
	clients    *store.ClientStore
	agents     *store.AgentStore
	deals      *store.TransactionStore
	mailer     *notify.Mailer
}

// Ensure Application implements all interfaces
var (
	_ ConfigProvider    = (*Application)(nil)
	_ StoreProvider     = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

// DB returns the gorm handle; nil unless the postgres backend is selected.
func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

func (a *Application) Properties() *store.PropertyStore {
	return a.properties
}

func (a *Application) Clients() *store.ClientStore {
	return a.clients
}

func (a *Application) Agents() *store.AgentStore {
	return a.agents
}

func (a *Application) Deals() *store.TransactionStore {
	return a.deals
}

func (a *Application) Mailer() *notify.Mailer {
	return a.mailer
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// Init sets up logging, opens the configured backend and builds the stores.
func (a *Application) Init() error {
	cfg := a.appConfig
	time.Local = timeLocation(cfg.System.Location)

	if err := initLogger(cfg); err != nil {
		return err
	}

	a.bus = EventBus.New()
	a.subscribeAudit()

	if err := a.openStores(); err != nil {
		return err
	}
	zap.S().Debugf("storage ready, type: %s", cfg.Database.Type)

	a.mailer = notify.NewMailer(cfg.Mail)
	a.initJob()
	return nil
}

func timeLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		zap.S().Errorf("timezone config error: %v", err)
		return time.Local
	}
	return loc
}

// initLogger writes to stderr, plus a rotated JSON file when enabled. Stdout
// is left to command output.
func initLogger(cfg *config.AppConfig) error {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.Logger.Level)
	if err != nil {
		return domain.NewValidationError("logger.level", "%v", err)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.OutputPaths = []string{"stderr"}

	var log *zap.Logger
	if cfg.Logger.FileEnable {
		filename := cfg.Logger.Filename
		if filename == "" {
			filename = filepath.Join(cfg.GetLogDir(), "realtydesk.log")
		}
		lumberJackLogger := &lumberjack.Logger{
			Filename:   filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stderr),
				zapConfig.Level,
			),
		)
		log = zap.New(core, zap.AddCaller())
	} else {
		log, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			return errors.Wrap(err, "build logger")
		}
	}

	zap.ReplaceGlobals(log)
	return nil
}

func (a *Application) openStores() error {
	cfg := a.appConfig
	var (
		props   store.Backend[domain.Property]
		clients store.Backend[domain.Client]
		agents  store.Backend[domain.Agent]
		deals   store.Backend[domain.Transaction]
		err     error
	)

	switch cfg.Database.Type {
	case config.StorageMemory:
		props = store.NewMemoryBackend[domain.Property]()
		clients = store.NewMemoryBackend[domain.Client]()
		agents = store.NewMemoryBackend[domain.Agent]()
		deals = store.NewMemoryBackend[domain.Transaction]()
	case config.StorageFile:
		dir := cfg.GetDataDir()
		if props, err = store.OpenFileBackend[domain.Property](filepath.Join(dir, "properties.jsonl")); err != nil {
			return err
		}
		if clients, err = store.OpenFileBackend[domain.Client](filepath.Join(dir, "clients.jsonl")); err != nil {
			return err
		}
		if agents, err = store.OpenFileBackend[domain.Agent](filepath.Join(dir, "agents.jsonl")); err != nil {
			return err
		}
		if deals, err = store.OpenFileBackend[domain.Transaction](filepath.Join(dir, "transactions.jsonl")); err != nil {
			return err
		}
	case config.StorageBolt:
		if err := os.MkdirAll(cfg.GetDataDir(), 0o755); err != nil {
			return errors.Wrap(err, "create data dir")
		}
		if a.boltDB, err = store.OpenBolt(filepath.Join(cfg.GetDataDir(), boltFile)); err != nil {
			return err
		}
		if props, err = store.NewBoltBackend[domain.Property](a.boltDB, "properties"); err != nil {
			return err
		}
		if clients, err = store.NewBoltBackend[domain.Client](a.boltDB, "clients"); err != nil {
			return err
		}
		if agents, err = store.NewBoltBackend[domain.Agent](a.boltDB, "agents"); err != nil {
			return err
		}
		if deals, err = store.NewBoltBackend[domain.Transaction](a.boltDB, "transactions"); err != nil {
			return err
		}
	case config.StoragePostgres:
		if a.gormDB, err = getDatabase(cfg.Database); err != nil {
			return err
		}
		if err := a.MigrateDB(cfg.Database.Debug); err != nil {
			return err
		}
		props = store.NewGormBackend[domain.Property](a.gormDB)
		clients = store.NewGormBackend[domain.Client](a.gormDB)
		agents = store.NewGormBackend[domain.Agent](a.gormDB)
		deals = store.NewGormBackend[domain.Transaction](a.gormDB)
	default:
		return domain.NewValidationError("database.type", "unknown storage %q", cfg.Database.Type)
	}

	a.properties = store.NewPropertyStore(props, a.bus)
	a.clients = store.NewClientStore(clients, a.bus)
	a.agents = store.NewAgentStore(agents, a.properties, a.bus, cfg.Deal.CommissionRate)
	a.deals = store.NewTransactionStore(deals, a.properties, a.clients, a.agents, a.bus, cfg.Deal.CommissionRate)
	return nil
}

func getDatabase(cfg config.DBConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if cfg.Debug {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), gormCfg)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "postgres pool")
	}
	sqlDB.SetMaxOpenConns(cfg.MaxConn)
	sqlDB.SetMaxIdleConns(cfg.IdleConn)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}

func (a *Application) MigrateDB(track bool) (err error) {
	defer func() {
		if err1 := recover(); err1 != nil {
			if os.Getenv("GO_DEGUB_TRACE") != "" {
				debug.PrintStack()
			}
			if err2, ok := err1.(error); ok {
				err = err2
				zap.S().Error(err2.Error())
			}
		}
	}()
	db := a.gormDB
	if track {
		db = db.Debug()
	}
	return errors.Wrap(db.Migrator().AutoMigrate(domain.Tables...), "migrate")
}

// Snapshot writes every record set to timestamped JSONL files in the backup
// directory and returns their paths.
func (a *Application) Snapshot(ctx context.Context) ([]string, error) {
	dir := a.appConfig.GetBackupDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create backup dir")
	}
	stamp := time.Now().Format("20060102-150405")
	path := func(kind string) string {
		return filepath.Join(dir, kind+"-"+stamp+".jsonl")
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

	files := []string{path("properties"), path("clients"), path("agents"), path("transactions")}
	if err := store.WriteJSONLFile(files[0], props); err != nil {
		return nil, err
	}
	if err := store.WriteJSONLFile(files[1], clients); err != nil {
		return nil, err
	}
	if err := store.WriteJSONLFile(files[2], agents); err != nil {
		return nil, err
	}
	if err := store.WriteJSONLFile(files[3], deals); err != nil {
		return nil, err
	}
	return files, nil
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		<-a.sched.Stop().Done()
	}
	if a.boltDB != nil {
		_ = a.boltDB.Close()
	}
	if a.gormDB != nil {
		if sqlDB, err := a.gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = zap.L().Sync()
}
