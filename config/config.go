package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Storage drivers understood by DBConfig.Type
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageBolt     = "bolt"
	StoragePostgres = "postgres"
)

// SysConfig system configuration
type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

// DBConfig storage configuration. Type selects the backend; the remaining
// fields only apply to postgres.
type DBConfig struct {
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	SSLMode  string `yaml:"sslmode"`
	DSN      string `yaml:"dsn"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
	Debug    bool   `yaml:"debug"`
}

// LogConfig logging configuration
type LogConfig struct {
	Mode       string `yaml:"mode"`
	Level      string `yaml:"level"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

// ReportConfig default report columns and output directory
type ReportConfig struct {
	Dir               string   `yaml:"dir"`
	PropertyFields    []string `yaml:"property_fields"`
	ClientFields      []string `yaml:"client_fields"`
	TransactionFields []string `yaml:"transaction_fields"`
	AgentFields       []string `yaml:"agent_fields"`
}

// MatchConfig client-property matching defaults
type MatchConfig struct {
	Threshold float64 `yaml:"threshold"`
	Limit     int     `yaml:"limit"`
}

// DealConfig transaction settings. CommissionRate applies to deals without an
// agent and is the rate given to agents added without one.
type DealConfig struct {
	CommissionRate float64 `yaml:"commission_rate"`
}

// MailConfig SMTP settings for match digests. Host empty disables sending.
type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// JobsConfig cron specs for the schedule command. Empty disables a job.
type JobsConfig struct {
	ReportSpec   string `yaml:"report_spec"`
	SnapshotSpec string `yaml:"snapshot_spec"`
}

type AppConfig struct {
	System   SysConfig    `yaml:"system"`
	Database DBConfig     `yaml:"database"`
	Logger   LogConfig    `yaml:"logger"`
	Report   ReportConfig `yaml:"report"`
	Match    MatchConfig  `yaml:"match"`
	Deal     DealConfig   `yaml:"deal"`
	Mail     MailConfig   `yaml:"mail"`
	Jobs     JobsConfig   `yaml:"jobs"`
}

func (c *AppConfig) GetDataDir() string {
	return filepath.Join(c.System.Workdir, "data")
}

func (c *AppConfig) GetLogDir() string {
	return filepath.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetBackupDir() string {
	return filepath.Join(c.System.Workdir, "backup")
}

func (c *AppConfig) GetReportDir() string {
	if c.Report.Dir != "" {
		return c.Report.Dir
	}
	return filepath.Join(c.System.Workdir, "reports")
}

// PostgresDSN returns the explicit DSN or one assembled from the discrete fields.
func (d DBConfig) PostgresDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Passwd, d.Name, sslmode)
}

// DefaultAppConfig returns a configuration that works without any file:
// JSONL storage under ./realtydesk.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Appid:    "realtydesk",
			Location: "Local",
			Workdir:  "realtydesk",
		},
		Database: DBConfig{
			Type:     StorageFile,
			Host:     "127.0.0.1",
			Port:     5432,
			Name:     "realtydesk",
			User:     "postgres",
			SSLMode:  "disable",
			MaxConn:  10,
			IdleConn: 2,
		},
		Logger: LogConfig{
			Mode:     "development",
			Level:    "warn",
			Filename: "",
		},
		Report: ReportConfig{
			PropertyFields:    []string{"id", "address", "city", "type", "status", "price", "bedrooms", "bathrooms", "area"},
			ClientFields:      []string{"id", "first_name", "last_name", "email", "phone", "type", "budget_min", "budget_max"},
			TransactionFields: []string{"id", "property_id", "client_id", "agent_id", "kind", "amount", "commission", "date", "status"},
			AgentFields:       []string{"id", "first_name", "last_name", "email", "phone", "commission_rate", "total_sales"},
		},
		Match: MatchConfig{
			Threshold: 0.5,
			Limit:     5,
		},
		Deal: DealConfig{
			CommissionRate: 0.03,
		},
		Mail: MailConfig{
			Port: 587,
		},
		Jobs: JobsConfig{
			ReportSpec:   "@daily",
			SnapshotSpec: "@every 6h",
		},
	}
}

// LoadConfig builds the configuration: defaults, then the YAML file at path
// (skipped when path is empty), then .env and REALTYDESK_* environment
// variables.
func LoadConfig(path string) (*AppConfig, error) {
	cfg := DefaultAppConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	}

	// A missing .env is normal.
	_ = godotenv.Load()
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail late.
func (c *AppConfig) Validate() error {
	switch c.Database.Type {
	case StorageMemory, StorageFile, StorageBolt, StoragePostgres:
	default:
		return fmt.Errorf("unsupported database type %q", c.Database.Type)
	}
	if c.Match.Threshold < 0 || c.Match.Threshold > 1 {
		return fmt.Errorf("match threshold must be within [0,1], got %v", c.Match.Threshold)
	}
	if c.Deal.CommissionRate < 0 || c.Deal.CommissionRate >= 1 {
		return fmt.Errorf("commission rate must be within [0,1), got %v", c.Deal.CommissionRate)
	}
	if c.System.Workdir == "" {
		return fmt.Errorf("system workdir is required")
	}
	return nil
}

func applyEnv(cfg *AppConfig) {
	setEnvString("REALTYDESK_WORKDIR", &cfg.System.Workdir)
	setEnvString("REALTYDESK_LOCATION", &cfg.System.Location)
	setEnvBool("REALTYDESK_DEBUG", &cfg.System.Debug)

	setEnvString("REALTYDESK_DB_TYPE", &cfg.Database.Type)
	setEnvString("REALTYDESK_DB_HOST", &cfg.Database.Host)
	setEnvInt("REALTYDESK_DB_PORT", &cfg.Database.Port)
	setEnvString("REALTYDESK_DB_NAME", &cfg.Database.Name)
	setEnvString("REALTYDESK_DB_USER", &cfg.Database.User)
	setEnvString("REALTYDESK_DB_PWD", &cfg.Database.Passwd)
	setEnvString("REALTYDESK_DB_DSN", &cfg.Database.DSN)

	setEnvString("REALTYDESK_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvString("REALTYDESK_LOGGER_LEVEL", &cfg.Logger.Level)
	setEnvBool("REALTYDESK_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)

	setEnvString("REALTYDESK_SMTP_HOST", &cfg.Mail.Host)
	setEnvInt("REALTYDESK_SMTP_PORT", &cfg.Mail.Port)
	setEnvString("REALTYDESK_SMTP_USER", &cfg.Mail.Username)
	setEnvString("REALTYDESK_SMTP_PWD", &cfg.Mail.Password)
	setEnvString("REALTYDESK_SMTP_FROM", &cfg.Mail.From)
}

func setEnvString(name string, dst *string) {
	if v, ok := os.LookupEnv(name); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func setEnvInt(name string, dst *int) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		if n, err := cast.ToIntE(strings.TrimSpace(v)); err == nil {
			*dst = n
		}
	}
}

func setEnvBool(name string, dst *bool) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		if b, err := cast.ToBoolE(strings.TrimSpace(v)); err == nil {
			*dst = b
		}
	}
}
