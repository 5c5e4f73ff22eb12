package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAppConfig(t *testing.T) {
	cfg := DefaultAppConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, StorageFile, cfg.Database.Type)
	assert.Equal(t, 0.5, cfg.Match.Threshold)
	assert.Equal(t, 5, cfg.Match.Limit)
	assert.Equal(t, filepath.Join("realtydesk", "data"), cfg.GetDataDir())
	assert.Equal(t, filepath.Join("realtydesk", "reports"), cfg.GetReportDir())
}

func TestLoadConfigFromYAML(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "realtydesk.yml")
	content := `
system:
  workdir: /var/lib/realtydesk
database:
  type: bolt
match:
  threshold: 0.7
report:
  property_fields: [id, price]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/realtydesk", cfg.System.Workdir)
	assert.Equal(t, StorageBolt, cfg.Database.Type)
	assert.Equal(t, 0.7, cfg.Match.Threshold)
	assert.Equal(t, []string{"id", "price"}, cfg.Report.PropertyFields)
	// untouched sections keep their defaults
	assert.Equal(t, 5, cfg.Match.Limit)
	assert.Equal(t, 0.03, cfg.Deal.CommissionRate)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("REALTYDESK_DB_TYPE", "memory")
	t.Setenv("REALTYDESK_DB_PORT", "6543")
	t.Setenv("REALTYDESK_WORKDIR", "/tmp/rd")
	t.Setenv("REALTYDESK_LOGGER_FILE_ENABLE", "true")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Database.Type)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "/tmp/rd", cfg.System.Workdir)
	assert.True(t, cfg.Logger.FileEnable)
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("REALTYDESK_SMTP_HOST=smtp.example.com\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("REALTYDESK_SMTP_HOST") })

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com", cfg.Mail.Host)
}

func TestValidateRejectsUnknownStorage(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.Database.Type = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = DefaultAppConfig()
	cfg.Match.Threshold = 1.5
	assert.Error(t, cfg.Validate())
}

func TestPostgresDSN(t *testing.T) {
	d := DBConfig{Host: "db", Port: 5432, User: "u", Passwd: "p", Name: "n"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", d.PostgresDSN())

	d.DSN = "postgres://x"
	assert.Equal(t, "postgres://x", d.PostgresDSN())
}
