package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CSV_UPLOAD_PATH", "")
	t.Setenv("IMPORT_SCHEDULE", "")
	t.Setenv("IMPORT_ATOMIC", "")
	t.Setenv("IMPORT_LOCK_TTL_MINUTES", "")

	cfg := Load()

	assert.Equal(t, "MON-FRI 17:30", cfg.ImportSchedule)
	assert.True(t, cfg.ImportScheduleEnabled)
	assert.False(t, cfg.ImportAtomic)
	assert.Equal(t, 30*time.Minute, cfg.ImportLockTTL)
	assert.Empty(t, cfg.UploadDir)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("CSV_UPLOAD_PATH", "/srv/classlog")
	t.Setenv("IMPORT_ATOMIC", "true")
	t.Setenv("IMPORT_SCHEDULE_ENABLED", "false")
	t.Setenv("IMPORT_LOCK_TTL_MINUTES", "5")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("MAX_DB_CONNS", "not-a-number")

	cfg := Load()

	assert.Equal(t, "/srv/classlog", cfg.UploadDir)
	assert.True(t, cfg.ImportAtomic)
	assert.False(t, cfg.ImportScheduleEnabled)
	assert.Equal(t, 5*time.Minute, cfg.ImportLockTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, int32(8), cfg.MaxDBConns, "invalid ints fall back to the default")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			DatabaseURL:    "postgres://localhost/classlog",
			MaxDBConns:     4,
			UploadDir:      "/srv/classlog",
			ImportTimezone: "Local",
			ImportLockTTL:  time.Minute,
		}
	}

	require.NoError(t, base().Validate())

	missingDir := base()
	missingDir.UploadDir = "  "
	err := missingDir.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CSV_UPLOAD_PATH")

	badZone := base()
	badZone.ImportTimezone = "Mars/Olympus_Mons"
	assert.ErrorContains(t, badZone.Validate(), "IMPORT_TIMEZONE")

	server := base()
	err = server.ValidateServer()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD_HASH")
}

func TestLocation(t *testing.T) {
	cfg := &Config{ImportTimezone: "Asia/Hong_Kong"}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Hong_Kong", loc.String())

	cfg.ImportTimezone = ""
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}
