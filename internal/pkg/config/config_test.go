//go:build unit

package config_test

import (
	"testing"
	"time"

	"booking-reconciler/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_USER", "reconciler")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "marketplace")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0 * * * *", cfg.Jobs.BookingExpirationCron)
	assert.Equal(t, "30 * * * *", cfg.Jobs.PaymentReminderCron)
	assert.Equal(t, "Asia/Kolkata", cfg.Jobs.TimeZone)
	assert.Equal(t, 3*24*time.Hour, cfg.Jobs.ReminderAfter())
	assert.Equal(t, 7*24*time.Hour, cfg.Jobs.DisputeAfter())
	assert.Equal(t, 10*time.Minute, cfg.Lock.TTL())
	assert.Equal(t, 10*time.Minute, cfg.Lock.PaymentReminderTTL())
	assert.Equal(t, time.Duration(0), cfg.Lock.RefreshInterval())
	assert.Equal(t, "locks:jobs", cfg.Lock.Prefix)
	assert.Equal(t, 60*time.Second, cfg.Redis.RetryBackoff)
	assert.True(t, cfg.Jobs.RunOnStartup)
}

func TestLoadConfigRejectsInvertedCutoffs(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PAYMENT_REMINDER_DAYS", "7")
	t.Setenv("PAYMENT_DISPUTE_DAYS", "7")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRejectsUnknownTimezone(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CRON_TZ", "Mars/Olympus_Mons")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRejectsBadFailOpen(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JOB_LOCK_FAIL_OPEN", "sometimes")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRefreshInterval(t *testing.T) {
	tests := []struct {
		name       string
		refresh    string
		reminderMs string
		wantErr    bool
	}{
		{name: "unset uses half the TTL", refresh: "0"},
		{name: "below both TTLs", refresh: "60000"},
		{name: "equal to the job TTL", refresh: "600000", wantErr: true},
		{name: "above the job TTL", refresh: "900000", wantErr: true},
		{name: "above the payment reminder TTL", refresh: "120000", reminderMs: "90000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("JOB_LOCK_REFRESH_MS", tt.refresh)
			if tt.reminderMs != "" {
				t.Setenv("PAYMENT_REMINDER_LOCK_TTL_MS", tt.reminderMs)
			}

			_, err := config.LoadConfig()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestResolveFailOpen(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		failOpen string
		want     bool
	}{
		{name: "development defaults to open", env: "development", want: true},
		{name: "production defaults to closed", env: "production", want: false},
		{name: "production explicitly open", env: "production", failOpen: "true", want: true},
		{name: "development explicitly closed", env: "development", failOpen: "false", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewTestConfig()
			cfg.App.Env = tt.env
			cfg.Lock.FailOpen = tt.failOpen
			assert.Equal(t, tt.want, cfg.ResolveFailOpen())
		})
	}
}

func TestNewTestConfigIsValid(t *testing.T) {
	assert.NoError(t, config.Validate(config.NewTestConfig()))
}
