package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("EMAIL_PROVIDER", "console")
	t.Setenv("INTERVIEW_TIMEZONE", "")
	t.Setenv("INTERVIEW_LOCK_BACKEND", "")
	t.Setenv("AI_MAX_HISTORY", "")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Asia/Ho_Chi_Minh", cfg.Interview.Location().String())
	assert.Equal(t, "redis", cfg.Interview.LockBackend)
	assert.Equal(t, 24*time.Hour, cfg.Interview.ReminderLeadTime)
	assert.Equal(t, "@every 15m", cfg.Interview.ReminderSchedule)
	assert.Equal(t, "hireflow", cfg.Auth.JWT.Issuer)
	assert.Equal(t, []string{"hireflow-api"}, cfg.Auth.JWT.Audience)
	assert.Equal(t, 30, cfg.AI.MaxHistory)
}

func TestLoad_Overrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("INTERVIEW_TIMEZONE", "UTC")
	t.Setenv("INTERVIEW_LOCK_BACKEND", "memory")
	t.Setenv("INTERVIEW_LOCK_TTL", "3s")
	t.Setenv("JWT_AUDIENCE", "web, mobile")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.UTC, cfg.Interview.Location())
	assert.Equal(t, 3*time.Second, cfg.Interview.LockTTL)
	assert.Equal(t, []string{"web", "mobile"}, cfg.Auth.JWT.Audience)
	assert.True(t, cfg.AI.Enabled())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "short secret", env: map[string]string{"JWT_SECRET_KEY": "short"}, want: "at least 32"},
		{name: "bad timezone", env: map[string]string{"INTERVIEW_TIMEZONE": "Mars/Olympus"}, want: "INTERVIEW_TIMEZONE"},
		{name: "bad lock backend", env: map[string]string{"INTERVIEW_LOCK_BACKEND": "etcd"}, want: "INTERVIEW_LOCK_BACKEND"},
		{name: "smtp without host", env: map[string]string{"EMAIL_PROVIDER": "smtp", "SMTP_HOST": ""}, want: "SMTP_HOST"},
		{name: "tiny history", env: map[string]string{"AI_MAX_HISTORY": "1"}, want: "AI_MAX_HISTORY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestInterviewConfig_LocationFallback(t *testing.T) {
	assert.Equal(t, time.Local, InterviewConfig{}.Location())
	assert.Equal(t, "UTC", InterviewConfig{TimeZone: "UTC"}.Location().String())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	dc := DatabaseConfig{Host: "db", Port: 5432, User: "hr", Password: "pw", Name: "hireflow", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=hr password=pw dbname=hireflow sslmode=disable", dc.DSN())
}
