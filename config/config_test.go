package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "venue")
	t.Setenv("DB_NAME", "venue")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		setRequired(t)
		s, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "8002", s.Port)
		assert.Equal(t, 587, s.SMTPPort)
		assert.Equal(t, 10*time.Second, s.SMSTimeout)
		assert.Equal(t, "Europe/London", s.Location().String())
		assert.False(t, s.IsProduction())
		assert.False(t, s.SMSConfigured())
		assert.Same(t, s, Get())
	})

	t.Run("missing secret", func(t *testing.T) {
		setRequired(t)
		t.Setenv("JWT_SECRET", "")
		_, err := Load()
		assert.ErrorContains(t, err, "JWT_SECRET is required")
	})

	t.Run("short secret", func(t *testing.T) {
		setRequired(t)
		t.Setenv("JWT_SECRET", "short")
		_, err := Load()
		assert.ErrorContains(t, err, "at least 16 characters")
	})

	t.Run("bad timezone", func(t *testing.T) {
		setRequired(t)
		t.Setenv("VENUE_TIMEZONE", "Mars/Olympus")
		_, err := Load()
		assert.ErrorContains(t, err, "VENUE_TIMEZONE")
	})

	t.Run("overrides", func(t *testing.T) {
		setRequired(t)
		t.Setenv("APP_ENV", "Production")
		t.Setenv("SMS_ACCOUNT_SID", "AC1")
		t.Setenv("SMS_AUTH_TOKEN", "tok")
		t.Setenv("SMS_FROM", "+447700900000")
		t.Setenv("SMS_TIMEOUT", "3s")
		s, err := Load()
		require.NoError(t, err)
		assert.True(t, s.IsProduction())
		assert.True(t, s.SMSConfigured())
		assert.Equal(t, 3*time.Second, s.SMSTimeout)
	})
}
