package config_test

import (
	"testing"

	"github.com/srihar-15/EMS/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("defaults with required secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "0123456789abcdef0123")

		cfg, err := config.Load()
		assert.NoError(t, err)
		assert.Equal(t, "3000", cfg.HTTP.Port)
		assert.Equal(t, 3, cfg.Leave.EscalationThresholdDays)
		assert.Equal(t, "09:30", cfg.Attendance.LateCutoff)
		assert.Equal(t, 4.0, cfg.Attendance.HalfDayHours)
		assert.Equal(t, []string{"http://localhost:5173"}, cfg.HTTP.AllowedOrigins)

		minutes, err := cfg.Attendance.CutoffClock()
		assert.NoError(t, err)
		assert.Equal(t, 9*60+30, minutes)
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "0123456789abcdef0123")
		t.Setenv("LEAVE_ESCALATION_THRESHOLD_DAYS", "5")
		t.Setenv("ATTENDANCE_LATE_CUTOFF", "10:00")
		t.Setenv("JWT_ACCESS_TTL", "30m")

		cfg, err := config.Load()
		assert.NoError(t, err)
		assert.Equal(t, 5, cfg.Leave.EscalationThresholdDays)
		assert.Equal(t, "10:00", cfg.Attendance.LateCutoff)
		assert.Equal(t, "30m0s", cfg.Auth.AccessTokenTTL.String())
	})

	t.Run("negative missing jwt secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")

		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("negative malformed cutoff", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "0123456789abcdef0123")
		t.Setenv("ATTENDANCE_LATE_CUTOFF", "half past nine")

		_, err := config.Load()
		assert.Error(t, err)
	})
}
