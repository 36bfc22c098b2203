package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, 0.5, cfg.ReferralBonus)
	assert.Equal(t, 13, cfg.BroadcastHour)
	assert.Equal(t, 0, cfg.BroadcastMinute)
	assert.Equal(t, "Europe/Moscow", cfg.BroadcastTimezone)
	assert.Empty(t, cfg.AdminUsernames)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("REFERRAL_BONUS", "1.25")
	t.Setenv("BROADCAST_TIME", "09:45")
	t.Setenv("BROADCAST_TZ", "Europe/Berlin")
	t.Setenv("ADMIN_USERNAMES", "@alice, bob ,,@carol")

	cfg := LoadConfig()

	assert.Equal(t, 1.25, cfg.ReferralBonus)
	assert.Equal(t, 9, cfg.BroadcastHour)
	assert.Equal(t, 45, cfg.BroadcastMinute)
	assert.Equal(t, "Europe/Berlin", cfg.BroadcastTimezone)
	assert.Equal(t, []string{"alice", "bob", "carol"}, cfg.AdminUsernames)
}

func TestParseBonusRejectsGarbage(t *testing.T) {
	assert.Equal(t, 0.5, parseBonus("free money"))
	assert.Equal(t, 0.5, parseBonus("-1"))
	assert.Equal(t, 0.0, parseBonus("0"))
	assert.Equal(t, 2.0, parseBonus("2"))
}

func TestParseClock(t *testing.T) {
	hour, minute := parseClock("07:30")
	assert.Equal(t, 7, hour)
	assert.Equal(t, 30, minute)

	hour, minute = parseClock("midnightish")
	assert.Equal(t, 13, hour)
	assert.Equal(t, 0, minute)
}

func TestParseUsernames(t *testing.T) {
	assert.Nil(t, parseUsernames(""))
	assert.Equal(t, []string{"one"}, parseUsernames("@one"))
	assert.Equal(t, []string{"one", "two"}, parseUsernames(" one , @two "))
}
