package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.GetAddr())
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 60*time.Second, cfg.Game.TurnDuration)
	assert.Equal(t, 5, cfg.Game.RequiredWords)
	assert.True(t, cfg.Game.AutoStart)
	assert.Equal(t, 2*time.Minute, cfg.Game.ReconnectGracePeriod)
	assert.Equal(t, 20.0, cfg.RateLimit.MessagesPerSecond)
	assert.Equal(t, 40, cfg.RateLimit.Burst)
	assert.Empty(t, cfg.Server.PublicURL)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("TURN_DURATION_SECONDS", "45")
	t.Setenv("REQUIRED_WORDS", "3")
	t.Setenv("AUTO_START", "false")
	t.Setenv("MESSAGE_RATE", "2.5")
	t.Setenv("PUBLIC_URL", "https://hat.example.com")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 45*time.Second, cfg.Game.TurnDuration)
	assert.Equal(t, 3, cfg.Game.RequiredWords)
	assert.False(t, cfg.Game.AutoStart)
	assert.Equal(t, 2.5, cfg.RateLimit.MessagesPerSecond)
	assert.Equal(t, "https://hat.example.com", cfg.Server.PublicURL)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("REQUIRED_WORDS", "many")
	t.Setenv("AUTO_START", "maybe")
	t.Setenv("MESSAGE_RATE", "fast")

	cfg := Load()

	assert.Equal(t, 5, cfg.Game.RequiredWords)
	assert.True(t, cfg.Game.AutoStart)
	assert.Equal(t, 20.0, cfg.RateLimit.MessagesPerSecond)
}

func TestGameSettings(t *testing.T) {
	t.Setenv("TEAM_COUNT", "3")
	t.Setenv("MIN_TEAM_SIZE", "1")
	t.Setenv("MAX_PLAYERS", "8")

	s := Load().GameSettings()

	assert.Equal(t, 3, s.TeamCount)
	assert.Equal(t, 1, s.MinTeamSize)
	assert.Equal(t, 8, s.MaxPlayers)
	assert.Equal(t, 60*time.Second, s.TurnDuration)
	assert.Len(t, s.Rounds, 3)
}
