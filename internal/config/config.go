package config

import (
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"hatgame/internal/domain"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Game      GameConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port      string
	Host      string
	Env       string // "development" or "production"
	PublicURL string // base for invite links; derived from the request when empty
}

// GameConfig holds game-related configuration
type GameConfig struct {
	TurnDuration         time.Duration
	RequiredWords        int
	MinTeamSize          int
	TeamCount            int
	MaxTeams             int
	MaxPlayers           int
	AutoStart            bool
	ReconnectGracePeriod time.Duration
	RoomCodeLength       int
}

// RateLimitConfig bounds inbound websocket messages per connection
type RateLimitConfig struct {
	MessagesPerSecond float64
	Burst             int
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load loads configuration from environment variables with defaults. A .env
// file in the working directory is applied first.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:      getEnv("PORT", "8080"),
			Host:      getEnv("HOST", "0.0.0.0"),
			Env:       getEnv("ENV", "development"),
			PublicURL: getEnv("PUBLIC_URL", ""),
		},
		Game: GameConfig{
			TurnDuration:         time.Duration(getEnvInt("TURN_DURATION_SECONDS", 60)) * time.Second,
			RequiredWords:        getEnvInt("REQUIRED_WORDS", 5),
			MinTeamSize:          getEnvInt("MIN_TEAM_SIZE", 2),
			TeamCount:            getEnvInt("TEAM_COUNT", 2),
			MaxTeams:             getEnvInt("MAX_TEAMS", domain.MaxTeamsCap),
			MaxPlayers:           getEnvInt("MAX_PLAYERS", 16),
			AutoStart:            getEnvBool("AUTO_START", true),
			ReconnectGracePeriod: time.Duration(getEnvInt("RECONNECT_GRACE_PERIOD_SECONDS", 120)) * time.Second,
			RoomCodeLength:       getEnvInt("ROOM_CODE_LENGTH", 6),
		},
		RateLimit: RateLimitConfig{
			MessagesPerSecond: getEnvFloat("MESSAGE_RATE", 20),
			Burst:             getEnvInt("MESSAGE_BURST", 40),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// GameSettings converts the game section into per-room settings. Values the
// room cannot use fall back to the defaults when the room is created.
func (c *Config) GameSettings() domain.GameSettings {
	s := domain.DefaultGameSettings()
	s.TurnDuration = c.Game.TurnDuration
	s.RequiredWords = c.Game.RequiredWords
	s.MinTeamSize = c.Game.MinTeamSize
	s.TeamCount = c.Game.TeamCount
	s.MaxTeams = c.Game.MaxTeams
	s.MaxPlayers = c.Game.MaxPlayers
	s.AutoStart = c.Game.AutoStart
	return s
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// getEnv returns an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as an integer or a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
