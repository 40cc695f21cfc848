package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string
	GuildID      string // Primary Discord guild ID

	// Giveaway configuration
	MaxWinnerCount       int           // Upper bound for winners per giveaway
	ScanInterval         time.Duration // How often the expiration worker scans
	DefaultEntryEmoji    string        // Entry button emoji when the organizer sets none
	RequiredStatusMarker string        // Token required in a member's custom status for conditioned prizes

	// Display configuration
	DisplayTimezone string // IANA zone for rendered timestamps; the engine itself stays UTC

	// Authorized users (besides administrators)
	AuthorizedUserIDs []int64

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
				instance.DiscordToken = "test-token"
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// Location resolves the configured display timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	if c.DisplayTimezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Discord
		DiscordToken: os.Getenv("DISCORD_TOKEN"),
		GuildID:      os.Getenv("GUILD_ID"),

		// Giveaway settings with defaults
		MaxWinnerCount:       25,
		ScanInterval:         time.Minute,
		DefaultEntryEmoji:    getEnvWithDefault("DEFAULT_ENTRY_EMOJI", "🎉"),
		RequiredStatusMarker: getEnvWithDefault("REQUIRED_STATUS_MARKER", ".gift/event"),

		// Display
		DisplayTimezone: getEnvWithDefault("DISPLAY_TIMEZONE", "Europe/Paris"),

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if maxWinners := os.Getenv("MAX_WINNER_COUNT"); maxWinners != "" {
		if parsed, err := strconv.Atoi(maxWinners); err == nil && parsed > 0 {
			config.MaxWinnerCount = parsed
		}
	}
	if interval := os.Getenv("SCAN_INTERVAL"); interval != "" {
		if parsed, err := time.ParseDuration(interval); err == nil && parsed > 0 {
			config.ScanInterval = parsed
		}
	}
	// Parse pre-authorized organizer IDs
	if authorizedIDs := os.Getenv("AUTHORIZED_USER_IDS"); authorizedIDs != "" {
		idStrings := strings.Split(authorizedIDs, ",")
		for _, idStr := range idStrings {
			idStr = strings.TrimSpace(idStr)
			if idStr != "" {
				if id, err := strconv.ParseInt(idStr, 10, 64); err == nil {
					config.AuthorizedUserIDs = append(config.AuthorizedUserIDs, id)
				}
			}
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.GuildID == "" {
			return nil, fmt.Errorf("GUILD_ID is required")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:          "test",
		MaxWinnerCount:       25,
		ScanInterval:         time.Minute,
		DefaultEntryEmoji:    "🎉",
		RequiredStatusMarker: ".gift/event",
	}
}
