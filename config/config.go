/* config.go
 * Contains the runtime configuration, read from the environment once at startup. main loads `.env` first
 * Authors: AIRO Web Team
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Festival API
	APIURL       string
	APIRateLimit float64 // outbound requests per second, 0 disables throttling

	// HTTP server
	HTTPAddr      string
	PublicURL     string
	CSRFKey       string
	SecureCookies bool

	// Google sign in
	GoogleClientID     string
	GoogleClientSecret string

	// Session storage
	SessionBackend string
	MongoURI       string
	MongoDB        string
	RedisURL       string
	SessionTTL     time.Duration

	// Organizer announcements
	DiscordToken     string
	DiscordChannelID string
}

// FromEnv reads the configuration from the process environment
func FromEnv() (Config, error) {
	return Load(os.Getenv)
}

// Load reads the configuration through getenv, applying defaults for unset values.
// Preconditions: Receives a lookup function such as os.Getenv
// Postconditions: Returns the configuration, or an error naming the first malformed value
func Load(getenv func(string) string) (Config, error) {
	get := func(key string, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	c := Config{
		APIURL:             strings.TrimRight(get("API_URL", "http://localhost:3000"), "/"),
		HTTPAddr:           get("HTTP_ADDR", ":8080"),
		PublicURL:          strings.TrimRight(get("PUBLIC_URL", "http://localhost:8080"), "/"),
		CSRFKey:            get("CSRF_KEY", ""),
		GoogleClientID:     get("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: get("GOOGLE_CLIENT_SECRET", ""),
		SessionBackend:     strings.ToLower(get("SESSION_BACKEND", "memory")),
		MongoURI:           get("MONGO_URI", ""),
		MongoDB:            get("MONGO_DB", "airo"),
		RedisURL:           get("REDIS_URL", ""),
		DiscordToken:       get("DISCORD_BOT_TOKEN", ""),
		DiscordChannelID:   get("DISCORD_CHANNEL_ID", ""),
	}

	var err error
	if c.SecureCookies, err = convertStrToBool(get("SECURE_COOKIES", "false")); err != nil {
		return c, fmt.Errorf("SECURE_COOKIES: %w", err)
	}
	if c.SessionTTL, err = time.ParseDuration(get("SESSION_TTL", "720h")); err != nil {
		return c, fmt.Errorf("SESSION_TTL: %w", err)
	}
	if c.SessionTTL <= 0 {
		return c, fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.APIRateLimit, err = strconv.ParseFloat(get("API_RATE_LIMIT", "10"), 64); err != nil {
		return c, fmt.Errorf("API_RATE_LIMIT: %w", err)
	}
	if c.CSRFKey != "" && len(c.CSRFKey) != 32 {
		return c, fmt.Errorf("CSRF_KEY must be exactly 32 bytes, got %d", len(c.CSRFKey))
	}
	switch c.SessionBackend {
	case "memory", "mongo", "redis":
	default:
		return c, fmt.Errorf("SESSION_BACKEND must be memory, mongo or redis, got %q", c.SessionBackend)
	}
	return c, nil
}

// GoogleEnabled reports whether the Google sign in redirect flow is configured
func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// DiscordEnabled reports whether organizer announcements are configured
func (c Config) DiscordEnabled() bool {
	return c.DiscordToken != "" && c.DiscordChannelID != ""
}
