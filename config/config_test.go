/* config_test.go
 * Contains unit tests for config.go functions
 * Authors: AIRO Web Team
 */

package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load(env(nil))

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", c.APIURL)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, "memory", c.SessionBackend)
	assert.Equal(t, "airo", c.MongoDB)
	assert.Equal(t, 720*time.Hour, c.SessionTTL)
	assert.Equal(t, 10.0, c.APIRateLimit)
	assert.False(t, c.SecureCookies)
	assert.False(t, c.GoogleEnabled())
	assert.False(t, c.DiscordEnabled())
}

func TestLoad_Values(t *testing.T) {
	c, err := Load(env(map[string]string{
		"API_URL":              " https://api.airo.in/ ",
		"PUBLIC_URL":           "https://airo.in/",
		"SESSION_BACKEND":      "Redis",
		"REDIS_URL":            "redis://localhost:6379/0",
		"SESSION_TTL":          "24h",
		"SECURE_COOKIES":       "TRUE",
		"API_RATE_LIMIT":       "2.5",
		"CSRF_KEY":             strings.Repeat("k", 32),
		"GOOGLE_CLIENT_ID":     "id",
		"GOOGLE_CLIENT_SECRET": "secret",
		"DISCORD_BOT_TOKEN":    "bot",
		"DISCORD_CHANNEL_ID":   "123",
	}))

	require.NoError(t, err)
	assert.Equal(t, "https://api.airo.in", c.APIURL)
	assert.Equal(t, "https://airo.in", c.PublicURL)
	assert.Equal(t, "redis", c.SessionBackend)
	assert.Equal(t, 24*time.Hour, c.SessionTTL)
	assert.True(t, c.SecureCookies)
	assert.Equal(t, 2.5, c.APIRateLimit)
	assert.True(t, c.GoogleEnabled())
	assert.True(t, c.DiscordEnabled())
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bool":     {"SECURE_COOKIES": "yes"},
		"ttl":      {"SESSION_TTL": "forever"},
		"zero ttl": {"SESSION_TTL": "0s"},
		"rate":     {"API_RATE_LIMIT": "fast"},
		"csrf":     {"CSRF_KEY": "short"},
		"backend":  {"SESSION_BACKEND": "sqlite"},
	}
	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(env(values))
			assert.Error(t, err)
		})
	}
}
