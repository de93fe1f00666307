package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Exact path, or a prefix when it ends with "/"
	Method string        // HTTP method; empty matches any method
	Limit  int           // Maximum requests per window; zero or less is unlimited
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 300),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns limits for the routes that call the language model.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// One extraction call plus one call per posting.
		{Path: "/outreach", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
		{Path: "/outreach/stream", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},

		// Single model call.
		{Path: "/jobs/extract", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/mail", Method: "POST", Limit: 60, Window: time.Hour, Burst: 5},

		// Local work only.
		{Path: "/resume", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/normalize", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
	}
}

// MatchEndpoint returns the configuration for a request, or nil to use the
// default limit. Exact paths win over prefixes. GET /health is unlimited.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		return &EndpointConfig{Path: path, Method: method}
	}

	methodMatches := func(c *EndpointConfig) bool {
		return c.Method == "" || c.Method == method
	}

	for i := range configs {
		if c := &configs[i]; c.Path == path && methodMatches(c) {
			return c
		}
	}
	for i := range configs {
		c := &configs[i]
		if methodMatches(c) && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}
	return nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
