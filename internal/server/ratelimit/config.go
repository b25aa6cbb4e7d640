package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the limit for one method and path.
type EndpointConfig struct {
	Path   string        // exact path, or a prefix when it ends with "/"
	Method string        // HTTP method
	Limit  int           // requests per window; <= 0 is unlimited
	Window time.Duration // refill window
	Burst  int           // bucket capacity, defaults to Limit
}

// LoadConfig reads rate limiting configuration from JOBBY_RATE_LIMIT_* variables.
func LoadConfig() *Config {
	if !getEnvBool("JOBBY_RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	loginLimit := getEnvInt("JOBBY_RATE_LIMIT_LOGIN", 10)
	listLimit := getEnvInt("JOBBY_RATE_LIMIT_JOBS", 120)

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("JOBBY_RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   getEnvDuration("JOBBY_RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("JOBBY_RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleTimeout:     getEnvDuration("JOBBY_RATE_LIMIT_IDLE_TIMEOUT", time.Hour),
		Whitelist:       parseIPList(os.Getenv("JOBBY_RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("JOBBY_RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: endpointConfigs(loginLimit, listLimit),
	}
}

// DefaultEndpointConfigs returns the endpoint limits used when nothing is configured.
func DefaultEndpointConfigs() []EndpointConfig {
	return endpointConfigs(10, 120)
}

func endpointConfigs(loginLimit, listLimit int) []EndpointConfig {
	return []EndpointConfig{
		// Login hits the upstream auth endpoint with user credentials
		{Path: "/login", Method: "POST", Limit: loginLimit, Window: time.Minute, Burst: min(loginLimit, 5)},

		// Every listing or detail page load is at least one upstream request
		{Path: "/jobs", Method: "GET", Limit: listLimit, Window: time.Minute, Burst: min(listLimit, 20)},
		{Path: "/jobs/", Method: "GET", Limit: listLimit, Window: time.Minute, Burst: min(listLimit, 20)},

		// Static pages and health are handled by the default limit or the matcher
	}
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
