// Package serpapi provides a client for the SerpApi Google Shopping search API.
package serpapi

import "time"

const (
	// DefaultBaseURL is the public SerpApi endpoint.
	DefaultBaseURL = "https://serpapi.com"
	// MaxResults is the number of shopping results kept per query.
	MaxResults = 12
)

// Config holds configuration for the SerpApi client.
type Config struct {
	APIKey        string        // API key for authentication
	BaseURL       string        // Base URL for the API (e.g., "https://serpapi.com")
	Country       string        // gl parameter
	Language      string        // hl parameter
	Timeout       time.Duration // HTTP request timeout
	RatePerSecond float64       // outbound request rate; <= 0 disables limiting
	Burst         int           // limiter burst size
}

// withDefaults fills zero values with the fixed US/English locale and public endpoint.
func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Country == "" {
		c.Country = "us"
	}
	if c.Language == "" {
		c.Language = "en"
	}
	if c.Burst <= 0 {
		c.Burst = 1
	}
	return c
}
