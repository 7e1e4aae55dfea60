package manage

import (
	"os"
	"strconv"
)

// Config holds the connection settings for the external system. Credentials
// combine into a basic-auth identity of the form "company+publicKey".
type Config struct {
	BaseURL    string
	Company    string
	PublicKey  string
	PrivateKey string
	ClientID   string

	// RequestsPerSecond caps outbound calls at the adapter boundary.
	RequestsPerSecond float64

	// Defaults for the fixed classification fields on new opportunities
	// and the default board/status for new projects.
	DefaultOpportunityStatus int
	DefaultOpportunityType   int
	DefaultProjectStatus     int
	DefaultProjectBoard      int
}

// LoadConfig reads the adapter settings from the environment, falling back
// to development defaults.
func LoadConfig() Config {
	return Config{
		BaseURL:                  getenv("MANAGE_BASE_URL", "https://manage.example.com/v4_6_release/apis/3.0"),
		Company:                  getenv("MANAGE_COMPANY", "velo"),
		PublicKey:                getenv("MANAGE_PUBLIC_KEY", ""),
		PrivateKey:               getenv("MANAGE_PRIVATE_KEY", ""),
		ClientID:                 getenv("MANAGE_CLIENT_ID", ""),
		RequestsPerSecond:        getenvFloat("MANAGE_REQUESTS_PER_SECOND", 2),
		DefaultOpportunityStatus: getenvInt("MANAGE_DEFAULT_OPPORTUNITY_STATUS", 2),
		DefaultOpportunityType:   getenvInt("MANAGE_DEFAULT_OPPORTUNITY_TYPE", 5),
		DefaultProjectStatus:     getenvInt("MANAGE_DEFAULT_PROJECT_STATUS", 8),
		DefaultProjectBoard:      getenvInt("MANAGE_DEFAULT_PROJECT_BOARD", 25),
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
