package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server Configuration
	Port string

	// Database Configuration
	DatabaseURL string

	// Blockchain Configuration
	EthereumRPC           string
	VendorContractAddress string

	// Wallet-auth / profile provider configuration
	AuthProviderURL string
	AuthAppID       string
	AuthAppSecret   string
	UseMockProfiles bool

	// XP calculator configuration
	CalculatorStrategy string // "standard", "progressive", "tiered"
	BaseXP             int
	DailyBonus         int
	WeeklyBonus        int
	MinimumXP          int
	MaximumXP          int // 0 = unbounded

	// Event boost window (optional)
	EventName       string
	EventMultiplier float64
	EventStart      time.Time
	EventEnd        time.Time

	// Named context multipliers applied to check-ins, e.g.
	// "launch_week=1.5,weekend=1.25"
	ContextMultipliers map[string]float64
}

func Load() *Config {
	return &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Database
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Blockchain
		EthereumRPC:           os.Getenv("ETHEREUM_RPC_URL"),
		VendorContractAddress: os.Getenv("VENDOR_CONTRACT_ADDRESS"),

		// Profile provider
		AuthProviderURL: getEnv("AUTH_PROVIDER_URL", "https://auth.privy.io/api/v1"),
		AuthAppID:       os.Getenv("AUTH_APP_ID"),
		AuthAppSecret:   os.Getenv("AUTH_APP_SECRET"),
		UseMockProfiles: getBoolEnv("USE_MOCK_PROFILES", false),

		// XP tuning
		CalculatorStrategy: getEnv("XP_STRATEGY", "tiered"),
		BaseXP:             getIntEnv("XP_BASE", 50),
		DailyBonus:         getIntEnv("XP_DAILY_BONUS", 10),
		WeeklyBonus:        getIntEnv("XP_WEEKLY_BONUS", 50),
		MinimumXP:          getIntEnv("XP_MINIMUM", 10),
		MaximumXP:          getIntEnv("XP_MAXIMUM", 0),

		// Event window
		EventName:       os.Getenv("XP_EVENT_NAME"),
		EventMultiplier: getFloatEnv("XP_EVENT_MULTIPLIER", 1.0),
		EventStart:      getTimeEnv("XP_EVENT_START"),
		EventEnd:        getTimeEnv("XP_EVENT_END"),

		// Contexts
		ContextMultipliers: getMultiplierMapEnv("CONTEXT_MULTIPLIERS"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fallback
		}
		return boolVal
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return fallback
		}
		return intVal
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		floatVal, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fallback
		}
		return floatVal
	}
	return fallback
}

func getTimeEnv(key string) time.Time {
	if value := os.Getenv(key); value != "" {
		t, err := time.Parse(time.RFC3339, value)
		if err == nil {
			return t
		}
	}
	return time.Time{}
}

// getMultiplierMapEnv parses "name=1.5,other=2" pairs; malformed entries are skipped.
func getMultiplierMapEnv(key string) map[string]float64 {
	result := make(map[string]float64)
	value := os.Getenv(key)
	if value == "" {
		return result
	}

	for _, pair := range strings.Split(value, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			continue
		}
		mult, err := strconv.ParseFloat(parts[1], 64)
		if err != nil || parts[0] == "" {
			continue
		}
		result[parts[0]] = mult
	}
	return result
}
