package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration values
type Config struct {
	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseTable      string
	Port               string
	GinMode            string
	DefaultCountryCode string
	RestrictCities     bool
	AllowedOrigins     []string
	FormSessionTTL     time.Duration
}

// LoadConfig reads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:    os.Getenv("SUPABASE_ANON_KEY"),
		SupabaseTable:      getEnv("SUPABASE_TABLE", "entrenadores"),
		Port:               getEnv("PORT", "8080"),
		GinMode:            getEnv("GIN_MODE", "debug"),
		DefaultCountryCode: strings.TrimPrefix(getEnv("DEFAULT_COUNTRY_CODE", "57"), "+"),
		RestrictCities:     getBool("RESTRICT_CITIES", false),
		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "*")),
		FormSessionTTL:     getDuration("FORM_SESSION_TTL", 30*time.Minute),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("Invalid value for %s (%q), using %v", key, raw, fallback)
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		log.Printf("Invalid value for %s (%q), using %s", key, raw, fallback)
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
