package config

import (
	"fmt"
	"log"
	"os"
	"time"
)

type Config struct {
	AppPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Timezone is the single civil timezone the whole system runs in; all
	// calendar dates (daily totals, presence calendar) are taken in it.
	Timezone string

	// PhotoDir is the root of the evidence photo tree.
	PhotoDir string

	AdminEmail    string
	AdminPassword string
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() *Config {
	return &Config{
		AppPort: get("PORT", "8080"),

		DBHost:     get("DB_HOST", "localhost"),
		DBPort:     get("DB_PORT", "5432"),
		DBUser:     get("DB_USER", "postgres"),
		DBPassword: get("DB_PASSWORD", "postgres"),
		DBName:     get("DB_NAME", "attendance"),
		DBSSLMode:  get("DB_SSLMODE", "disable"),

		Timezone: get("TIMEZONE", "Asia/Kolkata"),
		PhotoDir: get("PHOTO_DIR", "photos"),

		AdminEmail:    get("ADMIN_EMAIL", "admin@surefy.ai"),
		AdminPassword: get("ADMIN_PASSWORD", "Admin@2025"),
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode, c.Timezone,
	)
}

// Location resolves the configured timezone, falling back to UTC if the name
// is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("unknown timezone %q, falling back to UTC", c.Timezone)
		return time.UTC
	}
	return loc
}
