package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yeremiapane/restoadmin/scheduling"
	"github.com/yeremiapane/restoadmin/utils"
)

// Config holds everything the service reads from the environment.
type Config struct {
	Port    string
	GinMode string

	DBDriver   string
	DBDSN      string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	SQLitePath string

	Timezone          string
	OpeningHour       int
	ClosingHour       int
	SlotStep          time.Duration
	BookingDuration   time.Duration
	SoonThreshold     time.Duration
	ReservedLookahead time.Duration
	StorageTimeout    time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RateLimit     int
	RateWindow    time.Duration

	RabbitMQURL     string
	FloorConfigPath string
	AdminLogin      string
	AdminPassword   string
	CORSOrigin      string
}

// Load reads the configuration from the environment. Call godotenv.Load first
// if a .env file should be honoured.
func Load() *Config {
	return &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBDSN:      os.Getenv("DB_DSN"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBName:     getEnv("DB_NAME", "restoadmin"),
		SQLitePath: getEnv("SQLITE_PATH", "restoadmin.db"),

		Timezone:          getEnv("APP_TIMEZONE", "Local"),
		OpeningHour:       getEnvInt("WORKING_HOURS_START", 12),
		ClosingHour:       getEnvInt("WORKING_HOURS_END", 23),
		SlotStep:          getEnvMinutes("BOOKING_SLOT_STEP_MIN", 30),
		BookingDuration:   getEnvMinutes("BOOKING_DURATION_MIN", 120),
		SoonThreshold:     getEnvMinutes("SOON_THRESHOLD_MIN", 30),
		ReservedLookahead: getEnvMinutes("RESERVED_LOOKAHEAD_MIN", 120),
		StorageTimeout:    getEnvDuration("STORAGE_TIMEOUT", 5*time.Second),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RateLimit:     getEnvInt("RATE_LIMIT", 50),
		RateWindow:    getEnvDuration("RATE_WINDOW", time.Second),

		RabbitMQURL:     os.Getenv("RABBITMQ_URL"),
		FloorConfigPath: os.Getenv("FLOOR_CONFIG_PATH"),
		AdminLogin:      os.Getenv("ADMIN_LOGIN"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		CORSOrigin:      getEnv("CORS_ORIGIN", "*"),
	}
}

// Schedule returns the engine settings.
func (c *Config) Schedule() scheduling.Settings {
	s := scheduling.DefaultSettings()
	s.OpeningHour = c.OpeningHour
	s.ClosingHour = c.ClosingHour
	s.SlotStep = c.SlotStep
	s.BookingDuration = c.BookingDuration
	s.SoonThreshold = c.SoonThreshold
	s.ReservedLookahead = c.ReservedLookahead
	return s
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if err := c.Schedule().ValidateHours(); err != nil {
		return fmt.Errorf("WORKING_HOURS_START/WORKING_HOURS_END: %w", err)
	}
	if c.SlotStep <= 0 {
		return fmt.Errorf("BOOKING_SLOT_STEP_MIN must be positive")
	}
	if c.BookingDuration <= 0 {
		return fmt.Errorf("BOOKING_DURATION_MIN must be positive")
	}
	if _, err := c.loadLocation(); err != nil {
		return fmt.Errorf("APP_TIMEZONE: %w", err)
	}
	return nil
}

// Location resolves APP_TIMEZONE. An unknown zone is logged and falls back to
// time.Local; Validate reports it at startup.
func (c *Config) Location() *time.Location {
	loc, err := c.loadLocation()
	if err != nil {
		utils.ErrorLogger.Warnf("Unknown APP_TIMEZONE %q, using local time: %v", c.Timezone, err)
		return time.Local
	}
	return loc
}

func (c *Config) loadLocation() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvMinutes(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Minute
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return fallback
}
