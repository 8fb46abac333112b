package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go-simpler.org/env"
)

var loadOnce sync.Once

func loadDotEnv() {
	loadOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			zap.S().Info("No .env file found, using system environment")
		}
	})
}

// Config returns a single environment value after the .env file has been read.
func Config(key string) string {
	loadDotEnv()
	return os.Getenv(key)
}

type Settings struct {
	AppEnv   string `env:"APP_ENV" default:"development"`
	Port     string `env:"PORT" default:"8002"`
	LogLevel string `env:"LOG_LEVEL" default:"info"`
	Timezone string `env:"VENUE_TIMEZONE" default:"Europe/London"`

	CorsOrigins string `env:"CORS_ORIGINS" default:"http://localhost:5173"`
	PublicURL   string `env:"PUBLIC_URL" default:"http://localhost:5173"`

	DBHost     string `env:"DB_HOST"`
	DBPort     string `env:"DB_PORT" default:"5432"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"`

	RedisAddr string `env:"REDIS_ADDR" default:"localhost:6379"`
	JwtSecret string `env:"JWT_SECRET"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" default:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"`

	SMSAccountSID    string        `env:"SMS_ACCOUNT_SID"`
	SMSAuthToken     string        `env:"SMS_AUTH_TOKEN"`
	SMSFrom          string        `env:"SMS_FROM"`
	SMSBaseURL       string        `env:"SMS_BASE_URL" default:"https://api.twilio.com/2010-04-01"`
	SMSWebhookSecret string        `env:"SMS_WEBHOOK_SECRET"`
	SMSRatePerSecond float64       `env:"SMS_RATE_PER_SECOND" default:"5"`
	SMSTimeout       time.Duration `env:"SMS_TIMEOUT" default:"10s"`

	AMQPURL string `env:"AMQP_URL"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" default:"gemini-2.5-flash"`

	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`
}

var current *Settings

// Load reads the environment into Settings and validates the keys the server cannot start without.
func Load() (*Settings, error) {
	loadDotEnv()

	var s Settings
	if err := env.Load(&s, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	current = &s
	return &s, nil
}

// Get returns the last loaded settings, or defaults when Load has not run (tests, CLI).
func Get() *Settings {
	if current != nil {
		return current
	}
	var s Settings
	_ = env.Load(&s, nil)
	current = &s
	return current
}

func (s *Settings) validate() error {
	required := map[string]string{
		"DB_HOST":    s.DBHost,
		"DB_USER":    s.DBUser,
		"DB_NAME":    s.DBName,
		"JWT_SECRET": s.JwtSecret,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}
	if len(s.JwtSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return fmt.Errorf("VENUE_TIMEZONE is invalid: %w", err)
	}
	return nil
}

func (s *Settings) IsProduction() bool {
	return strings.EqualFold(s.AppEnv, "production")
}

func (s *Settings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (s *Settings) SMSConfigured() bool {
	return s.SMSAccountSID != "" && s.SMSAuthToken != "" && s.SMSFrom != ""
}

func (s *Settings) SMTPConfigured() bool {
	return s.SMTPHost != "" && s.SMTPFrom != ""
}
