package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	App      AppConfig      `yaml:"app"`
	Export   ExportConfig   `yaml:"export"`
	Telegram TelegramConfig `yaml:"telegram"`
	Reminder ReminderConfig `yaml:"reminder"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// AppConfig holds application-specific settings
type AppConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	Timezone  string `yaml:"timezone"`
}

// ExportConfig selects where published reports go. Reports are written to S3
// when Bucket is set, to Dir otherwise.
type ExportConfig struct {
	Dir       string `yaml:"dir"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// TelegramConfig enables the Telegram event sink when Token is set
type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

// ReminderConfig controls the round reminder job
type ReminderConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// Defaults returns the configuration used when nothing is set
func Defaults() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: "sqlite",
			Path:   "pool.db",
			Host:   "localhost",
			Port:   "5432",
			User:   "postgres",
			DBName: "totocalcio",
		},
		Server: ServerConfig{
			Port:           "8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		App: AppConfig{
			Timezone: "Europe/Rome",
		},
		Export: ExportConfig{
			Dir:    "reports",
			Region: "auto",
		},
		Reminder: ReminderConfig{
			Enabled:  true,
			Interval: time.Hour,
		},
	}
}

// Load reads .env, then the YAML file named by CONFIG_FILE (if any), then
// environment variables. Later sources win.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := config.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	// Validate required fields
	if config.App.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if config.Reminder.Interval <= 0 {
		return nil, fmt.Errorf("reminder interval must be positive")
	}

	return config, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.Path = getEnv("DB_PATH", c.Database.Path)
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.DBName = getEnv("DB_NAME", c.Database.DBName)

	c.Server.Port = getEnv("SERVER_PORT", c.Server.Port)
	if origins := getEnv("ALLOWED_ORIGINS", ""); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}

	c.App.JWTSecret = getEnv("JWT_SECRET", c.App.JWTSecret)
	c.App.Timezone = getEnv("APP_TIMEZONE", c.App.Timezone)

	c.Export.Dir = getEnv("EXPORT_DIR", c.Export.Dir)
	c.Export.Bucket = getEnv("EXPORT_S3_BUCKET", c.Export.Bucket)
	c.Export.Prefix = getEnv("EXPORT_S3_PREFIX", c.Export.Prefix)
	c.Export.Region = getEnv("EXPORT_S3_REGION", c.Export.Region)
	c.Export.Endpoint = getEnv("EXPORT_S3_ENDPOINT", c.Export.Endpoint)
	c.Export.AccessKey = getEnv("EXPORT_S3_ACCESS_KEY", c.Export.AccessKey)
	c.Export.SecretKey = getEnv("EXPORT_S3_SECRET_KEY", c.Export.SecretKey)

	c.Telegram.Token = getEnv("TELEGRAM_BOT_TOKEN", c.Telegram.Token)
	if chatID := getEnv("TELEGRAM_CHAT_ID", ""); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.Telegram.ChatID = id
	}

	if enabled := getEnv("REMINDER_ENABLED", ""); enabled != "" {
		on, err := strconv.ParseBool(enabled)
		if err != nil {
			return fmt.Errorf("invalid REMINDER_ENABLED: %w", err)
		}
		c.Reminder.Enabled = on
	}
	if interval := getEnv("REMINDER_INTERVAL", ""); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return fmt.Errorf("invalid REMINDER_INTERVAL: %w", err)
		}
		c.Reminder.Interval = d
	}
	return nil
}

// GetDSN returns the connection string for the configured driver
func (c *Config) GetDSN() string {
	if c.Database.Driver == "postgres" {
		return fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			c.Database.Host,
			c.Database.Port,
			c.Database.User,
			c.Database.Password,
			c.Database.DBName,
		)
	}
	return c.Database.Path
}

// Location returns the configured timezone, falling back to UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
