package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/kjannette/trade-dashboard/internal/logger"
)

const (
	SourceFile     = "file"
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

type Config struct {
	ServiceName string
	Port        int

	// Trade source
	TradesSource string
	TradesFile   string
	TradesURL    string
	MaxRows      int
	MaxFileBytes int64
	StrictFormat bool

	// Dashboard
	StaticDir       string
	CORSAllowOrigin string
	DisplayTimezone string

	// Logging and alerts
	LogLevel   string
	LogFile    string
	WebhookURL string

	// Database
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string
}

var defaults = map[string]any{
	"service_name":      "trade-dashboard",
	"port":              3000,
	"trades_source":     SourceFile,
	"trades_file":       "tradeHistory.csv",
	"trades_url":        "",
	"max_rows":          100000,
	"max_file_bytes":    32 << 20,
	"strict_format":     false,
	"static_dir":        "public",
	"cors_allow_origin": "*",
	"display_timezone":  "Local",
	"log_level":         "info",
	"log_file":          "",
	"webhook_url":       "",
	"db_host":           "localhost",
	"db_port":           5432,
	"db_name":           "trade_dashboard",
	"db_user":           "",
	"db_password":       "",
}

// Load reads .env into the environment, then resolves every key from the
// environment, config/dashboard.yaml, or the built-in default, in that order.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("dashboard")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{
		ServiceName: v.GetString("service_name"),
		Port:        v.GetInt("port"),

		TradesSource: strings.ToLower(v.GetString("trades_source")),
		TradesFile:   v.GetString("trades_file"),
		TradesURL:    v.GetString("trades_url"),
		MaxRows:      v.GetInt("max_rows"),
		MaxFileBytes: v.GetInt64("max_file_bytes"),
		StrictFormat: v.GetBool("strict_format"),

		StaticDir:       v.GetString("static_dir"),
		CORSAllowOrigin: v.GetString("cors_allow_origin"),
		DisplayTimezone: v.GetString("display_timezone"),

		LogLevel:   v.GetString("log_level"),
		LogFile:    v.GetString("log_file"),
		WebhookURL: v.GetString("webhook_url"),

		DBHost:     v.GetString("db_host"),
		DBPort:     v.GetInt("db_port"),
		DBName:     v.GetString("db_name"),
		DBUser:     v.GetString("db_user"),
		DBPassword: v.GetString("db_password"),
	}
}

func (c *Config) Validate() error {
	var errs []string

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Sprintf("PORT %d is out of range", c.Port))
	}
	switch c.TradesSource {
	case SourceFile:
		if c.TradesFile == "" {
			errs = append(errs, "TRADES_FILE is required when TRADES_SOURCE=file")
		}
	case SourceHTTP:
		if c.TradesURL == "" {
			errs = append(errs, "TRADES_URL is required when TRADES_SOURCE=http")
		}
	case SourcePostgres:
		if c.DBUser == "" {
			errs = append(errs, "DB_USER is required when TRADES_SOURCE=postgres")
		}
	default:
		errs = append(errs, fmt.Sprintf("TRADES_SOURCE %q must be one of file, http, postgres", c.TradesSource))
	}
	if c.MaxRows < 0 {
		errs = append(errs, "MAX_ROWS must not be negative")
	}
	if c.MaxFileBytes < 0 {
		errs = append(errs, "MAX_FILE_BYTES must not be negative")
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}

	ctx := context.Background()
	if c.MaxRows == 0 && c.MaxFileBytes == 0 {
		logger.Warn(ctx, "MAX_ROWS and MAX_FILE_BYTES are both 0, trade exports are unbounded")
	}
	if c.WebhookURL == "" {
		logger.Warn(ctx, "WEBHOOK_URL not set, ingestion failures only go to the log")
	}
	return nil
}

// Location resolves DISPLAY_TIMEZONE, the zone the hourly histogram and
// time-of-day buckets are reported in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return nil, fmt.Errorf("DISPLAY_TIMEZONE %q: %w", c.DisplayTimezone, err)
	}
	return loc, nil
}

func (c *Config) Print() {
	fields := []zap.Field{
		zap.String("service", c.ServiceName),
		zap.Int("port", c.Port),
		zap.String("trades_source", c.TradesSource),
		zap.Int("max_rows", c.MaxRows),
		zap.Int64("max_file_bytes", c.MaxFileBytes),
		zap.Bool("strict_format", c.StrictFormat),
		zap.String("static_dir", c.StaticDir),
		zap.String("display_timezone", c.DisplayTimezone),
		zap.String("webhook", boolLabel(c.WebhookURL != "", "configured", "not set")),
	}
	switch c.TradesSource {
	case SourceFile:
		fields = append(fields, zap.String("trades_file", c.TradesFile))
	case SourceHTTP:
		fields = append(fields, zap.String("trades_url", c.TradesURL))
	case SourcePostgres:
		fields = append(fields, zap.String("db", fmt.Sprintf("%s@%s:%d/%s", c.DBUser, c.DBHost, c.DBPort, c.DBName)))
	}
	logger.Info(context.Background(), "trade dashboard configuration", fields...)
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
