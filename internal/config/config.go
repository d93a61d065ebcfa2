package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"chartfolio/internal/errors"

	"github.com/go-playground/validator/v10"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Charts   ChartConfig
	Calendar CalendarConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string `validate:"required,numeric"`
	GinMode string `validate:"oneof=debug release test"`
}

// DataConfig says where chart documents come from. BaseURL is the origin serving
// /blog/data/ and wins over Dir; with neither set the embedded fixtures are used.
type DataConfig struct {
	BaseURL string `validate:"omitempty,url"`
	Dir     string
	Watch   bool
	Timeout time.Duration `validate:"gte=0"`
}

// ChartConfig holds rendering settings
type ChartConfig struct {
	Theme        string        `validate:"oneof=dark light"`
	Debounce     time.Duration `validate:"gte=0"`
	DefaultWidth float64       `validate:"gt=0"`
	Parallelism  int64         `validate:"gte=1"`
}

// CalendarConfig holds the calendar page settings
type CalendarConfig struct {
	Password   string
	Table      string        `validate:"oneof=planner classic"`
	SessionTTL time.Duration `validate:"gte=0"`
}

var validate = validator.New()

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:   *loadServerConfig(),
		Data:     *loadDataConfig(),
		Charts:   *loadChartConfig(),
		Calendar: *loadCalendarConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		BaseURL: strings.TrimSuffix(getEnvOrDefault("DATA_BASE_URL", ""), "/"),
		Dir:     getEnvOrDefault("DATA_DIR", ""),
		Watch:   getEnvBoolOrDefault("DATA_WATCH", false),
		Timeout: getEnvDurationOrDefault("DATA_TIMEOUT", 0),
	}
}

func loadChartConfig() *ChartConfig {
	return &ChartConfig{
		Theme:        getEnvOrDefault("CHART_THEME", "dark"),
		Debounce:     getEnvDurationOrDefault("RESIZE_DEBOUNCE", 250*time.Millisecond),
		DefaultWidth: getEnvFloatOrDefault("CHART_WIDTH", 960),
		Parallelism:  int64(getEnvIntOrDefault("CHART_PARALLELISM", 4)),
	}
}

func loadCalendarConfig() *CalendarConfig {
	return &CalendarConfig{
		Password:   getEnvOrDefault("CALENDAR_PASSWORD", ""),
		Table:      getEnvOrDefault("CALENDAR_TABLE", "planner"),
		SessionTTL: getEnvDurationOrDefault("SESSION_TTL", 12*time.Hour),
	}
}

func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return errors.ConfigInvalid(fe.Namespace() + " failed " + fe.Tag() + " (got " + fmtValue(fe.Value()) + ")")
		}
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if config.Data.Watch && config.Data.Dir == "" {
		return errors.ConfigInvalid("DATA_WATCH requires DATA_DIR")
	}
	return nil
}

func fmtValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strconv.Quote(t)
	case time.Duration:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	}
	return "?"
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
