package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"rankboard/domain/page"
	"rankboard/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `validate:"required"`
	Data    DataConfig    `validate:"required"`
	Render  RenderConfig  `validate:"required"`
	Logging LoggingConfig `validate:"required"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string `validate:"required,numeric"`
	GinMode string `validate:"oneof=debug release test"`
}

// DataConfig says where page definitions and workbooks live
type DataConfig struct {
	// PagesFile is a YAML page definition; empty selects the built-in pages
	PagesFile string
	// WorkbookDir resolves relative workbook paths
	WorkbookDir  string `validate:"required"`
	CacheEnabled bool
}

// RenderConfig holds defaults that sections may override
type RenderConfig struct {
	SchemaMode   page.SchemaMode   `validate:"oneof=strict pad lenient"`
	CoercionMode page.CoercionMode `validate:"oneof=per-cell column"`
	Missing      string
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=text json"`
	// SeqURL additionally ships logs to a Seq server when set
	SeqURL string `validate:"omitempty,url"`
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:  *loadServerConfig(),
		Data:    *loadDataConfig(),
		Logging: *loadLoggingConfig(),
	}

	renderConfig, err := loadRenderConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load render configuration")
	}
	config.Render = *renderConfig

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		PagesFile:    getEnvOrDefault("PAGES_FILE", ""),
		WorkbookDir:  getEnvOrDefault("WORKBOOK_DIR", "."),
		CacheEnabled: getEnvBoolOrDefault("CACHE_ENABLED", true),
	}
}

func loadRenderConfig() (*RenderConfig, error) {
	schemaMode, err := page.ParseSchemaMode(getEnvOrDefault("SCHEMA_MODE", string(page.SchemaStrict)))
	if err != nil {
		return nil, errors.ConfigInvalid("SCHEMA_MODE: " + err.Error())
	}

	coercionMode, err := page.ParseCoercionMode(getEnvOrDefault("COERCION_MODE", string(page.CoercePerCell)))
	if err != nil {
		return nil, errors.ConfigInvalid("COERCION_MODE: " + err.Error())
	}

	// an explicitly empty placeholder is allowed
	missing, ok := os.LookupEnv("MISSING_PLACEHOLDER")
	if !ok {
		missing = "-"
	}

	return &RenderConfig{
		SchemaMode:   schemaMode,
		CoercionMode: coercionMode,
		Missing:      missing,
	}, nil
}

func loadLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Level:  strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		Format: strings.ToLower(getEnvOrDefault("LOG_FORMAT", "text")),
		SeqURL: getEnvOrDefault("SEQ_URL", ""),
	}
}

var validate = validator.New()

func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return errors.ConfigInvalid(fe.Namespace() + " failed '" + fe.Tag() + "' check (value " + strconv.Quote(fieldValue(fe)) + ")")
		}
		return errors.ConfigInvalid(err.Error())
	}
	return nil
}

func fieldValue(fe validator.FieldError) string {
	if s, ok := fe.Value().(string); ok {
		return s
	}
	return ""
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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
