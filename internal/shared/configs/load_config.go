package configs

import (
	"fmt"
	"strings"

	"weblog-analytics/internal/shared/validators"

	"github.com/spf13/viper"
)

// LoadConfig reads configuration from file, applies defaults and validates it.
var LoadConfig = func(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	// Read from file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", configPath, err)
	}

	// Unmarshal into Config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	validate := validators.New()
	if err := validate.Struct(&cfg); err != nil {
		var validationErrors []string
		if ve, ok := err.(validators.ValidationErrors); ok {
			for _, e := range ve {
				validationErrors = append(validationErrors, formatValidationError(e))
			}
		}
		return nil, fmt.Errorf("config validation failed: %s", strings.Join(validationErrors, ", "))
	}

	return &cfg, nil
}

// setDefaults injects the documented option defaults so a minimal config file
// only needs to name the storage backend location.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("file_storage.backend", "local")
	v.SetDefault("input.prefix", "input/")
	v.SetDefault("input.field_delimiter", ",")
	v.SetDefault("output.prefix", "reports/")
	v.SetDefault("output.persist_partitions", false)
	v.SetDefault("output.partitions_prefix", "partitions/")
	v.SetDefault("ingest.workers", 4)
	v.SetDefault("reports.top_pages_n", 3)
	v.SetDefault("reports.suspicious_status_codes", []int{404, 500})
	v.SetDefault("reports.suspicious_min_failures", 3)
	v.SetDefault("reports.time_bucket_precision", 16)
	v.SetDefault("reports.normalize_user_agents", false)
	v.SetDefault("ops.enabled", false)
	v.SetDefault("ops.port", 9090)
}

// formatValidationError formats a single validation error into a readable string.
func formatValidationError(e validators.FieldError) string {
	field := e.Field()
	tag := e.Tag()

	// Build field path (e.g., "ingest.workers")
	if e.StructNamespace() != "" {
		// Extract nested field path (e.g., "Config.Ingest.Workers" -> "ingest.workers")
		parts := strings.Split(e.StructNamespace(), ".")
		if len(parts) >= 2 {
			// Skip "Config" prefix, convert to lowercase with dots
			fieldPath := strings.ToLower(strings.Join(parts[1:], "."))
			field = fieldPath
		}
	}

	var msg string
	switch tag {
	case "required":
		msg = fmt.Sprintf("%s (required)", field)
	case "required_if":
		msg = fmt.Sprintf("%s (required for %s)", field, e.Param())
	case "min":
		msg = fmt.Sprintf("%s (min=%s)", field, e.Param())
	case "max":
		msg = fmt.Sprintf("%s (max=%s)", field, e.Param())
	case "oneof":
		msg = fmt.Sprintf("%s (oneof=%s)", field, e.Param())
	default:
		msg = fmt.Sprintf("%s (%s)", field, tag)
	}

	return msg
}
