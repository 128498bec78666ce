package configs

// Config holds all configuration for one analysis job.
type Config struct {
	Log         LogConfig         `mapstructure:"log" validate:"required"`
	FileStorage FileStorageConfig `mapstructure:"file_storage" validate:"required"`
	Input       InputConfig       `mapstructure:"input" validate:"required"`
	Output      OutputConfig      `mapstructure:"output" validate:"required"`
	Ingest      IngestConfig      `mapstructure:"ingest" validate:"required"`
	Reports     ReportsConfig     `mapstructure:"reports" validate:"required"`
	Ops         OpsConfig         `mapstructure:"ops"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required"`
}

// Backends accepted by FileStorageConfig.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// FileStorageConfig selects and configures the blob-store backend.
type FileStorageConfig struct {
	Backend  string `mapstructure:"backend" validate:"required,oneof=local s3"`
	RootDir  string `mapstructure:"root_dir" validate:"required_if=Backend local"`
	S3Region string `mapstructure:"s3_region" validate:"required_if=Backend s3"`
	S3Bucket string `mapstructure:"s3_bucket" validate:"required_if=Backend s3"`
}

// InputConfig describes where raw log objects live and how lines are split.
type InputConfig struct {
	Prefix         string `mapstructure:"prefix" validate:"required"`
	FieldDelimiter string `mapstructure:"field_delimiter" validate:"required"`
}

// OutputConfig describes where reports (and optionally partition exports) go.
type OutputConfig struct {
	Prefix            string `mapstructure:"prefix" validate:"required"`
	PersistPartitions bool   `mapstructure:"persist_partitions"`
	PartitionsPrefix  string `mapstructure:"partitions_prefix" validate:"required_if=PersistPartitions true"`
}

// IngestConfig bounds ingestion parallelism.
type IngestConfig struct {
	Workers int `mapstructure:"workers" validate:"required,min=1,max=64"`
}

// ReportsConfig tunes the fixed query set.
type ReportsConfig struct {
	TopPagesN             int   `mapstructure:"top_pages_n" validate:"required,min=1"`
	SuspiciousStatusCodes []int `mapstructure:"suspicious_status_codes" validate:"required,min=1,dive,min=100,max=599"`
	SuspiciousMinFailures int   `mapstructure:"suspicious_min_failures" validate:"min=0"`
	TimeBucketPrecision   int   `mapstructure:"time_bucket_precision" validate:"required,min=1,max=19"`
	NormalizeUserAgents   bool  `mapstructure:"normalize_user_agents"`
}

// OpsConfig controls the optional health/metrics listener.
type OpsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
}
