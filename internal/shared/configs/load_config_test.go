package configs

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp(t.TempDir(), "test_config_*.yml")
	require.NoError(t, err)
	_, err = tmpfile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())
	return tmpfile.Name()
}

func TestLoadConfig_ValidConfig(t *testing.T) {
	path := writeConfigFile(t, `log:
  level: debug
file_storage:
  backend: local
  root_dir: ./data
input:
  prefix: raw/
  field_delimiter: ";"
output:
  prefix: out/
ingest:
  workers: 8
reports:
  top_pages_n: 5
  suspicious_status_codes: [403, 404, 500]
  suspicious_min_failures: 2
  time_bucket_precision: 13
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "local", cfg.FileStorage.Backend)
	assert.Equal(t, "./data", cfg.FileStorage.RootDir)
	assert.Equal(t, "raw/", cfg.Input.Prefix)
	assert.Equal(t, ";", cfg.Input.FieldDelimiter)
	assert.Equal(t, "out/", cfg.Output.Prefix)
	assert.Equal(t, 8, cfg.Ingest.Workers)
	assert.Equal(t, 5, cfg.Reports.TopPagesN)
	assert.Equal(t, []int{403, 404, 500}, cfg.Reports.SuspiciousStatusCodes)
	assert.Equal(t, 2, cfg.Reports.SuspiciousMinFailures)
	assert.Equal(t, 13, cfg.Reports.TimeBucketPrecision)
}

func TestLoadConfig_Defaults(t *testing.T) {
	// A minimal file only names the storage location; everything else defaults.
	path := writeConfigFile(t, `file_storage:
  root_dir: ./data
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "local", cfg.FileStorage.Backend)
	assert.Equal(t, "input/", cfg.Input.Prefix)
	assert.Equal(t, ",", cfg.Input.FieldDelimiter)
	assert.Equal(t, "reports/", cfg.Output.Prefix)
	assert.False(t, cfg.Output.PersistPartitions)
	assert.Equal(t, "partitions/", cfg.Output.PartitionsPrefix)
	assert.Equal(t, 4, cfg.Ingest.Workers)
	assert.Equal(t, 3, cfg.Reports.TopPagesN)
	assert.Equal(t, []int{404, 500}, cfg.Reports.SuspiciousStatusCodes)
	assert.Equal(t, 3, cfg.Reports.SuspiciousMinFailures)
	assert.Equal(t, 16, cfg.Reports.TimeBucketPrecision)
	assert.False(t, cfg.Reports.NormalizeUserAgents)
	assert.False(t, cfg.Ops.Enabled)
	assert.Equal(t, 9090, cfg.Ops.Port)
}

func TestLoadConfig_MissingLocalRootDir(t *testing.T) {
	path := writeConfigFile(t, `file_storage:
  backend: local
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "filestorage.rootdir")
}

func TestLoadConfig_S3BackendRequiresBucket(t *testing.T) {
	path := writeConfigFile(t, `file_storage:
  backend: s3
  s3_region: eu-west-1
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "filestorage.s3bucket")
}

func TestLoadConfig_InvalidBackend(t *testing.T) {
	path := writeConfigFile(t, `file_storage:
  backend: ftp
  root_dir: ./data
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oneof")
}

func TestLoadConfig_InvalidReportOptions(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "top_pages_n below 1",
			yaml: `file_storage:
  root_dir: ./data
reports:
  top_pages_n: 0
`,
			wantErr: "reports.toppagesn",
		},
		{
			name: "time_bucket_precision beyond timestamp length",
			yaml: `file_storage:
  root_dir: ./data
reports:
  time_bucket_precision: 25
`,
			wantErr: "reports.timebucketprecision",
		},
		{
			name: "suspicious status out of range",
			yaml: `file_storage:
  root_dir: ./data
reports:
  suspicious_status_codes: [42]
`,
			wantErr: "reports.suspiciousstatuscodes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.yaml)
			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
