// Package config loads settings from defaults, an optional YAML file and the
// environment, in increasing order of precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	BackendCSV    = "csv"
	BackendSheets = "sheets"
	BackendSQLite = "sqlite"

	SinkLocal = "local"
	SinkS3    = "s3"
)

type Config struct {
	StoreBackend string

	DataDir string
	DBPath  string

	UploadSink      string
	UploadDir       string
	UploadURLPrefix string

	SpreadsheetName    string
	SpreadsheetID      string
	ServiceAccountFile string
	ServiceAccountInfo string
	DriveFolderName    string

	S3 S3Config

	LogLevel  string
	LogFormat string
	LogFile   string
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	UsePathStyle    bool
	KeyPrefix       string
	PublicBaseURL   string
}

// Load reads configuration. file may be empty; when set it must exist.
// Environment variables are the upper-cased keys with dots replaced by
// underscores, e.g. S3_BUCKET for s3.bucket.
func Load(file string) (*Config, error) {
	v := viper.New()
	v.SetDefault("data_dir", "data")
	v.SetDefault("db_path", "data/xseon.db")
	v.SetDefault("upload_sink", SinkLocal)
	v.SetDefault("upload_dir", "data/uploads")
	v.SetDefault("upload_url_prefix", "/uploads")
	v.SetDefault("drive_folder_name", "xseon-uploads")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only consults the environment for keys viper already
	// knows about; these have no default.
	for _, key := range []string{
		"store_backend", "use_google_sheets", "spreadsheet_name", "spreadsheet_id",
		"google_service_account_json", "google_service_account_info", "log_file",
		"s3.bucket", "s3.access_key_id", "s3.secret_access_key", "s3.endpoint",
		"s3.use_path_style", "s3.key_prefix", "s3.public_base_url",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		StoreBackend:       strings.ToLower(v.GetString("store_backend")),
		DataDir:            v.GetString("data_dir"),
		DBPath:             v.GetString("db_path"),
		UploadSink:         strings.ToLower(v.GetString("upload_sink")),
		UploadDir:          v.GetString("upload_dir"),
		UploadURLPrefix:    v.GetString("upload_url_prefix"),
		SpreadsheetName:    v.GetString("spreadsheet_name"),
		SpreadsheetID:      v.GetString("spreadsheet_id"),
		ServiceAccountFile: v.GetString("google_service_account_json"),
		ServiceAccountInfo: v.GetString("google_service_account_info"),
		DriveFolderName:    v.GetString("drive_folder_name"),
		S3: S3Config{
			Region:          v.GetString("s3.region"),
			Bucket:          v.GetString("s3.bucket"),
			AccessKeyID:     v.GetString("s3.access_key_id"),
			SecretAccessKey: v.GetString("s3.secret_access_key"),
			Endpoint:        v.GetString("s3.endpoint"),
			UsePathStyle:    v.GetBool("s3.use_path_style"),
			KeyPrefix:       v.GetString("s3.key_prefix"),
			PublicBaseURL:   v.GetString("s3.public_base_url"),
		},
		LogLevel:  v.GetString("log_level"),
		LogFormat: strings.ToLower(v.GetString("log_format")),
		LogFile:   v.GetString("log_file"),
	}

	// USE_GOOGLE_SHEETS predates STORE_BACKEND and only applies when the
	// latter is unset.
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = BackendCSV
		if v.GetBool("use_google_sheets") {
			cfg.StoreBackend = BackendSheets
		}
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendCSV, BackendSheets, BackendSQLite:
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
	if c.StoreBackend != BackendSheets {
		switch c.UploadSink {
		case SinkLocal:
		case SinkS3:
			if c.S3.Bucket == "" {
				return fmt.Errorf("upload sink %q requires S3_BUCKET", SinkS3)
			}
		default:
			return fmt.Errorf("unknown upload sink %q", c.UploadSink)
		}
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}
