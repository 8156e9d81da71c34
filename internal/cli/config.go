package cli

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/haras/internal/share"
	"github.com/mesh-intelligence/haras/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend         = "backend"
	cfgKeyDataDir         = "data_dir"
	cfgKeyLogLevel        = "log_level"
	cfgKeyLogFormat       = "log_format"
	cfgKeyExportTarget    = "export.target"
	cfgKeyExportDir       = "export.dir"
	cfgKeyS3Bucket        = "export.s3.bucket"
	cfgKeyS3Region        = "export.s3.region"
	cfgKeyS3Endpoint      = "export.s3.endpoint"
	cfgKeyS3PathStyle     = "export.s3.path_style"
	cfgKeyS3Prefix        = "export.s3.prefix"
	cfgKeyMetricsTextfile = "metrics.textfile"

	defaultBackend      = types.BackendSQLite
	defaultLogLevel     = "warn"
	defaultLogFormat    = "text"
	defaultExportTarget = string(share.DriverFilesystem)
)

// envBindings lists the environment overrides. data_dir and export.dir are
// not bound here: their HARAS_* variables rank below config.yaml and are
// read by the paths package.
var envBindings = map[string]string{
	cfgKeyBackend:         "HARAS_BACKEND",
	cfgKeyLogLevel:        "HARAS_LOG_LEVEL",
	cfgKeyLogFormat:       "HARAS_LOG_FORMAT",
	cfgKeyExportTarget:    "HARAS_EXPORT_TARGET",
	cfgKeyS3Bucket:        "HARAS_EXPORT_S3_BUCKET",
	cfgKeyS3Region:        "HARAS_EXPORT_S3_REGION",
	cfgKeyS3Endpoint:      "HARAS_EXPORT_S3_ENDPOINT",
	cfgKeyS3PathStyle:     "HARAS_EXPORT_S3_PATH_STYLE",
	cfgKeyS3Prefix:        "HARAS_EXPORT_S3_PREFIX",
	cfgKeyMetricsTextfile: "HARAS_METRICS_TEXTFILE",
}

// configFile is the structure written to config.yaml by init.
type configFile struct {
	Backend   string        `yaml:"backend"`
	DataDir   string        `yaml:"data_dir,omitempty"`
	LogLevel  string        `yaml:"log_level"`
	LogFormat string        `yaml:"log_format"`
	Export    exportConfig  `yaml:"export"`
	Metrics   metricsConfig `yaml:"metrics,omitempty"`
}

type exportConfig struct {
	Target string    `yaml:"target"`
	Dir    string    `yaml:"dir,omitempty"`
	S3     *s3Config `yaml:"s3,omitempty"`
}

type s3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	PathStyle bool   `yaml:"path_style,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
}

type metricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// loadConfig reads config.yaml from configDir using Viper. A missing
// config.yaml is not an error; defaults and environment still apply.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyLogFormat, defaultLogFormat)
	v.SetDefault(cfgKeyExportTarget, defaultExportTarget)
	v.SetDefault(cfgKeyS3Region, share.DefaultRegion)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// defaultConfigFile returns the config.yaml content init writes.
func defaultConfigFile(backend, dataDir string) configFile {
	return configFile{
		Backend:   backend,
		DataDir:   dataDir,
		LogLevel:  defaultLogLevel,
		LogFormat: defaultLogFormat,
		Export:    exportConfig{Target: defaultExportTarget},
	}
}

// writeConfigIfMissing creates config.yaml if the file does not exist.
// It reports whether a file was written.
func writeConfigIfMissing(path string, cfg configFile) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
