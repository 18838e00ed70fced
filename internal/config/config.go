package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultKafkaGroupID         = "txlens-default-group"
	defaultWindowSeconds        = 60
	defaultPipelineWorkers      = 4
	defaultPipelineReportPeriod = 5 * time.Second
	defaultMetricsEnabled       = true
	defaultMetricsAddress       = ":2112"
	defaultMetricsPath          = "/metrics"
	defaultLogLevel             = "info"
	defaultLogFormat            = "console"
	defaultLogFileEnabled       = false
	defaultLogDirectory         = "log"
	defaultLogFilename          = "app.log"
	defaultLogMaxSizeMB         = 100
	defaultLogMaxBackups        = 3
	defaultLogMaxAgeDays        = 7
	defaultLogCompress          = false

	// Environment variable prefix
	envPrefix = "TXLENS"
)

type Config struct {
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Window   WindowConfig   `mapstructure:"window"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Alerts   Thresholds     `mapstructure:"alerts"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      LogConfig      `mapstructure:"log"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"groupID"`
}

type WindowConfig struct {
	Seconds int `mapstructure:"seconds"`
}

type PipelineConfig struct {
	Workers        int           `mapstructure:"workers"`        // concurrent recorders
	ReportInterval time.Duration `mapstructure:"reportInterval"` // how often window statistics are published
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
	Path    string `mapstructure:"path"`
}

type LogConfig struct {
	Level              string `mapstructure:"level"`
	Format             string `mapstructure:"format"`
	FileLoggingEnabled bool   `mapstructure:"fileLoggingEnabled"`
	Directory          string `mapstructure:"directory"`
	Filename           string `mapstructure:"filename"`
	MaxSize            int    `mapstructure:"maxSize"`    // Max size in MB
	MaxBackups         int    `mapstructure:"maxBackups"` // Max backup files
	MaxAge             int    `mapstructure:"maxAge"`     // Max days to retain
	Compress           bool   `mapstructure:"compress"`   // Compress rotated files?
}

// Thresholds are optional bounds on the window statistics. A nil bound is not checked.
type Thresholds struct {
	AvgMin    *float64 `mapstructure:"avgMin"`
	AvgMax    *float64 `mapstructure:"avgMax"`
	CountMax  *float64 `mapstructure:"countMax"`
	MaxAmount *float64 `mapstructure:"maxAmount"`
}

// Load initializes viper, reads config, applies defaults, unmarshals, and validates.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	configureViper(v, configPath)

	// Set default values before reading config source .yaml
	setDefaults(v)

	// Read configuration from file (error if mandatory file is missing)
	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnmarshallingConfig, err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// configureViper sets up viper instance for file and environment variables.
func configureViper(v *viper.Viper, configPath string) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// setDefaults applies default configuration values using Viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("kafka.groupID", defaultKafkaGroupID)
	v.SetDefault("window.seconds", defaultWindowSeconds)
	v.SetDefault("pipeline.workers", defaultPipelineWorkers)
	v.SetDefault("pipeline.reportInterval", defaultPipelineReportPeriod)
	v.SetDefault("metrics.enabled", defaultMetricsEnabled)
	v.SetDefault("metrics.address", defaultMetricsAddress)
	v.SetDefault("metrics.path", defaultMetricsPath)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.format", defaultLogFormat)
	v.SetDefault("log.fileLoggingEnabled", defaultLogFileEnabled)
	v.SetDefault("log.directory", defaultLogDirectory)
	v.SetDefault("log.filename", defaultLogFilename)
	v.SetDefault("log.maxSize", defaultLogMaxSizeMB)
	v.SetDefault("log.maxBackups", defaultLogMaxBackups)
	v.SetDefault("log.maxAge", defaultLogMaxAgeDays)
	v.SetDefault("log.compress", defaultLogCompress)
}

// readConfigFile attempts to read the configuration file specified in viper.
func readConfigFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) || errors.Is(err, fs.ErrNotExist) {
			return ErrConfigFileMissing
		}
		return fmt.Errorf("%w: %w", ErrReadingConfigFile, err)
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if len(cfg.Kafka.Brokers) == 0 {
		return ErrEmptyKafkaBrokers
	}
	if cfg.Kafka.Topic == "" {
		return ErrEmptyKafkaTopic
	}
	if cfg.Kafka.GroupID == "" {
		return ErrEmptyKafkaGroupID
	}
	if cfg.Window.Seconds <= 0 {
		return ErrInvalidWindowSeconds
	}
	if cfg.Pipeline.Workers <= 0 {
		return ErrInvalidPipelineWorkers
	}
	if cfg.Pipeline.ReportInterval <= 0 {
		return ErrInvalidReportInterval
	}
	if a := cfg.Alerts; a.AvgMin != nil && a.AvgMax != nil && *a.AvgMin > *a.AvgMax {
		return ErrInvalidAlertRange
	}
	if cfg.Metrics.Enabled && cfg.Metrics.Address == "" {
		return ErrEmptyMetricsAddress
	}
	return nil
}
