package config

import "errors"

var (
	ErrReadingConfigFile      = errors.New("failed to read config file")
	ErrUnmarshallingConfig    = errors.New("failed to unmarshal config")
	ErrEmptyKafkaBrokers      = errors.New("kafka brokers list cannot be empty")
	ErrEmptyKafkaTopic        = errors.New("kafka topic cannot be empty")
	ErrEmptyKafkaGroupID      = errors.New("kafka groupID cannot be empty")
	ErrInvalidWindowSeconds   = errors.New("window seconds must be positive")
	ErrInvalidPipelineWorkers = errors.New("pipeline workers must be positive")
	ErrInvalidReportInterval  = errors.New("pipeline reportInterval must be positive")
	ErrInvalidAlertRange      = errors.New("alerts avgMin must not exceed avgMax")
	ErrEmptyMetricsAddress    = errors.New("metrics address cannot be empty when metrics are enabled")
	ErrConfigFileMissing      = errors.New("config file not found")
)
