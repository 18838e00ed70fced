package pipeline

import "errors"

var (
	ErrInvalidKafkaConfig     = errors.New("invalid Kafka configuration provided")
	ErrKafkaFetchFailed       = errors.New("failed to fetch message from Kafka")
	ErrKafkaCommitFailed      = errors.New("failed to commit Kafka offsets")
	ErrConsumerCreationFailed = errors.New("failed to create consumer")
	ErrConsumerRunFailed      = errors.New("consumer component failed")
	ErrRecorderRunFailed      = errors.New("recorder component failed")
	ErrReporterRunFailed      = errors.New("reporter component failed")
	ErrMetricsServerFailed    = errors.New("metrics server failed")
)
