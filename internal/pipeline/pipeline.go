package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/txlens/internal/config"
	"github.com/sanspareilsmyn/txlens/internal/stats"
)

const channelBufferSize = 100

// Pipeline orchestrates the stages: consumer, parser, recorder, reporter and
// the optional metrics server. The window store is owned by the caller.
type Pipeline struct {
	consumer *Consumer
	parser   *Parser
	recorder *Recorder
	reporter *Reporter
	metrics  *MetricsServer
	logger   *zap.Logger

	rawMessages chan []byte
	dataPoints  chan stats.DataPoint
}

// New creates and wires up a new ingestion pipeline around store.
func New(cfg *config.Config, store WindowStore, logger *zap.Logger) (*Pipeline, error) {
	initLogger := logger.Named("pipeline.init")

	rawMessages := make(chan []byte, channelBufferSize)
	dataPoints := make(chan stats.DataPoint, channelBufferSize)

	consumer, err := NewConsumer(cfg.Kafka, rawMessages, logger.Named("consumer"))
	if err != nil {
		initLogger.Error("Failed to create consumer", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrConsumerCreationFailed, err)
	}

	p := &Pipeline{
		consumer:    consumer,
		parser:      NewParser(rawMessages, dataPoints, logger.Named("parser")),
		recorder:    NewRecorder(cfg.Pipeline, store, dataPoints, logger.Named("recorder")),
		reporter:    NewReporter(cfg.Pipeline, cfg.Alerts, store, clock.New(), logger.Named("reporter")),
		logger:      logger.Named("pipeline"),
		rawMessages: rawMessages,
		dataPoints:  dataPoints,
	}
	if cfg.Metrics.Enabled {
		p.metrics = NewMetricsServer(cfg.Metrics, prometheus.DefaultGatherer, logger.Named("metrics"))
	}

	initLogger.Info("Pipeline instance created successfully")
	return p, nil
}

type component struct {
	name    string
	run     func(ctx context.Context) error
	failure error
	done    func()
}

// Run starts all components and waits for them to complete. The first
// component error cancels the others and is returned; context cancellation
// is not treated as an error.
func (p *Pipeline) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	components := []component{
		{name: "consumer", run: p.consumer.Run, failure: ErrConsumerRunFailed, done: func() { close(p.rawMessages) }},
		{name: "parser", run: p.parser.Run, done: func() { close(p.dataPoints) }},
		{name: "recorder", run: p.recorder.Run, failure: ErrRecorderRunFailed},
		{name: "reporter", run: p.reporter.Run, failure: ErrReporterRunFailed},
	}
	if p.metrics != nil {
		components = append(components, component{name: "metrics", run: p.metrics.Run, failure: ErrMetricsServerFailed})
	}

	sugar := p.logger.Sugar()
	sugar.Infow("Pipeline Run: Starting components...", "count", len(components))

	var wg sync.WaitGroup
	errCh := make(chan error, len(components))
	for _, c := range components {
		wg.Add(1)
		go p.runComponent(ctx, &wg, c, errCh)
	}

	var firstErr error
	select {
	case <-ctx.Done():
		sugar.Info("Pipeline Run: Context cancelled. Waiting for components to finish...")
	case firstErr = <-errCh:
		sugar.Errorw("Pipeline Run: Received error from a component, initiating shutdown...", zap.Error(firstErr))
		cancel()
	}

	wg.Wait()
	sugar.Info("Pipeline Run: All components finished.")
	return firstErr
}

func (p *Pipeline) runComponent(ctx context.Context, wg *sync.WaitGroup, c component, errCh chan<- error) {
	defer wg.Done()
	if c.done != nil {
		defer c.done()
	}

	p.logger.Debug("Starting component", zap.String("component", c.name))
	err := c.run(ctx)
	switch {
	case err == nil:
		p.logger.Debug("Component finished normally", zap.String("component", c.name))
	case errors.Is(err, context.Canceled):
		p.logger.Debug("Component cancelled gracefully", zap.String("component", c.name))
	default:
		p.logger.Error("Component exited with error", zap.String("component", c.name), zap.Error(err))
		if c.failure != nil {
			err = fmt.Errorf("%w: %w", c.failure, err)
		}
		errCh <- err
	}
}
