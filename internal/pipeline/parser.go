package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/sanspareilsmyn/txlens/internal/message"
	"github.com/sanspareilsmyn/txlens/internal/stats"
)

const snippetLength = 80

// Parser turns raw Kafka payloads into data points. Messages that cannot be
// decoded or validated are counted and skipped.
type Parser struct {
	input  <-chan []byte
	output chan<- stats.DataPoint
	logger *zap.Logger
}

func NewParser(input <-chan []byte, output chan<- stats.DataPoint, logger *zap.Logger) *Parser {
	return &Parser{input: input, output: output, logger: logger}
}

// Run parses until the input channel is closed or ctx is cancelled.
func (p *Parser) Run(ctx context.Context) error {
	for {
		select {
		case raw, ok := <-p.input:
			if !ok {
				p.logger.Debug("Parser finished (raw message channel closed).")
				return nil
			}
			point, ok := p.parse(raw)
			if !ok {
				continue
			}
			select {
			case p.output <- point:
			case <-ctx.Done():
				return ctx.Err()
			}

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (p *Parser) parse(raw []byte) (stats.DataPoint, bool) {
	tx, err := message.ParseTransaction(raw)
	if err != nil {
		messagesRejected.WithLabelValues("decode").Inc()
		p.logger.Warn("Failed to parse message, skipping",
			zap.String("payload", message.Snippet(raw, snippetLength)),
			zap.Error(err),
		)
		return stats.DataPoint{}, false
	}

	point, err := tx.DataPoint()
	if err != nil {
		messagesRejected.WithLabelValues("invalid").Inc()
		p.logger.Warn("Rejecting invalid transaction",
			zap.String("id", tx.ID),
			zap.Error(err),
		)
		return stats.DataPoint{}, false
	}
	return point, true
}
