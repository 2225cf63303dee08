package nats

import (
	"context"

	"github.com/Yathushan/coldsweat/internal/application/port"
	"github.com/Yathushan/coldsweat/pkg/logger"
)

// NoopPublisher logs events instead of publishing them. It is used when
// NATS is disabled.
type NoopPublisher struct {
	logger *logger.Logger
}

var _ port.EventPublisher = (*NoopPublisher)(nil)

func NewNoopPublisher(log *logger.Logger) *NoopPublisher {
	return &NoopPublisher{logger: log}
}

func (p *NoopPublisher) PublishEvent(_ context.Context, subject string, _ interface{}) error {
	p.logger.Debug("Event dropped, NATS disabled", "subject", subject)
	return nil
}

func (p *NoopPublisher) Close() error {
	return nil
}
