package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/lexpage/landing-service/internal/domain"
	"github.com/lexpage/landing-service/internal/events"
	"github.com/lexpage/landing-service/internal/repository"
)

// EventCounter observes the outcome of recording each usage event.
type EventCounter interface {
	RecordEvent(eventType, outcome string)
}

// MetricsRecorder persists help desk usage events as MetricEvents.
type MetricsRecorder struct {
	dispatcher events.Dispatcher
	repo       repository.MetricEventRepository
	counter    EventCounter
	logger     *zap.Logger
}

// NewMetricsRecorder creates the recorder. Counter may be nil.
func NewMetricsRecorder(dispatcher events.Dispatcher, repo repository.MetricEventRepository, counter EventCounter, logger *zap.Logger) *MetricsRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetricsRecorder{dispatcher: dispatcher, repo: repo, counter: counter, logger: logger}
}

// RegisterHandlers subscribes to every help desk event.
func (m *MetricsRecorder) RegisterHandlers() {
	if m.dispatcher == nil {
		return
	}
	for _, eventType := range events.HelpDeskEvents {
		m.dispatcher.Subscribe(eventType, m.handle)
	}
}

// handle never returns an error: a lost usage record must not fail the request
// that produced it.
func (m *MetricsRecorder) handle(ctx context.Context, event events.Event) error {
	record := &domain.MetricEvent{
		Type: domain.MetricEventType(event.Type),
		Data: event.Payload,
	}
	if err := m.repo.Create(ctx, record); err != nil {
		m.logger.Warn("metric event dropped",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID),
			zap.Error(err))
		m.count(string(event.Type), "dropped")
		return nil
	}
	m.count(string(event.Type), "stored")
	return nil
}

func (m *MetricsRecorder) count(eventType, outcome string) {
	if m.counter != nil {
		m.counter.RecordEvent(eventType, outcome)
	}
}
