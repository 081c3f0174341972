package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/lexpage/landing-service/internal/domain"
	"github.com/lexpage/landing-service/internal/events"
	"github.com/lexpage/landing-service/internal/testfixtures"
)

type countingRecorder struct {
	outcomes map[string]int
}

func (c *countingRecorder) RecordEvent(eventType, outcome string) {
	c.outcomes[eventType+"/"+outcome]++
}

func TestMetricsRecorderPersistsEveryHelpDeskEvent(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	repo := &testfixtures.MetricEvents{}
	counter := &countingRecorder{outcomes: map[string]int{}}
	NewMetricsRecorder(dispatcher, repo, counter, nil).RegisterHandlers()

	ctx := context.Background()
	for _, eventType := range events.HelpDeskEvents {
		dispatcher.Publish(ctx, events.NewEvent(eventType, map[string]any{"k": "v"}))
	}

	assert.Len(t, repo.Events, 4)
	assert.Equal(t, "v", repo.Events[0].Data["k"])
	assert.Equal(t, 1, repo.Count(domain.MetricChatStarted))
	assert.Equal(t, 1, counter.outcomes["ticket_created/stored"])

	repo.Err = errors.New("insert failed")
	dispatcher.Publish(ctx, events.NewEvent(events.EventFaqViewed, nil))
	assert.Equal(t, 1, counter.outcomes["faq_viewed/dropped"])
}
