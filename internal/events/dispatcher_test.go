package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPublishReachesEveryHandlerDespiteErrors(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := NewInMemoryDispatcher(zap.New(core))

	var got []string
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.Payload["ticketId"].(string))
		return errors.New("db down")
	})
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		got = append(got, "second")
		return nil
	})
	d.Subscribe(EventChatStarted, func(context.Context, Event) error {
		got = append(got, "unrelated")
		return nil
	})

	d.Publish(context.Background(), NewEvent(EventTicketCreated, map[string]any{"ticketId": "t-1"}))

	assert.Equal(t, []string{"first:t-1", "second"}, got)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "event handler failed", logs.All()[0].Message)
}

func TestNewEventDefaults(t *testing.T) {
	e := NewEvent(EventFaqViewed, nil)
	assert.NotEmpty(t, e.ID)
	assert.NotNil(t, e.Payload)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, EventType("faq_viewed"), e.Type)
}
