// Package analytics reports anonymous tool usage to Segment. Without a
// write key every call is a no-op.
package analytics

import (
	"time"

	"github.com/google/uuid"
	segment "github.com/segmentio/analytics-go/v3"
	"go.uber.org/zap"
)

const EventToolCalled = "MCP Tool Called"

type Tracker struct {
	client      segment.Client
	anonymousID string
	logger      *zap.Logger
}

// New returns a tracker sending to Segment, or a disabled tracker when
// writeKey is empty.
func New(log *zap.Logger, writeKey string) (*Tracker, error) {
	if writeKey == "" {
		return &Tracker{logger: log}, nil
	}
	return NewWithConfig(log, writeKey, segment.Config{})
}

func NewWithConfig(log *zap.Logger, writeKey string, cfg segment.Config) (*Tracker, error) {
	client, err := segment.NewWithConfig(writeKey, cfg)
	if err != nil {
		return nil, err
	}
	return &Tracker{
		client:      client,
		anonymousID: uuid.NewString(),
		logger:      log,
	}, nil
}

func (t *Tracker) Enabled() bool {
	return t != nil && t.client != nil
}

// ToolCalled records one tool invocation. Arguments are never sent.
func (t *Tracker) ToolCalled(tool string, elapsed time.Duration, callErr error) {
	if !t.Enabled() {
		return
	}

	props := segment.NewProperties().
		Set("tool", tool).
		Set("durationMs", elapsed.Milliseconds()).
		Set("success", callErr == nil)

	err := t.client.Enqueue(segment.Track{
		AnonymousId: t.anonymousID,
		Event:       EventToolCalled,
		Properties:  props,
	})
	if err != nil {
		t.logger.Warn("Failed to enqueue analytics event", zap.String("tool", tool), zap.Error(err))
	}
}

// Close flushes pending events.
func (t *Tracker) Close() error {
	if !t.Enabled() {
		return nil
	}
	return t.client.Close()
}
