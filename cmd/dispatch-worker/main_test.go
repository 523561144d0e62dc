package main

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"forestwatch/internal/dispatch"
	"forestwatch/internal/notifications/core"
	"forestwatch/internal/types"
)

// --- Mock Types ---

// mockDispatcher implements alertDispatcher for tests.
type mockDispatcher struct {
	calls []dispatch.DecodedMessage
	err   error
}

func (m *mockDispatcher) Dispatch(_ context.Context, msg dispatch.DecodedMessage) error {
	m.calls = append(m.calls, msg)
	return m.err
}

// mockMetrics implements core.Metrics for tests.
type mockMetrics struct {
	deliveryCalls int
	latencyCalls  int
	queueLagCalls int
	lastQueueLag  time.Duration
}

func (m *mockMetrics) RecordDelivery(_ context.Context, _ types.ChannelType, _ core.MetricResult) {
	m.deliveryCalls++
}
func (m *mockMetrics) RecordLatency(_ context.Context, _ types.ChannelType, _ time.Duration) {
	m.latencyCalls++
}
func (m *mockMetrics) RecordQueueLag(_ context.Context, lag time.Duration) {
	m.queueLagCalls++
	m.lastQueueLag = lag
}

// testLogger implements types.Logger for tests.
type testLogger struct{}

func (l *testLogger) Info(_ string, _ ...any)    {}
func (l *testLogger) Error(_ string, _ ...any)   {}
func (l *testLogger) Warn(_ string, _ ...any)    {}
func (l *testLogger) With(_ ...any) types.Logger { return l }

// --- Helper Functions ---

func newTestHandler(dispatcher *mockDispatcher, metrics *mockMetrics) *Handler {
	return &Handler{
		decoder:    dispatch.NewDecoder(),
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     &testLogger{},
	}
}

func buildSQSEvent(bodies ...string) events.SQSEvent {
	records := make([]events.SQSMessage, len(bodies))
	for i, body := range bodies {
		records[i] = events.SQSMessage{
			MessageId: "msg-" + strconv.Itoa(i+1),
			Body:      body,
			Attributes: map[string]string{
				"SentTimestamp": "1706745600000",
			},
		}
	}
	return events.SQSEvent{Records: records}
}

const validAlertBody = `{"layer_slug":"glad-alerts","begin_date":"2023-05-01","end_date":"2023-05-08"}`

// --- Tests ---

func TestHandler_SuccessfulDispatchReportsNoFailures(t *testing.T) {
	dispatcher := &mockDispatcher{}
	handler := newTestHandler(dispatcher, &mockMetrics{})

	resp, err := handler.Handle(context.Background(), buildSQSEvent(validAlertBody))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.BatchItemFailures) != 0 {
		t.Errorf("expected 0 batch item failures, got %d", len(resp.BatchItemFailures))
	}
	if len(dispatcher.calls) != 1 {
		t.Fatalf("expected 1 dispatch, got %d", len(dispatcher.calls))
	}
	if dispatcher.calls[0].Layer.Slug != "glad-alerts" {
		t.Errorf("unexpected layer slug: %s", dispatcher.calls[0].Layer.Slug)
	}
}

func TestHandler_DispatchFailureReportsBatchItemFailure(t *testing.T) {
	dispatcher := &mockDispatcher{err: errors.New("subscription service down")}
	handler := newTestHandler(dispatcher, &mockMetrics{})

	resp, err := handler.Handle(context.Background(), buildSQSEvent(validAlertBody))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.BatchItemFailures) != 1 {
		t.Fatalf("expected 1 batch item failure, got %d", len(resp.BatchItemFailures))
	}
	if resp.BatchItemFailures[0].ItemIdentifier != "msg-1" {
		t.Errorf("unexpected failed message ID: %s", resp.BatchItemFailures[0].ItemIdentifier)
	}
}

func TestHandler_MalformedMessageIsAcked(t *testing.T) {
	dispatcher := &mockDispatcher{}
	handler := newTestHandler(dispatcher, &mockMetrics{})

	resp, err := handler.Handle(context.Background(), buildSQSEvent("{{not valid json}}"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Malformed messages are ACKed to prevent poison pill loops.
	if len(resp.BatchItemFailures) != 0 {
		t.Errorf("expected 0 batch item failures, got %d", len(resp.BatchItemFailures))
	}
	if len(dispatcher.calls) != 0 {
		t.Errorf("malformed message must not reach the dispatcher, got %d calls", len(dispatcher.calls))
	}
}

func TestHandler_OneBadMessageDoesNotFailTheBatch(t *testing.T) {
	dispatcher := &mockDispatcher{}
	handler := newTestHandler(dispatcher, &mockMetrics{})

	resp, err := handler.Handle(context.Background(), buildSQSEvent("{{not valid json}}", validAlertBody))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.BatchItemFailures) != 0 {
		t.Errorf("expected 0 batch item failures, got %d", len(resp.BatchItemFailures))
	}
	if len(dispatcher.calls) != 1 {
		t.Errorf("expected the valid message to be dispatched, got %d calls", len(dispatcher.calls))
	}
}

func TestHandler_RecordsQueueLagFromSentTimestamp(t *testing.T) {
	metrics := &mockMetrics{}
	handler := newTestHandler(&mockDispatcher{}, metrics)

	if _, err := handler.Handle(context.Background(), buildSQSEvent(validAlertBody)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if metrics.queueLagCalls != 1 {
		t.Fatalf("expected 1 queue lag metric, got %d", metrics.queueLagCalls)
	}
	if metrics.lastQueueLag <= 0 {
		t.Errorf("expected positive queue lag, got %v", metrics.lastQueueLag)
	}
}

func TestHandler_MissingSentTimestampSkipsQueueLag(t *testing.T) {
	metrics := &mockMetrics{}
	handler := newTestHandler(&mockDispatcher{}, metrics)

	event := events.SQSEvent{
		Records: []events.SQSMessage{
			{MessageId: "msg-1", Body: validAlertBody},
		},
	}

	if _, err := handler.Handle(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if metrics.queueLagCalls != 0 {
		t.Errorf("expected no queue lag metric, got %d", metrics.queueLagCalls)
	}
}

func TestParseMillisTimestamp(t *testing.T) {
	ts, err := parseMillisTimestamp("1706745600000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := time.UnixMilli(1706745600000)
	if !ts.Equal(expected) {
		t.Errorf("expected %v, got %v", expected, ts)
	}
}

func TestParseMillisTimestamp_Invalid(t *testing.T) {
	_, err := parseMillisTimestamp("not-a-number")
	if err == nil {
		t.Error("expected error for invalid timestamp")
	}
}
