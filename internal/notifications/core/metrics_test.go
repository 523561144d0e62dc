package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"

	"forestwatch/internal/types"
)

// mockCloudWatchClient captures PutMetricData calls for test assertions.
type mockCloudWatchClient struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (m *mockCloudWatchClient) PutMetricData(_ context.Context, params *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	m.inputs = append(m.inputs, params)
	if m.err != nil {
		return nil, m.err
	}
	return &cloudwatch.PutMetricDataOutput{}, nil
}

type mockLogger struct {
	errorCount int
}

func (l *mockLogger) Info(msg string, args ...any)  {}
func (l *mockLogger) Error(msg string, args ...any) { l.errorCount++ }
func (l *mockLogger) Warn(msg string, args ...any)  {}
func (l *mockLogger) With(args ...any) types.Logger { return l }

func TestRecordDelivery_EmitsChannelAndResultDimensions(t *testing.T) {
	mock := &mockCloudWatchClient{}
	metrics := NewCloudWatchMetrics(mock, &mockLogger{})

	metrics.RecordDelivery(context.Background(), types.ChannelEmail, MetricResultSuccess)

	if len(mock.inputs) != 1 {
		t.Fatalf("expected 1 PutMetricData call, got %d", len(mock.inputs))
	}
	input := mock.inputs[0]
	if *input.Namespace != types.MetricNamespace {
		t.Errorf("unexpected namespace %s", *input.Namespace)
	}
	datum := input.MetricData[0]
	if *datum.MetricName != types.MetricDeliveryAttempt {
		t.Errorf("unexpected metric name %s", *datum.MetricName)
	}
	if len(datum.Dimensions) != 2 {
		t.Fatalf("expected 2 dimensions, got %d", len(datum.Dimensions))
	}
	if *datum.Dimensions[0].Value != "email" || *datum.Dimensions[1].Value != "success" {
		t.Errorf("unexpected dimensions: %v / %v", *datum.Dimensions[0].Value, *datum.Dimensions[1].Value)
	}
}

func TestRecordDelivery_EmissionFailureIsSwallowed(t *testing.T) {
	mock := &mockCloudWatchClient{err: errors.New("throttled")}
	logger := &mockLogger{}
	metrics := NewCloudWatchMetrics(mock, logger)

	metrics.RecordDelivery(context.Background(), types.ChannelWebhook, MetricResultFailed)

	if logger.errorCount != 1 {
		t.Errorf("expected emission failure to be logged, got %d error logs", logger.errorCount)
	}
}

func TestRecordQueueLag_EmitsMilliseconds(t *testing.T) {
	mock := &mockCloudWatchClient{}
	metrics := NewCloudWatchMetrics(mock, &mockLogger{})

	metrics.RecordQueueLag(context.Background(), 2500*time.Millisecond)

	datum := mock.inputs[0].MetricData[0]
	if *datum.MetricName != "DispatchQueueLag" {
		t.Errorf("unexpected metric name %s", *datum.MetricName)
	}
	if *datum.Value != 2500 {
		t.Errorf("expected 2500 ms, got %v", *datum.Value)
	}
}
