package email

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"forestwatch/internal/types"
)

// mockSQSSender captures SendMessage calls for test assertions.
type mockSQSSender struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (m *mockSQSSender) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	m.inputs = append(m.inputs, params)
	if m.err != nil {
		return nil, m.err
	}
	return &sqs.SendMessageOutput{}, nil
}

type mockLogger struct{}

func (mockLogger) Info(msg string, args ...any)  {}
func (mockLogger) Error(msg string, args ...any) {}
func (mockLogger) Warn(msg string, args ...any)  {}
func (mockLogger) With(args ...any) types.Logger { return mockLogger{} }

var (
	testLayer = types.Layer{Slug: "glad-alerts", Name: "GLAD alerts"}
	testSub   = types.Subscription{
		ID:       "sub-1",
		Language: "es_MX",
		Resource: types.SubscriptionResource{Type: types.ResourceEmail, Content: "jane@example.org"},
	}
	testPayload = types.NotificationPayload{
		Value:          9.0,
		LayerSlug:      "glad-alerts",
		SubscriptionID: "sub-1",
		Alerts:         []types.RecentAlert{},
	}
)

func TestPublish_EnqueuesMailMessage(t *testing.T) {
	mock := &mockSQSSender{}
	pub := NewPublisher(mock, "https://sqs.example/mail-queue", "alerts@example.org", "", mockLogger{})

	if err := pub.Publish(context.Background(), testSub, testPayload, testLayer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mock.inputs) != 1 {
		t.Fatalf("expected 1 SendMessage call, got %d", len(mock.inputs))
	}
	input := mock.inputs[0]
	if *input.QueueUrl != "https://sqs.example/mail-queue" {
		t.Errorf("unexpected queue URL: %s", *input.QueueUrl)
	}

	var msg types.MailMessage
	if err := json.Unmarshal([]byte(*input.MessageBody), &msg); err != nil {
		t.Fatalf("message body is not valid JSON: %v", err)
	}
	if msg.Template != "glad-updated-notification-es-mx" {
		t.Errorf("unexpected template: %s", msg.Template)
	}
	if msg.ID == "" {
		t.Error("expected an idempotency id on the mail message")
	}
	if msg.Sender != "alerts@example.org" {
		t.Errorf("unexpected sender: %s", msg.Sender)
	}
	if len(msg.Recipients) != 1 || msg.Recipients[0].Address.Email != "jane@example.org" {
		t.Errorf("unexpected recipients: %+v", msg.Recipients)
	}
	if msg.Data.SubscriptionID != "sub-1" || msg.Data.Value != 9.0 {
		t.Errorf("payload not carried in message: %+v", msg.Data)
	}
}

func TestPublish_EnqueueFailurePropagates(t *testing.T) {
	mock := &mockSQSSender{err: errors.New("sqs unavailable")}
	pub := NewPublisher(mock, "https://sqs.example/mail-queue", "alerts@example.org", "", mockLogger{})

	err := pub.Publish(context.Background(), testSub, testPayload, testLayer)
	if err == nil {
		t.Fatal("expected enqueue failure to propagate")
	}

	var appErr *types.AppError
	if !errors.As(err, &appErr) || appErr.Code != types.ErrCodeDeliveryEmailEnqueue {
		t.Errorf("expected delivery_email_enqueue error, got %v", err)
	}
}

func TestPublish_TestModeRedirectsRecipient(t *testing.T) {
	mock := &mockSQSSender{}
	pub := NewPublisher(mock, "https://sqs.example/mail-queue", "alerts@example.org", "qa@example.org", mockLogger{})

	sub := testSub
	sub.TestMode = true

	if err := pub.Publish(context.Background(), sub, testPayload, testLayer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var msg types.MailMessage
	if err := json.Unmarshal([]byte(*mock.inputs[0].MessageBody), &msg); err != nil {
		t.Fatalf("message body is not valid JSON: %v", err)
	}
	if msg.Recipients[0].Address.Email != "qa@example.org" {
		t.Errorf("expected test recipient, got %s", msg.Recipients[0].Address.Email)
	}
}

func TestTemplateFor_FallsBackToDefaultFamilyAndEnglish(t *testing.T) {
	if got := TemplateFor(types.KindGeneric, ""); got != "forest-change-notification-en" {
		t.Errorf("unexpected template: %s", got)
	}
	if got := TemplateFor(types.KindMonthlySummary, "PT_br"); got != "monthly-summary-notification-pt-br" {
		t.Errorf("unexpected template: %s", got)
	}
}
