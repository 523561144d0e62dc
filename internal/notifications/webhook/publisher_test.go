package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"forestwatch/internal/types"
)

type mockLogger struct {
	warnCount  int
	errorCount int
}

func (l *mockLogger) Info(msg string, args ...any)  {}
func (l *mockLogger) Error(msg string, args ...any) { l.errorCount++ }
func (l *mockLogger) Warn(msg string, args ...any)  { l.warnCount++ }
func (l *mockLogger) With(args ...any) types.Logger { return l }

var (
	testLayer   = types.Layer{Slug: "viirs-active-fires", Name: "VIIRS active fires"}
	testPayload = types.NotificationPayload{
		Value:          4.0,
		LayerSlug:      "viirs-active-fires",
		SubscriptionID: "sub-9",
		Alerts:         []types.RecentAlert{},
	}
)

func subscriptionFor(url string) types.Subscription {
	return types.Subscription{
		ID:       "sub-9",
		Resource: types.SubscriptionResource{Type: types.ResourceURL, Content: url},
	}
}

func TestPublish_PostsPayloadAsJSON(t *testing.T) {
	var gotContentType, gotUA string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotUA = r.Header.Get("User-Agent")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	pub := NewPublisher(server.Client(), "ForestWatch/1.0", &mockLogger{})

	if err := pub.Publish(context.Background(), subscriptionFor(server.URL), testPayload, testLayer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotContentType != "application/json" {
		t.Errorf("unexpected content type: %s", gotContentType)
	}
	if gotUA != "ForestWatch/1.0" {
		t.Errorf("unexpected user agent: %s", gotUA)
	}

	var posted types.NotificationPayload
	if err := json.Unmarshal(gotBody, &posted); err != nil {
		t.Fatalf("posted body is not valid JSON: %v", err)
	}
	if posted.SubscriptionID != "sub-9" || posted.Value != 4.0 {
		t.Errorf("unexpected posted payload: %+v", posted)
	}
}

func TestPublish_ErrorStatusIsSwallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	logger := &mockLogger{}
	pub := NewPublisher(server.Client(), "", logger)

	if err := pub.Publish(context.Background(), subscriptionFor(server.URL), testPayload, testLayer); err != nil {
		t.Fatalf("webhook failures must be swallowed, got %v", err)
	}
	if logger.warnCount == 0 {
		t.Error("expected rejected delivery to be logged")
	}
}

func TestPublish_NetworkFailureIsSwallowed(t *testing.T) {
	// Point at a server that is already closed.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	logger := &mockLogger{}
	pub := NewPublisher(&http.Client{Timeout: time.Second}, "", logger)

	if err := pub.Publish(context.Background(), subscriptionFor(url), testPayload, testLayer); err != nil {
		t.Fatalf("network failures must be swallowed, got %v", err)
	}
	if logger.warnCount == 0 {
		t.Error("expected network failure to be logged")
	}
}
