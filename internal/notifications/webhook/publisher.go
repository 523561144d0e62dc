// Package webhook implements the webhook notification channel: the finished
// payload is POSTed as JSON to the subscriber's endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"forestwatch/internal/notifications/core"
	"forestwatch/internal/types"
)

// maxResponseBodyRead limits how much of a response body is read for error
// logging.
const maxResponseBodyRead = 4096

// Compile-time assertion that Publisher implements core.Publisher.
var _ core.Publisher = (*Publisher)(nil)

// Publisher POSTs notification payloads to subscriber webhooks.
//
// Webhook endpoints are subscriber-operated and frequently broken; one dead
// endpoint must not hold back the rest of a layer's deliveries or trigger a
// redelivery storm. Every failure is therefore logged and swallowed: Publish
// never returns an error.
type Publisher struct {
	httpClient *http.Client
	userAgent  string
	logger     types.Logger
}

// NewPublisher creates a webhook publisher using the given HTTP client.
func NewPublisher(httpClient *http.Client, userAgent string, logger types.Logger) *Publisher {
	return &Publisher{
		httpClient: httpClient,
		userAgent:  userAgent,
		logger:     logger,
	}
}

// Channel returns the webhook channel label.
func (p *Publisher) Channel() types.ChannelType {
	return types.ChannelWebhook
}

// Publish POSTs the payload to the subscription's endpoint. Always returns
// nil.
func (p *Publisher) Publish(ctx context.Context, sub types.Subscription, payload types.NotificationPayload, layer types.Layer) error {
	destination := sub.Resource.Content

	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("webhook payload marshal failed",
			"subscription_id", sub.ID,
			"layer", layer.Slug,
			"error", err,
		)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, destination, bytes.NewReader(body))
	if err != nil {
		p.logger.Error("webhook request build failed",
			"subscription_id", sub.ID,
			"destination", destination,
			"error", err,
		)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Warn("webhook delivery failed",
			"subscription_id", sub.ID,
			"layer", layer.Slug,
			"destination", destination,
			"error", err,
		)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyRead))
		p.logger.Warn("webhook endpoint rejected delivery",
			"subscription_id", sub.ID,
			"layer", layer.Slug,
			"destination", destination,
			"status", resp.StatusCode,
			"body", string(respBody),
		)
		return nil
	}

	p.logger.Info("webhook delivered",
		"subscription_id", sub.ID,
		"layer", layer.Slug,
		"destination", destination,
		"status", resp.StatusCode,
	)

	return nil
}
