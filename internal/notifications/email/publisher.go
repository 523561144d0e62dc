// Package email implements the email notification channel. Deliveries are
// not sent directly: the publisher enqueues a fully-addressed mail message
// onto the transactional mail queue and the mail service renders and sends
// the localized template.
package email

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/google/uuid"

	"forestwatch/internal/notifications/core"
	"forestwatch/internal/types"
)

// defaultTemplateBase is the template family for layers without a dedicated
// template.
const defaultTemplateBase = "forest-change-notification"

// templateByKind maps layer kinds to their mail template families. The final
// template name carries a language suffix, e.g. "glad-updated-notification-es".
var templateByKind = map[types.LayerKind]string{
	types.KindGLADAlerts:     "glad-updated-notification",
	types.KindGLADL:          "glad-l-notification",
	types.KindGLADS2:         "glad-s2-notification",
	types.KindRADD:           "radd-notification",
	types.KindVIIRSFires:     "fires-notification",
	types.KindMonthlySummary: "monthly-summary-notification",
}

// Compile-time assertion that Publisher implements core.Publisher.
var _ core.Publisher = (*Publisher)(nil)

// Publisher enqueues notification emails onto the mail queue. Enqueue
// failures propagate so the dispatch message is retried; losing an alert
// email silently is worse than an occasional duplicate.
type Publisher struct {
	client        core.SQSSender
	queueURL      string
	sender        string
	testRecipient string
	logger        types.Logger
}

// NewPublisher creates an email publisher targeting the mail queue.
// testRecipient, when set, receives every test-mode subscription's mail in
// place of the real subscriber.
func NewPublisher(client core.SQSSender, queueURL, sender, testRecipient string, logger types.Logger) *Publisher {
	return &Publisher{
		client:        client,
		queueURL:      queueURL,
		sender:        sender,
		testRecipient: testRecipient,
		logger:        logger,
	}
}

// Channel returns the email channel label.
func (p *Publisher) Channel() types.ChannelType {
	return types.ChannelEmail
}

// Publish enqueues one mail message for the subscription.
func (p *Publisher) Publish(ctx context.Context, sub types.Subscription, payload types.NotificationPayload, layer types.Layer) error {
	recipient := sub.Resource.Content
	if sub.TestMode && p.testRecipient != "" {
		p.logger.Info("test-mode subscription, redirecting mail",
			"subscription_id", sub.ID,
			"test_recipient", p.testRecipient,
		)
		recipient = p.testRecipient
	}

	msg := types.MailMessage{
		ID:       uuid.NewString(),
		Template: TemplateFor(layer.Kind(), sub.Language),
		Data:     payload,
		Recipients: []types.MailRecipient{
			{Address: types.MailAddress{Email: recipient}},
		},
		Sender: p.sender,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return types.NewAppError(
			types.ErrCodeDeliveryEmailEnqueue,
			"marshaling mail message",
			err,
		)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
	}

	if _, err := p.client.SendMessage(ctx, input); err != nil {
		return types.NewAppError(
			types.ErrCodeDeliveryEmailEnqueue,
			fmt.Sprintf("sending mail message to %s", p.queueURL),
			err,
		)
	}

	p.logger.Info("notification email enqueued",
		"subscription_id", sub.ID,
		"layer", layer.Slug,
		"template", msg.Template,
	)

	return nil
}

// TemplateFor resolves the localized template name for a layer kind and
// subscription language.
func TemplateFor(kind types.LayerKind, language string) string {
	base, ok := templateByKind[kind]
	if !ok {
		base = defaultTemplateBase
	}
	return base + "-" + langSuffix(language)
}

// langSuffix normalizes a subscription language tag ("es_MX", "EN") into the
// template suffix form ("es-mx", "en"), defaulting to English.
func langSuffix(language string) string {
	s := strings.ToLower(strings.ReplaceAll(language, "_", "-"))
	if s == "" {
		return "en"
	}
	return s
}
