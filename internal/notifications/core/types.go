// Package core defines the delivery contracts shared by the notification
// channels: the Publisher interface the dispatcher fans out to, the queue
// sender abstraction, and delivery metrics.
package core

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"forestwatch/internal/types"
)

// Publisher delivers a finished notification payload to one channel.
//
// Error contract: a returned error means the delivery must be retried, so
// the message goes back to the queue. Channels whose failures must never
// block the batch (webhooks) log and return nil instead.
type Publisher interface {
	Publish(ctx context.Context, sub types.Subscription, payload types.NotificationPayload, layer types.Layer) error
	Channel() types.ChannelType
}

// SQSSender abstracts the SQS SendMessage operation for testability.
// Production code uses the *sqs.Client from aws-sdk-go-v2.
type SQSSender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// MetricResult labels the outcome of a delivery attempt in metrics.
type MetricResult string

const (
	MetricResultSuccess MetricResult = "success"
	MetricResultFailed  MetricResult = "failed"
	MetricResultSkipped MetricResult = "skipped"
)
