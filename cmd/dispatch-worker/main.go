// Package main is the entrypoint for the dispatch worker Lambda function.
//
// The dispatch worker consumes alert messages from the dispatch SQS queue.
// Each message announces that a monitoring layer produced new analysis
// results for a time window. The worker fans out over the layer's
// subscribers, normalizes each subscriber's result, suppresses zero results,
// decorates the payload with layer-specific enrichment, and delivers via the
// subscriber's channel (mail queue or webhook).
//
// Cold start (main):
//  1. Load and validate configuration.
//  2. Initialize structured logger.
//  3. Load AWS SDK configuration, SQS and CloudWatch clients.
//  4. Build the data API clients behind circuit breakers.
//  5. Wire adapters, presenters, publishers, and the dispatcher.
//  6. Register handler and call lambda.Start.
//
// Handler flow per SQS batch: messages that fail processing are returned in
// batchItemFailures so SQS retries only them; undecodable messages are ACKed
// since redelivery cannot fix them.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"forestwatch/internal/config"
	"forestwatch/internal/dispatch"
	"forestwatch/internal/external"
	"forestwatch/internal/notifications/core"
	"forestwatch/internal/notifications/email"
	"forestwatch/internal/notifications/webhook"
	"forestwatch/internal/presenters"
	"forestwatch/internal/results"
	"forestwatch/internal/types"
)

// slogAdapter wraps *slog.Logger to implement the types.Logger interface.
// slog.Logger satisfies Info/Error/Warn directly but With returns
// *slog.Logger, not types.Logger, so an adapter is necessary.
type slogAdapter struct {
	logger *slog.Logger
}

func (a *slogAdapter) Info(msg string, args ...any)  { a.logger.Info(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.logger.Error(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.logger.Warn(msg, args...) }
func (a *slogAdapter) With(args ...any) types.Logger {
	return &slogAdapter{logger: a.logger.With(args...)}
}

// Compile-time assertion that slogAdapter implements types.Logger.
var _ types.Logger = (*slogAdapter)(nil)

// alertDispatcher is the slice of the dispatcher the handler needs.
type alertDispatcher interface {
	Dispatch(ctx context.Context, msg dispatch.DecodedMessage) error
}

// Handler holds the dependencies for the dispatch worker Lambda handler.
type Handler struct {
	decoder    *dispatch.Decoder
	dispatcher alertDispatcher
	metrics    core.Metrics
	logger     types.Logger
}

// Handle processes an SQS event containing one or more alert messages.
// Lambda SQS integration uses partial batch responses: messages that fail
// processing are returned in batchItemFailures so SQS retries them.
func (h *Handler) Handle(ctx context.Context, sqsEvent events.SQSEvent) (events.SQSEventResponse, error) {
	response := events.SQSEventResponse{}

	for _, record := range sqsEvent.Records {
		if err := h.processMessage(ctx, record); err != nil {
			h.logger.Error("failed to process SQS message",
				"message_id", record.MessageId,
				"error", err.Error(),
			)
			response.BatchItemFailures = append(response.BatchItemFailures,
				events.SQSBatchItemFailure{ItemIdentifier: record.MessageId},
			)
		}
	}

	return response, nil
}

// processMessage handles a single SQS message through the dispatch pipeline.
func (h *Handler) processMessage(ctx context.Context, record events.SQSMessage) error {
	ctx = types.WithRequestID(ctx, record.MessageId)

	// Record queue lag for observability.
	if sentTimestamp, ok := record.Attributes["SentTimestamp"]; ok {
		if sentAt, err := parseMillisTimestamp(sentTimestamp); err == nil {
			h.metrics.RecordQueueLag(ctx, time.Since(sentAt))
		}
	}

	msg, err := h.decoder.Decode([]byte(record.Body))
	if err != nil {
		// Permanent decode failure: redelivery cannot fix a malformed
		// message, so ACK it (return nil) after logging.
		h.logger.Error("rejecting undecodable alert message",
			"message_id", record.MessageId,
			"error", err.Error(),
		)
		return nil
	}

	logger := h.logger.With(
		"message_id", record.MessageId,
		"layer", msg.Layer.Slug,
	)
	logger.Info("processing alert message",
		"begin", msg.Begin.Format(time.DateOnly),
		"end", msg.End.Format(time.DateOnly),
	)

	return h.dispatcher.Dispatch(ctx, msg)
}

// parseMillisTimestamp parses a millisecond-epoch string into a time.Time.
// Used for the SQS SentTimestamp attribute to calculate queue lag.
func parseMillisTimestamp(ms string) (time.Time, error) {
	var millis int64
	if _, err := fmt.Sscanf(ms, "%d", &millis); err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(millis), nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	typedLogger := &slogAdapter{logger: logger}

	logger.Info("dispatch worker initializing (cold start)",
		"environment", cfg.Environment,
		"version", cfg.Build.Version,
		"commit", cfg.Build.Commit,
	)

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWS.Region),
	)
	if err != nil {
		logger.Error("failed to load AWS SDK config", "error", err)
		os.Exit(1)
	}

	sqsClient := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if cfg.AWS.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.AWS.EndpointURL)
		}
	})

	var metrics core.Metrics = core.NoopMetrics{}
	if cfg.AWS.MetricsEnabled {
		cwClient := cloudwatch.NewFromConfig(awsCfg, func(o *cloudwatch.Options) {
			if cfg.AWS.EndpointURL != "" {
				o.BaseEndpoint = aws.String(cfg.AWS.EndpointURL)
			}
		})
		metrics = core.NewCloudWatchMetrics(cwClient, typedLogger)
	}

	// Data API clients share an HTTP client but keep separate circuit
	// breakers per upstream.
	httpClient := &http.Client{Timeout: cfg.DataAPI.Timeout}
	retryPolicy := external.DefaultRetryPolicy()
	dataBase := external.NewBaseClient(httpClient, "data-api", retryPolicy, cfg.DataAPI.UserAgent)
	subBase := external.NewBaseClient(httpClient, "subscription-api", retryPolicy, cfg.DataAPI.UserAgent)

	store := external.NewSubscriptionClient(subBase, cfg.DataAPI.SubscriptionURL, typedLogger)
	analysis := external.NewAnalysisClient(dataBase, cfg.DataAPI.BaseURL, typedLogger)

	presenterReg := presenters.NewRegistry(presenters.Deps{
		GLADLDownloads:      external.NewDownloadClient(dataBase, cfg.DataAPI.BaseURL, cfg.DataAPI.GLADLDataset, typedLogger),
		GLADS2Downloads:     external.NewDownloadClient(dataBase, cfg.DataAPI.BaseURL, cfg.DataAPI.GLADS2Dataset, typedLogger),
		RADDDownloads:       external.NewDownloadClient(dataBase, cfg.DataAPI.BaseURL, cfg.DataAPI.RADDDataset, typedLogger),
		GLADAlertsDownloads: external.NewDownloadClient(dataBase, cfg.DataAPI.BaseURL, cfg.DataAPI.GLADAlertsDataset, typedLogger),
		Samples:             external.NewSampleClient(dataBase, cfg.DataAPI.BaseURL, typedLogger),
		AlertLinkBase:       cfg.DataAPI.AlertLinkBase,
		Logger:              typedLogger,
	})

	publishers := []core.Publisher{
		email.NewPublisher(sqsClient, cfg.AWS.MailQueue, cfg.Email.Sender, cfg.Email.TestRecipient, typedLogger),
		webhook.NewPublisher(&http.Client{Timeout: cfg.Webhook.Timeout}, cfg.Webhook.UserAgent, typedLogger),
	}

	dispatcher := dispatch.NewDispatcher(
		store,
		analysis,
		results.NewRegistry(),
		presenterReg,
		publishers,
		metrics,
		typedLogger,
	)

	handler := &Handler{
		decoder:    dispatch.NewDecoder(),
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     typedLogger,
	}

	logger.Info("dispatch worker initialized",
		"dispatch_queue", cfg.AWS.DispatchQueue,
		"mail_queue", cfg.AWS.MailQueue,
		"data_api", cfg.DataAPI.BaseURL,
		"subscription_api", cfg.DataAPI.SubscriptionURL,
	)

	lambda.Start(handler.Handle)
}
