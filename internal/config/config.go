// Package config defines the configuration for the dispatch workers.
// Configuration is loaded once at process initialization (Lambda cold start)
// and is immutable thereafter. It follows 12-Factor App principles by
// strictly separating code from configuration.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File (Lowest)
//
// Any missing required value or invalid format fails the process immediately
// on startup.
package config

import "time"

// Config is the top-level configuration struct. It is populated once during
// process initialization and never modified. Components receive only the
// specific subsets they require.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"forestwatch-dispatch"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Domain Configurations
	AWS     AWSConfig
	DataAPI DataAPIConfig
	Email   EmailConfig
	Webhook WebhookConfig

	// Build Metadata (injected via ldflags, not env)
	Build BuildInfo
}

// AWSConfig holds AWS resource identifiers and regional configuration.
type AWSConfig struct {
	Region string `envconfig:"AWS_REGION" default:"us-east-1"`

	// Resource Identifiers
	DispatchQueue string `envconfig:"SQS_DISPATCH_QUEUE" validate:"required,url"`
	MailQueue     string `envconfig:"SQS_MAIL_QUEUE" validate:"required,url"`

	// LocalStack Support (empty in prod)
	EndpointURL string `envconfig:"AWS_ENDPOINT_URL"`

	// MetricsEnabled gates CloudWatch emission; off for local runs.
	MetricsEnabled bool `envconfig:"METRICS_ENABLED" default:"true"`
}

// DataAPIConfig holds the upstream geospatial service endpoints and the
// datasets backing the GLAD export links.
type DataAPIConfig struct {
	BaseURL         string        `envconfig:"DATA_API_URL" validate:"required,url"`
	SubscriptionURL string        `envconfig:"SUBSCRIPTION_API_URL" validate:"required,url"`
	Timeout         time.Duration `envconfig:"DATA_API_TIMEOUT" default:"30s"`
	UserAgent       string        `envconfig:"DATA_API_USER_AGENT" default:"ForestWatch-Dispatch/1.0"`

	// Dataset identifiers for the per-variant download-link lookups.
	GLADLDataset      string `envconfig:"DATASET_GLAD_L" default:"umd_glad_landsat_alerts"`
	GLADS2Dataset     string `envconfig:"DATASET_GLAD_S2" default:"umd_glad_sentinel2_alerts"`
	RADDDataset       string `envconfig:"DATASET_RADD" default:"wur_radd_alerts"`
	GLADAlertsDataset string `envconfig:"DATASET_GLAD_ALERTS" default:"umd_landsat_alerts"`

	// AlertLinkBase is the flagship map URL echoed into notifications.
	AlertLinkBase string `envconfig:"ALERT_LINK_BASE" default:"https://www.globalforestwatch.org/map"`
}

// EmailConfig holds the mail queue addressing defaults.
type EmailConfig struct {
	Sender string `envconfig:"EMAIL_SENDER" default:"alerts@forestwatch.org"`
	// TestRecipient receives mail for test-mode subscriptions instead of the
	// real subscriber. Empty disables redirection.
	TestRecipient string `envconfig:"EMAIL_TEST_RECIPIENT"`
}

// WebhookConfig holds settings for outbound webhook delivery.
type WebhookConfig struct {
	UserAgent string        `envconfig:"WEBHOOK_USER_AGENT" default:"ForestWatch-Webhook/1.0"`
	Timeout   time.Duration `envconfig:"WEBHOOK_TIMEOUT" default:"10s"`
}
