package types

// CloudWatch metric names and dimensions emitted by the dispatch pipeline.
const (
	// MetricNamespace is the CloudWatch namespace for all pipeline metrics.
	MetricNamespace = "ForestWatch"

	// MetricDeliveryAttempt counts delivery outcomes per channel.
	MetricDeliveryAttempt = "DeliveryAttempt"

	// Dimension names.
	DimChannel = "Channel"
	DimResult  = "Result"
)
