package types

import (
	"context"
	"time"
)

// Logger defines the structured logging interface used throughout the
// pipeline. Workers wrap *slog.Logger to satisfy it.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	With(args ...any) Logger
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the real system time (always UTC).
type RealClock struct{}

// Now returns the current time in UTC.
func (RealClock) Now() time.Time { return time.Now().UTC() }

// SubscriptionStore is the read-only view of the subscription system.
// Persistence of subscriptions is owned elsewhere; this core only lists the
// subscribers of a layer.
type SubscriptionStore interface {
	ListForLayer(ctx context.Context, layerSlug string) ([]Subscription, error)
}

// AnalysisService returns the raw, source-specific analysis result for a
// layer over a time window, scoped to a subscription's geographic params.
// The returned value is opaque decoded JSON; adapters normalize it.
type AnalysisService interface {
	Results(ctx context.Context, layer Layer, begin, end time.Time, params GeoParams) (any, error)
}
