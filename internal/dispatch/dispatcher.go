package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"forestwatch/internal/notifications/core"
	"forestwatch/internal/presenters"
	"forestwatch/internal/results"
	"forestwatch/internal/types"
)

// defaultConcurrency bounds the per-message subscriber fan-out. Each
// subscriber costs at least one analysis query, so this also throttles load
// on the data API.
const defaultConcurrency = 8

// Dispatcher orchestrates one alert message end to end: list the layer's
// subscribers, fetch and normalize each subscriber's analysis result, gate
// on the zero check, decorate the payload, and hand it to the subscriber's
// channel.
type Dispatcher struct {
	store       types.SubscriptionStore
	analysis    types.AnalysisService
	adapters    *results.Registry
	presenters  *presenters.Registry
	publishers  map[types.ChannelType]core.Publisher
	metrics     core.Metrics
	clock       types.Clock
	logger      types.Logger
	concurrency int
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithConcurrency overrides the subscriber fan-out limit.
func WithConcurrency(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// WithClock overrides the clock for testing.
func WithClock(c types.Clock) Option {
	return func(d *Dispatcher) {
		d.clock = c
	}
}

// NewDispatcher wires a Dispatcher from its collaborators. Publishers are
// keyed by the channel they serve.
func NewDispatcher(
	store types.SubscriptionStore,
	analysis types.AnalysisService,
	adapters *results.Registry,
	presenterReg *presenters.Registry,
	publishers []core.Publisher,
	metrics core.Metrics,
	logger types.Logger,
	opts ...Option,
) *Dispatcher {
	byChannel := make(map[types.ChannelType]core.Publisher, len(publishers))
	for _, p := range publishers {
		byChannel[p.Channel()] = p
	}

	d := &Dispatcher{
		store:       store,
		analysis:    analysis,
		adapters:    adapters,
		presenters:  presenterReg,
		publishers:  byChannel,
		metrics:     metrics,
		clock:       types.RealClock{},
		logger:      logger,
		concurrency: defaultConcurrency,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Dispatch processes one decoded alert message.
//
// Error policy: subscriber failures are independent, so one hard failure
// never stops the remaining fan-out. All failures are joined and returned at
// the end; a non-nil return sends the message back to the queue, which means
// already-delivered subscribers may see a duplicate on redelivery. That
// trade is deliberate: a duplicate alert beats a lost one.
func (d *Dispatcher) Dispatch(ctx context.Context, msg DecodedMessage) error {
	subs, err := d.store.ListForLayer(ctx, msg.Layer.Slug)
	if err != nil {
		return fmt.Errorf("dispatch %s: listing subscriptions: %w", msg.Layer.Slug, err)
	}

	if len(subs) == 0 {
		d.logger.Info("no subscriptions for layer",
			"layer", msg.Layer.Slug,
			"begin", msg.Begin.Format(dateLayout),
			"end", msg.End.Format(dateLayout),
		)
		return nil
	}

	adapter := d.adapters.ForLayer(msg.Layer)
	presenter := d.presenters.ForLayer(msg.Layer)

	d.logger.Info("dispatching layer alert",
		"layer", msg.Layer.Slug,
		"subscriptions", len(subs),
		"begin", msg.Begin.Format(dateLayout),
		"end", msg.End.Format(dateLayout),
	)

	var mu sync.Mutex
	var failures []error

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	for _, sub := range subs {
		sub := sub
		g.Go(func() error {
			if err := d.dispatchOne(gctx, sub, msg, adapter, presenter); err != nil {
				d.logger.Error("subscription dispatch failed",
					"layer", msg.Layer.Slug,
					"subscription_id", sub.ID,
					"error", err,
				)
				mu.Lock()
				failures = append(failures, fmt.Errorf("subscription %s: %w", sub.ID, err))
				mu.Unlock()
			}
			// Failures are collected, not returned: returning would cancel
			// the group and abort the other subscribers.
			return nil
		})
	}

	_ = g.Wait()

	return errors.Join(failures...)
}

// dispatchOne processes a single subscription: query, normalize, gate,
// decorate, deliver.
func (d *Dispatcher) dispatchOne(ctx context.Context, sub types.Subscription, msg DecodedMessage, adapter results.Adapter, presenter presenters.Presenter) error {
	channel := sub.Resource.Type.Channel()

	raw, err := d.analysis.Results(ctx, msg.Layer, msg.Begin, msg.End, sub.Params)
	if err != nil {
		d.metrics.RecordDelivery(ctx, channel, core.MetricResultFailed)
		return fmt.Errorf("fetching analysis results: %w", err)
	}

	result, err := adapter.Transform(raw, msg.Layer)
	if err != nil {
		d.metrics.RecordDelivery(ctx, channel, core.MetricResultFailed)
		return err
	}

	if results.IsZero(result) {
		d.logger.Info("zero result, notification suppressed",
			"layer", msg.Layer.Slug,
			"subscription_id", sub.ID,
		)
		d.metrics.RecordDelivery(ctx, channel, core.MetricResultSkipped)
		return nil
	}

	payload := presenters.BuildPayload(result, sub, msg.Layer, msg.Begin, msg.End)
	payload, err = presenter.Decorate(ctx, payload, sub, msg.Layer, msg.Begin, msg.End)
	if err != nil {
		d.metrics.RecordDelivery(ctx, channel, core.MetricResultFailed)
		return err
	}

	pub, ok := d.publishers[channel]
	if !ok {
		d.metrics.RecordDelivery(ctx, channel, core.MetricResultFailed)
		return types.NewAppError(
			types.ErrCodeInternalUnexpected,
			fmt.Sprintf("no publisher wired for channel %s", channel),
			nil,
		)
	}

	start := d.clock.Now()
	err = pub.Publish(ctx, sub, payload, msg.Layer)
	d.metrics.RecordLatency(ctx, channel, d.clock.Now().Sub(start))
	if err != nil {
		d.metrics.RecordDelivery(ctx, channel, core.MetricResultFailed)
		return err
	}

	d.metrics.RecordDelivery(ctx, channel, core.MetricResultSuccess)
	return nil
}
