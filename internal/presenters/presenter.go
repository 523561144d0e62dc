// Package presenters decorates normalized results into finished notification
// payloads. Each layer kind gets a presenter that attaches its enrichment
// fields (download links, recent-alert samples, localized labels, per-type
// counts); layers without one pass through untouched.
package presenters

import (
	"context"
	"net/url"
	"time"

	"forestwatch/internal/types"
)

const dateLayout = "2006-01-02"

// Presenter decorates a base payload with layer-specific enrichment.
// Implementations must treat the payload as a value: decorate the copy they
// received and return it, never share state across calls.
type Presenter interface {
	Decorate(ctx context.Context, payload types.NotificationPayload, sub types.Subscription, layer types.Layer, begin, end time.Time) (types.NotificationPayload, error)
}

// DownloadService resolves the CSV and JSON export links for a layer over a
// time window, scoped to a subscription's geographic params.
type DownloadService interface {
	URLs(ctx context.Context, layer types.Layer, begin, end time.Time, params types.GeoParams) (types.DownloadURLs, error)
}

// SampleFetcher returns the most recent raw alert entries for a geostore,
// newest first, at most limit entries.
type SampleFetcher interface {
	LatestAlerts(ctx context.Context, geostoreID string, limit int) ([]types.AlertSample, error)
}

// BuildPayload assembles the base notification payload from the normalized
// result and its subscription and time-window context. Alerts starts as an
// empty slice so the serialized payload always carries an array.
func BuildPayload(result types.NormalizedResult, sub types.Subscription, layer types.Layer, begin, end time.Time) types.NotificationPayload {
	return types.NotificationPayload{
		Value:          result.Value,
		Data:           result.Data,
		LayerSlug:      layer.Slug,
		LayerName:      layer.Name,
		SubscriptionID: sub.ID,
		Language:       sub.Language,
		BeginDate:      begin.Format(dateLayout),
		EndDate:        end.Format(dateLayout),
		Alerts:         []types.RecentAlert{},
	}
}

// NoopPresenter returns the payload unchanged. It is the fallback for layer
// kinds without enrichment.
type NoopPresenter struct{}

var _ Presenter = NoopPresenter{}

func (NoopPresenter) Decorate(_ context.Context, payload types.NotificationPayload, _ types.Subscription, _ types.Layer, _, _ time.Time) (types.NotificationPayload, error) {
	return payload, nil
}

// Deps wires the external services each specialized presenter needs. The
// GLAD variants resolve their export links against different datasets, so
// each gets its own download service.
type Deps struct {
	GLADLDownloads      DownloadService
	GLADS2Downloads     DownloadService
	RADDDownloads       DownloadService
	GLADAlertsDownloads DownloadService
	Samples             SampleFetcher
	AlertLinkBase       string
	Logger              types.Logger
}

// Registry maps layer kinds to presenters, falling back to the no-op
// presenter for kinds without enrichment.
type Registry struct {
	presenters map[types.LayerKind]Presenter
	fallback   Presenter
}

// NewRegistry creates a Registry pre-populated with the standard presenters.
func NewRegistry(deps Deps) *Registry {
	r := &Registry{
		presenters: make(map[types.LayerKind]Presenter),
		fallback:   NoopPresenter{},
	}

	r.Register(types.KindGLADL, NewGLADLPresenter(deps.GLADLDownloads, deps.AlertLinkBase, deps.Logger))
	r.Register(types.KindGLADS2, NewGLADS2Presenter(deps.GLADS2Downloads, deps.AlertLinkBase, deps.Logger))
	r.Register(types.KindRADD, NewRADDPresenter(deps.RADDDownloads, deps.AlertLinkBase, deps.Logger))
	r.Register(types.KindGLADAlerts, NewSamplePresenter(deps.GLADAlertsDownloads, deps.Samples, deps.Logger))
	r.Register(types.KindMonthlySummary, TypeSplitPresenter{})

	return r
}

// Register binds a presenter to a layer kind, replacing any existing binding.
func (r *Registry) Register(kind types.LayerKind, p Presenter) {
	r.presenters[kind] = p
}

// ForLayer returns the presenter for the layer's kind, or the no-op fallback.
func (r *Registry) ForLayer(layer types.Layer) Presenter {
	if p, ok := r.presenters[layer.Kind()]; ok {
		return p
	}
	return r.fallback
}

// alertLink builds the flagship map link for a layer scoped to the
// subscription's area.
func alertLink(base string, layer types.Layer, params types.GeoParams) string {
	if base == "" {
		return ""
	}
	q := url.Values{}
	q.Set("layer", layer.Slug)
	if params.Geostore != "" {
		q.Set("geostore", params.Geostore)
	}
	if params.ISO != "" {
		q.Set("iso", params.ISO)
	}
	if params.ID1 != "" {
		q.Set("id1", params.ID1)
	}
	if params.WDPAID != "" {
		q.Set("wdpaid", params.WDPAID)
	}
	if params.Use != "" {
		q.Set("use", params.Use)
	}
	if params.UseID != "" {
		q.Set("useid", params.UseID)
	}
	return base + "?" + q.Encode()
}
