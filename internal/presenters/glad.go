package presenters

import (
	"context"
	"fmt"
	"time"

	"forestwatch/internal/types"
)

// GLADPresenter enriches the GLAD-family alert payloads with export links,
// a localized alert-type label, and a map link. The three GLAD variants
// share this behavior and differ only in kind and download service.
//
// A failed export-link fetch is a hard failure: the notification would be
// missing the links the template is built around, so the error propagates
// and the message is retried rather than sent degraded.
type GLADPresenter struct {
	kind      types.LayerKind
	downloads DownloadService
	linkBase  string
	logger    types.Logger
}

var _ Presenter = (*GLADPresenter)(nil)

// NewGLADLPresenter creates the presenter for the Landsat-based GLAD feed.
func NewGLADLPresenter(downloads DownloadService, linkBase string, logger types.Logger) *GLADPresenter {
	return &GLADPresenter{kind: types.KindGLADL, downloads: downloads, linkBase: linkBase, logger: logger}
}

// NewGLADS2Presenter creates the presenter for the Sentinel-2 GLAD feed.
func NewGLADS2Presenter(downloads DownloadService, linkBase string, logger types.Logger) *GLADPresenter {
	return &GLADPresenter{kind: types.KindGLADS2, downloads: downloads, linkBase: linkBase, logger: logger}
}

// NewRADDPresenter creates the presenter for the radar-based RADD feed.
func NewRADDPresenter(downloads DownloadService, linkBase string, logger types.Logger) *GLADPresenter {
	return &GLADPresenter{kind: types.KindRADD, downloads: downloads, linkBase: linkBase, logger: logger}
}

// Decorate attaches the label, map link, and export links.
func (p *GLADPresenter) Decorate(ctx context.Context, payload types.NotificationPayload, sub types.Subscription, layer types.Layer, begin, end time.Time) (types.NotificationPayload, error) {
	payload.AlertTypeLabel = labelFor(p.kind, sub.Language)
	payload.AlertLink = alertLink(p.linkBase, layer, sub.Params)

	urls, err := p.downloads.URLs(ctx, layer, begin, end, sub.Params)
	if err != nil {
		p.logger.Error("export link enrichment failed",
			"layer", layer.Slug,
			"subscription_id", sub.ID,
			"error", err,
		)
		payload.Alerts = []types.RecentAlert{}
		return payload, types.NewAppError(
			types.ErrCodeEnrichmentDownload,
			fmt.Sprintf("layer %s: fetching export links", layer.Slug),
			err,
		)
	}

	payload.DownloadURLs = &urls
	return payload, nil
}
