package presenters

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"forestwatch/internal/types"
)

// sampleLimit caps the recent-alert sample attached to a notification.
const sampleLimit = 10

// geostorePattern extracts the geostore identifier from a CSV export link.
var geostorePattern = regexp.MustCompile(`geostore=([^&]+)`)

// SamplePresenter enriches the legacy GLAD alert payload with export links
// and a sample of the most recent alerts.
//
// Failure policy is split: export links and the geostore identifier they
// carry are required, so those failures propagate. The recent-alert sample
// is decoration on top of a complete notification, so a failed sample fetch
// is logged and the notification goes out with an empty sample.
type SamplePresenter struct {
	downloads DownloadService
	samples   SampleFetcher
	logger    types.Logger
}

var _ Presenter = (*SamplePresenter)(nil)

// NewSamplePresenter creates the presenter for the legacy GLAD feed.
func NewSamplePresenter(downloads DownloadService, samples SampleFetcher, logger types.Logger) *SamplePresenter {
	return &SamplePresenter{downloads: downloads, samples: samples, logger: logger}
}

// Decorate attaches export links and the recent-alert sample.
func (p *SamplePresenter) Decorate(ctx context.Context, payload types.NotificationPayload, sub types.Subscription, layer types.Layer, begin, end time.Time) (types.NotificationPayload, error) {
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

	geostoreID, err := geostoreFromURL(urls.CSV)
	if err != nil {
		p.logger.Error("geostore extraction failed",
			"layer", layer.Slug,
			"subscription_id", sub.ID,
			"csv_url", urls.CSV,
			"error", err,
		)
		payload.Alerts = []types.RecentAlert{}
		return payload, err
	}

	urls.CSV = withSampleClause(urls.CSV)
	payload.DownloadURLs = &urls

	samples, err := p.samples.LatestAlerts(ctx, geostoreID, sampleLimit)
	if err != nil {
		p.logger.Warn("recent-alert sample fetch failed, sending without sample",
			"layer", layer.Slug,
			"subscription_id", sub.ID,
			"geostore", geostoreID,
			"error", err,
		)
		payload.Alerts = []types.RecentAlert{}
		return payload, nil
	}

	alerts := make([]types.RecentAlert, 0, len(samples))
	for _, s := range samples {
		alerts = append(alerts, types.RecentAlert{Date: dayOfYearDate(s.Year, s.Day)})
	}
	payload.Alerts = alerts

	return payload, nil
}

// geostoreFromURL pulls the geostore identifier out of a CSV export link.
// Every subscription area resolves to a geostore upstream, so a link without
// one is a contract violation.
func geostoreFromURL(csvURL string) (string, error) {
	match := geostorePattern.FindStringSubmatch(csvURL)
	if match == nil {
		return "", types.NewAppError(
			types.ErrCodeEnrichmentGeostore,
			"export link carries no geostore identifier",
			nil,
		)
	}
	return match[1], nil
}

// withSampleClause rewrites the CSV export link so the download itself is
// ordered newest-first and capped, matching the sample shown in the
// notification. Links that cannot be parsed or carry no query pass through
// unchanged.
func withSampleClause(csvURL string) string {
	u, err := url.Parse(csvURL)
	if err != nil {
		return csvURL
	}
	q := u.Query()
	sql := q.Get("sql")
	if sql == "" {
		return csvURL
	}
	q.Set("sql", fmt.Sprintf("%s ORDER BY alert__date DESC LIMIT %d", sql, sampleLimit))
	u.RawQuery = q.Encode()
	return u.String()
}

// dayOfYearDate resolves a (year, ordinal day) pair to a calendar date.
func dayOfYearDate(year, day int) string {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, day-1).
		Format(dateLayout)
}
