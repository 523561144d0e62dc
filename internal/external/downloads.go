package external

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"forestwatch/internal/presenters"
	"forestwatch/internal/types"
)

// DownloadClient resolves CSV and JSON export links from the data API for a
// single dataset. Each GLAD variant reads from its own dataset, so the
// dispatcher wires one client per variant.
type DownloadClient struct {
	base    *BaseClient
	baseURL string
	dataset string
	logger  types.Logger
}

var _ presenters.DownloadService = (*DownloadClient)(nil)

// NewDownloadClient creates a download-link client bound to one dataset.
func NewDownloadClient(base *BaseClient, baseURL, dataset string, logger types.Logger) *DownloadClient {
	return &DownloadClient{
		base:    base,
		baseURL: baseURL,
		dataset: dataset,
		logger:  logger,
	}
}

type downloadLinks struct {
	CSV  string `json:"csv_url"`
	JSON string `json:"json_url"`
}

// URLs fetches the export links for the layer's alerts over the time window.
func (c *DownloadClient) URLs(ctx context.Context, layer types.Layer, begin, end time.Time, params types.GeoParams) (types.DownloadURLs, error) {
	q := url.Values{}
	q.Set("start_date", begin.Format(dateLayout))
	q.Set("end_date", end.Format(dateLayout))
	addGeoParams(q, params)

	endpoint := fmt.Sprintf("%s/v1/download-links/%s?%s", c.baseURL, url.PathEscape(c.dataset), q.Encode())

	links, err := getJSON[downloadLinks](ctx, c.base, endpoint)
	if err != nil {
		c.logger.Error("fetching export links failed",
			"dataset", c.dataset,
			"layer", layer.Slug,
			"error", err,
		)
		return types.DownloadURLs{}, err
	}

	return types.DownloadURLs{CSV: links.CSV, JSON: links.JSON}, nil
}
