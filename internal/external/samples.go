package external

import (
	"context"
	"net/url"
	"strconv"

	"forestwatch/internal/presenters"
	"forestwatch/internal/types"
)

// SampleClient fetches the most recent raw alert entries for a geostore from
// the legacy GLAD endpoint.
type SampleClient struct {
	base    *BaseClient
	baseURL string
	logger  types.Logger
}

var _ presenters.SampleFetcher = (*SampleClient)(nil)

// NewSampleClient creates a recent-alert sample client.
func NewSampleClient(base *BaseClient, baseURL string, logger types.Logger) *SampleClient {
	return &SampleClient{base: base, baseURL: baseURL, logger: logger}
}

// LatestAlerts returns the newest alert entries for the geostore, capped at
// limit.
func (c *SampleClient) LatestAlerts(ctx context.Context, geostoreID string, limit int) ([]types.AlertSample, error) {
	q := url.Values{}
	q.Set("geostore", geostoreID)
	q.Set("limit", strconv.Itoa(limit))

	endpoint := c.baseURL + "/v1/glad-alerts/latest?" + q.Encode()

	samples, err := getJSON[[]types.AlertSample](ctx, c.base, endpoint)
	if err != nil {
		c.logger.Error("fetching recent-alert sample failed",
			"geostore", geostoreID,
			"error", err,
		)
		return nil, err
	}

	return samples, nil
}
