package external

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"forestwatch/internal/types"
)

// AnalysisClient queries the data API for a layer's raw analysis result over
// a time window. The response shape varies per layer, so the result stays
// opaque decoded JSON; adapters normalize it downstream.
type AnalysisClient struct {
	base    *BaseClient
	baseURL string
	logger  types.Logger
}

var _ types.AnalysisService = (*AnalysisClient)(nil)

// NewAnalysisClient creates an analysis query client.
func NewAnalysisClient(base *BaseClient, baseURL string, logger types.Logger) *AnalysisClient {
	return &AnalysisClient{base: base, baseURL: baseURL, logger: logger}
}

// Results fetches the layer's raw analysis result scoped to the params.
func (c *AnalysisClient) Results(ctx context.Context, layer types.Layer, begin, end time.Time, params types.GeoParams) (any, error) {
	q := url.Values{}
	q.Set("start_date", begin.Format(dateLayout))
	q.Set("end_date", end.Format(dateLayout))
	addGeoParams(q, params)

	endpoint := fmt.Sprintf("%s/v1/analysis/%s?%s", c.baseURL, url.PathEscape(layer.Slug), q.Encode())

	raw, err := getJSON[any](ctx, c.base, endpoint)
	if err != nil {
		c.logger.Error("analysis query failed",
			"layer", layer.Slug,
			"error", err,
		)
		return nil, err
	}

	return raw, nil
}
