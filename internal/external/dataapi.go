package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"forestwatch/internal/types"
)

const dateLayout = "2006-01-02"

// apiEnvelope is the standard response wrapper of the data API.
type apiEnvelope[T any] struct {
	Data T `json:"data"`
}

// getJSON performs a GET against the data API and decodes the enveloped
// response body.
func getJSON[T any](ctx context.Context, client *BaseClient, endpoint string) (T, error) {
	var zero T

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return zero, types.NewAppError(
			types.ErrCodeInternalUnexpected,
			"building data API request",
			err,
		)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return zero, types.NewAppError(
			types.ErrCodeUpstreamUnavailable,
			fmt.Sprintf("data API returned %d for %s", resp.StatusCode, req.URL.Path),
			nil,
		)
	}

	var envelope apiEnvelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return zero, types.NewAppError(
			types.ErrCodeUpstreamUnavailable,
			"decoding data API response",
			err,
		)
	}

	return envelope.Data, nil
}

// addGeoParams copies the set geographic params into the query string.
func addGeoParams(q url.Values, params types.GeoParams) {
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
}
