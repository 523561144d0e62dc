package external

import (
	"context"
	"net/url"

	"forestwatch/internal/types"
)

// SubscriptionClient lists a layer's subscribers from the subscription
// service. Subscription persistence is owned there; this client only reads.
type SubscriptionClient struct {
	base    *BaseClient
	baseURL string
	logger  types.Logger
}

var _ types.SubscriptionStore = (*SubscriptionClient)(nil)

// NewSubscriptionClient creates a read-only subscription service client.
func NewSubscriptionClient(base *BaseClient, baseURL string, logger types.Logger) *SubscriptionClient {
	return &SubscriptionClient{base: base, baseURL: baseURL, logger: logger}
}

// ListForLayer returns every confirmed subscription of the layer.
func (c *SubscriptionClient) ListForLayer(ctx context.Context, layerSlug string) ([]types.Subscription, error) {
	q := url.Values{}
	q.Set("layer", layerSlug)

	endpoint := c.baseURL + "/v1/subscriptions?" + q.Encode()

	subs, err := getJSON[[]types.Subscription](ctx, c.base, endpoint)
	if err != nil {
		c.logger.Error("listing subscriptions failed",
			"layer", layerSlug,
			"error", err,
		)
		return nil, err
	}

	return subs, nil
}
