package presenters

import (
	"context"
	"time"

	"forestwatch/internal/types"
)

// TypeSplitPresenter breaks the merged monthly summary back out into
// per-source totals so templates can report GLAD and VIIRS counts side by
// side. It works entirely off the tagged records already in the payload and
// never calls out.
type TypeSplitPresenter struct{}

var _ Presenter = TypeSplitPresenter{}

// Decorate accumulates record counts by source type.
func (TypeSplitPresenter) Decorate(_ context.Context, payload types.NotificationPayload, _ types.Subscription, _ types.Layer, _, _ time.Time) (types.NotificationPayload, error) {
	counts := make(map[string]float64, 2)
	for _, r := range payload.Data {
		tag, _ := r["type"].(string)
		if tag == "" {
			continue
		}
		if n, ok := r.Count(); ok {
			counts[tag] += n
		}
	}
	payload.TypeCounts = counts
	return payload, nil
}
