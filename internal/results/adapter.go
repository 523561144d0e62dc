// Package results normalizes the raw, source-specific analysis results of
// monitoring layers into a single shape the rest of the pipeline understands:
// a scalar alert count plus an optional detailed breakdown. It also owns the
// zero check that decides whether a result is notification-worthy.
package results

import (
	"fmt"

	"forestwatch/internal/types"
)

// Adapter maps a layer's raw analysis result to a NormalizedResult.
// Adapters assume well-formed input: a missing expected field is an upstream
// contract violation and fails loudly, never silently defaults to zero.
type Adapter interface {
	Transform(raw any, layer types.Layer) (types.NormalizedResult, error)
}

// GenericAdapter passes the raw result's value field through unchanged.
// It is the default for every layer without a specialized adapter.
type GenericAdapter struct{}

// Transform returns {value: raw.value} verbatim, with no aggregation.
func (GenericAdapter) Transform(raw any, layer types.Layer) (types.NormalizedResult, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return types.NormalizedResult{}, types.NewAppError(
			types.ErrCodeAdapterMalformedResult,
			fmt.Sprintf("layer %s: raw result is %T, expected object", layer.Slug, raw),
			nil,
		)
	}
	return types.NormalizedResult{Value: obj["value"]}, nil
}

// CountSummingAdapter handles alert-count sources (fire and deforestation
// feeds) whose raw result is a sequence of per-alert-type records. The
// normalized value is the exact sum of the records' counts, and the full
// input sequence is retained as data for rich templates.
type CountSummingAdapter struct{}

// Transform sums record counts and retains the record sequence.
func (CountSummingAdapter) Transform(raw any, layer types.Layer) (types.NormalizedResult, error) {
	records, err := recordsOf(raw, layer)
	if err != nil {
		return types.NormalizedResult{}, err
	}

	total, err := sumCounts(records, layer)
	if err != nil {
		return types.NormalizedResult{}, err
	}

	return types.NormalizedResult{Value: total, Data: records}, nil
}

// MergedAdapter handles monthly-style summaries whose raw result carries two
// labeled sub-result arrays. It tags each record with its source type,
// concatenates them, then applies the same sum-and-retain rule as the
// count-summing adapter.
type MergedAdapter struct{}

// Source keys and tags of the merged monthly summary.
const (
	gladAlertsKey  = "gladAlerts"
	viirsAlertsKey = "viirsAlerts"
	gladTag        = "GLAD"
	viirsTag       = "VIIRS"
)

// Transform merges the GLAD and VIIRS sub-results into one tagged sequence.
func (MergedAdapter) Transform(raw any, layer types.Layer) (types.NormalizedResult, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return types.NormalizedResult{}, types.NewAppError(
			types.ErrCodeAdapterMalformedResult,
			fmt.Sprintf("layer %s: raw result is %T, expected object with labeled sub-results", layer.Slug, raw),
			nil,
		)
	}

	glad, err := recordsOf(obj[gladAlertsKey], layer)
	if err != nil {
		return types.NormalizedResult{}, err
	}
	viirs, err := recordsOf(obj[viirsAlertsKey], layer)
	if err != nil {
		return types.NormalizedResult{}, err
	}

	merged := make([]types.AlertRecord, 0, len(glad)+len(viirs))
	for _, r := range glad {
		merged = append(merged, r.Tagged(gladTag))
	}
	for _, r := range viirs {
		merged = append(merged, r.Tagged(viirsTag))
	}

	total, err := sumCounts(merged, layer)
	if err != nil {
		return types.NormalizedResult{}, err
	}

	return types.NormalizedResult{Value: total, Data: merged}, nil
}

// recordsOf coerces a decoded JSON value into a record slice. It accepts the
// typed form directly so adapters compose in tests and in the merged path.
func recordsOf(raw any, layer types.Layer) ([]types.AlertRecord, error) {
	switch seq := raw.(type) {
	case []types.AlertRecord:
		return seq, nil
	case []any:
		records := make([]types.AlertRecord, 0, len(seq))
		for i, el := range seq {
			obj, ok := el.(map[string]any)
			if !ok {
				return nil, types.NewAppError(
					types.ErrCodeAdapterMalformedResult,
					fmt.Sprintf("layer %s: record %d is %T, expected object", layer.Slug, i, el),
					nil,
				)
			}
			records = append(records, types.AlertRecord(obj))
		}
		return records, nil
	case []map[string]any:
		records := make([]types.AlertRecord, 0, len(seq))
		for _, obj := range seq {
			records = append(records, types.AlertRecord(obj))
		}
		return records, nil
	default:
		return nil, types.NewAppError(
			types.ErrCodeAdapterMalformedResult,
			fmt.Sprintf("layer %s: raw result is %T, expected record sequence", layer.Slug, raw),
			nil,
		)
	}
}

// sumCounts adds up the per-record counts, failing fast on any record that
// lacks a numeric count field.
func sumCounts(records []types.AlertRecord, layer types.Layer) (float64, error) {
	var total float64
	for i, r := range records {
		n, ok := r.Count()
		if !ok {
			return 0, types.NewAppError(
				types.ErrCodeAdapterMalformedResult,
				fmt.Sprintf("layer %s: record %d has no numeric alert count", layer.Slug, i),
				nil,
			)
		}
		total += n
	}
	return total, nil
}
