package results

import "forestwatch/internal/types"

// Registry maps layer kinds to their specialized adapters. Kinds without an
// entry fall back to the generic pass-through adapter, so registering a new
// layer type never touches the dispatcher.
type Registry struct {
	adapters map[types.LayerKind]Adapter
	fallback Adapter
}

// NewRegistry creates a Registry pre-populated with the standard adapters:
// count-summing for the alert-count feeds, merged for the monthly summary,
// and generic for everything else.
func NewRegistry() *Registry {
	r := &Registry{
		adapters: make(map[types.LayerKind]Adapter),
		fallback: GenericAdapter{},
	}

	counting := CountSummingAdapter{}
	r.Register(types.KindGLADAlerts, counting)
	r.Register(types.KindVIIRSFires, counting)
	r.Register(types.KindGLADL, counting)
	r.Register(types.KindGLADS2, counting)
	r.Register(types.KindRADD, counting)
	r.Register(types.KindMonthlySummary, MergedAdapter{})

	return r
}

// Register binds an adapter to a layer kind, replacing any existing binding.
func (r *Registry) Register(kind types.LayerKind, a Adapter) {
	r.adapters[kind] = a
}

// ForLayer returns the adapter for the layer's kind, or the generic
// fallback when no specialized adapter is registered.
func (r *Registry) ForLayer(layer types.Layer) Adapter {
	if a, ok := r.adapters[layer.Kind()]; ok {
		return a
	}
	return r.fallback
}
