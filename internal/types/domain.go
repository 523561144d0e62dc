package types

// LayerKind is the closed set of monitoring layer kinds the pipeline knows
// how to normalize. Any slug outside this set maps to KindGeneric, which
// passes the raw value through unchanged.
type LayerKind string

const (
	// KindGeneric covers every layer without a specialized adapter.
	KindGeneric LayerKind = "generic"

	// KindGLADAlerts is the legacy point-based GLAD deforestation feed.
	KindGLADAlerts LayerKind = "glad-alerts"

	// KindVIIRSFires is the VIIRS active-fire alert feed.
	KindVIIRSFires LayerKind = "viirs-active-fires"

	// KindMonthlySummary is the merged GLAD+VIIRS monthly digest.
	KindMonthlySummary LayerKind = "monthly-summary"

	// GLAD sub-kinds sharing the symmetric presenter family. Each has its
	// own download-link service and localized label.
	KindGLADL  LayerKind = "glad-l"
	KindGLADS2 LayerKind = "glad-s2"
	KindRADD   LayerKind = "glad-radd"
)

// kindBySlug maps known layer slugs to their kinds. Registering a new layer
// type means adding an entry here and an adapter/presenter for the kind; the
// dispatcher never changes.
var kindBySlug = map[string]LayerKind{
	"glad-alerts":        KindGLADAlerts,
	"viirs-active-fires": KindVIIRSFires,
	"monthly-summary":    KindMonthlySummary,
	"glad-l":             KindGLADL,
	"glad-s2":            KindGLADS2,
	"glad-radd":          KindRADD,
}

// KindForSlug resolves a layer slug to its kind, defaulting to KindGeneric.
func KindForSlug(slug string) LayerKind {
	if k, ok := kindBySlug[slug]; ok {
		return k
	}
	return KindGeneric
}

// Layer identifies a monitoring data source. Layers are supplied by the
// subscription system and are immutable here.
type Layer struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Kind returns the layer's kind derived from its slug.
func (l Layer) Kind() LayerKind {
	return KindForSlug(l.Slug)
}

// ResourceType discriminates the delivery channel of a subscription.
type ResourceType string

const (
	// ResourceEmail routes notifications to the transactional mail queue.
	ResourceEmail ResourceType = "EMAIL"
	// ResourceURL routes notifications to a subscriber webhook.
	ResourceURL ResourceType = "URL"
)

// ChannelType labels a delivery channel for metrics and logging.
type ChannelType string

const (
	ChannelEmail   ChannelType = "email"
	ChannelWebhook ChannelType = "webhook"
)

// Channel maps a subscription resource type to its metrics channel label.
func (t ResourceType) Channel() ChannelType {
	if t == ResourceURL {
		return ChannelWebhook
	}
	return ChannelEmail
}

// SubscriptionResource holds the delivery target of a subscription. Content
// is a recipient address for EMAIL resources and a webhook URL for URL
// resources.
type SubscriptionResource struct {
	Type    ResourceType `json:"type"`
	Content string       `json:"content"`
}

// GeoParams carries the geographic scoping parameters of a subscription.
// Exactly which fields are set depends on how the area was defined
// (custom geostore, country/region, protected area, or land use).
type GeoParams struct {
	Geostore string `json:"geostore,omitempty"`
	ISO      string `json:"iso,omitempty"`
	ID1      string `json:"id1,omitempty"`
	WDPAID   string `json:"wdpaid,omitempty"`
	Use      string `json:"use,omitempty"`
	UseID    string `json:"useid,omitempty"`
}

// Subscription is a read-only view of a subscriber's registration, owned by
// the subscription store.
type Subscription struct {
	ID       string               `json:"id"`
	Language string               `json:"language"`
	Resource SubscriptionResource `json:"resource"`
	Params   GeoParams            `json:"params"`
	TestMode bool                 `json:"test_mode,omitempty"`
}

// AlertRecord is one source-specific row of a detailed analysis result.
// Raw shapes vary across layers, so records stay as decoded JSON objects;
// typed access goes through the accessor methods.
type AlertRecord map[string]any

// alertCountField is the per-record count field shared by all alert feeds.
const alertCountField = "alert__count"

// Count extracts the record's alert count. The second return is false when
// the field is absent or not numeric, which callers must treat as an
// upstream contract violation.
func (r AlertRecord) Count() (float64, bool) {
	v, ok := r[alertCountField]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Tagged returns a copy of the record with its source type set. The input
// record is never mutated; each pipeline stage passes values forward.
func (r AlertRecord) Tagged(sourceType string) AlertRecord {
	out := make(AlertRecord, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	out["type"] = sourceType
	return out
}

// NormalizedResult is the adapter output: a scalar alert count plus an
// optional detailed breakdown, independent of the originating layer's raw
// shape. Value stays a decoded JSON value because some layers encode
// composite results as a sequence; the zero check handles both forms.
type NormalizedResult struct {
	Value any           `json:"value"`
	Data  []AlertRecord `json:"data,omitempty"`
}

// DownloadURLs holds the export links attached during enrichment. The CSV
// link doubles as the base for the recent-sample query rewrite.
type DownloadURLs struct {
	CSV  string `json:"csv"`
	JSON string `json:"json"`
}

// RecentAlert is one entry of the recent-alert sample attached by the
// lenient presenter, with the (year, day-of-year) pair already resolved to
// a calendar date.
type RecentAlert struct {
	Date string `json:"date"`
}

// AlertSample is a raw recent-alert entry as the sample service returns it,
// dated by year and ordinal day of year.
type AlertSample struct {
	Year int `json:"year"`
	Day  int `json:"julian_day"`
}

// NotificationPayload is the finished notification handed to publishers:
// the normalized result plus enrichment fields and echoed subscription and
// time-window context.
type NotificationPayload struct {
	Value any           `json:"value"`
	Data  []AlertRecord `json:"data,omitempty"`

	LayerSlug      string `json:"layer_slug"`
	LayerName      string `json:"layer_name"`
	SubscriptionID string `json:"subscription_id"`
	Language       string `json:"language"`
	BeginDate      string `json:"begin_date"`
	EndDate        string `json:"end_date"`

	DownloadURLs   *DownloadURLs      `json:"downloadUrls,omitempty"`
	Alerts         []RecentAlert      `json:"alerts"`
	AlertTypeLabel string             `json:"alert_type_label,omitempty"`
	AlertLink      string             `json:"alert_link,omitempty"`
	TypeCounts     map[string]float64 `json:"type_counts,omitempty"`
}
