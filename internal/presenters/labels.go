package presenters

import (
	"strings"

	"forestwatch/internal/types"
)

// alertTypeLabels holds the localized alert-type labels shown in GLAD
// notifications, keyed by layer kind and primary language subtag. English is
// the fallback for unsupported languages.
var alertTypeLabels = map[types.LayerKind]map[string]string{
	types.KindGLADL: {
		"en": "GLAD-L deforestation alerts",
		"es": "alertas de deforestación GLAD-L",
		"fr": "alertes de déforestation GLAD-L",
		"pt": "alertas de desmatamento GLAD-L",
		"zh": "GLAD-L 毁林预警",
	},
	types.KindGLADS2: {
		"en": "GLAD-S2 deforestation alerts",
		"es": "alertas de deforestación GLAD-S2",
		"fr": "alertes de déforestation GLAD-S2",
		"pt": "alertas de desmatamento GLAD-S2",
		"zh": "GLAD-S2 毁林预警",
	},
	types.KindRADD: {
		"en": "RADD deforestation alerts",
		"es": "alertas de deforestación RADD",
		"fr": "alertes de déforestation RADD",
		"pt": "alertas de desmatamento RADD",
		"zh": "RADD 毁林预警",
	},
}

// labelFor resolves the localized alert-type label for a layer kind.
func labelFor(kind types.LayerKind, language string) string {
	labels, ok := alertTypeLabels[kind]
	if !ok {
		return ""
	}
	if label, ok := labels[langKey(language)]; ok {
		return label
	}
	return labels["en"]
}

// langKey reduces a subscription language tag ("es_MX", "pt-BR", "EN") to
// its primary subtag.
func langKey(language string) string {
	lang := strings.ToLower(strings.ReplaceAll(language, "_", "-"))
	if i := strings.IndexByte(lang, '-'); i > 0 {
		lang = lang[:i]
	}
	return lang
}
