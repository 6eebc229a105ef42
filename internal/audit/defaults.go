package audit

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ConfigVersion is the current config record schema version. Stored records
// carrying an older version are migrated forward in place; records carrying a
// newer version are replaced with a fresh default (see store.ConfigStore).
const ConfigVersion = 2

// SiteLabel is the reserved pseudo-floor for building-wide items. It is
// always prepended to the configured floors and may never be used as a
// configured floor label.
const SiteLabel = "SITE"

//go:embed defaults.yaml
var defaultsYAML []byte

// FeatureDefinition describes one taxonomy entry: what the feature means and
// when a surveyor should mark it present.
type FeatureDefinition struct {
	Definition  string `yaml:"definition"`
	PresentIf   string `yaml:"present_if"`
	Recommended string `yaml:"recommended"` // "SITE" or "Floors"
}

// taxonomy is the decoded shape of defaults.yaml.
type taxonomy struct {
	Version                 int                          `yaml:"version"`
	Floors                  []string                     `yaml:"floors"`
	Features                []string                     `yaml:"features"`
	RecommendedSiteFeatures []string                     `yaml:"recommended_site_features"`
	RecommendedExtras       []string                     `yaml:"recommended_extras"`
	CampusExtras            []string                     `yaml:"campus_extras"`
	Definitions             map[string]FeatureDefinition `yaml:"definitions"`
}

var defaults taxonomy

func init() {
	if err := yaml.Unmarshal(defaultsYAML, &defaults); err != nil {
		panic(fmt.Sprintf("audit: decode embedded defaults.yaml: %v", err))
	}
	if defaults.Version != ConfigVersion {
		panic(fmt.Sprintf("audit: defaults.yaml version %d != ConfigVersion %d", defaults.Version, ConfigVersion))
	}
}

// DefaultConfig returns a fresh copy of the compiled-in default config.
func DefaultConfig() Config {
	return Config{
		Floors:   append([]string(nil), defaults.Floors...),
		Features: append([]string(nil), defaults.Features...),
		Version:  ConfigVersion,
	}
}

// DefaultFeatures returns the compiled-in default feature list.
func DefaultFeatures() []string {
	return append([]string(nil), defaults.Features...)
}

// RecommendedExtras returns the optional "recommended extras" feature pack.
func RecommendedExtras() []string {
	return append([]string(nil), defaults.RecommendedExtras...)
}

// CampusExtras returns the optional "campus audit extras" feature pack.
func CampusExtras() []string {
	return append([]string(nil), defaults.CampusExtras...)
}

// Definition returns the taxonomy entry for a feature label, if one exists.
func Definition(feature string) (FeatureDefinition, bool) {
	def, ok := defaults.Definitions[feature]
	return def, ok
}

// RecommendedForSite reports whether the taxonomy suggests recording the
// feature once for the whole site rather than per floor.
func RecommendedForSite(feature string) bool {
	for _, f := range defaults.RecommendedSiteFeatures {
		if f == feature {
			return true
		}
	}
	return false
}
