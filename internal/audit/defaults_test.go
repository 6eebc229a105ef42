package audit

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Version != ConfigVersion {
		t.Errorf("Version = %d, want %d", cfg.Version, ConfigVersion)
	}
	if len(cfg.Floors) != 6 {
		t.Errorf("len(Floors) = %d, want 6", len(cfg.Floors))
	}
	if cfg.Floors[0] != "B2" || cfg.Floors[len(cfg.Floors)-1] != "4" {
		t.Errorf("Floors = %v", cfg.Floors)
	}
	if len(cfg.Features) != 15 {
		t.Errorf("len(Features) = %d, want 15", len(cfg.Features))
	}
	for _, f := range cfg.Floors {
		if f == SiteLabel {
			t.Error("SITE must not appear in the configured floors")
		}
	}
}

func TestDefaultConfig_ReturnsCopies(t *testing.T) {
	a := DefaultConfig()
	a.Floors[0] = "mutated"
	a.Features[0] = "mutated"

	b := DefaultConfig()
	if b.Floors[0] == "mutated" || b.Features[0] == "mutated" {
		t.Error("DefaultConfig shares slices between calls")
	}
}

func TestFeaturePacksDisjointFromDefaults(t *testing.T) {
	base := make(map[string]struct{})
	for _, f := range DefaultFeatures() {
		base[f] = struct{}{}
	}
	for _, pack := range [][]string{RecommendedExtras(), CampusExtras()} {
		for _, f := range pack {
			if _, dup := base[f]; dup {
				t.Errorf("pack feature %q duplicates a default feature", f)
			}
		}
	}
}

func TestDefinitionsCoverDefaultFeatures(t *testing.T) {
	for _, f := range DefaultFeatures() {
		if _, ok := Definition(f); !ok {
			t.Errorf("no definition for default feature %q", f)
		}
	}
	if _, ok := Definition("Not a feature"); ok {
		t.Error("definition found for unknown feature")
	}
}

func TestRecommendedForSite(t *testing.T) {
	if !RecommendedForSite("Accessible parking nearby") {
		t.Error("parking should be site-level")
	}
	if RecommendedForSite("Accessible washroom") {
		t.Error("washrooms are surveyed per floor")
	}
}
