package audit

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidateBuildingName(t *testing.T) {
	if err := ValidateBuildingName("Science Block A"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	for _, name := range []string{"", "   ", "\t\n"} {
		err := ValidateBuildingName(name)
		var vf *ValidationFailure
		if !errors.As(err, &vf) {
			t.Fatalf("name %q: error = %v, want ValidationFailure", name, err)
		}
		if vf.Code != CodeEmptyBuildingName {
			t.Errorf("name %q: code = %s, want %s", name, vf.Code, CodeEmptyBuildingName)
		}
	}
}

func TestValidateFloorLabel(t *testing.T) {
	existing := []string{"B1", "1", "2"}

	tests := []struct {
		label    string
		wantCode ValidationCode // "" means valid
	}{
		{"3", ""},
		{"  Mezzanine  ", ""},
		{"", CodeEmptyLabel},
		{"   ", CodeEmptyLabel},
		{"SITE", CodeReservedLabel},
		{"site", CodeReservedLabel},
		{"SiTe", CodeReservedLabel},
		{" site ", CodeReservedLabel},
		{"1", CodeDuplicateLabel},
	}
	for _, tt := range tests {
		err := ValidateFloorLabel(tt.label, existing)
		if tt.wantCode == "" {
			if err != nil {
				t.Errorf("label %q: unexpected error %v", tt.label, err)
			}
			continue
		}
		var vf *ValidationFailure
		if !errors.As(err, &vf) {
			t.Fatalf("label %q: error = %v, want ValidationFailure", tt.label, err)
		}
		if vf.Code != tt.wantCode {
			t.Errorf("label %q: code = %s, want %s", tt.label, vf.Code, tt.wantCode)
		}
	}
}

func TestValidateFeatureLabel(t *testing.T) {
	existing := []string{"Ramp", "Elevator/lift"}

	if err := ValidateFeatureLabel("Hearing loop", existing); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	// Feature labels may collide with the floor pseudo-label.
	if err := ValidateFeatureLabel("SITE", existing); err != nil {
		t.Errorf("SITE as feature label rejected: %v", err)
	}

	err := ValidateFeatureLabel("Ramp", existing)
	var vf *ValidationFailure
	if !errors.As(err, &vf) || vf.Code != CodeDuplicateLabel {
		t.Errorf("duplicate feature: error = %v, want DUPLICATE_LABEL", err)
	}

	err = ValidateFeatureLabel("  ", existing)
	if !errors.As(err, &vf) || vf.Code != CodeEmptyLabel {
		t.Errorf("blank feature: error = %v, want EMPTY_LABEL", err)
	}
}

func TestIsValidationFailure(t *testing.T) {
	direct := &ValidationFailure{Code: CodeEmptyLabel, Field: "floor"}
	if !IsValidationFailure(direct) {
		t.Error("direct ValidationFailure not recognized")
	}
	if !IsValidationFailure(fmt.Errorf("add floor: %w", direct)) {
		t.Error("wrapped ValidationFailure not recognized")
	}
	if IsValidationFailure(errors.New("boom")) {
		t.Error("plain error misclassified")
	}
}
