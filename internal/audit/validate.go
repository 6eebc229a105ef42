package audit

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationFailure reports input rejected before persistence is attempted.
// It never reaches storage: callers validate first, then write.
type ValidationFailure struct {
	// Code identifies the failure category.
	Code ValidationCode

	// Field names the offending input ("buildingName", "floor", "feature").
	Field string

	// Label is the rejected label, when the failure concerns one.
	Label string
}

// ValidationCode categorizes validation failures.
type ValidationCode string

const (
	// CodeEmptyBuildingName indicates the required building name was blank.
	CodeEmptyBuildingName ValidationCode = "EMPTY_BUILDING_NAME"

	// CodeEmptyLabel indicates a blank floor/feature label.
	CodeEmptyLabel ValidationCode = "EMPTY_LABEL"

	// CodeReservedLabel indicates a label colliding with the SITE pseudo-floor.
	CodeReservedLabel ValidationCode = "RESERVED_LABEL"

	// CodeDuplicateLabel indicates a label already present in the config.
	CodeDuplicateLabel ValidationCode = "DUPLICATE_LABEL"
)

// Error implements the error interface.
func (e *ValidationFailure) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("%s: %s %q", e.Code, e.Field, e.Label)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Field)
}

// IsValidationFailure reports whether err is (or wraps) a ValidationFailure.
func IsValidationFailure(err error) bool {
	var vf *ValidationFailure
	return errors.As(err, &vf)
}

// ValidateBuildingName checks the one required audit form field.
func ValidateBuildingName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationFailure{Code: CodeEmptyBuildingName, Field: "buildingName"}
	}
	return nil
}

// ValidateFloorLabel checks a floor label about to be added to the config.
// The SITE pseudo-floor name is rejected case-insensitively.
func ValidateFloorLabel(label string, existing []string) error {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return &ValidationFailure{Code: CodeEmptyLabel, Field: "floor"}
	}
	if strings.EqualFold(trimmed, SiteLabel) {
		return &ValidationFailure{Code: CodeReservedLabel, Field: "floor", Label: trimmed}
	}
	for _, f := range existing {
		if f == trimmed {
			return &ValidationFailure{Code: CodeDuplicateLabel, Field: "floor", Label: trimmed}
		}
	}
	return nil
}

// ValidateFeatureLabel checks a feature label about to be added to the config.
func ValidateFeatureLabel(label string, existing []string) error {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return &ValidationFailure{Code: CodeEmptyLabel, Field: "feature"}
	}
	for _, f := range existing {
		if f == trimmed {
			return &ValidationFailure{Code: CodeDuplicateLabel, Field: "feature", Label: trimmed}
		}
	}
	return nil
}
