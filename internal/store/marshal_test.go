package store

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/truaccess/fieldaudit/internal/audit"
)

func TestMarshalRecord_NoHTMLEscaping(t *testing.T) {
	cfg := audit.Config{
		Floors:   []string{"1"},
		Features: []string{"Elevator/lift", "Quiet & sensory-friendly"},
		Version:  audit.ConfigVersion,
	}
	payload, err := marshalRecord(cfg)
	if err != nil {
		t.Fatalf("marshalRecord failed: %v", err)
	}
	if strings.Contains(payload, `&`) || strings.Contains(payload, `<`) {
		t.Errorf("payload HTML-escaped: %s", payload)
	}
	if strings.HasSuffix(payload, "\n") {
		t.Error("payload has trailing newline")
	}
}

func TestUnmarshalConfig_RoundTrip(t *testing.T) {
	want := audit.Config{Floors: []string{"G"}, Features: []string{"Ramp available"}, Version: 2}
	payload, err := marshalRecord(want)
	if err != nil {
		t.Fatalf("marshalRecord failed: %v", err)
	}
	got, err := unmarshalConfig(payload)
	if err != nil {
		t.Fatalf("unmarshalConfig failed: %v", err)
	}
	if got.Version != want.Version || len(got.Floors) != 1 || got.Floors[0] != "G" {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestUnmarshalConfig_Invalid(t *testing.T) {
	if _, err := unmarshalConfig("{broken"); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestStorageFailure_ErrorsAs(t *testing.T) {
	err := fmt.Errorf("outer: %w", storageErr("add audit", errors.New("disk full")))
	if !IsStorageFailure(err) {
		t.Error("IsStorageFailure = false for wrapped failure")
	}
	var sf *StorageFailure
	if !errors.As(err, &sf) {
		t.Fatal("errors.As failed")
	}
	if sf.Op != "add audit" {
		t.Errorf("Op = %q, want %q", sf.Op, "add audit")
	}
	if IsStorageFailure(errors.New("plain")) {
		t.Error("plain error misclassified")
	}
}
