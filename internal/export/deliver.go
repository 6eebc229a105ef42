package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrExportUnsupported reports that no delivery mechanism was available or
// every available one failed. It is deliberately distinct from a storage
// failure: the underlying audit data is intact.
var ErrExportUnsupported = errors.New("export not supported on this platform")

// Deliverer sends a finished export artifact to the user.
type Deliverer interface {
	// Available reports whether this sink can be attempted at all.
	Available() bool

	// Deliver hands the artifact off. A non-nil error makes the chain fall
	// through to the next sink.
	Deliver(ctx context.Context, filename, mimeType string, data []byte) error
}

// Deliver tries each sink in preference order (native share first, then
// download) and stops at the first success. When no sink is available or
// every attempt fails, the returned error wraps ErrExportUnsupported.
func Deliver(ctx context.Context, filename, mimeType string, data []byte, sinks ...Deliverer) error {
	var lastErr error
	for _, sink := range sinks {
		if sink == nil || !sink.Available() {
			continue
		}
		if err := sink.Deliver(ctx, filename, mimeType, data); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	if lastErr != nil {
		return fmt.Errorf("%w: %w", ErrExportUnsupported, lastErr)
	}
	return ErrExportUnsupported
}

// ShareFunc is a platform-provided native share hook.
type ShareFunc func(ctx context.Context, filename, mimeType string, data []byte) error

// ShareDeliverer adapts a platform share hook. It is unavailable when no
// hook was provided, which makes the chain fall through to download.
type ShareDeliverer struct {
	Share ShareFunc
}

func (s ShareDeliverer) Available() bool {
	return s.Share != nil
}

func (s ShareDeliverer) Deliver(ctx context.Context, filename, mimeType string, data []byte) error {
	return s.Share(ctx, filename, mimeType, data)
}

// DirDeliverer is the download fallback: it writes the artifact into a
// directory.
type DirDeliverer struct {
	Dir string
}

func (d DirDeliverer) Available() bool {
	return d.Dir != ""
}

func (d DirDeliverer) Deliver(_ context.Context, filename, _ string, data []byte) error {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("deliver to directory: %w", err)
	}
	path := filepath.Join(d.Dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("deliver to directory: %w", err)
	}
	return nil
}
