// Package audit defines the domain model for building-accessibility audits.
//
// The central shape is the Matrix: a Feature×Floor grid of MatrixCell values
// describing whether an accessibility feature is present on a given floor,
// with optional notes, photo references, and a geolocation fix per cell.
// A reserved pseudo-floor, SiteLabel, carries building-wide items; the
// effective floor list for any config is always [SITE, floors...].
//
// Everything in this package is pure: matrix construction and reconciliation,
// record normalization, and label validation perform no I/O. Persistence
// lives in internal/store, serialization in internal/export.
package audit
