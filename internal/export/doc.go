// Package export turns stored audits into portable artifacts.
//
// Two serializers are provided: a deterministic long-format CSV encoder
// (one row per audit×feature×floor triple) and a zip archive bundling the
// CSV snapshot with every referenced photo. Both are pure over their inputs;
// photo bytes are read through the PhotoSource interface so the store stays
// the only blob owner.
//
// Delivery of finished artifacts goes through the Deliverer chain: a native
// share sink is preferred when the platform provides one, a download
// (directory) sink is the fallback, and when neither is available the caller
// receives ErrExportUnsupported rather than a silent no-op.
package export
