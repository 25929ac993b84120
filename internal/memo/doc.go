// Package memo provides the per-item memo tables used by derived features and
// neighbor functions.
//
// A Table is a plain map guarded by a mutex plus hit/miss statistics. It has
// no eviction and no dependency tracking: entries live until the owner
// deletes them or clears the table. Statistics can optionally be exported to
// Prometheus through Metrics.
package memo
