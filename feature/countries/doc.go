// Package countries implements the country catalog: the refresh pipeline
// that reconciles two external data sources into persisted rows, the
// transactional repository that owns them, and the HTTP surface serving
// queries and the cached summary artifact.
//
// A refresh run is strictly sequential: fetch, validate, reconcile,
// transactional write, best-effort projection. Upstream failures abort before
// any write; persistence failures roll back the whole run; projection
// failures never surface as refresh failures.
package countries
