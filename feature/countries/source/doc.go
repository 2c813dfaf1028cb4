// Package source wraps the two external data sources feeding the catalog:
// a country-facts API and a currency exchange-rate API.
//
// Each fetch is one bounded attempt with no retries; the refresh pipeline
// decides whether a failed fetch aborts the run.
package source
