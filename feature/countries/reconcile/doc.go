// Package reconcile joins the two externally-sourced datasets on currency
// code and computes the derived per-country fields.
//
// The GDP estimate is a deliberately coarse proxy: the multiplier is drawn
// per country from an injected random source, so values are bounded but not
// reproducible across runs.
package reconcile
