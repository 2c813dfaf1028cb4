// Package summary renders the cached visual summary of the catalog: total
// row count, last refresh timestamp and a top-5 GDP ranking on a fixed
// 800x600 canvas.
//
// The artifact is a best-effort projection. It is regenerated after every
// successful refresh and on demand when a read finds the cache cold; neither
// path can fail a refresh.
package summary
