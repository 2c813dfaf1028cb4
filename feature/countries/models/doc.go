// Package models defines the persisted entities of the country catalog and
// the transient candidate records produced by reconciliation.
package models
