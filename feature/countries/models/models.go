package models

import "time"

// Country is one persisted catalog row per uniquely-named country.
//
// The name carries a case-sensitive unique index while upsert matching is
// case-insensitive (see Repository.FindByName); two differently-cased spellings
// therefore resolve to the row that was inserted first.
type Country struct {
	ID           uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string   `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Capital      *string  `gorm:"size:255" json:"capital"`
	Region       *string  `gorm:"size:255" json:"region"`
	Population   int64    `gorm:"not null" json:"population"`
	CurrencyCode *string  `gorm:"size:16" json:"currency_code"`
	ExchangeRate *float64 `json:"exchange_rate"`
	// EstimatedGDP is a coarse derived metric; nil means "unknown", a stored 0
	// means "no currency data".
	EstimatedGDP    *float64   `json:"estimated_gdp"`
	FlagURL         *string    `gorm:"size:1024" json:"flag_url"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at"`
}

// TableName maps Country to the countries table.
func (Country) TableName() string {
	return "countries"
}

// Meta is a process-wide key/value row. The refresh pipeline maintains the
// single key "last_refreshed_at"; further keys compose without schema change.
type Meta struct {
	Key   string `gorm:"primaryKey;size:128"`
	Value string `gorm:"size:1024"`
}

// TableName maps Meta to the meta table.
func (Meta) TableName() string {
	return "meta"
}

// MetaKeyLastRefreshed is the metadata key stamped on every refresh run.
const MetaKeyLastRefreshed = "last_refreshed_at"

// Candidate is a transient reconciled record, ready to be upserted. Pointer
// fields distinguish "absent" from zero values the same way the persisted row
// does.
type Candidate struct {
	Name         string
	Capital      *string
	Region       *string
	Population   int64
	CurrencyCode *string
	ExchangeRate *float64
	EstimatedGDP *float64
	FlagURL      *string
}
