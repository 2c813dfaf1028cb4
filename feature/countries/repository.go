package countries

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"country-catalog/feature/countries/models"

	"gorm.io/gorm"
)

// Repository owns the persisted catalog state: countries plus the meta
// key/value table, and the transaction boundary of a refresh run.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository over the given connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the countries and meta tables if missing.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&models.Country{}, &models.Meta{})
}

// FindByName performs a case-folded exact match on the country name.
// Returns (nil, nil) when no row matches.
func (r *Repository) FindByName(name string) (*models.Country, error) {
	return findByName(r.db, name)
}

func findByName(tx *gorm.DB, name string) (*models.Country, error) {
	var c models.Country
	err := tx.Where("LOWER(name) = ?", strings.ToLower(name)).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ApplyRefresh persists one refresh run: every candidate upsert plus the
// last_refreshed_at meta write execute inside a single transaction. Any
// failure rolls back the whole run; there are no per-country transactions.
// It returns the number of candidates processed.
func (r *Repository) ApplyRefresh(candidates []models.Candidate, now time.Time) (int, error) {
	processed := 0
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, cand := range candidates {
			if err := upsert(tx, cand, now); err != nil {
				return err
			}
			processed++
		}
		return setMeta(tx, models.MetaKeyLastRefreshed, now.UTC().Format(time.RFC3339Nano))
	})
	if err != nil {
		return 0, fmt.Errorf("refresh transaction: %w", err)
	}
	return processed, nil
}

// upsert overwrites an existing row matched case-insensitively, or inserts a
// new one. All source/derived fields are replaced in place, including nils.
func upsert(tx *gorm.DB, cand models.Candidate, now time.Time) error {
	existing, err := findByName(tx, cand.Name)
	if err != nil {
		return err
	}

	if existing != nil {
		existing.Capital = cand.Capital
		existing.Region = cand.Region
		existing.Population = cand.Population
		existing.CurrencyCode = cand.CurrencyCode
		existing.ExchangeRate = cand.ExchangeRate
		existing.EstimatedGDP = cand.EstimatedGDP
		existing.FlagURL = cand.FlagURL
		existing.LastRefreshedAt = &now
		return tx.Save(existing).Error
	}

	row := models.Country{
		Name:            cand.Name,
		Capital:         cand.Capital,
		Region:          cand.Region,
		Population:      cand.Population,
		CurrencyCode:    cand.CurrencyCode,
		ExchangeRate:    cand.ExchangeRate,
		EstimatedGDP:    cand.EstimatedGDP,
		FlagURL:         cand.FlagURL,
		LastRefreshedAt: &now,
	}
	return tx.Create(&row).Error
}

// SetMeta upserts a meta key/value pair outside any refresh transaction.
func (r *Repository) SetMeta(key, value string) error {
	return setMeta(r.db, key, value)
}

func setMeta(tx *gorm.DB, key, value string) error {
	var m models.Meta
	err := tx.Where("`key` = ?", key).First(&m).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return tx.Create(&models.Meta{Key: key, Value: value}).Error
	case err != nil:
		return err
	default:
		m.Value = value
		return tx.Save(&m).Error
	}
}

// GetMeta returns the value for a meta key, or "" when unset.
func (r *Repository) GetMeta(key string) (string, error) {
	var m models.Meta
	err := r.db.Where("`key` = ?", key).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return m.Value, nil
}

// ListFilter narrows and orders List results.
type ListFilter struct {
	Region   string
	Currency string
	// Sort is one of "", "gdp_desc", "gdp_asc".
	Sort string
}

// List returns catalog rows matching the filter.
func (r *Repository) List(filter ListFilter) ([]models.Country, error) {
	q := r.db.Model(&models.Country{})
	if filter.Region != "" {
		q = q.Where("region = ?", filter.Region)
	}
	if filter.Currency != "" {
		q = q.Where("currency_code = ?", filter.Currency)
	}
	switch filter.Sort {
	case "gdp_desc":
		q = q.Order("estimated_gdp DESC")
	case "gdp_asc":
		q = q.Order("estimated_gdp ASC")
	}

	out := make([]models.Country, 0)
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the total number of catalog rows.
func (r *Repository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&models.Country{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// TopByGDP returns up to n rows ranked by estimated GDP descending. Rows with
// an unknown estimate are excluded from the ranking rather than sorted as zero.
func (r *Repository) TopByGDP(n int) ([]models.Country, error) {
	var out []models.Country
	err := r.db.Where("estimated_gdp IS NOT NULL").
		Order("estimated_gdp DESC").
		Limit(n).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByName removes a country matched case-insensitively. It reports
// whether a row was deleted.
func (r *Repository) DeleteByName(name string) (bool, error) {
	existing, err := findByName(r.db, name)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}
	if err := r.db.Delete(existing).Error; err != nil {
		return false, err
	}
	return true, nil
}
