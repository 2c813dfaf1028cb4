package reconcile

import (
	"errors"
	"math"

	"country-catalog/feature/countries/models"
	"country-catalog/feature/countries/source"
)

// ErrInvalidRates signals that the exchange-rate payload carried no usable
// rates map. The refresh must abort before any write.
var ErrInvalidRates = errors.New("exchange rates payload invalid")

// Multiplier bounds for the GDP estimate.
const (
	MultiplierMin = 1000
	MultiplierMax = 2000
)

// Run joins the raw country list with the rate map and produces upsert
// candidates. Records without a name are dropped silently; they are not
// counted among the candidates.
//
// Derived-field policy per country:
//   - no currencies listed: currency_code nil, exchange_rate nil, estimated_gdp 0
//   - first currency has no code: exchange_rate nil, estimated_gdp 0
//   - code has no matching rate: exchange_rate nil, estimated_gdp nil
//   - rate present: estimated_gdp = population * rand[1000,2000] / rate,
//     nil when the arithmetic does not produce a finite value
func Run(countries []source.Country, rates *source.RatesPayload, rnd Rand) ([]models.Candidate, error) {
	if rates == nil || rates.Rates == nil {
		return nil, ErrInvalidRates
	}

	candidates := make([]models.Candidate, 0, len(countries))
	for _, c := range countries {
		if c.Name == "" {
			continue
		}
		candidates = append(candidates, derive(c, rates.Rates, rnd))
	}
	return candidates, nil
}

func derive(c source.Country, rates map[string]float64, rnd Rand) models.Candidate {
	cand := models.Candidate{
		Name:       c.Name,
		Capital:    optional(c.Capital),
		Region:     optional(c.Region),
		Population: c.Population,
		FlagURL:    optional(c.Flag),
	}

	if len(c.Currencies) == 0 {
		// No currency data anchors the estimate at zero, not "unknown".
		cand.EstimatedGDP = float64Ptr(0)
		return cand
	}

	code := c.Currencies[0].Code
	if code == "" {
		cand.EstimatedGDP = float64Ptr(0)
		return cand
	}
	cand.CurrencyCode = &code

	rate, ok := rates[code]
	if !ok {
		// Currency known but rate missing: estimate stays unknown.
		return cand
	}
	cand.ExchangeRate = &rate

	multiplier := rnd.IntBetween(MultiplierMin, MultiplierMax)
	gdp := float64(c.Population) * float64(multiplier) / rate
	if math.IsInf(gdp, 0) || math.IsNaN(gdp) {
		return cand
	}
	cand.EstimatedGDP = &gdp
	return cand
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func float64Ptr(f float64) *float64 {
	return &f
}
