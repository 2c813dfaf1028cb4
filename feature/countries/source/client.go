package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Country is a raw country record as served by the country-facts source.
type Country struct {
	Name       string     `json:"name"`
	Capital    string     `json:"capital"`
	Region     string     `json:"region"`
	Population int64      `json:"population"`
	Flag       string     `json:"flag"`
	Currencies []Currency `json:"currencies"`
}

// Currency is a currency descriptor attached to a raw country record.
type Currency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// RatesPayload is the exchange-rate source response. Rates stays nil when the
// payload carries no rates field; the caller treats that as invalid.
type RatesPayload struct {
	Base  string             `json:"base_code"`
	Rates map[string]float64 `json:"rates"`
}

// Gateway fetches the two external datasets. Each fetch is a single attempt
// within the configured timeout; transport, status and parse failures are
// normalized into an error carrying a diagnostic, nothing panics past this
// boundary.
type Gateway struct {
	cfg  Config
	http *http.Client
}

// NewGateway creates a gateway for the configured endpoints.
func NewGateway(cfg Config) *Gateway {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 10
	}
	return &Gateway{
		cfg:  cfg,
		http: &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

// FetchCountries retrieves the raw country list.
func (g *Gateway) FetchCountries(ctx context.Context) ([]Country, error) {
	var out []Country
	if err := g.getJSON(ctx, g.cfg.CountriesURL, &out); err != nil {
		return nil, fmt.Errorf("countries source: %w", err)
	}
	return out, nil
}

// FetchExchangeRates retrieves the rate payload. Structural validation of the
// rates map is left to the reconciler.
func (g *Gateway) FetchExchangeRates(ctx context.Context) (*RatesPayload, error) {
	var out RatesPayload
	if err := g.getJSON(ctx, g.cfg.RatesURL, &out); err != nil {
		return nil, fmt.Errorf("exchange rates source: %w", err)
	}
	return &out, nil
}

func (g *Gateway) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
