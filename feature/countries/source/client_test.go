package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchCountries(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"name":"France","capital":"Paris","region":"Europe","population":67000000,
				 "flag":"https://example.com/fr.svg","currencies":[{"code":"EUR","name":"Euro","symbol":"e"}]},
				{"name":"Nowhere","currencies":[]}
			]`))
		}))
		defer srv.Close()

		g := NewGateway(Config{CountriesURL: srv.URL, TimeoutSeconds: 5})
		got, err := g.FetchCountries(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "France", got[0].Name)
		assert.Equal(t, int64(67000000), got[0].Population)
		require.Len(t, got[0].Currencies, 1)
		assert.Equal(t, "EUR", got[0].Currencies[0].Code)
		assert.Empty(t, got[1].Currencies)
	})

	t.Run("Non-2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		g := NewGateway(Config{CountriesURL: srv.URL, TimeoutSeconds: 5})
		_, err := g.FetchCountries(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "countries source")
	})

	t.Run("Malformed payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"not":"a list"}`))
		}))
		defer srv.Close()

		g := NewGateway(Config{CountriesURL: srv.URL, TimeoutSeconds: 5})
		_, err := g.FetchCountries(context.Background())
		assert.Error(t, err)
	})

	t.Run("Unreachable endpoint", func(t *testing.T) {
		g := NewGateway(Config{CountriesURL: "http://127.0.0.1:1/countries", TimeoutSeconds: 1})
		_, err := g.FetchCountries(context.Background())
		assert.Error(t, err)
	})
}

func TestFetchExchangeRates(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"base_code":"USD","rates":{"EUR":0.9,"XYZ":2.0}}`))
		}))
		defer srv.Close()

		g := NewGateway(Config{RatesURL: srv.URL, TimeoutSeconds: 5})
		got, err := g.FetchExchangeRates(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "USD", got.Base)
		assert.Equal(t, 2.0, got.Rates["XYZ"])
	})

	t.Run("Missing rates field decodes to nil map", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"base_code":"USD"}`))
		}))
		defer srv.Close()

		g := NewGateway(Config{RatesURL: srv.URL, TimeoutSeconds: 5})
		got, err := g.FetchExchangeRates(context.Background())
		// Fetch succeeds; structural validation is the reconciler's call.
		require.NoError(t, err)
		assert.Nil(t, got.Rates)
	})

	t.Run("Transport failure", func(t *testing.T) {
		g := NewGateway(Config{RatesURL: "http://127.0.0.1:1/rates", TimeoutSeconds: 1})
		_, err := g.FetchExchangeRates(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exchange rates source")
	})
}
