package source

// Config holds configuration for the external data sources.
type Config struct {
	// CountriesURL is the country-facts endpoint.
	CountriesURL string `mapstructure:"countries_url" default:"https://restcountries.com/v2/all?fields=name,capital,region,population,flag,currencies"`
	// RatesURL is the exchange-rate endpoint, quoted against the reference currency.
	RatesURL string `mapstructure:"rates_url" default:"https://open.er-api.com/v6/latest/USD"`
	// TimeoutSeconds bounds each fetch attempt.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
}
