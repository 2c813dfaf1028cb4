package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is an optional secret; when set, mutating endpoints require it.
	ApiKey string `mapstructure:"api_key" default:""`
	// RefreshCron is an optional cron expression for periodic catalog refreshes.
	RefreshCron string `mapstructure:"refresh_cron" default:""`
}
