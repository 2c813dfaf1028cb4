package summary

// Config holds configuration for the summary artifact cache.
type Config struct {
	// Backend selects where the artifact is cached (fs, s3).
	Backend string `mapstructure:"backend" default:"fs"`
	// Dir is the local cache directory for the fs backend.
	Dir string `mapstructure:"dir" default:"cache"`
	// Object is the artifact name (file name or object key).
	Object string `mapstructure:"object" default:"summary.png"`
}
