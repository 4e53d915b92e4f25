package cfg

type Cfg struct {
	// Database configuration
	DatabaseURL string

	// Ingestion configuration
	LookbackHours int
	WorkerCount   int
	FetchTimeout  int
	SourcesFile   string

	// Query service configuration
	Port            string
	DefaultCategory string
	APIAccessKey    string

	// External API credentials
	AnthropicAPIKey string

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
