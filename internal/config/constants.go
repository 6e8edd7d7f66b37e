package config

// Application constants
const (
	AppName    = "surveyclean"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces environment variables, e.g. SURVEY_PIPELINE_WORKERS
	EnvPrefix = "SURVEY"

	DefaultDataDir      = "data"
	DefaultOutputDir    = "data/cleaned"
	DefaultLogsDir      = "logs"
	DefaultWorkers      = 4
	DefaultOutputFormat = "parquet"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// AllVariables selects every column of a dataset in a panel
	AllVariables = "ALL"

	// Status server token bucket
	DefaultStatusRateLimit = 20.0
	DefaultStatusBurst     = 40

	HealthEndpoint    = "/healthz"
	MetricsEndpoint   = "/metrics"
	LatestRunEndpoint = "/runs/latest"
)
