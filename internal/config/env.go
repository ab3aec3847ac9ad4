// Package config defines environment variable keys for configuration.
package config

//nolint:gosec,revive // Environment variable keys are not credentials and do not need per-const comments.
const (
	// Server
	EnvPort            = "STOCKBOT_PORT"
	EnvLogLevel        = "STOCKBOT_LOG_LEVEL"
	EnvShutdownTimeout = "STOCKBOT_SHUTDOWN_TIMEOUT"
	EnvServerName      = "STOCKBOT_SERVER_NAME"

	// Inventory backend
	EnvBackendURL     = "STOCKBOT_BACKEND_URL"
	EnvBackendTimeout = "STOCKBOT_BACKEND_TIMEOUT"

	// Actions
	EnvActionTimeout = "STOCKBOT_ACTION_TIMEOUT"

	// Rate Limits
	EnvSenderRateBurst  = "STOCKBOT_SENDER_RATE_BURST"
	EnvSenderRateRefill = "STOCKBOT_SENDER_RATE_REFILL"

	// Sentry Feature
	EnvSentryEnabled     = "STOCKBOT_SENTRY_ENABLED"
	EnvSentryDSN         = "STOCKBOT_SENTRY_DSN"
	EnvSentryEnvironment = "STOCKBOT_SENTRY_ENVIRONMENT"
	EnvSentryRelease     = "STOCKBOT_SENTRY_RELEASE"
	EnvSentrySampleRate  = "STOCKBOT_SENTRY_SAMPLE_RATE"

	// Better Stack Feature
	EnvBetterStackEnabled  = "STOCKBOT_BETTERSTACK_ENABLED"
	EnvBetterStackToken    = "STOCKBOT_BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "STOCKBOT_BETTERSTACK_ENDPOINT"

	// Metrics Auth Feature
	EnvMetricsAuthEnabled = "STOCKBOT_METRICS_AUTH_ENABLED"
	EnvMetricsUsername    = "STOCKBOT_METRICS_USERNAME"
	EnvMetricsPassword    = "STOCKBOT_METRICS_PASSWORD"
)
