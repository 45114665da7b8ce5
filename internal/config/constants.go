package config

import "time"

// Application constants
const (
	AppName = "studentlens"

	DefaultPort = 8080

	// Rate Limiting
	DefaultRateLimitRPS   = 20
	DefaultRateLimitBurst = 40

	// Uploads
	DefaultMaxUploadBytes = 10 << 20 // 10MB
	DefaultPreviewRows    = 20

	// Sessions
	DefaultSessionTTL    = 30 * time.Minute
	DefaultSessionCookie = "studentlens_session"
	SessionHeader        = "X-Session-ID"

	// Log Settings
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "json"
	DefaultActionLogPath = "user_actions.log"

	// Endpoints
	APIBasePath     = "/api"
	HealthEndpoint  = "/healthz"
	MetricsEndpoint = "/metrics"
)
