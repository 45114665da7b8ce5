// Package config loads the studentlens configuration.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// A .env file in the working directory is loaded into the environment
// before anything else.
//
// # Environment Variables
//
// All environment variables use the STUDENTLENS_ prefix followed by the
// section and field name:
//
//	STUDENTLENS_SERVER_PORT=9000
//	STUDENTLENS_LOGGING_LEVEL=debug
//	STUDENTLENS_UPLOAD_MAX_BYTES=5242880
//	STUDENTLENS_SESSION_TTL=1h
//	STUDENTLENS_TELEMETRY_ENABLE_TRACING=true
//
// # Configuration File
//
// The YAML file is taken from STUDENTLENS_CONFIG_FILE, or else the first of
// config.yaml and configs/config.yaml that exists:
//
//	server:
//	  port: 9000
//	logging:
//	  level: debug
//	  action_log_path: logs/user_actions.log
//	charts:
//	  detailed: true
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := &http.Server{Addr: cfg.Server.Addr()}
package config
