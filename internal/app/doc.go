// Package app wires the StudentLens web service together: configuration,
// logging, the user action log, OpenTelemetry, the session store, the
// explorer service and the chi router.
//
// # Initialization Flow
//
//	1. Build the logger and open the action log
//	2. Initialize OpenTelemetry (tracing, Prometheus metrics)
//	3. Create the session store and the explorer service
//	4. Set up middleware and routes
//	5. Create the HTTP server
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	application, err := app.NewApplication(cfg, app.Options{})
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
//
// # Graceful Shutdown
//
// Run returns after SIGINT, SIGTERM or cancellation of its context. In-flight
// requests get Server.ShutdownTimeout to finish, then telemetry is flushed and
// the log files are closed.
//
// NewApplication never calls os.Exit; main decides how to exit.
package app
