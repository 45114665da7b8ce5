// Package services implements the business logic layer of the explorer.
// It sits between the HTTP handlers or the command line and the data
// pipeline, so every interaction follows the same path regardless of the
// presentation layer.
//
// # Explorer Service
//
// ExplorerService runs one interaction at a time against a session held in
// a session.Store:
//
//	svc := services.NewExplorerService(store, services.ExplorerOptions{
//	    PreviewRows: 20,
//	    Tracer:      providers.Tracer,
//	    Metrics:     metrics,
//	    ActionLog:   actionLog,
//	}, logger)
//
//	sess, _ := svc.CreateSession(ctx)
//	svc.SetName(ctx, sess.ID, "Ana Silva")
//	svc.Upload(ctx, sess.ID, &validation.Upload{Filename: "alunos.csv"}, file)
//	svc.Clean(ctx, sess.ID)
//	report, err := svc.Statistics(ctx, sess.ID, domain.ColumnFinalScore)
//
// Statistics, age bands, summary, charts and exports read the cleaned table
// and fail with ErrNotCleaned until Clean has run. Each pipeline stage opens
// a span, records stage metrics and appends a line to the action log.
//
// # Error Handling
//
// Services return the typed errors of internal/errors unchanged so that
// handlers map them to problem details with errors.Is.
//
// # Health
//
// HealthService reports liveness, version and the live session count.
package services
