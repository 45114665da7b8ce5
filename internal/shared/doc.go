// Package shared holds helpers used by more than one package.
//
// The testutil subpackage provides the student record fixtures and the
// slog capture helpers that the service, handler and application tests
// build on:
//
//	logger, logs := testutil.NewTestLogger(t)
//	svc := services.NewExplorerService(store, opts, logger)
//	// ...
//	testutil.AssertLogContains(t, logs, slog.LevelInfo, "dataset cleaned")
//
// Nothing here is imported by production code.
package shared
