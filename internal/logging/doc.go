// Package logging provides structured logging for cellarctl.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the tool. Logging is silent by default so that
// normal CLI output stays clean; set CELLARCTL_LOG_LEVEL to enable it.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (request traces, wizard transitions)
//   - Info: Normal operations (shares completed, servers discovered)
//   - Warn: Non-fatal issues (retries, failed submissions)
//   - Error: Fatal issues (startup failures, critical errors)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("share completed",
//	    zap.Int("bottles", 3),
//	    zap.Int("recipients", 2),
//	)
//
// # Configuration
//
// Initialize logging at command startup:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Output Format
//
// Logs are written to stderr in console format so they never mix with the
// command's stdout:
//
//	2026-08-28T10:30:45.123-0800  DEBUG  request completed
//	  method=GET
//	  path=/api/bottles
//	  status=200
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
