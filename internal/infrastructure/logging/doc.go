// Package logging provides structured logging for Glossary Core.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the service.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Text output for development (human-readable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// SQL echo (database.echo) is emitted at debug level, so it only appears
// when the level is set to debug.
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("starting service", "port", 8000)
//	logger.Error("failed to connect", "error", err)
package logging
