// Package database provides SQLite database connectivity for Glossary Core.
//
// This package manages:
//   - The process-wide connection pool, opened once at startup
//   - Schema creation from embedded SQL files
//   - Scoped transactions (InTx) used as the per-request unit of work
//   - Optional statement echo through the application logger
//
// Security Considerations:
//   - All queries use parameterised statements (no SQL injection)
//   - Database file permissions are set to 0600 (owner read/write only)
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Path: cfg.Database.Path})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Schema files are named YYYYMMDD_HHMMSS_description.up.sql and are applied
// once each, in version order.
package database
