// Package api implements the HTTP JSON API and WebSocket event stream for
// Glossary Core.
//
// This package provides:
//   - The five term operations under /terms/ (list, get, create, update, delete)
//   - Error bodies of the form {"detail": ...}
//   - WebSocket hub pushing term.created, term.updated and term.deleted
//   - Middleware stack (request ID, logging, recovery, metrics, CORS, body limit)
//   - Health and runtime metrics endpoints
//
// # Lifecycle
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// # Graceful Degradation
//
// MQTT and InfluxDB are optional. Without them the API serves every term
// operation; change events only reach WebSocket subscribers and per-request
// metrics are not recorded.
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api
