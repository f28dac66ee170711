// Package term provides the glossary's only entity and its persistence.
//
// A Term is a word/meaning pair with a system-assigned integer id. The
// package defines three wire shapes for it:
//   - Base: the create payload, both fields required
//   - Term: the public record returned to clients
//   - Update: a merge-patch payload where each field records whether it was
//     present in the request
//
// DecodeBase and DecodeUpdate validate raw JSON bodies and report every
// problem as a FieldError inside a *ValidationError.
//
// The Repository interface has a SQLite implementation. Each operation runs
// as its own transaction against the shared database pool; nothing is
// cached between calls.
//
// # Thread Safety
//
// SQLiteRepository is safe for concurrent use. Concurrent updates to the
// same id are last-write-wins in commit order.
package term
