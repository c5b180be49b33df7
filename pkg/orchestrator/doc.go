// Package orchestrator coordinates the full document workflow: variant
// selection, field edits, lifecycle transitions, rendering, export, print,
// and the template snapshot store. It applies sensible defaults (embedded
// catalog, vanilla renderer, in-memory store) while remaining open to
// dependency injection for advanced callers.
package orchestrator
