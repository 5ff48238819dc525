// Package server provides HTTP routing, middleware and a read-only JSON API over recorded sync runs.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns ("GET /runs/{id}").
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
// # Run History API
//
// [HistoryHandler] serves:
//
//	GET /runs                → recent runs, newest first (?limit=N)
//	GET /runs/{id}           → one run with its failed words (id may be a unique prefix)
//	GET /runs/{id}/failed    → failed words as text/plain, one per line
//	GET /healthz             → liveness
package server
