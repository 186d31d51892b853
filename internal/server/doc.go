// Package server provides the local JSON API over the movie service and the favorites session.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses chi internally, which gives method routing and {param} path segments.
//
// # Routes
//
//	GET    /api/search?s=title[&y=][&type=][&page=]  → search results
//	GET    /api/movies?i=id                          → detail record
//	GET    /api/favorites                            → favorites list
//	POST   /api/favorites                            → add a favorite (JSON movie body)
//	DELETE /api/favorites/{id}                       → remove a favorite
//	GET    /health                                   → liveness and breaker state
//	GET    /metrics                                  → Prometheus metrics
//
// Errors are returned as {"error": "..."}: 400 for invalid input, 404 when the
// movie database has no match or a search comes back empty, 502 when the
// upstream request fails and 503 when the API key is missing or the circuit
// breaker is open.
//
// # Middleware
//
// Every route gets a request id ([RequestIDHeader]), a log line, Prometheus
// metrics and panic recovery, built on go-chi/chi/v5/middleware. The log line
// comes from a logger scoped to the request, so handler errors carry the same
// request_id. Rate limiting (go-chi/httprate) and CORS (go-chi/cors)
// wrap the whole router so they also see unmatched paths and preflight requests.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
