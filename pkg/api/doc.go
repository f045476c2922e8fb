// Package api serves the task service over HTTP.
//
// # Routes
//
//	GET    /healthz                  liveness and build version
//	GET    /api/todos                every task, newest first
//	POST   /api/todos                create a task
//	GET    /api/todos/analysis       tasks plus scheduling records
//	GET    /api/todos/graph          DOT (default) or SVG with ?format=svg
//	GET    /api/todos/{id}           one task
//	PATCH  /api/todos/{id}           replace dependencies: {"dependencyIds": [...]}
//	DELETE /api/todos/{id}           delete a task and its edges
//
// # Errors
//
// Failures are returned as {"error", "code", "requestId"}. Validation
// errors and rejected cycles map to 400, missing tasks to 404 and
// everything else to 500. Every response carries an X-Request-ID header.
package api
