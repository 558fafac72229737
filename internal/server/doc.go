// Package server bootstraps the HTTP API.
//
// Construction runs four stages, strictly in this order:
//
//  1. database: the MongoDB connection is started in the background. New
//     never waits for it; failures are logged.
//  2. middleware: request logging, security headers, CORS, JSON body,
//     URL-encoded body, compression. The order is the Middleware slice
//     returned by DefaultMiddleware.
//  3. controllers: every Controller registers its routes under /api.
//  4. error handling: the terminal error handler is installed, together with
//     the handler for unmatched routes.
//
// Listen binds the port and serves until Shutdown.
//
// Errors surfaced with c.Error by any stage or controller, panics, and
// unmatched routes are rendered by the error handler:
//
//	{"status": 404, "message": "Cannot GET /api/nope"}
package server
