// Package middleware provides reusable HTTP middleware: request IDs,
// structured request logging, panic recovery, CORS, body size limits,
// Prometheus metrics, and token-bucket rate limiting.
package middleware
