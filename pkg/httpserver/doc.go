// Package httpserver wraps net/http with environment-driven configuration,
// signal-aware graceful shutdown, and the health endpoint handler.
package httpserver
