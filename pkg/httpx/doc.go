// Package httpx provides the JSON response helpers shared by all HTTP
// handlers: a plain JSON writer, a structured error writer with stable
// machine-readable reason codes, and a strict request body decoder.
package httpx
