// Package pg owns PostgreSQL connectivity: pool construction with startup
// retries, a readiness probe, and goose migration wiring.
package pg
