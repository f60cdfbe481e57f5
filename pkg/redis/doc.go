// Package redis owns Redis connectivity: client construction with startup
// retries and a readiness probe. The gateway uses Redis only as an optional
// shared tenant cache.
package redis
