// Package handler assembles the gateway's HTTP surface: the router with
// its middleware chain (request ID, authentication, tenant gate) and the
// handlers for token issuance and presigned uploads.
package handler
