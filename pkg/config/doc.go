// Package config loads environment-driven configuration structs using
// `env` field tags, with optional .env file support for local development.
package config
