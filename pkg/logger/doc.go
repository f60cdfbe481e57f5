// Package logger builds the application's slog.Logger: JSON or text output,
// static service attributes, and context extractors that pull request-scoped
// values (request ID, tenant ID, user ID) into every record emitted with a
// context-aware log call.
package logger
