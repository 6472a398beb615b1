package main

import "context"

// contextKey is a type for context keys to prevent collisions
type contextKey string

// Context keys
const (
	// loggerKey is the context key for the logger
	loggerKey contextKey = "logger"
	// configKey is the context key for the configuration
	configKey contextKey = "config"

	// HTTP request metadata keys
	httpMethodKey     contextKey = "http_method"
	httpPathKey       contextKey = "http_path"
	httpRemoteAddrKey contextKey = "http_remote_addr"

	// Authentication keys
	authenticatedKey contextKey = "authenticated"
	authErrorKey     contextKey = "auth_error"
	userIDKey        contextKey = "user_id"
	usernameKey      contextKey = "username"
	userRoleKey      contextKey = "user_role"
)

// getLoggerFromContext returns the logger stored in the context, falling back
// to a fresh stderr logger when none is present.
func getLoggerFromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		return logger
	}
	return NewLogger(LevelInfo)
}
