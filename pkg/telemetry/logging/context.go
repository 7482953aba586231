package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// SessionIDKey is the context key for proxy session identifiers.
	SessionIDKey contextKey = "session_id"

	// ClientKey is the context key for the client address.
	ClientKey contextKey = "client"

	// ComponentKey is the context key for the emitting component.
	ComponentKey contextKey = "component"
)

// WithSessionID adds a session ID to the context.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, SessionIDKey, id)
}

// GetSessionID retrieves the session ID from the context.
func GetSessionID(ctx context.Context) string {
	if id, ok := ctx.Value(SessionIDKey).(string); ok {
		return id
	}
	return ""
}

// WithClient adds the client address (ip:port) to the context.
func WithClient(ctx context.Context, client string) context.Context {
	return context.WithValue(ctx, ClientKey, client)
}

// GetClient retrieves the client address from the context.
func GetClient(ctx context.Context) string {
	if client, ok := ctx.Value(ClientKey).(string); ok {
		return client
	}
	return ""
}

// WithComponent adds a component name to the context.
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, ComponentKey, component)
}

// GetComponent retrieves the component name from the context.
func GetComponent(ctx context.Context) string {
	if component, ok := ctx.Value(ComponentKey).(string); ok {
		return component
	}
	return ""
}

// extractContextFields returns the key-value pairs stored in ctx, in a fixed
// order, suitable for Logger.With.
func extractContextFields(ctx context.Context) []any {
	var fields []any

	if component := GetComponent(ctx); component != "" {
		fields = append(fields, "component", component)
	}
	if id := GetSessionID(ctx); id != "" {
		fields = append(fields, "session_id", id)
	}
	if client := GetClient(ctx); client != "" {
		fields = append(fields, "client", client)
	}

	return fields
}
