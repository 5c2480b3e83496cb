package access

import "context"

// ContextKey is the context key for the granted abilities.
var ContextKey = &struct{ string }{"access"}

// FromContext returns the abilities granted to the caller.
func FromContext(ctx context.Context) Set {
	if s, ok := ctx.Value(ContextKey).(Set); ok {
		return s
	}

	return nil
}

// WithContext returns a new context with the granted abilities.
func WithContext(ctx context.Context, s Set) context.Context {
	return context.WithValue(ctx, ContextKey, s)
}
