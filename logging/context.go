package logging

import (
	"context"
)

type debugLogKeyType int

const debugLogKeyID = debugLogKeyType(iota)

// EnableDebugMode returns a new context with debug logging state attached. Loggers called with the
// returned context emit debug logs regardless of their level.
func EnableDebugMode(ctx context.Context) context.Context {
	return context.WithValue(ctx, debugLogKeyID, true)
}

// IsDebugMode returns whether the input context has debug logging enabled.
func IsDebugMode(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	enabled, _ := ctx.Value(debugLogKeyID).(bool)
	return enabled
}
