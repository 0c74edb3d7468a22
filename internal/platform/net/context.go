// Package net carries request scoped ids and the JSON reply envelope shared by transports
package net

import (
	"context"

	"textguard/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type ctxKey uint8

const keyTenantID ctxKey = iota

// WithRequest stores the request id (chi's key, so chimw.GetReqID sees it) and tenant,
// and mirrors both onto the logger context
func WithRequest(ctx context.Context, reqID, tenantID string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if tenantID != "" {
		ctx = context.WithValue(ctx, keyTenantID, tenantID)
	}
	return logger.WithRequest(ctx, reqID, tenantID)
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	if v := chimw.GetReqID(ctx); v != "" {
		return v
	}
	return logger.RequestID(ctx)
}

// TenantID returns the tenant id on the context if present
func TenantID(ctx context.Context) string {
	v, _ := ctx.Value(keyTenantID).(string)
	return v
}
