package pkglog

import "context"

type (
	chainIDContextKey  struct{}
	importIDContextKey struct{}
)

// GetCorrelationID returns the correlation ID stored in the context.
//
// Middleware is expected to set this value early in the request lifecycle so
// it can be attached to logs and propagated to downstream calls.
func GetCorrelationID(ctx context.Context) string {
	clm, ok := ctx.Value(chainIDContextKey{}).(string)
	if !ok {
		return "[invalid_chain_id]"
	}
	return clm
}

// SetCorrelationID stores a correlation ID into the context.
func SetCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, chainIDContextKey{}, cid)
}

// CarryCorrelationID copies the correlation ID of from into to. Background
// work started by a request uses it so its logs stay linked to that request.
func CarryCorrelationID(to, from context.Context) context.Context {
	cid, ok := from.Value(chainIDContextKey{}).(string)
	if !ok {
		return to
	}
	return SetCorrelationID(to, cid)
}

// GetImportID returns the import job ID stored in the context, or "".
func GetImportID(ctx context.Context) string {
	id, _ := ctx.Value(importIDContextKey{}).(string)
	return id
}

// SetImportID stores the import job ID into the context.
func SetImportID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, importIDContextKey{}, id)
}
