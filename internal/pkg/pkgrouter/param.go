package pkgrouter

import (
	"context"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// GetParam reads a path parameter from the request context (as stored by httprouter).
func GetParam(ctx context.Context, key string) string {
	return strings.TrimSpace(httprouter.ParamsFromContext(ctx).ByName(key))
}

// GetQuery returns the trimmed value of query parameter key.
func GetQuery(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}
