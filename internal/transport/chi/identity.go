package chi

import (
	"context"
	"net/http"

	"github.com/kailas-cloud/docdex/internal/domain/access"
)

// Identity headers set by the upstream session gateway after authentication.
// Authn itself is out of scope here; these headers are trusted input.
const (
	HeaderIdentity     = "X-Identity-Id"
	HeaderOrganization = "X-Organization-Id"
	HeaderRole         = "X-Organization-Role"
)

type accessCtxKey struct{}

// IdentityContext resolves the per-request access context from the gateway
// headers. A missing identity header yields the anonymous context, whose
// scopes are always-false.
func IdentityContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actx := access.Anonymous()
		if identity := r.Header.Get(HeaderIdentity); identity != "" {
			actx = access.NewContext(
				identity,
				r.Header.Get(HeaderOrganization),
				access.Role(r.Header.Get(HeaderRole)),
			)
		}
		next.ServeHTTP(w, r.WithContext(
			context.WithValue(r.Context(), accessCtxKey{}, actx),
		))
	})
}

// accessFromContext returns the request's access context, anonymous if absent.
func accessFromContext(ctx context.Context) access.Context {
	if actx, ok := ctx.Value(accessCtxKey{}).(access.Context); ok {
		return actx
	}
	return access.Anonymous()
}
