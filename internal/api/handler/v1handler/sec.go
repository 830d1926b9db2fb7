package v1handler

import (
	"context"
	"net/http"
	"strings"

	"wefund/pkg/domain"
	"wefund/pkg/serrors"
)

type ctxKey int

const userCtxKey ctxKey = iota

// UserFromContext returns the authenticated user stored by the withUser
// middleware. The zero user is returned on routes outside the middleware.
func UserFromContext(ctx context.Context) domain.User {
	u, _ := ctx.Value(userCtxKey).(domain.User)

	return u
}

// withUser authenticates the bearer token and stores the user in the request
// context. Websocket clients cannot set headers, so the token may also ride
// in the access_token query parameter.
func (h *Handler) withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			h.respondError(w, r, serrors.With(serrors.ErrUnauthorized, "missing bearer token"))

			return
		}

		user, err := h.deps.Auth.Authenticate(r.Context(), token)
		if err != nil {
			h.respondError(w, r, err)

			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userCtxKey, *user)))
	})
}

// requireAdmin rejects non-admin users. It must run inside withUser.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()).Role != domain.RoleAdmin {
			h.respondError(w, r, serrors.With(serrors.ErrForbidden, "admin access required"))

			return
		}

		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	return r.URL.Query().Get("access_token")
}
