package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"pulse/internal/core"
)

// Provisioner creates the user row for a newly seen identity.
type Provisioner interface {
	EnsureUser(ctx context.Context, u core.User) (core.User, error)
}

// ErrorWriter renders an authentication failure.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Middleware rejects requests without a valid token and stores the identity
// in the request context. When users is non-nil the caller's user row is
// provisioned before the handler runs.
func Middleware(v *Verifier, users Provisioner, onError ErrorWriter) func(http.Handler) http.Handler {
	if onError == nil {
		onError = defaultErrorWriter
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := v.FromRequest(r)
			if err != nil {
				slog.DebugContext(r.Context(), "Request rejected", "path", r.URL.Path, "error", err)
				onError(w, r, err)
				return
			}
			if users != nil {
				if _, err := users.EnsureUser(r.Context(), core.User{ID: id.OwnerID, Email: id.Email, Name: id.Name}); err != nil {
					slog.ErrorContext(r.Context(), "Failed to provision user", "owner_id", id.OwnerID, "error", err)
					onError(w, r, fmt.Errorf("provision user: %w", err))
					return
				}
			}
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), id)))
		})
	}
}

// StatusCode maps authentication errors to 401 or 403, anything else to 500.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrMissingToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidToken):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func defaultErrorWriter(w http.ResponseWriter, _ *http.Request, err error) {
	http.Error(w, http.StatusText(StatusCode(err)), StatusCode(err))
}
