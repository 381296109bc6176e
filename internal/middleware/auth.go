package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"ilgi/internal/access"
	"ilgi/internal/auth"
	"ilgi/internal/models"
	"ilgi/internal/store"
)

type contextKey string

const callerKey contextKey = "caller"

// UserLookup resolves a token subject to a stored user.
type UserLookup interface {
	GetByExternalID(ctx context.Context, externalID string) (models.User, error)
}

// CallerFromContext returns the request's caller; anonymous if none was set.
func CallerFromContext(ctx context.Context) access.Caller {
	caller, _ := ctx.Value(callerKey).(access.Caller)
	return caller
}

func WithCaller(ctx context.Context, caller access.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

func CallerFromUser(user models.User) access.Caller {
	return access.Caller{
		ID:         user.ID,
		ExternalID: user.ExternalID,
		Username:   user.Username,
		Email:      user.Email,
	}
}

// Authenticate resolves the bearer token into a caller. Requests without an
// Authorization header continue anonymously; a header that does not resolve
// to a user is refused outright.
func Authenticate(secret string, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				forbidden(w, "Invalid authorization header.")
				return
			}
			caller, err := ResolveToken(r.Context(), secret, users, parts[1])
			if err != nil {
				if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrWrongTokenType) || errors.Is(err, store.ErrNotFound) {
					forbidden(w, "Given token not valid for any token type.")
					return
				}
				writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal error"})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

// ResolveToken parses an access token and loads the user it names.
func ResolveToken(ctx context.Context, secret string, users UserLookup, token string) (access.Caller, error) {
	claims, err := auth.ParseToken(secret, token)
	if err != nil {
		return access.Caller{}, err
	}
	user, err := users.GetByExternalID(ctx, claims.UserID)
	if err != nil {
		return access.Caller{}, err
	}
	return CallerFromUser(user), nil
}

func forbidden(w http.ResponseWriter, detail string) {
	writeJSON(w, http.StatusForbidden, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
