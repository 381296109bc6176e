package handlers

import (
	"errors"
	"net/http"

	"ilgi/internal/auth"
	"ilgi/internal/middleware"
	"ilgi/internal/store"
	"ilgi/internal/websocket"
)

// WSEvents streams record events to the token's user. Browsers cannot set
// headers on a websocket handshake, so the access token travels in the query.
func (h *Handler) WSEvents(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondForbidden(w)
		return
	}
	caller, err := middleware.ResolveToken(r.Context(), h.cfg.JWTSecret, h.stores.Users, token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrWrongTokenType) || errors.Is(err, store.ErrNotFound) {
			respondForbidden(w)
			return
		}
		h.respondFailure(w, r, err)
		return
	}
	if err := websocket.ServeWS(w, r, h.hub, caller.ExternalID); err != nil {
		h.logger.Warn("websocket upgrade failed", "user", caller.ExternalID, "err", err)
	}
}
