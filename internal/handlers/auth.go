package handlers

import (
	"errors"
	"net/http"
	"strings"

	"ilgi/internal/access"
	"ilgi/internal/auth"
	"ilgi/internal/middleware"
	"ilgi/internal/models"
	"ilgi/internal/store"
	"ilgi/internal/validator"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req registerRequest) validate() validator.FieldErrors {
	errs := validator.FieldErrors{}
	if err := validator.ValidateUsername(req.Username); err != nil {
		errs.Add("username", "Enter a valid username of 3 to 30 letters, digits or underscores.")
	}
	if err := validator.ValidateEmail(req.Email); err != nil {
		errs.Add("email", "Enter a valid email address.")
	}
	if err := validator.ValidatePassword(req.Password); err != nil {
		errs.Add("password", "Ensure this field has at least 8 characters.")
	}
	return errs
}

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

func (h *Handler) issueTokens(user models.User) (tokenPair, error) {
	accessToken, err := auth.GenerateToken(h.cfg.JWTSecret, user.ExternalID, h.cfg.TokenTTL)
	if err != nil {
		return tokenPair{}, err
	}
	refresh, err := auth.GenerateRefreshToken(h.cfg.JWTSecret, user.ExternalID, h.cfg.RefreshTTL)
	if err != nil {
		return tokenPair{}, err
	}
	return tokenPair{Access: accessToken, Refresh: refresh}, nil
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondFailure(w, r, err)
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if errs := req.validate(); errs.Any() {
		h.respondFailure(w, r, errs)
		return
	}
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	var user models.User
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		created, err := h.stores.Users.Create(r.Context(), tx, req.Username, req.Email, passwordHash)
		if err != nil {
			return err
		}
		user = created
		return h.audit(r.Context(), tx, middleware.CallerFromUser(user), "register", "users", user.ExternalID, user.Summary())
	})
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			h.respondFailure(w, r, validator.Field(validator.NonFieldErrors, "A user with that username or email already exists."))
			return
		}
		h.respondFailure(w, r, err)
		return
	}
	tokens, err := h.issueTokens(user)
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, tokens)
}

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

const invalidCredentials = "No active account found with the given credentials."

func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondFailure(w, r, err)
		return
	}
	user, err := h.stores.Users.GetByEmail(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusForbidden, invalidCredentials)
			return
		}
		h.respondFailure(w, r, err)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(w, http.StatusForbidden, invalidCredentials)
		return
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.audit(r.Context(), tx, middleware.CallerFromUser(user), "login", "users", user.ExternalID, nil)
	})
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	tokens, err := h.issueTokens(user)
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tokens)
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondFailure(w, r, err)
		return
	}
	claims, err := auth.ParseRefreshToken(h.cfg.JWTSecret, req.Refresh)
	if err != nil {
		respondError(w, http.StatusForbidden, "Token is invalid or expired.")
		return
	}
	user, err := h.stores.Users.GetByExternalID(r.Context(), claims.UserID)
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	token, err := auth.GenerateToken(h.cfg.JWTSecret, user.ExternalID, h.cfg.TokenTTL)
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tokenPair{Access: token})
}

func callerSummary(caller access.Caller) models.UserSummary {
	return models.UserSummary{ID: caller.ExternalID, Username: caller.Username, Email: caller.Email}
}
