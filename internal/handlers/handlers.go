package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"ilgi/internal/config"
	"ilgi/internal/db"
	"ilgi/internal/store"
	"ilgi/internal/validator"
	"ilgi/internal/websocket"

	"github.com/charmbracelet/log"
	"github.com/lib/pq"
)

var errForbidden = errors.New("forbidden")

const forbiddenDetail = "You do not have permission to perform this action."

type Handler struct {
	txRunner db.TxRunner
	cfg      config.Config
	logger   *log.Logger
	stores   Stores
	hub      *websocket.Hub
}

func New(txRunner db.TxRunner, cfg config.Config, logger *log.Logger, stores Stores, hub *websocket.Hub) *Handler {
	return &Handler{
		txRunner: txRunner,
		cfg:      cfg,
		logger:   logger,
		stores:   stores,
		hub:      hub,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"detail": message})
}

func respondForbidden(w http.ResponseWriter) {
	respondError(w, http.StatusForbidden, forbiddenDetail)
}

// respondFailure maps an error from a handler's work onto a response. Field
// errors and constraint violations are the caller's fault; everything else
// is logged and hidden behind a 500.
func (h *Handler) respondFailure(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErrs validator.FieldErrors
	if errors.As(err, &fieldErrs) {
		respondJSON(w, http.StatusBadRequest, fieldErrs)
		return
	}
	if errors.Is(err, errForbidden) || errors.Is(err, store.ErrNotFound) {
		respondForbidden(w)
		return
	}
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			respondJSON(w, http.StatusBadRequest, validator.Field(validator.NonFieldErrors, "The fields must make a unique set."))
			return
		case "23514":
			respondJSON(w, http.StatusBadRequest, validator.Field(validator.NonFieldErrors, "A value is outside of its allowed range."))
			return
		}
	}
	h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	respondError(w, http.StatusInternalServerError, "A server error occurred.")
}

func decodeBody(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return validator.Field(validator.NonFieldErrors, "Invalid JSON payload.")
	}
	return nil
}

// pageResponse is the limit/offset envelope returned by every list.
type pageResponse[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

type pageRequest struct {
	limit  int
	offset int
}

func (h *Handler) parsePage(r *http.Request) pageRequest {
	p := pageRequest{limit: h.cfg.PageSize}
	query := r.URL.Query()
	if limit, err := strconv.Atoi(query.Get("limit")); err == nil && limit > 0 {
		p.limit = limit
	}
	if h.cfg.MaxPageSize > 0 && p.limit > h.cfg.MaxPageSize {
		p.limit = h.cfg.MaxPageSize
	}
	if p.limit <= 0 {
		p.limit = 100
	}
	if offset, err := strconv.Atoi(query.Get("offset")); err == nil && offset > 0 {
		p.offset = offset
	}
	return p
}

func newPage[T any](r *http.Request, p pageRequest, count int, results []T) pageResponse[T] {
	resp := pageResponse[T]{Count: count, Results: results}
	if p.offset+p.limit < count {
		next := pageURL(r, p.limit, p.offset+p.limit)
		resp.Next = &next
	}
	if p.offset > 0 {
		previous := pageURL(r, p.limit, max(p.offset-p.limit, 0))
		resp.Previous = &previous
	}
	return resp
}

func pageURL(r *http.Request, limit, offset int) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if forwarded := r.Header.Get("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}
	query := r.URL.Query()
	query.Set("limit", strconv.Itoa(limit))
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	} else {
		query.Del("offset")
	}
	u := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: query.Encode()}
	return u.String()
}
