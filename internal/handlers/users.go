package handlers

import (
	"net/http"

	"ilgi/internal/middleware"
)

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())
	if !caller.Authenticated() {
		respondForbidden(w)
		return
	}
	respondJSON(w, http.StatusOK, callerSummary(caller))
}

func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())
	if !caller.Authenticated() {
		respondForbidden(w)
		return
	}
	page := h.parsePage(r)
	logs, count, err := h.stores.Audit.ListByActor(r.Context(), caller.ID, page.limit, page.offset)
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newPage(r, page, count, logs))
}

func (h *Handler) SelfCheck(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())
	if !caller.Authenticated() {
		respondForbidden(w)
		return
	}
	rows, err := h.stores.Finance.SelfCheck(r.Context(), caller.ID)
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}
