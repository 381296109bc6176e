package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"ilgi/internal/access"
	"ilgi/internal/journal"
	"ilgi/internal/middleware"
	"ilgi/internal/models"
	"ilgi/internal/store"
	"ilgi/internal/validator"
	"ilgi/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
)

const maxActionBody = 1 << 16

// action is a state transition exposed as POST /{path}/{id}/{name}.
type action[T models.Record] struct {
	name  string
	apply func(ctx context.Context, tx *sqlx.Tx, caller access.Caller, record T, body []byte) error
}

// resource serves the uniform list/retrieve/create/update/delete contract
// for one record type.
type resource[T models.Record] struct {
	h        *Handler
	path     string
	scoping  access.Scoping
	policy   access.Policy
	store    RecordStore[T]
	newInput func() journal.Input
	// render fills derived fields in place before a response is written.
	render  func(ctx context.Context, rows []T) error
	actions []action[T]
	routes  func(r chi.Router)
}

func (res *resource[T]) mount(r chi.Router) {
	r.Route("/"+res.path, func(r chi.Router) {
		r.Get("/", res.list)
		r.Post("/", res.create)
		if res.routes != nil {
			res.routes(r)
		}
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", res.retrieve)
			r.Patch("/", res.update)
			r.Put("/", res.update)
			r.Delete("/", res.destroy)
			for _, a := range res.actions {
				r.Post("/"+a.name, res.runAction(a))
			}
		})
	})
}

func (res *resource[T]) ownerScope(caller access.Caller) int64 {
	if res.scoping == access.OwnerFiltered {
		return caller.ID
	}
	return 0
}

func (res *resource[T]) renderAll(ctx context.Context, rows []T) error {
	if res.render == nil || len(rows) == 0 {
		return nil
	}
	return res.render(ctx, rows)
}

func (res *resource[T]) renderOne(ctx context.Context, row T) (T, error) {
	rows := []T{row}
	if err := res.renderAll(ctx, rows); err != nil {
		return row, err
	}
	return rows[0], nil
}

func (res *resource[T]) list(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())
	if !res.policy.CanList(caller) {
		respondForbidden(w)
		return
	}
	page := res.h.parsePage(r)
	rows := []T{}
	count := 0
	conds, ok := res.store.Table().Conditions(r.URL.Query())
	if ok {
		var err error
		rows, count, err = res.store.List(r.Context(), caller.ID, conds, page.limit, page.offset)
		if err != nil {
			res.h.respondFailure(w, r, err)
			return
		}
		if rows == nil {
			rows = []T{}
		}
	}
	if res.scoping == access.PermissionChecked {
		rows = lo.Filter(rows, func(row T, _ int) bool {
			return res.policy.CanRetrieve(caller, row.Record().OwnerID)
		})
	}
	if err := res.renderAll(r.Context(), rows); err != nil {
		res.h.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newPage(r, page, count, rows))
}

// load finds the record named in the URL. Every failure, including a
// malformed id, reads as forbidden to the caller.
func (res *resource[T]) load(r *http.Request, caller access.Caller, includeDeleted bool) (T, error) {
	id := chi.URLParam(r, "id")
	if includeDeleted {
		return res.store.GetAny(r.Context(), res.ownerScope(caller), id)
	}
	return res.store.Get(r.Context(), res.ownerScope(caller), id)
}

func (res *resource[T]) retrieve(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())
	if !caller.Authenticated() {
		respondForbidden(w)
		return
	}
	record, err := res.load(r, caller, false)
	if err != nil {
		res.h.respondFailure(w, r, err)
		return
	}
	if !res.policy.CanRetrieve(caller, record.Record().OwnerID) {
		respondForbidden(w)
		return
	}
	record, err = res.renderOne(r.Context(), record)
	if err != nil {
		res.h.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

func (res *resource[T]) create(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())
	if !res.policy.CanCreate(caller) {
		respondForbidden(w)
		return
	}
	input := res.newInput()
	if err := decodeBody(r, input); err != nil {
		res.h.respondFailure(w, r, err)
		return
	}
	changes := input.Bind(false)
	if changes.Errors.Any() {
		res.h.respondFailure(w, r, changes.Errors)
		return
	}

	var record T
	err := res.h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := res.h.resolveReferences(r.Context(), tx, caller, &changes); err != nil {
			return err
		}
		id, err := res.store.Insert(r.Context(), tx, caller.ID, changes.Values)
		if err != nil {
			return err
		}
		record, err = res.store.GetByID(r.Context(), tx, id)
		if err != nil {
			return err
		}
		return res.h.audit(r.Context(), tx, caller, "create", res.path, record.Record().ExternalID, record)
	})
	if err != nil {
		res.h.respondFailure(w, r, err)
		return
	}
	res.h.publish(caller, res.path, record.Record().ExternalID, "create")
	record, err = res.renderOne(r.Context(), record)
	if err != nil {
		res.h.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, record)
}

func (res *resource[T]) update(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())
	if !caller.Authenticated() {
		respondForbidden(w)
		return
	}
	record, err := res.load(r, caller, false)
	if err != nil {
		res.h.respondFailure(w, r, err)
		return
	}
	if !res.policy.CanUpdate(caller, record.Record().OwnerID) {
		respondForbidden(w)
		return
	}
	input := res.newInput()
	if err := decodeBody(r, input); err != nil {
		res.h.respondFailure(w, r, err)
		return
	}
	changes := input.Bind(true)
	if changes.Errors.Any() {
		res.h.respondFailure(w, r, changes.Errors)
		return
	}

	base := record.Record()
	err = res.h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := res.store.Update(r.Context(), tx, base.InternalID, changes.Values); err != nil {
			return err
		}
		updated, err := res.store.GetByID(r.Context(), tx, base.InternalID)
		if err != nil {
			return err
		}
		record = updated
		return res.h.audit(r.Context(), tx, caller, "update", res.path, base.ExternalID, changes.Values)
	})
	if err != nil {
		res.h.respondFailure(w, r, err)
		return
	}
	res.h.publish(caller, res.path, base.ExternalID, "update")
	record, err = res.renderOne(r.Context(), record)
	if err != nil {
		res.h.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

func (res *resource[T]) destroy(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())
	if !caller.Authenticated() {
		respondForbidden(w)
		return
	}
	record, err := res.load(r, caller, true)
	if err != nil {
		res.h.respondFailure(w, r, err)
		return
	}
	base := record.Record()
	if !res.policy.CanDelete(caller, base.OwnerID) {
		respondForbidden(w)
		return
	}
	if base.Deleted {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	err = res.h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := res.store.SoftDelete(r.Context(), tx, base.InternalID); err != nil {
			return err
		}
		return res.h.audit(r.Context(), tx, caller, "delete", res.path, base.ExternalID, nil)
	})
	if err != nil {
		res.h.respondFailure(w, r, err)
		return
	}
	res.h.publish(caller, res.path, base.ExternalID, "delete")
	w.WriteHeader(http.StatusNoContent)
}

func (res *resource[T]) runAction(a action[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := middleware.CallerFromContext(r.Context())
		if !caller.Authenticated() {
			respondForbidden(w)
			return
		}
		record, err := res.load(r, caller, false)
		if err != nil {
			res.h.respondFailure(w, r, err)
			return
		}
		base := record.Record()
		if !res.policy.CanUpdate(caller, base.OwnerID) {
			respondForbidden(w)
			return
		}
		body, err := io.ReadAll(io.LimitReader(r.Body, maxActionBody))
		if err != nil {
			res.h.respondFailure(w, r, validator.Field(validator.NonFieldErrors, "Invalid JSON payload."))
			return
		}
		err = res.h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
			if err := a.apply(r.Context(), tx, caller, record, body); err != nil {
				return err
			}
			updated, err := res.store.GetByID(r.Context(), tx, base.InternalID)
			if err != nil {
				return err
			}
			record = updated
			return res.h.audit(r.Context(), tx, caller, a.name, res.path, base.ExternalID, nil)
		})
		if err != nil {
			res.h.respondFailure(w, r, err)
			return
		}
		res.h.publish(caller, res.path, base.ExternalID, a.name)
		record, err = res.renderOne(r.Context(), record)
		if err != nil {
			res.h.respondFailure(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, record)
	}
}

// resolveReferences turns payload references into foreign key columns. A
// reference the caller cannot see is reported on its field.
func (h *Handler) resolveReferences(ctx context.Context, tx *sqlx.Tx, caller access.Caller, changes *journal.Changes) error {
	errs := validator.FieldErrors{}
	for _, ref := range changes.References {
		id, err := h.stores.References.Resolve(ctx, tx, ref.Table, caller.ID, ref.ExternalID)
		if errors.Is(err, store.ErrNotFound) {
			errs.Add(ref.Field, missingReference(ref.ExternalID))
			continue
		}
		if err != nil {
			return err
		}
		changes.Values[ref.Column] = id
	}
	if errs.Any() {
		return errs
	}
	return nil
}

func missingReference(externalID string) string {
	return fmt.Sprintf("Invalid pk %q - object does not exist.", externalID)
}

func (h *Handler) audit(ctx context.Context, tx *sqlx.Tx, caller access.Caller, action, resource, recordID string, data any) error {
	var payload []byte
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("encode audit data: %w", err)
		}
		payload = encoded
	}
	return h.stores.Audit.Log(ctx, tx, caller.ID, action, resource, recordID, payload)
}

func (h *Handler) publish(caller access.Caller, resource, recordID, action string) {
	if h.hub == nil {
		return
	}
	h.hub.Publish(caller.ExternalID, websocket.RecordEvent{
		Resource: resource,
		ID:       recordID,
		Action:   action,
		At:       time.Now().UTC(),
	})
}
