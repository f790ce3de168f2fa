package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-admin/api/middleware"
	"github.com/angelmondragon/storefront-admin/api/responses"
	"github.com/angelmondragon/storefront-admin/api/validators"
	"github.com/angelmondragon/storefront-admin/internal/admin"
	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"github.com/angelmondragon/storefront-admin/pkg/logger"
	"github.com/angelmondragon/storefront-admin/pkg/types"
)

// modelService is the surface every registered model admin exposes.
type modelService[L, D, In any] interface {
	List(ctx context.Context, params admin.ListParams) (L, error)
	Get(ctx context.Context, id uint) (D, error)
	Create(ctx context.Context, staffID uint, input In) (D, types.Message, error)
	Update(ctx context.Context, staffID, id uint, input In) (D, types.Message, error)
	Delete(ctx context.Context, staffID, id uint) (types.Message, error)
	RunAction(ctx context.Context, staffID uint, req admin.ActionRequest) (*admin.ActionResult, error)
	History(ctx context.Context, id uint) ([]admin.HistoryEntry, error)
}

// inputRequest is a decoded add/change body.
type inputRequest[In any] interface {
	toInput() (In, error)
}

// ModelAdmin serves the changelist, change form and action views of one model.
type ModelAdmin[L, D, In any, Req inputRequest[In]] struct {
	opts admin.Options
	svc  modelService[L, D, In]
	logg *logger.Logger
}

func newModelAdmin[L, D, In any, Req inputRequest[In]](opts admin.Options, svc modelService[L, D, In], logg *logger.Logger) *ModelAdmin[L, D, In, Req] {
	return &ModelAdmin[L, D, In, Req]{opts: opts, svc: svc, logg: logg}
}

// Routes registers the model's views on r, which is mounted at
// /admin/store/<model>.
func (m *ModelAdmin[L, D, In, Req]) Routes(r chi.Router) {
	r.Get("/", m.List())
	r.Post("/", m.Add())
	r.Post("/actions/", m.Action())
	r.Get("/{id}/", m.Detail())
	r.Put("/{id}/", m.Change())
	r.Delete("/{id}/", m.Delete())
	r.Get("/{id}/history/", m.History())
}

func (m *ModelAdmin[L, D, In, Req]) unavailable(w http.ResponseWriter, r *http.Request) bool {
	if m.svc != nil {
		return false
	}
	responses.WriteError(r.Context(), m.logg, w, pkgerrors.New(pkgerrors.CodeInternal, m.opts.Model+" admin unavailable"))
	return true
}

// List renders one changelist page.
func (m *ModelAdmin[L, D, In, Req]) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.unavailable(w, r) {
			return
		}
		params, err := admin.ParseListParams(r.URL.Query(), m.opts)
		if err != nil {
			responses.WriteError(r.Context(), m.logg, w, err)
			return
		}
		list, err := m.svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), m.logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// Detail renders the change form payload of one object.
func (m *ModelAdmin[L, D, In, Req]) Detail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.unavailable(w, r) {
			return
		}
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), m.logg, w, err)
			return
		}
		dto, err := m.svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), m.logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// Add creates an object from the request body.
func (m *ModelAdmin[L, D, In, Req]) Add() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.unavailable(w, r) {
			return
		}
		staffID, ok := staffFromRequest(w, r, m.logg)
		if !ok {
			return
		}
		input, err := decodeInput[In, Req](r)
		if err != nil {
			responses.WriteError(r.Context(), m.logg, w, err)
			return
		}
		dto, msg, err := m.svc.Create(r.Context(), staffID, input)
		if err != nil {
			responses.WriteError(r.Context(), m.logg, w, err)
			return
		}
		responses.WriteWithMessages(w, http.StatusCreated, dto, msg)
	}
}

// Change updates an object from the request body.
func (m *ModelAdmin[L, D, In, Req]) Change() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.unavailable(w, r) {
			return
		}
		staffID, ok := staffFromRequest(w, r, m.logg)
		if !ok {
			return
		}
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), m.logg, w, err)
			return
		}
		input, err := decodeInput[In, Req](r)
		if err != nil {
			responses.WriteError(r.Context(), m.logg, w, err)
			return
		}
		dto, msg, err := m.svc.Update(r.Context(), staffID, id, input)
		if err != nil {
			responses.WriteError(r.Context(), m.logg, w, err)
			return
		}
		responses.WriteWithMessages(w, http.StatusOK, dto, msg)
	}
}

// Delete removes one object.
func (m *ModelAdmin[L, D, In, Req]) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.unavailable(w, r) {
			return
		}
		staffID, ok := staffFromRequest(w, r, m.logg)
		if !ok {
			return
		}
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), m.logg, w, err)
			return
		}
		msg, err := m.svc.Delete(r.Context(), staffID, id)
		if err != nil {
			responses.WriteError(r.Context(), m.logg, w, err)
			return
		}
		responses.WriteWithMessages(w, http.StatusOK, nil, msg)
	}
}

type actionRequest struct {
	Action string `json:"action"`
	IDs    []uint `json:"ids"`
}

// Action runs a bulk action over the selected ids.
func (m *ModelAdmin[L, D, In, Req]) Action() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.unavailable(w, r) {
			return
		}
		staffID, ok := staffFromRequest(w, r, m.logg)
		if !ok {
			return
		}
		var payload actionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), m.logg, w, err)
			return
		}
		result, err := m.svc.RunAction(r.Context(), staffID, admin.ActionRequest{Action: payload.Action, IDs: payload.IDs})
		if err != nil {
			responses.WriteError(r.Context(), m.logg, w, err)
			return
		}
		responses.WriteWithMessages(w, http.StatusOK, result, result.Messages...)
	}
}

// History lists the admin log of one object.
func (m *ModelAdmin[L, D, In, Req]) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.unavailable(w, r) {
			return
		}
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), m.logg, w, err)
			return
		}
		entries, err := m.svc.History(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), m.logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

func decodeInput[In any, Req inputRequest[In]](r *http.Request) (In, error) {
	var payload Req
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		var zero In
		return zero, err
	}
	return payload.toInput()
}

func staffFromRequest(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (uint, bool) {
	staffID := middleware.StaffIDFromContext(r.Context())
	if staffID == 0 {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "staff context missing"))
		return 0, false
	}
	return staffID, true
}
