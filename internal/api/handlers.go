// Package api serves the form lifecycle over HTTP.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/verisage-dev/verisage/internal/api/middleware"
	"github.com/verisage-dev/verisage/internal/batch"
	"github.com/verisage-dev/verisage/internal/branches"
	"github.com/verisage-dev/verisage/internal/forms"
	"github.com/verisage-dev/verisage/internal/logger"
	"github.com/verisage-dev/verisage/internal/model"
	"github.com/verisage-dev/verisage/internal/txdate"
)

const maxBody = 1 << 20

// FormsHandler handles form endpoints.
type FormsHandler struct {
	svc      *forms.Service
	branches *branches.Directory
}

// NewFormsHandler creates a new forms handler.
func NewFormsHandler(svc *forms.Service, dir *branches.Directory) *FormsHandler {
	return &FormsHandler{svc: svc, branches: dir}
}

// formJSON renders a form as a flat JSON object.
func formJSON(f model.Form) (json.RawMessage, error) {
	return forms.EncodeJSON(f)
}

func (h *FormsHandler) decodeForm(w http.ResponseWriter, r *http.Request) (model.Form, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		middleware.WriteError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return model.Form{}, false
	}
	f, err := forms.DecodeJSON(bytes.NewReader(body))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return model.Form{}, false
	}
	return f, true
}

func (h *FormsHandler) writeForm(w http.ResponseWriter, r *http.Request, status int, f model.Form) {
	raw, err := formJSON(f)
	if err != nil {
		h.fail(w, r, err, "Failed to encode form")
		return
	}
	middleware.WriteJSON(w, status, raw)
}

// Submit handles POST /api/forms
func (h *FormsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	f, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	stored, err := h.svc.Submit(r.Context(), f)
	if err != nil {
		h.fail(w, r, err, "Failed to submit form")
		return
	}
	h.writeForm(w, r, http.StatusCreated, stored)
}

// List handles GET /api/forms
func (h *FormsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := forms.Filter{
		Status: model.FormStatus(q.Get("status")),
		Branch: q.Get("branch"),
		Month:  q.Get("month"),
		Search: q.Get("search"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		middleware.WriteError(w, http.StatusBadRequest, "Unknown status")
		return
	}
	var err error
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid offset")
		return
	}
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid limit")
		return
	}

	list, total, err := h.svc.List(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err, "Failed to list forms")
		return
	}

	items := make([]json.RawMessage, 0, len(list))
	for _, f := range list {
		raw, err := formJSON(f)
		if err != nil {
			h.fail(w, r, err, "Failed to encode form")
			return
		}
		items = append(items, raw)
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"forms":  items,
		"total":  total,
		"offset": filter.Offset,
		"limit":  filter.Limit,
	})
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err == nil && n < 0 {
		err = errors.New("negative")
	}
	return n, err
}

// Get handles GET /api/forms/{id}
func (h *FormsHandler) Get(w http.ResponseWriter, r *http.Request) {
	f, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err, "Failed to load form")
		return
	}
	h.writeForm(w, r, http.StatusOK, f)
}

// Review handles PATCH /api/forms/{id}
func (h *FormsHandler) Review(w http.ResponseWriter, r *http.Request) {
	patch, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	f, err := h.svc.Review(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		h.fail(w, r, err, "Failed to review form")
		return
	}
	h.writeForm(w, r, http.StatusOK, f)
}

// Delete handles DELETE /api/forms/{id}
func (h *FormsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err, "Failed to delete form")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Post handles POST /api/forms/{id}/post
// Force may be given as ?force=true or in a {"force":true} body.
func (h *FormsHandler) Post(w http.ResponseWriter, r *http.Request) {
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))
	var req struct {
		Force bool `json:"force"`
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		middleware.WriteError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	force = force || req.Force

	res, _, err := h.svc.Post(r.Context(), r.PathValue("id"), force)
	if err != nil {
		h.fail(w, r, err, "Failed to post form")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, res)
}

// PostBulk handles POST /api/forms/post-bulk
func (h *FormsHandler) PostBulk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FormIDs []string         `json:"formIds"`
		Status  model.FormStatus `json:"status"`
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		middleware.WriteError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if req.Status != "" && !req.Status.Valid() {
		middleware.WriteError(w, http.StatusBadRequest, "Unknown status")
		return
	}

	res, err := h.svc.PostBulk(r.Context(), req.FormIDs, req.Status)
	if errors.Is(err, batch.ErrEmptyBatch) {
		middleware.WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":   err.Error(),
			"skipped": res.Skipped,
		})
		return
	}
	if err != nil {
		h.fail(w, r, err, "Failed to post forms")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, res)
}

// Months handles GET /api/forms/meta/months
func (h *FormsHandler) Months(w http.ResponseWriter, _ *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"months":         txdate.Months,
		"transactionDay": txdate.TransactionDay,
	})
}

// Branches handles GET /api/forms/meta/branches
func (h *FormsHandler) Branches(w http.ResponseWriter, _ *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"branches": h.branches.Names(),
	})
}

// Health handles GET /health
func Health(w http.ResponseWriter, _ *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// fail maps service errors to HTTP responses. Unexpected errors are logged
// and reported as message.
func (h *FormsHandler) fail(w http.ResponseWriter, r *http.Request, err error, message string) {
	switch {
	case errors.Is(err, forms.ErrNotFound):
		middleware.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, forms.ErrAlreadyPosted):
		middleware.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, forms.ErrValidation):
		middleware.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"error":  forms.ErrValidation.Error(),
			"fields": forms.FieldErrors(err),
		})
	case errors.Is(err, txdate.ErrInvalidMonth),
		errors.Is(err, batch.ErrNegativeAmount),
		errors.Is(err, batch.ErrUnbalanced),
		errors.Is(err, batch.ErrEmptyBatch):
		middleware.WriteError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		logger.FromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg(message)
		middleware.WriteError(w, http.StatusInternalServerError, message)
	}
}
