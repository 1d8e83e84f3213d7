package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"user-management-api/internal/model"
	"user-management-api/internal/service"
	"user-management-api/pkg/apierror"
)

type GuestHandler struct {
	service *service.GuestService
}

func NewGuestHandler(service *service.GuestService) *GuestHandler {
	return &GuestHandler{service: service}
}

func (h *GuestHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.GuestCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	guest, err := h.service.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, guest, nil)
}

func (h *GuestHandler) Get(w http.ResponseWriter, r *http.Request) {
	guest, err := h.service.Get(r.Context(), chi.URLParam(r, "guest_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, guest, nil)
}

func (h *GuestHandler) List(w http.ResponseWriter, r *http.Request) {
	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 10)

	guests, total, err := h.service.List(r.Context(), skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, guests, &model.Meta{Skip: skip, Limit: limit, Total: total})
}

func (h *GuestHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.GuestUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	guest, err := h.service.Update(r.Context(), chi.URLParam(r, "guest_id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, guest, nil)
}

func (h *GuestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "guest_id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}
