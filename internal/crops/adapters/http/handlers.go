package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/agrochain/agrochain/internal/auth/session"
	"github.com/agrochain/agrochain/internal/crops/app"
	"github.com/agrochain/agrochain/internal/crops/ports"
	"github.com/go-chi/chi/v5"
)

// Handler exposes HTTP endpoints for crop listings.
type Handler struct {
	service *app.Service
}

// NewHandler constructs a Handler.
func NewHandler(service *app.Service) *Handler {
	return &Handler{service: service}
}

// Register binds the crop routes. Browsing is public; mutations are gated by
// authMW.
func (h *Handler) Register(r chi.Router, authMW func(http.Handler) http.Handler) {
	r.Route("/api/crops", func(r chi.Router) {
		r.Get("/", h.listAvailable)

		r.Group(func(r chi.Router) {
			r.Use(authMW)
			r.Get("/farmer", h.listMine)
			r.Post("/", h.create)
			r.Patch("/{id}", h.update)
			r.Delete("/{id}", h.delete)
		})
	})
}

func (h *Handler) listAvailable(w http.ResponseWriter, r *http.Request) {
	listings, err := h.service.ListAvailable(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list crops")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"crops": listings})
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing session")
		return
	}

	crops, err := h.service.ListMine(r.Context(), sess.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list crops")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"crops": crops})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing session")
		return
	}

	var input app.CreateCropInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	crop, err := h.service.CreateCrop(r.Context(), sess.UserID, input)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"crop": crop})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing session")
		return
	}

	var input app.UpdateCropInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	crop, err := h.service.UpdateCrop(r.Context(), sess.UserID, chi.URLParam(r, "id"), input)
	if err != nil {
		writeCropError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"crop": crop})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing session")
		return
	}

	if err := h.service.DeleteCrop(r.Context(), sess.UserID, chi.URLParam(r, "id")); err != nil {
		writeCropError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "crop deleted"})
}

func writeCropError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		writeError(w, http.StatusNotFound, "crop not found")
	case errors.Is(err, ports.ErrNotOwner):
		writeError(w, http.StatusForbidden, "not authorized")
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
