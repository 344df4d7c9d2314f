package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"grading_service/internal/service"
	"grading_service/pkg/logger"
)

type PinHandler struct {
	svc service.PinServiceInterface
	log *logger.Logger
}

func NewPinHandler(svc service.PinServiceInterface, log *logger.Logger) *PinHandler {
	return &PinHandler{svc: svc, log: log}
}

func (h *PinHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/pins/{code}", h.GetPin)
	r.With(authMiddleware).Post("/pins", h.CreatePin)
}

func (h *PinHandler) CreatePin(w http.ResponseWriter, r *http.Request) {
	var req createPinRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, r, h.log, err)
		return
	}

	classID, err := parseClassID(req.ClassID)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	pin, err := h.svc.CreatePin(r.Context(), uuid.MustParse(req.AssignmentID), req.PinCode, classID)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPinResponse(pin))
}

func (h *PinHandler) GetPin(w http.ResponseWriter, r *http.Request) {
	pin, err := h.svc.GetPin(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toPinResponse(pin))
}
