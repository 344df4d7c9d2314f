package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"grading_service/internal/service"
	"grading_service/pkg/logger"
)

type RubricHandler struct {
	svc service.RubricServiceInterface
	log *logger.Logger
}

func NewRubricHandler(svc service.RubricServiceInterface, log *logger.Logger) *RubricHandler {
	return &RubricHandler{svc: svc, log: log}
}

func (h *RubricHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/rubrics", h.ListRubrics)
	r.With(authMiddleware).Group(func(r chi.Router) {
		r.Post("/rubrics", h.CreateRubric)
		r.Delete("/rubrics/{id}", h.DeleteRubric)
	})
}

func (h *RubricHandler) ListRubrics(w http.ResponseWriter, r *http.Request) {
	rubrics, err := h.svc.ListRubrics(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := make([]rubricResponse, 0, len(rubrics))
	for _, rb := range rubrics {
		resp = append(resp, rubricResponse{ID: rb.ID, Name: rb.Name, Body: rb.Body})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *RubricHandler) CreateRubric(w http.ResponseWriter, r *http.Request) {
	var req createRubricRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	rubric, err := h.svc.CreateRubric(r.Context(), req.Name, req.Body)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rubricResponse{ID: rubric.ID, Name: rubric.Name})
}

func (h *RubricHandler) DeleteRubric(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathUUID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.svc.DeleteRubric(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *RubricHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	fail(w, r, h.log, err)
}

func fail(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	statusCode := mapErr(err)
	if statusCode >= http.StatusInternalServerError {
		log.ErrorContext(r.Context(), "request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	writeErrorJSON(w, statusCode, errorMessage(err, statusCode))
}
