package handler

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"grading_service/internal/service"
	"grading_service/pkg/logger"
)

type AssignmentHandler struct {
	svc          service.AssignmentServiceInterface
	maxFormBytes int64
	log          *logger.Logger
}

func NewAssignmentHandler(svc service.AssignmentServiceInterface, maxFormBytes int64, log *logger.Logger) *AssignmentHandler {
	return &AssignmentHandler{svc: svc, maxFormBytes: maxFormBytes, log: log}
}

func (h *AssignmentHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/assignments", h.ListAssignments)
	r.Get("/assignments/{id}", h.GetAssignment)
	r.With(authMiddleware).Group(func(r chi.Router) {
		r.Post("/assignments", h.CreateAssignment)
		r.Patch("/assignments/{id}", h.UpdateAssignment)
		r.Delete("/assignments/{id}", h.DeleteAssignment)
	})
}

func (h *AssignmentHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.svc.ListAssignments(r.Context())
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	resp := make([]*assignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		resp = append(resp, toAssignmentResponse(a))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AssignmentHandler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathUUID(r, "id")
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	assignment, err := h.svc.GetAssignment(r.Context(), id)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssignmentResponse(assignment))
}

// CreateAssignment accepts JSON, or multipart/form-data carrying an optional
// rubric_file from which the rubric text is extracted.
func (h *AssignmentHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var (
		in  *service.CreateAssignmentInput
		err error
	)
	if isMultipart(r) {
		in, err = h.parseAssignmentForm(r)
	} else {
		in, err = parseAssignmentJSON(r)
	}
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	assignment, err := h.svc.CreateAssignment(r.Context(), in)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": assignment.ID, "name": assignment.Name})
}

func (h *AssignmentHandler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathUUID(r, "id")
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		fail(w, r, h.log, fmt.Errorf("invalid request body: %w", ErrBadRequest))
		return
	}

	in := &service.UpdateAssignmentInput{}
	for key, target := range map[string]**string{
		"name":      &in.Name,
		"rubric":    &in.Rubric,
		"rubric_id": &in.RubricID,
		"due_date":  &in.DueDate,
	} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if *target, err = optionalString(raw, key); err != nil {
			fail(w, r, h.log, err)
			return
		}
	}

	if _, err := h.svc.UpdateAssignment(r.Context(), id, in); err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *AssignmentHandler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathUUID(r, "id")
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	if err := h.svc.DeleteAssignment(r.Context(), id); err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func parseAssignmentJSON(r *http.Request) (*service.CreateAssignmentInput, error) {
	var req createAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	in := &service.CreateAssignmentInput{
		Name:    req.Name,
		Rubric:  req.Rubric,
		DueDate: req.DueDate,
	}
	if req.RubricID != nil && *req.RubricID != "" {
		id := uuid.MustParse(*req.RubricID)
		in.RubricID = &id
	}
	return in, nil
}

func (h *AssignmentHandler) parseAssignmentForm(r *http.Request) (*service.CreateAssignmentInput, error) {
	if err := r.ParseMultipartForm(h.maxFormBytes); err != nil {
		return nil, formError(err)
	}

	in := &service.CreateAssignmentInput{
		Name:    r.FormValue("name"),
		Rubric:  r.FormValue("rubric"),
		DueDate: r.FormValue("due_date"),
	}
	if raw := strings.TrimSpace(r.FormValue("rubric_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("rubric_id must be a UUID: %w", ErrBadRequest)
		}
		in.RubricID = &id
	}

	if headers := r.MultipartForm.File["rubric_file"]; len(headers) > 0 {
		upload, err := readUpload(headers[0])
		if err != nil {
			return nil, err
		}
		in.RubricFile = upload
	}
	return in, nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}
