package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"grading_service/internal/errdefs"
	"grading_service/internal/service"
	"grading_service/pkg/logger"
)

type SubmissionHandler struct {
	ingestion    service.IngestionServiceInterface
	submissions  service.SubmissionServiceInterface
	maxFormBytes int64
	log          *logger.Logger
}

func NewSubmissionHandler(
	ingestion service.IngestionServiceInterface,
	submissions service.SubmissionServiceInterface,
	maxFormBytes int64,
	log *logger.Logger,
) *SubmissionHandler {
	return &SubmissionHandler{
		ingestion:    ingestion,
		submissions:  submissions,
		maxFormBytes: maxFormBytes,
		log:          log,
	}
}

func (h *SubmissionHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Post("/upload_submission", h.UploadSubmission)
	r.Post("/upload_submissions", h.UploadSubmissions)
	r.Get("/submissions/{id}", h.GetSubmission)
	r.With(authMiddleware).Group(func(r chi.Router) {
		r.Post("/submissions/{id}/finalize", h.FinalizeSubmission)
		r.Delete("/submissions/{id}", h.DeleteSubmission)
	})
}

// UploadSubmission handles multipart fields student_name, assignment_id and file.
func (h *SubmissionHandler) UploadSubmission(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxFormBytes); err != nil {
		fail(w, r, h.log, formError(err))
		return
	}

	assignmentID, err := formUUID(r, "assignment_id")
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	var upload *service.Upload
	if headers := r.MultipartForm.File["file"]; len(headers) > 0 {
		if upload, err = readUpload(headers[0]); err != nil {
			fail(w, r, h.log, err)
			return
		}
	}

	id, err := h.ingestion.Ingest(r.Context(), assignmentID, r.FormValue("student_name"), upload)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "message": "uploaded and graded"})
}

// UploadSubmissions handles multipart field assignment_id plus any number of
// files. When the batch stops early the ids created so far are still reported.
func (h *SubmissionHandler) UploadSubmissions(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxFormBytes); err != nil {
		fail(w, r, h.log, formError(err))
		return
	}

	assignmentID, err := formUUID(r, "assignment_id")
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	headers := slices.Concat(r.MultipartForm.File["files"], r.MultipartForm.File["files[]"])
	uploads := make([]*service.Upload, 0, len(headers))
	for _, fh := range headers {
		upload, err := readUpload(fh)
		if err != nil {
			fail(w, r, h.log, err)
			return
		}
		uploads = append(uploads, upload)
	}

	ids, err := h.ingestion.IngestMany(r.Context(), assignmentID, uploads)
	if ids == nil {
		ids = []uuid.UUID{}
	}
	if err != nil {
		statusCode := mapErr(err)
		if len(ids) == 0 {
			fail(w, r, h.log, err)
			return
		}
		h.log.ErrorContext(r.Context(), "bulk upload stopped early",
			zap.Int("created", len(ids)),
			zap.Error(err),
		)
		writeJSON(w, statusCode, map[string]any{
			"error":       errorMessage(err, statusCode),
			"created_ids": ids,
		})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"created_ids": ids})
}

func (h *SubmissionHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathUUID(r, "id")
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	submission, err := h.submissions.GetSubmission(r.Context(), id)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubmissionResponse(submission))
}

func (h *SubmissionHandler) FinalizeSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathUUID(r, "id")
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	var req finalizeRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, r, h.log, err)
		return
	}

	if err := h.submissions.FinalizeSubmission(r.Context(), id, req.FinalGrade); err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *SubmissionHandler) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathUUID(r, "id")
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	if err := h.submissions.DeleteSubmission(r.Context(), id); err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func formUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := strings.TrimSpace(r.FormValue(key))
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%s is required: %w", key, ErrBadRequest)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s must be a UUID: %w", key, ErrBadRequest)
	}
	return id, nil
}

func readUpload(fh *multipart.FileHeader) (*service.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %q: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload %q: %w", fh.Filename, err)
	}
	return &service.Upload{Filename: fh.Filename, Data: data}, nil
}

func formError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return err
	}
	return fmt.Errorf("invalid multipart form: %v: %w", err, errdefs.ErrValidation)
}
