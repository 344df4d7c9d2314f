package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"grading_service/internal/server/middleware"
	"grading_service/internal/service"
	"grading_service/pkg/logger"
)

type Services struct {
	Ingestion   service.IngestionServiceInterface
	Submissions service.SubmissionServiceInterface
	Assignments service.AssignmentServiceInterface
	Rubrics     service.RubricServiceInterface
	Pins        service.PinServiceInterface
}

// NewRouter mounts every handler under /api. A nil authorizer leaves the
// professor-only routes open.
func NewRouter(svcs Services, authorizer middleware.Authorizer, maxBodyBytes int64, log *logger.Logger) http.Handler {
	authMiddleware := middleware.NewProfessorMiddleware(authorizer, log)

	r := chi.NewRouter()
	r.Use(middleware.NewLoggingMiddleware(log))
	r.Use(func(next http.Handler) http.Handler {
		return http.MaxBytesHandler(next, maxBodyBytes)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health)
		NewRubricHandler(svcs.Rubrics, log).RegisterRoutes(r, authMiddleware)
		NewAssignmentHandler(svcs.Assignments, maxBodyBytes, log).RegisterRoutes(r, authMiddleware)
		NewSubmissionHandler(svcs.Ingestion, svcs.Submissions, maxBodyBytes, log).RegisterRoutes(r, authMiddleware)
		NewPinHandler(svcs.Pins, log).RegisterRoutes(r, authMiddleware)
	})

	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "time": formatTime(time.Now())})
}
