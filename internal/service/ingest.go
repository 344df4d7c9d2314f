package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"grading_service/internal/domain"
	"grading_service/internal/errdefs"
	"grading_service/internal/filename"
	"grading_service/internal/storage"
	"grading_service/pkg/logger"
)

// DefaultPublishTimeout bounds a graded-event send when IngestionDeps sets no
// PublishTimeout.
const DefaultPublishTimeout = 2 * time.Second

// Upload is one file received from the caller.
type Upload struct {
	Filename string
	Data     []byte
}

type IngestionServiceInterface interface {
	Ingest(ctx context.Context, assignmentID uuid.UUID, studentName string, file *Upload) (uuid.UUID, error)
	IngestMany(ctx context.Context, assignmentID uuid.UUID, files []*Upload) ([]uuid.UUID, error)
}

type IngestionDeps struct {
	Assignments    AssignmentRepository
	Rubrics        RubricRepository
	Submissions    SubmissionRepository
	Files          storage.Storage
	Extractor      TextExtractor
	Grader         Grader
	Events         EventPublisher
	EventsTopic    string
	PublishTimeout time.Duration
	Logger         *logger.Logger
}

type ingestionService struct {
	assignments    AssignmentRepository
	rubrics        RubricRepository
	submissions    SubmissionRepository
	files          storage.Storage
	extractor      TextExtractor
	grader         Grader
	events         EventPublisher
	eventsTopic    string
	publishTimeout time.Duration
	log            *logger.Logger
}

func NewIngestionService(deps IngestionDeps) IngestionServiceInterface {
	log := deps.Logger
	if log == nil {
		log = logger.NewNop()
	}
	publishTimeout := deps.PublishTimeout
	if publishTimeout <= 0 {
		publishTimeout = DefaultPublishTimeout
	}
	return &ingestionService{
		assignments:    deps.Assignments,
		rubrics:        deps.Rubrics,
		submissions:    deps.Submissions,
		files:          deps.Files,
		extractor:      deps.Extractor,
		grader:         deps.Grader,
		events:         deps.Events,
		eventsTopic:    deps.EventsTopic,
		publishTimeout: publishTimeout,
		log:            log,
	}
}

// Ingest stores, extracts, grades and records a single uploaded file.
func (s *ingestionService) Ingest(ctx context.Context, assignmentID uuid.UUID, studentName string, file *Upload) (uuid.UUID, error) {
	studentName = strings.TrimSpace(studentName)
	if studentName == "" || assignmentID == uuid.Nil || file == nil || file.Filename == "" {
		return uuid.Nil, fmt.Errorf("student_name, assignment_id and file are required: %w", errdefs.ErrValidation)
	}
	if !domain.FormatOf(file.Filename).IsValid() {
		return uuid.Nil, fmt.Errorf("invalid file type, allowed: txt, pdf, docx: %w", errdefs.ErrValidation)
	}

	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return uuid.Nil, err
	}

	rubric, err := s.effectiveRubric(ctx, assignment)
	if err != nil {
		return uuid.Nil, err
	}

	return s.ingestFile(ctx, assignment.ID, rubric, studentName, file)
}

// IngestMany ingests every supported file in order, taking student names from
// the filenames. Files with other extensions are skipped. Each submission is
// committed on its own, so when a file fails to store the ids created so far
// are returned together with the error.
func (s *ingestionService) IngestMany(ctx context.Context, assignmentID uuid.UUID, files []*Upload) ([]uuid.UUID, error) {
	if assignmentID == uuid.Nil {
		return nil, fmt.Errorf("assignment_id is required: %w", errdefs.ErrValidation)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("files[] are required: %w", errdefs.ErrValidation)
	}

	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	rubric, err := s.effectiveRubric(ctx, assignment)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(files))
	for i, file := range files {
		if file == nil || !domain.FormatOf(file.Filename).IsValid() {
			s.log.DebugContext(ctx, "skipping unsupported upload", zap.Int("index", i))
			continue
		}

		_, studentName := filename.Parse(file.Filename)
		if studentName == "" {
			studentName = domain.UnknownStudent
		}

		id, err := s.ingestFile(ctx, assignment.ID, rubric, studentName, file)
		if err != nil {
			return ids, fmt.Errorf("upload %d (%s): %w", i, file.Filename, err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// effectiveRubric prefers inline rubric text over the referenced rubric and
// falls back to a placeholder when neither yields text.
func (s *ingestionService) effectiveRubric(ctx context.Context, assignment *domain.Assignment) (string, error) {
	if assignment.Rubric != nil && *assignment.Rubric != "" {
		return *assignment.Rubric, nil
	}

	if assignment.RubricID != nil {
		rubric, err := s.rubrics.GetByID(ctx, *assignment.RubricID)
		switch {
		case err == nil && rubric.Body != "":
			return rubric.Body, nil
		case err == nil, errors.Is(err, errdefs.ErrNotFound):
			s.log.WarnContext(ctx, "referenced rubric unavailable, using placeholder",
				zap.String("assignment_id", assignment.ID.String()),
				zap.String("rubric_id", assignment.RubricID.String()),
			)
		default:
			return "", err
		}
	}

	return domain.NoRubricPlaceholder, nil
}

func (s *ingestionService) ingestFile(ctx context.Context, assignmentID uuid.UUID, rubric, studentName string, file *Upload) (uuid.UUID, error) {
	format := domain.FormatOf(file.Filename)

	name := storage.SafeName(file.Filename)
	if name == "" {
		name = uuid.NewString() + "." + string(format)
	}

	location, err := s.files.Save(ctx, name, file.Data)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to store upload: %w", err)
	}

	text := s.extractText(ctx, location, format)

	outcome := s.grader.Grade(ctx, text, rubric)
	if outcome.Reason != "" {
		s.log.WarnContext(ctx, "grading degraded",
			zap.String("file", location),
			zap.String("reason", string(outcome.Reason)),
			zap.Error(outcome.Err),
		)
	}
	grade := outcome.Grade
	if grade == "" {
		grade = domain.GradePending
	}
	feedback := outcome.Feedback

	submission := &domain.Submission{
		AssignmentID: assignmentID,
		StudentName:  studentName,
		FilePath:     location,
		AIFeedback:   &feedback,
		AIGrade:      grade,
	}
	if err := s.submissions.Create(ctx, submission); err != nil {
		return uuid.Nil, err
	}

	s.publishGraded(ctx, submission)

	return submission.ID, nil
}

func (s *ingestionService) extractText(ctx context.Context, location string, format domain.FileFormat) string {
	data, err := s.files.Read(ctx, location)
	if err != nil {
		s.log.WarnContext(ctx, "extraction degraded",
			zap.String("file", location),
			zap.String("reason", "read_failed"),
			zap.Error(err),
		)
		return ""
	}

	result := s.extractor.Extract(data, format)
	if result.Degraded() {
		s.log.WarnContext(ctx, "extraction degraded",
			zap.String("file", location),
			zap.String("format", string(format)),
			zap.Error(result.Err),
		)
	}
	return result.Text
}

func (s *ingestionService) publishGraded(ctx context.Context, submission *domain.Submission) {
	if s.events == nil {
		return
	}

	event := SubmissionGradedEvent{
		Type:         EventSubmissionGraded,
		SubmissionID: submission.ID,
		AssignmentID: submission.AssignmentID,
		StudentName:  submission.StudentName,
		AIGrade:      submission.AIGrade,
		Pending:      submission.IsPending(),
		OccurredAt:   time.Now().UTC(),
	}
	sendCtx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()
	if err := s.events.Send(sendCtx, s.eventsTopic, submission.AssignmentID.String(), event); err != nil {
		s.log.ErrorContext(ctx, "failed to publish submission event",
			zap.String("submission_id", submission.ID.String()),
			zap.Error(err),
		)
	}
}
