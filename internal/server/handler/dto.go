package handler

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"grading_service/internal/domain"
)

type createRubricRequest struct {
	Name string `json:"name" validate:"required"`
	Body string `json:"body" validate:"required"`
}

type rubricResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Body string    `json:"body,omitempty"`
}

type createAssignmentRequest struct {
	Name     string  `json:"name" validate:"required"`
	Rubric   string  `json:"rubric"`
	RubricID *string `json:"rubric_id" validate:"omitempty,uuid"`
	DueDate  string  `json:"due_date"`
}

type finalizeRequest struct {
	FinalGrade string `json:"final_grade" validate:"required"`
}

type createPinRequest struct {
	AssignmentID string          `json:"assignment_id" validate:"required,uuid"`
	PinCode      string          `json:"pin_code" validate:"required"`
	ClassID      json.RawMessage `json:"class_id"`
}

type submissionResponse struct {
	ID           uuid.UUID `json:"id"`
	AssignmentID uuid.UUID `json:"assignment_id"`
	StudentName  string    `json:"student_name"`
	FilePath     string    `json:"file_path"`
	AIFeedback   *string   `json:"ai_feedback"`
	AIGrade      string    `json:"ai_grade"`
	FinalGrade   *string   `json:"final_grade"`
	CreatedAt    string    `json:"created_at"`
}

type assignmentResponse struct {
	ID              uuid.UUID             `json:"id"`
	Name            string                `json:"name"`
	Rubric          *string               `json:"rubric"`
	RubricID        *uuid.UUID            `json:"rubric_id"`
	OwnerEmail      *string               `json:"owner_email,omitempty"`
	DueDate         *string               `json:"due_date"`
	SubmissionCount int                   `json:"submission_count"`
	Submissions     []*submissionResponse `json:"submissions"`
	CreatedAt       string                `json:"created_at"`
}

type pinResponse struct {
	ID           uuid.UUID `json:"id"`
	AssignmentID uuid.UUID `json:"assignment_id"`
	ClassID      *int64    `json:"class_id"`
	PinCode      string    `json:"pin_code"`
}

func toSubmissionResponse(s *domain.Submission) *submissionResponse {
	return &submissionResponse{
		ID:           s.ID,
		AssignmentID: s.AssignmentID,
		StudentName:  s.StudentName,
		FilePath:     s.FilePath,
		AIFeedback:   s.AIFeedback,
		AIGrade:      s.AIGrade,
		FinalGrade:   s.FinalGrade,
		CreatedAt:    formatTime(s.CreatedAt),
	}
}

func toAssignmentResponse(a *domain.AssignmentDetails) *assignmentResponse {
	subs := make([]*submissionResponse, 0, len(a.Submissions))
	for _, s := range a.Submissions {
		subs = append(subs, toSubmissionResponse(s))
	}
	return &assignmentResponse{
		ID:              a.ID,
		Name:            a.Name,
		Rubric:          a.Rubric,
		RubricID:        a.RubricID,
		OwnerEmail:      a.OwnerEmail,
		DueDate:         formatTimePtr(a.DueDate),
		SubmissionCount: len(subs),
		Submissions:     subs,
		CreatedAt:       formatTime(a.CreatedAt),
	}
}

func toPinResponse(p *domain.Pin) *pinResponse {
	return &pinResponse{
		ID:           p.ID,
		AssignmentID: p.AssignmentID,
		ClassID:      p.ClassID,
		PinCode:      p.PinCode,
	}
}

// optionalString reads a nullable JSON string. null becomes "".
func optionalString(raw json.RawMessage, field string) (*string, error) {
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%s must be a string or null: %w", field, ErrBadRequest)
	}
	if s == nil {
		empty := ""
		return &empty, nil
	}
	return s, nil
}

// parseClassID accepts an integer, a numeric string, null or "".
func parseClassID(raw json.RawMessage) (*int64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return &n, nil
		}
	}

	return nil, fmt.Errorf("class_id must be an integer if provided: %w", ErrBadRequest)
}
