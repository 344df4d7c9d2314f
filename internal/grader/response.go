package grader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"grading_service/internal/domain"
)

// gradingResponse is the JSON object the model is asked to return. Grade stays
// raw because models answer with numbers, numeric strings, null or "none".
type gradingResponse struct {
	Feedback *string         `json:"feedback"`
	Grade    json.RawMessage `json:"grade"`
}

var (
	errNoGrade      = errors.New("grade missing")
	errInvalidGrade = errors.New("grade is not a number between 0 and 100")
)

func parseResponse(content string) Outcome {
	var resp gradingResponse
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		return degraded(ReasonMalformedResponse, fmt.Errorf("decode model response: %w", err))
	}
	if resp.Feedback == nil {
		return degraded(ReasonMalformedResponse, errors.New("model response has no feedback"))
	}
	feedback := strings.TrimSpace(*resp.Feedback)

	grade, err := parseGrade(resp.Grade)
	switch {
	case errors.Is(err, errNoGrade):
		return Outcome{Feedback: feedback, Grade: domain.GradePending, Reason: ReasonNoGrade, Err: err}
	case err != nil:
		return degraded(ReasonInvalidGrade, err)
	}

	return Outcome{Feedback: feedback, Grade: grade}
}

// parseGrade accepts a JSON number or numeric string in 0..100. Fractional
// grades are rounded to the nearest integer.
func parseGrade(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", errNoGrade
	}

	var value float64
	if err := json.Unmarshal(raw, &value); err != nil {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return "", fmt.Errorf("%w: %s", errInvalidGrade, raw)
		}
		text = strings.TrimSpace(text)
		if text == "" || strings.EqualFold(text, "none") {
			return "", errNoGrade
		}
		value, err = strconv.ParseFloat(text, 64)
		if err != nil {
			return "", fmt.Errorf("%w: %q", errInvalidGrade, text)
		}
	}

	if math.IsNaN(value) || value < 0 || value > 100 {
		return "", fmt.Errorf("%w: %v", errInvalidGrade, value)
	}
	return strconv.Itoa(int(math.Round(value))), nil
}
