package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grading_service/internal/errdefs"
)

func withChiParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestMapErr(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"BadRequest", ErrBadRequest, http.StatusBadRequest},
		{"Validation", fmt.Errorf("name is required: %w", errdefs.ErrValidation), http.StatusBadRequest},
		{"Unauthenticated", errdefs.ErrUnauthenticated, http.StatusUnauthorized},
		{"PermissionDenied", errdefs.ErrPermissionDenied, http.StatusForbidden},
		{"NotFound", fmt.Errorf("assignment: %w", errdefs.ErrNotFound), http.StatusNotFound},
		{"Conflict", errdefs.ErrConflict, http.StatusConflict},
		{"AlreadyExists", errdefs.ErrAlreadyExists, http.StatusConflict},
		{"TooLarge", fmt.Errorf("read: %w", &http.MaxBytesError{Limit: 10}), http.StatusRequestEntityTooLarge},
		{"UnknownError", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, mapErr(tc.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := fmt.Errorf("pq: connection reset: %w", errors.New("boom"))
	assert.Equal(t, "Internal Server Error", errorMessage(err, http.StatusInternalServerError))

	err = fmt.Errorf("name is required: %w", ErrBadRequest)
	assert.Equal(t, err.Error(), errorMessage(err, http.StatusBadRequest))
}

func TestWriteErrorJSON(t *testing.T) {
	w := httptest.NewRecorder()
	writeErrorJSON(w, http.StatusBadRequest, "test error")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "test error", body["error"])
}

func TestParsePathUUID(t *testing.T) {
	r := withChiParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "not-a-uuid")
	_, err := parsePathUUID(r, "id")
	assert.ErrorIs(t, err, errdefs.ErrValidation)

	r = withChiParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "0190f1c4-3c5e-7c2a-9d1e-8a1b2c3d4e5f")
	id, err := parsePathUUID(r, "id")
	require.NoError(t, err)
	assert.Equal(t, "0190f1c4-3c5e-7c2a-9d1e-8a1b2c3d4e5f", id.String())
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"name":"Essay","body":"Clarity"}`},
		{name: "empty body", body: ``, wantErr: "empty request body"},
		{name: "malformed", body: `{"name":`, wantErr: "invalid request body"},
		{name: "missing field", body: `{"name":"Essay"}`, wantErr: "body is required"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var req createRubricRequest
			err := decodeJSON(r, &req)
			if tc.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "Essay", req.Name)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, errdefs.ErrValidation)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestParseClassID(t *testing.T) {
	tests := []struct {
		raw     string
		want    *int64
		wantErr bool
	}{
		{raw: ``},
		{raw: `null`},
		{raw: `""`},
		{raw: `42`, want: int64Ptr(42)},
		{raw: `" 7 "`, want: int64Ptr(7)},
		{raw: `"abc"`, wantErr: true},
		{raw: `true`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := parseClassID(json.RawMessage(tc.raw))
			if tc.wantErr {
				assert.ErrorIs(t, err, errdefs.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestOptionalString(t *testing.T) {
	got, err := optionalString(json.RawMessage(`null`), "due_date")
	require.NoError(t, err)
	assert.Equal(t, "", *got)

	got, err = optionalString(json.RawMessage(`"2025-05-01"`), "due_date")
	require.NoError(t, err)
	assert.Equal(t, "2025-05-01", *got)

	_, err = optionalString(json.RawMessage(`12`), "due_date")
	assert.ErrorIs(t, err, errdefs.ErrValidation)
}

func TestFormatTime(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	ts := time.Date(2025, 4, 1, 12, 0, 0, 0, loc)
	assert.Equal(t, "2025-04-01T09:00:00Z", formatTime(ts))
	assert.Nil(t, formatTimePtr(nil))
}

func int64Ptr(v int64) *int64 {
	return &v
}

func TestFormError(t *testing.T) {
	tooLarge := &http.MaxBytesError{Limit: 10}
	assert.Equal(t, http.StatusRequestEntityTooLarge, mapErr(formError(tooLarge)))
	assert.Equal(t, http.StatusBadRequest, mapErr(formError(http.ErrNotMultipart)))
}
