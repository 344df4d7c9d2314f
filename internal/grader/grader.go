// Package grader asks a language model to grade a submission against a rubric.
//
// Grade never returns an error: every failure degrades to a Pending grade with
// a diagnostic feedback string, so an outage of the model provider cannot fail
// a submission upload.
package grader

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"

	"grading_service/internal/domain"
	"grading_service/pkg/retry"
)

// DiagnosticPrefix starts the feedback of every degraded outcome.
const DiagnosticPrefix = "[AI error or parse issue]"

const (
	DefaultModel    = "gpt-4o-mini"
	DefaultMaxChars = 12000
	DefaultTimeout  = 60 * time.Second
)

type FailureReason string

const (
	ReasonNone              FailureReason = ""
	ReasonMissingCredential FailureReason = "missing_credential"
	ReasonRequestFailed     FailureReason = "request_failed"
	ReasonMalformedResponse FailureReason = "malformed_response"
	ReasonNoGrade           FailureReason = "no_grade"
	ReasonInvalidGrade      FailureReason = "invalid_grade"
)

// Outcome is the result of one grading attempt. Grade is either a decimal
// string in 0..100 or domain.GradePending; Reason is empty only when graded.
type Outcome struct {
	Feedback string
	Grade    string
	Reason   FailureReason
	Err      error
}

func (o Outcome) Pending() bool {
	return o.Grade == domain.GradePending
}

type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	MaxChars    int
	MaxAttempts int
	RetryDelay  time.Duration
}

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Client struct {
	api chatCompleter
	cfg Config
}

func New(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = DefaultMaxChars
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	c := &Client{cfg: cfg}
	if cfg.APIKey != "" {
		apiCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			apiCfg.BaseURL = cfg.BaseURL
		}
		apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
		c.api = openai.NewClientWithConfig(apiCfg)
	}
	return c
}

// Grade sends the (possibly truncated) submission and the rubric to the model
// and parses its structured answer.
func (c *Client) Grade(ctx context.Context, submissionText, rubricText string) (out Outcome) {
	if c.api == nil {
		return degraded(ReasonMissingCredential, errors.New("Missing OPENAI_API_KEY"))
	}

	defer func() {
		if r := recover(); r != nil {
			out = degraded(ReasonRequestFailed, fmt.Errorf("panic: %v", r))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(rubricText, truncate(submissionText, c.cfg.MaxChars))},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.2,
	}

	policy := retry.Policy{
		MaxAttempts: c.cfg.MaxAttempts,
		BaseDelay:   c.cfg.RetryDelay,
		Retriable:   isRetriable,
	}
	resp, err := retry.Do(ctx, policy, func(ctx context.Context) (openai.ChatCompletionResponse, error) {
		return c.api.CreateChatCompletion(ctx, req)
	})
	if err != nil {
		return degraded(ReasonRequestFailed, err)
	}
	if len(resp.Choices) == 0 {
		return degraded(ReasonMalformedResponse, errors.New("response has no choices"))
	}

	return parseResponse(resp.Choices[0].Message.Content)
}

func degraded(reason FailureReason, err error) Outcome {
	return Outcome{
		Feedback: fmt.Sprintf("%s %v", DiagnosticPrefix, err),
		Grade:    domain.GradePending,
		Reason:   reason,
		Err:      err,
	}
}

// truncate keeps the first max characters (runes, not bytes) of s.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

// isRetriable accepts rate limiting (except exhausted quota), provider 5xx
// and transport failures.
func isRetriable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return apiErr.Code != "insufficient_quota"
		}
		return apiErr.HTTPStatusCode >= http.StatusInternalServerError
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == 0 || reqErr.HTTPStatusCode >= http.StatusInternalServerError
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
