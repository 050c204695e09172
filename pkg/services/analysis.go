package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"NeuraFlow/pkg/logger"

	"go.uber.org/zap"
)

// QueryRequest is the body sent to the inference endpoint.
type QueryRequest struct {
	ResumeText     string  `json:"resume_text"`
	JobDescription string  `json:"job_description"`
	PreviousOutput *string `json:"previous_output,omitempty"`
}

type queryResponse struct {
	AIOutput *string `json:"ai_output"`
}

// Requester sends one analysis query and returns the AI output. Every call is
// a fresh request; continuity travels only through PreviousOutput.
type Requester interface {
	Query(ctx context.Context, req QueryRequest) (string, error)
}

// HTTPRequester talks to the AI service over its JSON contract. It does not retry.
type HTTPRequester struct {
	endpoint string
	http     *http.Client
	logger   *zap.Logger
}

func NewHTTPRequester(baseURL string, timeout time.Duration, log *zap.Logger) *HTTPRequester {
	return &HTTPRequester{
		endpoint: strings.TrimRight(baseURL, "/") + "/query",
		http:     &http.Client{Timeout: timeout},
		logger:   logger.OrNop(log),
	}
}

func (r *HTTPRequester) Query(ctx context.Context, q QueryRequest) (string, error) {
	body, err := json.Marshal(q)
	if err != nil {
		return "", &AIServiceError{Err: fmt.Errorf("encode request: %w", err)}
	}

	r.logger.Debug("ai query",
		zap.String("endpoint", r.endpoint),
		zap.Int("resume_length", len(q.ResumeText)),
		zap.Int("job_description_length", len(q.JobDescription)),
		zap.Bool("has_previous_output", q.PreviousOutput != nil),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &AIServiceError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return "", &AIServiceError{Err: fmt.Errorf("http error: %w", err)}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &AIServiceError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read error: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &AIServiceError{StatusCode: resp.StatusCode, Err: errors.New(logger.TruncateForLog(string(respBytes), 300))}
	}

	var parsed queryResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return "", &AIServiceError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if parsed.AIOutput == nil {
		return "", &AIServiceError{StatusCode: resp.StatusCode, Err: errors.New("response has no ai_output")}
	}

	r.logger.Debug("ai response", logger.TextFields("ai_output", *parsed.AIOutput, 120)...)
	return *parsed.AIOutput, nil
}
