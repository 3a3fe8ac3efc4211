package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"resumelens/internal/config"
	"resumelens/internal/errors"
	"resumelens/internal/types"
	"resumelens/internal/utils"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client submits analysis requests to the remote analysis service.
// It performs a single attempt per call with no internal retry.
type Client struct {
	httpClient *http.Client
	analyzeURL string
	apiKey     string
	breaker    *AnalysisCircuitBreaker
	logger     *errors.Logger
}

// genericFailure is the fallback message when the error body carries no detail
const genericFailure = "failed to analyze resume"

// errorBody is the optional JSON shape of a non-2xx response
type errorBody struct {
	Detail string `json:"detail"`
}

// New creates an analysis client from configuration.
// A zero API timeout means the client waits indefinitely for the transport
// to settle, matching the service contract.
func New(cfg *config.Config, logger *errors.Logger) *Client {
	httpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   cfg.API.Timeout,
	}

	return &Client{
		httpClient: httpClient,
		analyzeURL: cfg.AnalyzeURL(),
		apiKey:     cfg.API.APIKey,
		breaker:    NewAnalysisCircuitBreaker(&cfg.API.CircuitBreaker, logger),
		logger:     logger,
	}
}

// Analyze submits the resume file and job description as one multipart
// request and returns the decoded analysis result. Failures are classified:
// transport problems as network errors, non-2xx responses as analysis errors
// carrying the server's detail message when available, and undecodable 2xx
// bodies as malformed-response errors.
func (c *Client) Analyze(ctx context.Context, req types.AnalysisRequest) (*types.FullAnalysisResult, error) {
	if len(req.FileData) == 0 || req.FileName == "" {
		return nil, errors.NewValidationError(errors.ErrCodeMissingResume,
			"Resume file is required", nil)
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		return nil, errors.NewValidationError(errors.ErrCodeEmptyJobText,
			"Job description must not be empty", nil)
	}

	result, err := c.breaker.Execute(func() (*types.FullAnalysisResult, error) {
		return c.doAnalyze(ctx, req)
	})
	if err != nil {
		c.logger.Debug("Analysis call failed", "circuit_breaker", c.breaker.GetStats())
	}
	return result, err
}

func (c *Client) doAnalyze(ctx context.Context, req types.AnalysisRequest) (*types.FullAnalysisResult, error) {
	body, contentType, err := buildMultipartBody(req)
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeInvalidRequest,
			"Failed to encode analysis request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.analyzeURL, body)
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeInvalidRequest,
			"Failed to create analysis request", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	if c.apiKey != "" {
		httpReq.Header.Set("X-API-Key", c.apiKey)
	}

	c.logger.Debug("Submitting analysis request",
		"url", c.analyzeURL,
		"file", req.FileName,
		"file_size", utils.FormatFileSize(int64(len(req.FileData))),
		"jd_chars", len(req.JobDescription))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.NewNetworkError(errors.ErrCodeNetworkFailed,
			genericFailure, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("Failed to close response body", "error", err)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewNetworkError(errors.ErrCodeNetworkFailed,
			genericFailure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.errorFromResponse(resp.StatusCode, raw)
	}

	// The body is decoded structurally; numeric ranges and set disjointness
	// are the server's responsibility.
	var result types.FullAnalysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, errors.NewAnalysisError(errors.ErrCodeMalformedResponse,
			"Analysis service returned an unreadable result", err).
			WithContext("status_code", resp.StatusCode)
	}

	return &result, nil
}

// errorFromResponse converts a non-2xx response into an analysis error,
// preferring the detail field of a JSON error body when one parses.
func (c *Client) errorFromResponse(statusCode int, raw []byte) error {
	message := genericFailure
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err == nil && eb.Detail != "" {
		message = eb.Detail
	}

	return errors.NewAnalysisError(errors.ErrCodeAnalysisFailed, message, nil).
		WithContext("status_code", statusCode)
}

// buildMultipartBody encodes the request as the two-part form the analyze
// endpoint expects: the resume as a binary file part and the job description
// as a plain text field.
func buildMultipartBody(req types.AnalysisRequest) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="resume_file"; filename=%q`, req.FileName))
	header.Set("Content-Type", utils.ResumeContentType(req.FileName))

	filePart, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := filePart.Write(req.FileData); err != nil {
		return nil, "", err
	}

	if err := writer.WriteField("jd_text", req.JobDescription); err != nil {
		return nil, "", err
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return buf, writer.FormDataContentType(), nil
}
