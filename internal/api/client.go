package api

import (
	"context"
	"fmt"
	"mime"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/crowdguardian/sentinel/internal/config"
	"github.com/crowdguardian/sentinel/internal/logger"
)

// serverError is the flat error body returned by the analyzer service.
type serverError struct {
	Error string `json:"error"`
}

// RequestError carries the server-supplied message for a non-2xx response.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to the Sentinel analysis and analytics endpoints.
type Client struct {
	http *resty.Client
	log  logger.Logger
}

// NewClient creates an API client from the client configuration.
func NewClient(cfg *config.ClientConfig, log logger.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.RequestTimeout).
		SetRetryCount(cfg.RetryCount)

	return &Client{
		http: httpClient,
		log:  log.WithField("component", "api_client"),
	}
}

// Analyze uploads the media file at path as a multipart request and returns
// the analysis result. Non-2xx responses are converted into a RequestError
// carrying the server's message, with a generic fallback when the body is
// not parseable or has no message field.
func (c *Client) Analyze(ctx context.Context, path string) (*AnalysisResult, error) {
	var result AnalysisResult
	var srvErr serverError

	resp, err := c.http.R().
		SetContext(ctx).
		SetFile("file", path).
		SetResult(&result).
		SetError(&srvErr).
		Post("/api/analyze")
	if err != nil {
		return nil, fmt.Errorf("analyze request failed: %w", err)
	}

	if resp.IsError() {
		msg := srvErr.Error
		if msg == "" {
			msg = "Analysis failed"
		}
		return nil, &RequestError{StatusCode: resp.StatusCode(), Message: msg}
	}

	return &result, nil
}

// Analytics fetches the aggregate historical snapshot.
func (c *Client) Analytics(ctx context.Context) (*AnalyticsSnapshot, error) {
	var snapshot AnalyticsSnapshot
	var srvErr serverError

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&snapshot).
		SetError(&srvErr).
		Get("/api/analytics")
	if err != nil {
		return nil, fmt.Errorf("analytics request failed: %w", err)
	}

	if resp.IsError() {
		msg := srvErr.Error
		if msg == "" {
			msg = "Analytics fetch failed"
		}
		return nil, &RequestError{StatusCode: resp.StatusCode(), Message: msg}
	}

	return &snapshot, nil
}

// DownloadReport fetches the generated crowd report in the requested format
// (csv or xlsx) and returns the raw bytes together with the file name from
// the Content-Disposition header.
func (c *Client) DownloadReport(ctx context.Context, format string) ([]byte, string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("format", format).
		Get("/api/reports/download")
	if err != nil {
		return nil, "", fmt.Errorf("report request failed: %w", err)
	}

	if resp.IsError() {
		return nil, "", &RequestError{StatusCode: resp.StatusCode(), Message: "Report download failed"}
	}

	filename := "crowd_report." + format
	if cd := resp.Header().Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := strings.TrimSpace(params["filename"]); name != "" {
				filename = name
			}
		}
	}

	return resp.Body(), filename, nil
}
