package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/UnknownOlympus/athena/internal/models"
)

// StatusSuccess is the envelope status the API reports for a successful call.
const StatusSuccess = "success"

var (
	ErrUnexpectedStatus = errors.New("unexpected response status code")
	ErrUnsuccessful     = errors.New("api reported unsuccessful status")
	ErrMissingID        = errors.New("employee id is required")
)

const (
	endpointListEmployees  = "list_employees"
	endpointListDivisions  = "list_divisions"
	endpointCreateEmployee = "create_employee"
	endpointUpdateEmployee = "update_employee"
	endpointDeleteEmployee = "delete_employee"
)

// envelope is the common shape of every API response: {status, message, data}.
type envelope[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type request struct {
	endpoint    string
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

// call performs req and decodes the envelope. Any transport error, non-2xx status
// or envelope status other than "success" is returned as an error.
func call[T any](ctx context.Context, c *Client, req request) (T, error) {
	var zero T

	startTime := time.Now()
	defer func() {
		c.metrics.APIRequestDuration.WithLabelValues(req.endpoint).Observe(time.Since(startTime).Seconds())
	}()

	destURL := c.baseURL + req.path
	if len(req.query) > 0 {
		destURL += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, destURL, req.body)
	if err != nil {
		c.metrics.APIRequests.WithLabelValues(req.endpoint, "error").Inc()
		return zero, fmt.Errorf("failed to create new request %s: %w", destURL, err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", models.UserAgent)
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.metrics.APIRequests.WithLabelValues(req.endpoint, "error").Inc()
		return zero, fmt.Errorf("failed to request %s: %w", destURL, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.APIRequests.WithLabelValues(req.endpoint, "error").Inc()
		return zero, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.metrics.APIRequests.WithLabelValues(req.endpoint, "failure").Inc()
		return zero, fmt.Errorf("%w, received status code: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var env envelope[T]
	if err = json.Unmarshal(raw, &env); err != nil {
		c.metrics.APIRequests.WithLabelValues(req.endpoint, "error").Inc()
		return zero, fmt.Errorf("failed to decode response body: %w", err)
	}

	if env.Status != StatusSuccess {
		c.metrics.APIRequests.WithLabelValues(req.endpoint, "failure").Inc()
		return zero, fmt.Errorf("%w: status %q: %s", ErrUnsuccessful, env.Status, env.Message)
	}

	c.metrics.APIRequests.WithLabelValues(req.endpoint, "success").Inc()

	return env.Data, nil
}
