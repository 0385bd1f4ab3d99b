// Package backend is a typed client for the hospital REST API. The
// portal owns no business logic; every operation here is a thin wrapper
// over one upstream endpoint.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jeevanhealth/portal/internal/config"
	"github.com/jeevanhealth/portal/pkg/circuitbreaker"
	apperrors "github.com/jeevanhealth/portal/pkg/errors"
)

type Client struct {
	baseURL string
	http    *http.Client
	breaker *circuitbreaker.CircuitBreaker
}

func New(cfg config.APIConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout()},
		breaker: circuitbreaker.New(circuitbreaker.Settings{
			Name:        "hospital-api",
			MaxFailures: cfg.MaxFailures,
			Timeout:     30 * time.Second,
		}),
	}
}

// errorBody is the upstream error envelope. Validation failures may
// instead arrive as a flat field->message map, handled in parseError.
type errorBody struct {
	Message string   `json:"message"`
	Error   string   `json:"error"`
	Details []string `json:"details"`
}

// do issues one upstream request. A non-empty token is attached as a
// bearer header; login and register pass an empty token. A nil out
// discards the response body.
func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return apperrors.BadRequest("failed to encode request", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return apperrors.Upstream("", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	var resp *http.Response
	err = c.breaker.Execute(func() error {
		var execErr error
		resp, execErr = c.http.Do(req)
		if execErr != nil {
			return execErr
		}
		// Only 5xx trips the breaker; client errors are the caller's
		// problem, not an upstream outage.
		if resp.StatusCode >= 500 {
			return fmt.Errorf("upstream status %d", resp.StatusCode)
		}
		return nil
	})
	if err != nil && resp == nil {
		if err == circuitbreaker.ErrOpen {
			return apperrors.Unavailable(err)
		}
		log.Warn().Err(err).Str("method", method).Str("path", path).Msg("upstream request failed")
		return apperrors.Unavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Upstream("failed to decode upstream response", err)
	}
	return nil
}

// parseError converts a non-2xx response into an AppError, surfacing
// the server message verbatim when one exists.
func parseError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var envelope errorBody
	if err := json.Unmarshal(raw, &envelope); err == nil {
		msg := envelope.Message
		if msg == "" && len(envelope.Details) > 0 {
			msg = "Validation Error: " + strings.Join(envelope.Details, ", ")
		}
		if msg != "" {
			return apperrors.FromStatus(resp.StatusCode, msg)
		}
	}

	// Validation errors may come back as a field->message map.
	var fields map[string]string
	if err := json.Unmarshal(raw, &fields); err == nil && len(fields) > 0 {
		msgs := make([]string, 0, len(fields))
		for _, v := range fields {
			msgs = append(msgs, v)
		}
		sort.Strings(msgs)
		return apperrors.FromStatus(resp.StatusCode, strings.Join(msgs, "; "))
	}

	return apperrors.FromStatus(resp.StatusCode, "")
}

func (c *Client) get(ctx context.Context, path, token string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, token, query, nil, out)
}

func (c *Client) post(ctx context.Context, path, token string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, token, nil, body, out)
}

func (c *Client) put(ctx context.Context, path, token string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, token, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path, token string) error {
	return c.do(ctx, http.MethodDelete, path, token, nil, nil, nil)
}

// BreakerState exposes the circuit breaker state for readiness checks.
func (c *Client) BreakerState() string {
	return c.breaker.State()
}
