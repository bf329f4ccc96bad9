package gridbase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// rawResponse is the terminal transport outcome handed to interpretation.
type rawResponse struct {
	status int
	header http.Header
	body   []byte
}

// requestJSON performs one logical API call: compose headers, attempt the
// transport call with retry/backoff until the response is terminal, then
// interpret the final response into T or a typed *APIError.
func requestJSON[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any, headers http.Header) (T, error) {
	var zero T
	raw, err := c.do(ctx, method, path, query, body, headers)
	if err != nil {
		return zero, err
	}
	return interpret[T](raw)
}

// do runs the retry loop. Headers are composed once and are attempt-invariant.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, headers http.Header) (*rawResponse, error) {
	requestURL := c.endpointURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var bodyData []byte
	if body != nil {
		var err error
		bodyData, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("gridbase: marshal request body: %w", err)
		}
	}

	composed := c.composeHeaders(method, headers)

	for attempt := 0; ; attempt++ {
		raw, err := c.attempt(ctx, method, requestURL, bodyData, composed)
		if err != nil {
			return nil, err
		}

		if !c.retry.shouldRetry(attempt, raw.status) {
			return raw, nil
		}

		delay := c.retry.backoff(attempt, raw.header.Get("Retry-After"), c.jitter)
		c.logger.Debug().
			Int("status", raw.status).
			Int("attempt", attempt).
			Dur("delay", delay).
			Str("url", requestURL).
			Msg("retrying request")
		if err := sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}

// attempt performs exactly one transport call and drains the response.
func (c *Client) attempt(ctx context.Context, method, requestURL string, body []byte, headers http.Header) (*rawResponse, error) {
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("gridbase: create request: %w", err)
	}
	req.Header = headers.Clone()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gridbase: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gridbase: read response: %w", err)
	}

	return &rawResponse{status: resp.StatusCode, header: resp.Header, body: respBody}, nil
}

// composeHeaders layers authorization, the optional API-version header,
// global custom headers, then per-call headers; later layers override earlier
// ones key-by-key. A default content type is added last, only for methods
// that carry a body and only when no prior layer set one.
func (c *Client) composeHeaders(method string, perCall http.Header) http.Header {
	h := make(http.Header)
	h.Set("Authorization", "Bearer "+c.apiKey)
	if c.apiVersion != "" {
		h.Set("X-API-Version", c.apiVersion)
	}
	overlay(h, c.headers)
	overlay(h, perCall)
	if method != http.MethodGet && method != http.MethodHead && h.Get("Content-Type") == "" {
		h.Set("Content-Type", "application/json")
	}
	return h
}

func overlay(dst, src http.Header) {
	for key, values := range src {
		dst[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}
}

// sleep suspends for the backoff delay, honoring context cancellation.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// interpret decides the final outcome of a terminal response:
//
//   - 204 resolves with the zero value
//   - any 2xx with a JSON content type and non-empty body is decoded into T
//   - any other 2xx resolves with the raw text body
//   - any non-2xx raises a typed *APIError
func interpret[T any](raw *rawResponse) (T, error) {
	var out T

	contentType := raw.header.Get("Content-Type")

	if raw.status < 200 || raw.status > 299 {
		return out, newAPIError(raw.status, raw.body, contentType)
	}

	if raw.status == http.StatusNoContent || len(raw.body) == 0 {
		return out, nil
	}

	if isJSONContentType(contentType) {
		if err := json.Unmarshal(raw.body, &out); err != nil {
			return out, fmt.Errorf("gridbase: decode response: %w", err)
		}
		return out, nil
	}

	switch p := any(&out).(type) {
	case *string:
		*p = string(raw.body)
	case *[]byte:
		*p = append([]byte(nil), raw.body...)
	case *json.RawMessage:
		*p = append(json.RawMessage(nil), raw.body...)
	default:
		// Typed callers of a non-JSON payload still get a best-effort decode.
		if err := json.Unmarshal(raw.body, &out); err != nil {
			return out, fmt.Errorf("gridbase: unexpected %q response: %w", contentType, err)
		}
	}
	return out, nil
}
