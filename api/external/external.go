/* external.go
 * Contains the Client used to talk to the festival REST API (auth, events, registrations). Every call sends and
 * receives JSON; authenticated calls attach the session bearer token. Outbound calls are throttled by a rate limiter
 * Authors: AIRO Web Team
 */

package external

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
	Limiter *rate.Limiter
}

// NewClient creates a client for the API rooted at baseURL.
// Preconditions: Receives the base URL and the number of requests per second allowed (<= 0 disables throttling)
// Postconditions: Returns a pointer to the Client
func NewClient(baseURL string, perSecond float64) *Client {
	var limiter *rate.Limiter
	if perSecond > 0 {
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{},
		Limiter: limiter,
	}
}

// request describes a single call. Authenticated calls always send the header, even with an empty token,
// as the backend is the source of truth for auth failures
type request struct {
	Method        string
	Path          string
	Token         string
	Authenticated bool
	Body          any
}

// do sends the request and decodes a 2xx body into out (when out is not nil).
// Preconditions: Receives a context, the request description and an optional pointer to decode into
// Postconditions: Returns nil, an *APIError for non 2xx responses, or an error wrapping ErrNetwork
func (c *Client) do(ctx context.Context, req request, out any) error {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limiter: %v", ErrNetwork, err)
		}
	}

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.BaseURL+req.Path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Accept-Encoding", "gzip")
	if req.Authenticated {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}

	response, err := c.HTTP.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrNetwork, req.Method, req.Path, err)
	}
	defer response.Body.Close()

	raw, err := readBody(response)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %v", ErrNetwork, err)
	}

	// Check for a 2xx response, otherwise pull whatever the server told us out of the body
	if response.StatusCode < 200 || response.StatusCode > 299 {
		apiErr := &APIError{Status: response.StatusCode}
		var eb errorBody
		if len(bytes.TrimSpace(raw)) > 0 && json.Unmarshal(raw, &eb) == nil {
			apiErr.Message = eb.Message
			if apiErr.Message == "" {
				apiErr.Message = eb.Error
			}
			apiErr.RequiresConfirmation = eb.RequiresConfirmation
			apiErr.RegistrationCount = eb.RegistrationCount
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: error parsing JSON: %v", ErrNetwork, err)
	}
	return nil
}

// readBody returns the response body, un-gzipping it when the server compressed it
func readBody(response *http.Response) ([]byte, error) {
	if response.Header.Get("Content-Encoding") == "gzip" {
		reader, err := gzip.NewReader(response.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer reader.Close()
		return io.ReadAll(reader)
	}
	return io.ReadAll(response.Body)
}
