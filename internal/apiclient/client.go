// Package apiclient provides a typed HTTP client for the daemon API. The CLI
// uses it for every command so transport concerns stay out of the command
// code.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/api"
)

// ErrUnavailable marks failures to reach the daemon at all, as opposed to
// the daemon answering with an error.
var ErrUnavailable = errors.New("daemon API unavailable")

// APIError carries the daemon's error envelope alongside the HTTP status.
// Credit refusals include the required/available counts.
type APIError struct {
	StatusCode int
	Message    string
	Required   int
	Available  int
}

func (e *APIError) Error() string { return e.Message }

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// IsUnavailable reports whether err indicates the daemon could not be
// reached, typically because it is not running.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}
	var opErr *net.OpError
	return errors.Is(err, ErrUnavailable) || errors.As(err, &opErr)
}

// Client talks to the daemon's HTTP API.
type Client struct {
	base  *url.URL
	http  *http.Client
	token string
}

// New builds a client for the daemon listening on bind. The bind value may
// omit the scheme. An optional bearer token is attached to every request.
func New(bind, token string) (*Client, error) {
	bind = strings.TrimSpace(bind)
	if bind == "" {
		return nil, errors.New("api bind address is required")
	}
	if !strings.Contains(bind, "://") {
		bind = "http://" + bind
	}
	base, err := url.Parse(bind)
	if err != nil {
		return nil, err
	}
	base.Path = ""
	base.RawQuery = ""
	base.Fragment = ""

	return &Client{
		base:  base,
		http:  &http.Client{Timeout: 30 * time.Second},
		token: strings.TrimSpace(token),
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	if c == nil {
		return ErrUnavailable
	}
	endpoint := c.base.ResolveReference(&url.URL{Path: path})
	if query != nil {
		endpoint.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, query, body, contentType, out)
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    strings.ToLower(http.StatusText(resp.StatusCode)),
	}
	var envelope api.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && strings.TrimSpace(envelope.Error) != "" {
		apiErr.Message = envelope.Error
		apiErr.Required = envelope.Required
		apiErr.Available = envelope.Available
	}
	return apiErr
}
