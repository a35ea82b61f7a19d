// Package api is the client for the image service REST backend. Every
// method maps onto one backend endpoint; authenticated calls need a client
// bound to a bearer token with WithToken.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/eringen/gallerydesk/api"

// maxErrorBody caps how much of a failed response body ends up in a StatusError.
const maxErrorBody = 512

// ErrNoToken is returned by authenticated calls on a client without a token.
var ErrNoToken = errors.New("api: no bearer token")

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	tracer  trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets a per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// New creates a client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{},
		tracer:  otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithToken returns a copy of c that authenticates as the given bearer token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// Token returns the bearer token the client sends, if any.
func (c *Client) Token() string {
	return c.token
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResponse, error) {
	var out LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/login", "/login", false, creds, &out)
	return out, err
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, creds Credentials) error {
	return c.doJSON(ctx, http.MethodPost, "/register", "/register", false, creds, nil)
}

// ListImages returns the images visible to the current session, in backend order.
func (c *Client) ListImages(ctx context.Context) ([]ImageRecord, error) {
	var out []ImageRecord
	err := c.doJSON(ctx, http.MethodGet, "/images", "/images", true, nil, &out)
	return out, err
}

// SearchImages runs a free-text search on the backend.
func (c *Client) SearchImages(ctx context.Context, query string) ([]ImageRecord, error) {
	var out []ImageRecord
	path := "/search?" + url.Values{"q": {query}}.Encode()
	err := c.doJSON(ctx, http.MethodGet, "/search", path, true, nil, &out)
	return out, err
}

// ImageBinary downloads the raw content of one image.
func (c *Client) ImageBinary(ctx context.Context, fileID string) (Binary, error) {
	path := "/images/" + url.PathEscape(fileID)
	resp, err := c.send(ctx, http.MethodGet, "/images/{file_id}", path, true, nil)
	if err != nil {
		return Binary{}, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Binary{}, fmt.Errorf("api: read image %s: %w", fileID, err)
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return Binary{Data: data, ContentType: ct}, nil
}

// ImageDetails returns the metadata of one image.
func (c *Client) ImageDetails(ctx context.Context, fileID string) (ImageRecord, error) {
	var out ImageRecord
	path := "/images/" + url.PathEscape(fileID) + "/details"
	err := c.doJSON(ctx, http.MethodGet, "/images/{file_id}/details", path, true, nil, &out)
	return out, err
}

// UpdateImage replaces the title and interpretation of one image.
func (c *Client) UpdateImage(ctx context.Context, fileID string, u ImageUpdate) (ImageRecord, error) {
	var out ImageRecord
	path := "/images/" + url.PathEscape(fileID)
	err := c.doJSON(ctx, http.MethodPut, "/images/{file_id}", path, true, u, &out)
	return out, err
}

// DeleteImage removes one image.
func (c *Client) DeleteImage(ctx context.Context, fileID string) error {
	path := "/images/" + url.PathEscape(fileID)
	return c.doJSON(ctx, http.MethodDelete, "/images/{file_id}", path, true, nil, nil)
}

// AdminImages returns every image together with its uploader email.
func (c *Client) AdminImages(ctx context.Context) ([]ImageRecord, error) {
	var out []ImageRecord
	err := c.doJSON(ctx, http.MethodGet, "/admin/images_with_users", "/admin/images_with_users", true, nil, &out)
	return out, err
}

// AdminUsers returns every registered user.
func (c *Client) AdminUsers(ctx context.Context) ([]UserRecord, error) {
	var out []UserRecord
	err := c.doJSON(ctx, http.MethodGet, "/admin/users", "/admin/users", true, nil, &out)
	return out, err
}

// AdminUpdateImage updates an image record by its record id.
func (c *Client) AdminUpdateImage(ctx context.Context, id string, u AdminImageUpdate) (ImageRecord, error) {
	var out ImageRecord
	path := "/admin/images/" + url.PathEscape(id)
	err := c.doJSON(ctx, http.MethodPut, "/admin/images/{id}", path, true, u, &out)
	return out, err
}

// doJSON sends an optional JSON body and decodes the response into out
// when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, route, path string, auth bool, body, out any) error {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode %s %s: %w", method, route, err)
		}
		payload = bytes.NewReader(b)
	}
	resp, err := c.send(ctx, method, route, path, auth, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", method, route, err)
	}
	return nil
}

// send performs the request inside a client span. Non-2xx responses are
// drained, closed and returned as *StatusError.
func (c *Client) send(ctx context.Context, method, route, path string, auth bool, body io.Reader) (*http.Response, error) {
	if auth && c.token == "" {
		return nil, ErrNoToken
	}

	ctx, span := c.tracer.Start(ctx, method+" "+route,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("http.route", route),
		),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("api: build %s %s: %w", method, route, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json, */*")
	if auth {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("api: %s %s: %w", method, route, err)
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		serr := &StatusError{
			Method: method,
			Path:   route,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(msg)),
		}
		span.SetStatus(codes.Error, serr.Error())
		return nil, serr
	}
	return resp, nil
}
