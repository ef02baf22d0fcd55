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
	"strconv"
	"strings"
	"time"
)

// TokenSource supplies the bearer credential attached to every request and is
// asked to clear itself when the server rejects that credential. Implemented
// by session.Store.
type TokenSource interface {
	Get() (string, bool)
	Clear()
}

// Service defines the interface for the inventory API operations.
// This interface is implemented by *Client and can be used for testing.
type Service interface {
	FetchAdvice(ctx context.Context) (string, error)
	ListProducts(ctx context.Context) ([]Product, error)
	CreateProduct(ctx context.Context, name string, quantity int) (Product, error)
	UpdateProduct(ctx context.Context, internalID int64, patch Patch) (Product, error)
	DeleteProduct(ctx context.Context, internalID int64) error
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// Client talks to the inventory HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	tokens    TokenSource
	userAgent string
}

const (
	defaultUserAgent = "almacen/0.1"
	requestTimeout   = 15 * time.Second
)

// NewClient builds a Client for the given server base URL.
func NewClient(serverURL string, tokens TokenSource) (*Client, error) {
	base, err := parseBaseURL(serverURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		tokens:    tokens,
		userAgent: defaultUserAgent,
	}, nil
}

// FetchAdvice retrieves the inventory analysis text. An empty string means
// the server had no advice to offer. Quota exhaustion maps to ErrRateLimited.
func (c *Client) FetchAdvice(ctx context.Context) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	var payload adviceResponse
	if err := c.do(ctx, http.MethodGet, "/analizar_inventario", nil, &payload); err != nil {
		return "", err
	}
	return strings.TrimSpace(payload.Advice), nil
}

// ListProducts retrieves the full current product list.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Product
	if err := c.do(ctx, http.MethodGet, "/productos", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// CreateProduct creates a product and returns the server-assigned record.
// Business validation (non-empty name, quantity >= 0) is the caller's job;
// this layer only translates to the wire's canonical field names.
func (c *Client) CreateProduct(ctx context.Context, name string, quantity int) (Product, error) {
	if c == nil {
		return Product{}, fmt.Errorf("client is nil")
	}
	var payload Product
	body := createRequest{Name: name, Quantity: quantity}
	if err := c.do(ctx, http.MethodPost, "/productos", body, &payload); err != nil {
		return Product{}, err
	}
	return payload, nil
}

// UpdateProduct applies a partial update to the product with the given
// authoritative identifier. Only fields set on the patch are transmitted.
func (c *Client) UpdateProduct(ctx context.Context, internalID int64, patch Patch) (Product, error) {
	if c == nil {
		return Product{}, fmt.Errorf("client is nil")
	}
	if patch.Name == nil && patch.Quantity == nil {
		return Product{}, fmt.Errorf("update product %d: empty patch", internalID)
	}
	var payload Product
	body := updateRequest{Name: patch.Name, Quantity: patch.Quantity}
	path := "/productos/" + strconv.FormatInt(internalID, 10)
	if err := c.do(ctx, http.MethodPut, path, body, &payload); err != nil {
		return Product{}, err
	}
	return payload, nil
}

// DeleteProduct removes the product with the given authoritative identifier.
// A NotFound response means the product is already absent and is treated as
// success, making deletion idempotent from the caller's perspective.
func (c *Client) DeleteProduct(ctx context.Context, internalID int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	path := "/productos/" + strconv.FormatInt(internalID, 10)
	err := c.do(ctx, http.MethodDelete, path, nil, nil)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	// Appending keeps any path prefix on the configured server URL; the base
	// path is trailing-slash-trimmed and path always starts with "/".
	reqURL := *c.baseURL
	reqURL.Path += path

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token, ok := c.tokens.Get(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		// The sole trigger for automatic session teardown. Clearing the slot
		// broadcasts the invalidation before the caller sees the error.
		if c.tokens != nil {
			c.tokens.Clear()
		}
		return fmt.Errorf("api %s: %w", path, ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("api %s: %w", path, ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("api %s: %w", path, ErrRateLimited)
	case resp.StatusCode >= 400:
		return &StatusError{Code: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readDetail extracts the server's {"detail": ...} message when present.
func readDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var payload detailResponse
	if err := json.Unmarshal(data, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return strings.TrimSpace(string(data))
}

func parseBaseURL(serverURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(serverURL)
	if trimmed == "" {
		return nil, fmt.Errorf("server url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server url %q: %w", serverURL, err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
