package contacts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// API defines the remote contact resource operations.
// This interface is implemented by *Client and can be used for testing.
type API interface {
	List(ctx context.Context) ([]Contact, error)
	Get(ctx context.Context, id int64) (Contact, error)
	Create(ctx context.Context, fields Fields) (Contact, error)
	Update(ctx context.Context, contact Contact) (Contact, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Client talks to the contact HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultBaseURL   = "127.0.0.1:5000"
	defaultUserAgent = "rolo/0.1"
	defaultTimeout   = 5 * time.Second
	collectionPath   = "/api/contacts"
)

// NewClient builds a Client for the API rooted at baseURL. A zero timeout
// uses the default of five seconds.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL reports the API root the client talks to.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// List retrieves every contact in server order.
func (c *Client) List(ctx context.Context) ([]Contact, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Contact
	if err := c.do(ctx, http.MethodGet, collectionPath, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Get retrieves a single contact.
func (c *Client) Get(ctx context.Context, id int64) (Contact, error) {
	if c == nil {
		return Contact{}, fmt.Errorf("client is nil")
	}
	var payload Contact
	if err := c.do(ctx, http.MethodGet, itemPath(id), nil, &payload); err != nil {
		return Contact{}, err
	}
	return payload, nil
}

// Create submits fields and returns the stored contact with its new id.
func (c *Client) Create(ctx context.Context, fields Fields) (Contact, error) {
	if c == nil {
		return Contact{}, fmt.Errorf("client is nil")
	}
	var payload Contact
	if err := c.do(ctx, http.MethodPost, collectionPath, fields, &payload); err != nil {
		return Contact{}, err
	}
	return payload, nil
}

// Update sends the whole contact as a PATCH and returns the server's copy.
func (c *Client) Update(ctx context.Context, contact Contact) (Contact, error) {
	if c == nil {
		return Contact{}, fmt.Errorf("client is nil")
	}
	var payload Contact
	if err := c.do(ctx, http.MethodPatch, itemPath(contact.ID), contact, &payload); err != nil {
		return Contact{}, err
	}
	return payload, nil
}

// Delete removes a contact and echoes its id.
func (c *Client) Delete(ctx context.Context, id int64) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("client is nil")
	}
	if err := c.do(ctx, http.MethodDelete, itemPath(id), nil, nil); err != nil {
		return 0, err
	}
	return id, nil
}

func itemPath(id int64) string {
	return collectionPath + "/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s %s returned status %d", method, rel.String(), resp.StatusCode)
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

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
