// Package ngsi is a minimal NGSIv2 context broker client. It only covers
// the two operations the validator needs to check that an example entity is
// accepted by a live broker: creating an entity and removing it again.
package ngsi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"

	json "github.com/goccy/go-json"
)

// Config holds context broker connection settings.
type Config struct {
	BaseURL     string // e.g. http://localhost:1026
	Service     string // Fiware-Service header, empty for the default tenant
	ServicePath string // Fiware-ServicePath header
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

// Client talks to an NGSIv2 context broker.
type Client struct {
	base        *url.URL
	service     string
	servicePath string
	http        *http.Client
	logger      *slog.Logger
}

// APIError is returned when the broker answers with an unexpected status.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, strings.TrimSpace(e.Body))
}

// NewClient creates a client for the broker at cfg.BaseURL.
func NewClient(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid context broker url %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid context broker url %q: scheme must be http or https", cfg.BaseURL)
	}
	// Accept both http://host:1026 and http://host:1026/v2.
	base.Path = strings.TrimSuffix(base.Path, "/v2")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		base:        base,
		service:     cfg.Service,
		servicePath: cfg.ServicePath,
		http:        httpClient,
		logger:      logger,
	}, nil
}

func (c *Client) endpoint(elem ...string) *url.URL {
	u := *c.base
	u.Path = path.Join(append([]string{u.Path, "v2"}, elem...)...)
	return &u
}

// CreateEntity posts body as a keyValues entity and returns its id.
func (c *Client) CreateEntity(ctx context.Context, body map[string]any) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode entity: %w", err)
	}

	u := c.endpoint("entities")
	q := u.Query()
	q.Set("options", "keyValues")
	u.RawQuery = q.Encode()

	resp, err := c.do(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		return "", apiError(http.MethodPost, u.String(), resp)
	}

	id, _ := body["id"].(string)
	if loc := resp.Header.Get("Location"); loc != "" {
		if p, err := url.Parse(loc); err == nil {
			if seg := path.Base(p.Path); seg != "" && seg != "entities" && seg != "/" {
				id, _ = url.PathUnescape(seg)
			}
		}
	}

	c.logger.Debug("entity created", slog.String("id", id))
	return id, nil
}

// DeleteEntity removes the entity with the given id.
func (c *Client) DeleteEntity(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("delete entity: empty id")
	}
	u := c.endpoint("entities", id)

	resp, err := c.do(ctx, http.MethodDelete, u.String(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return apiError(http.MethodDelete, u.String(), resp)
	}

	c.logger.Debug("entity removed", slog.String("id", id))
	return nil
}

func (c *Client) do(ctx context.Context, method, target string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.service != "" {
		req.Header.Set("Fiware-Service", c.service)
	}
	if c.servicePath != "" {
		req.Header.Set("Fiware-ServicePath", c.servicePath)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}
	return resp, nil
}

func apiError(method, target string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &APIError{
		Method:     method,
		URL:        target,
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}
}
