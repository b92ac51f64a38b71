package vimeo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sitekit/internal/services"
)

const (
	// AcceptHeader pins the API version the picture payload shape was written against.
	AcceptHeader = "application/vnd.vimeo.*+json;version=3.4"
	// PicturesPerPage is the page size requested from the picture listing endpoint.
	PicturesPerPage = 100
	// MaxImageBytes bounds a single thumbnail download.
	MaxImageBytes = 20 << 20
)

// Size is one rendition of a picture.
type Size struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Link   string `json:"link"`
}

// Picture is one thumbnail image attached to a video.
type Picture struct {
	URI         string `json:"uri"`
	ResourceKey string `json:"resource_key"`
	Active      bool   `json:"active"`
	Sizes       []Size `json:"sizes"`
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Code    int
	URL     string
	Latency time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("vimeo request %s returned %d (latency=%v)", e.URL, e.Code, e.Latency)
}

// Client provides access to the Vimeo API and the CDN serving thumbnails.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// New creates a Vimeo client authenticated with a bearer token.
func New(token, baseURL string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, services.Wrap(services.ErrConfiguration, "vimeo", "new client", "token required", nil)
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "vimeo", "new client", "base url required", nil)
	}
	client := &Client{
		token:      token,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// FetchPictures returns the raw JSON body of the picture listing for videoID.
// The body is returned undecoded so callers can cache it verbatim.
func (c *Client) FetchPictures(ctx context.Context, videoID string) ([]byte, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return nil, errors.New("video id must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + "/videos/" + url.PathEscape(videoID) + "/pictures")
	if err != nil {
		return nil, fmt.Errorf("parse vimeo url: %w", err)
	}
	params := url.Values{}
	params.Set("per_page", fmt.Sprint(PicturesPerPage))
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "bearer "+c.token)
	req.Header.Set("Accept", AcceptHeader)

	body, err := c.do(req, 0)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("decode vimeo pictures for %s: invalid json", videoID)
	}
	return body, nil
}

// Verify checks that the token is accepted by the API.
func (c *Client) Verify(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/oauth/verify", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "bearer "+c.token)
	req.Header.Set("Accept", AcceptHeader)
	_, err = c.do(req, 1<<20)
	return err
}

// FetchImage downloads thumbnail bytes. CDN links are public, so no
// credentials are attached.
func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return c.do(req, MaxImageBytes)
}

func (c *Client) do(req *http.Request, limit int64) ([]byte, error) {
	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{Code: resp.StatusCode, URL: req.URL.Redacted(), Latency: latency}
		return nil, classifyStatus(statusErr)
	}

	var reader io.Reader = resp.Body
	if limit > 0 {
		reader = io.LimitReader(resp.Body, limit+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if limit > 0 && int64(len(body)) > limit {
		return nil, fmt.Errorf("response from %s exceeds %d bytes", req.URL.Redacted(), limit)
	}
	return body, nil
}

func classifyStatus(err *StatusError) error {
	switch {
	case err.Code == http.StatusUnauthorized || err.Code == http.StatusForbidden:
		return services.Wrap(services.ErrConfiguration, "vimeo", "request", "token rejected", err)
	case err.Code == http.StatusNotFound:
		return services.Wrap(services.ErrNotFound, "vimeo", "request", "", err)
	case err.Code == http.StatusTooManyRequests || err.Code >= 500:
		return services.Wrap(services.ErrTransient, "vimeo", "request", "", err)
	default:
		return err
	}
}
