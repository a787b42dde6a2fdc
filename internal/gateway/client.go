package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shareit-app/shareit/internal/handler"
)

// forwardedHeaders are copied from the incoming request to the backend.
var forwardedHeaders = []string{handler.HeaderUserID, handler.HeaderRequestID, "Content-Type", "Accept"}

// Response is a backend reply relayed to the caller as is.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// Client forwards validated requests to the backend server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a client for the backend at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Forward sends method, path and raw query to the backend with body and the relevant headers of in.
func (c *Client) Forward(ctx context.Context, in *http.Request, body []byte) (*Response, error) {
	target := c.baseURL + in.URL.Path
	if in.URL.RawQuery != "" {
		target += "?" + in.URL.RawQuery
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, in.Method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build backend request: %w", err)
	}
	for _, h := range forwardedHeaders {
		if v := in.Header.Get(h); v != "" {
			req.Header.Set(h, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request %s %s: %w", in.Method, in.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read backend response: %w", err)
	}
	return &Response{Status: resp.StatusCode, ContentType: resp.Header.Get("Content-Type"), Body: data}, nil
}
