package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
)

// maxResponseSize bounds the size of a response body read by the Client.
const maxResponseSize = 1 << 20

// Client fetches suggestions from a suggestion service. It implements
// ghostline.Suggester.
type Client struct {
	baseURL string
	http    *http.Client
}

// ClientOption configures a Client.
type ClientOption func(c *Client)

// WithHTTPClient sets the HTTP client used for requests. The default is a
// pooled client from go-cleanhttp.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient returns a Client for the service at baseURL, such as
// "http://127.0.0.1:5000".
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    cleanhttp.DefaultPooledClient(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Suggest returns the service's completions for input. Any non-2xx response
// is returned as an error.
func (c *Client) Suggest(ctx context.Context, input string) ([]string, error) {
	body, err := json.Marshal(Request{Input: input})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/suggest", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp Response
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return resp.Suggestions, nil
}

// FirstPrompt returns the placeholder text the service suggests displaying
// before anything has been typed.
func (c *Client) FirstPrompt(ctx context.Context) (string, error) {
	return c.getPrompt(ctx, "/get-first-prompt")
}

// Status returns the service's status message. It fails if the service is not
// reachable.
func (c *Client) Status(ctx context.Context) (string, error) {
	return c.getPrompt(ctx, "/")
}

func (c *Client) getPrompt(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", err
	}
	var resp PromptResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	return resp.Prompt, nil
}

func (c *Client) do(req *http.Request, v interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: %s", req.Method, req.URL.Path, resp.Status)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s %s: decoding response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
