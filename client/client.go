// Package client queries the health endpoints of a running readyprobe server.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/imroc/req/v3"

	"readyprobe/handler"
	"readyprobe/types"
	"readyprobe/utils"
)

// ErrUnexpectedStatus is returned for responses that are neither 200 nor 503.
var ErrUnexpectedStatus = errors.New("unexpected health status code")

// Client is a thin wrapper over req for the health endpoints.
type Client struct {
	http *req.Client
}

// New creates a client for the server at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http: req.C().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetUserAgent("readyprobe-client").
			SetJsonMarshal(utils.Marshal).
			SetJsonUnmarshal(utils.Unmarshal),
	}
}

// Ready fetches /health/ready.
func (c *Client) Ready(ctx context.Context) (*types.HealthResponse, error) {
	return c.fetch(ctx, handler.PathReadiness)
}

// Live fetches /health/live.
func (c *Client) Live(ctx context.Context) (*types.HealthResponse, error) {
	return c.fetch(ctx, handler.PathLiveness)
}

// Health fetches /health.
func (c *Client) Health(ctx context.Context) (*types.HealthResponse, error) {
	return c.fetch(ctx, handler.PathHealth)
}

// fetch decodes the body of 200 and 503 responses; both carry a report.
func (c *Client) fetch(ctx context.Context, path string) (*types.HealthResponse, error) {
	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusServiceUnavailable:
	default:
		return nil, fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, path, resp.StatusCode)
	}

	var out types.HealthResponse
	if err := resp.Unmarshal(&out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &out, nil
}
