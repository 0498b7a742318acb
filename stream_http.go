package tagger

import (
	"context"
	"fmt"
	"net/http"
)

// HTTPStreamRequest configures HTTPStream.
type HTTPStreamRequest struct {
	URL     string
	Client  *http.Client
	Sink    Sink
	Mode    Mode
	Color   Color
	Handler TagHandler
}

// HTTPStream fetches text over HTTP(S) and streams it through Stream.
func HTTPStream(ctx context.Context, req HTTPStreamRequest) error {
	if req.URL == "" {
		return fmt.Errorf("stream http: URL is required")
	}
	if req.Sink == nil {
		return fmt.Errorf("stream http: sink is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	client := req.Client
	if client == nil {
		client = http.DefaultClient
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return fmt.Errorf("stream http: build request: %w", err)
	}
	if httpReq.URL.Scheme != "http" && httpReq.URL.Scheme != "https" {
		return fmt.Errorf("stream http: unsupported scheme %q", httpReq.URL.Scheme)
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("stream http: request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("stream http: status %s", resp.Status)
	}
	return Stream(StreamRequest{
		Reader:  resp.Body,
		Sink:    req.Sink,
		Mode:    req.Mode,
		Color:   req.Color,
		Handler: req.Handler,
	})
}
