package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Yathushan/coldsweat/internal/application/port"
)

// HTTPChecker checks feed URLs with a GET request and reports the final
// status after redirects.
type HTTPChecker struct {
	client    *http.Client
	userAgent string
}

var _ port.URLChecker = (*HTTPChecker)(nil)

func NewHTTPChecker(timeout time.Duration, userAgent string) *HTTPChecker {
	return &HTTPChecker{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

func (c *HTTPChecker) Status(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/atom+xml, application/rss+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	// Drain a little so the connection can be reused.
	_, _ = io.CopyN(io.Discard, resp.Body, 4096)

	return resp.StatusCode, nil
}
