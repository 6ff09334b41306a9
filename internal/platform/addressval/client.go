package addressval

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shiplabel/shiplabel-backend/internal/pkg/httpx"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/logger"
)

const (
	defaultTimeout = 5 * time.Second
	retryBase      = 300 * time.Millisecond
	retryMax       = 5 * time.Second
	maxBody        = 1 << 20
)

// ClientConfig is shared by the HTTP providers.
type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	HTTPClient *http.Client
}

type jsonClient struct {
	service string
	log     *logger.Logger
	http    *http.Client
	timeout time.Duration
	retries int
}

func newJSONClient(service string, cfg ClientConfig, log *logger.Logger) *jsonClient {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return &jsonClient{service: service, log: log, http: hc, timeout: timeout, retries: retries}
}

// getJSON issues GET requests until one succeeds, a non-retryable error occurs or retries run
// out. Non-2xx responses come back as *httpx.StatusError.
func (c *jsonClient) getJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		resp, err := c.once(ctx, url, headers, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if attempt == c.retries || !httpx.IsRetryableError(err) || ctx.Err() != nil {
			break
		}
		backoff := retryBase * time.Duration(1<<attempt)
		wait := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, retryMax))
		c.log.Debug("retrying address provider", "provider", c.service, "attempt", attempt+1, "wait", wait, "error", err)
		if serr := httpx.Sleep(ctx, wait); serr != nil {
			break
		}
	}
	return lastErr
}

func (c *jsonClient) once(ctx context.Context, url string, headers map[string]string, out any) (*http.Response, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return resp, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, &httpx.StatusError{Service: c.service, Code: resp.StatusCode, Body: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return resp, fmt.Errorf("%s: decode response: %w", c.service, err)
	}
	return resp, nil
}
