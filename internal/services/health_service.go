// Package services – BotHealthService
//
// Proxies the health check of the separately-run bot process. The upstream
// payload is passed through verbatim on success; everything the proxy says
// about failures is synthesized here so the caller never sees upstream
// internals. The call carries a fixed upper bound on waiting: a slow bot
// produces a well-defined 503, not a hung request.
package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxHealthBody caps how much of the upstream health payload is read.
const maxHealthBody = 64 << 10

// BotHealthResult is the outcome of one proxied health check.
type BotHealthResult struct {
	// Status is the HTTP status to relay (200 on success, the upstream
	// status on upstream-reported failure).
	Status int
	// Body is the verbatim upstream payload when OK is true.
	Body []byte
	// OK reports whether the upstream answered 2xx.
	OK bool
	// Err describes the upstream failure when OK is false.
	Err string
	// URL is the normalized URL that was called, echoed for diagnostics.
	URL string
}

// BotHealthService calls the bot's health endpoint with a bounded timeout.
type BotHealthService struct {
	// BaseURL is the bot health server address; a /health suffix is
	// appended unless already present.
	BaseURL string
	// Timeout bounds the whole call, connect included.
	Timeout time.Duration
	// Client optionally overrides the HTTP client (tests).
	Client *http.Client
}

// healthURL normalizes BaseURL so the request always targets /health
// exactly once, whatever trailing-slash form the operator configured.
func (s *BotHealthService) healthURL() string {
	u := strings.TrimSpace(s.BaseURL)
	switch {
	case strings.HasSuffix(u, "/health"):
		return u
	case strings.HasSuffix(u, "/"):
		return u + "health"
	default:
		return u + "/health"
	}
}

// Check performs one proxied health request. Transport failures and
// timeouts return ErrBotUnreachable with a zero-value result URL filled in;
// upstream non-2xx answers are reported in the result, not as an error.
func (s *BotHealthService) Check(ctx context.Context) (BotHealthResult, error) {
	url := s.healthURL()
	res := BotHealthResult{URL: url}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return res, fmt.Errorf("%w: %v", ErrBotUnreachable, err)
	}
	req.Header.Set("User-Agent", "isobel-web/1.0")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return res, fmt.Errorf("%w: %v", ErrBotUnreachable, err)
	}
	defer resp.Body.Close()

	res.Status = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxHealthBody))
		res.Err = fmt.Sprintf("bot health check failed with status %d: %s", resp.StatusCode, resp.Status)
		return res, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxHealthBody))
	if err != nil {
		return res, fmt.Errorf("%w: %v", ErrBotUnreachable, err)
	}
	res.OK = true
	res.Status = http.StatusOK
	res.Body = body
	return res, nil
}
