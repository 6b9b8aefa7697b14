package circulation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/circulation-toolkit/sip2gateway/internal/usecase/auth"
	"github.com/circulation-toolkit/sip2gateway/pkg/logger"
)

const (
	headerToken     = "X-Okapi-Token"
	headerTenant    = "X-Okapi-Tenant"
	headerRequestID = "X-Okapi-Request-Id"

	maxErrorBody = 512
)

// Client is the typed HTTP client every resource goes through. It stamps the
// tenant and token headers and limits the request rate per tenant.
type Client struct {
	baseURL string
	doer    Doer
	log     logger.Interface

	requestsPerSecond float64
	burst             int
	limiters          map[string]*rate.Limiter
	mu                sync.RWMutex
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithRateLimit caps requests per tenant. A non-positive rate disables limiting.
func WithRateLimit(requestsPerSecond float64, burst int) ClientOption {
	return func(c *Client) {
		c.requestsPerSecond = requestsPerSecond
		c.burst = burst
	}
}

// NewClient -.
func NewClient(baseURL string, doer Doer, log logger.Interface, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		doer:     doer,
		log:      log,
		limiters: make(map[string]*rate.Limiter),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) limiter(tenant string) *rate.Limiter {
	if c.requestsPerSecond <= 0 {
		return nil
	}

	c.mu.RLock()
	l, ok := c.limiters[tenant]
	c.mu.RUnlock()

	if ok {
		return l
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.limiters[tenant]; ok {
		return l
	}

	burst := c.burst
	if burst < 1 {
		burst = 1
	}

	l = rate.NewLimiter(rate.Limit(c.requestsPerSecond), burst)
	c.limiters[tenant] = l

	return l
}

// Get issues a GET and decodes the JSON body into out when out is not nil.
func (c *Client) Get(ctx context.Context, tok auth.Token, resource, path string, query url.Values, out interface{}) error {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	return c.do(ctx, tok, resource, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body and decodes the JSON response into out when out is not nil.
func (c *Client) Post(ctx context.Context, tok auth.Token, resource, path string, body, out interface{}) error {
	return c.do(ctx, tok, resource, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, tok auth.Token, resource, method, path string, body, out interface{}) error {
	if l := c.limiter(tok.TenantID); l != nil {
		if err := l.Wait(ctx); err != nil {
			return ErrUpstreamRequest.Wrap(resource, "rate.Wait", err)
		}
	}

	var reader io.Reader

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return ErrUpstreamRequest.Wrap(resource, "json.Marshal", err)
		}

		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return ErrUpstreamRequest.Wrap(resource, "http.NewRequest", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerToken, tok.Value)
	req.Header.Set(headerTenant, tok.TenantID)

	if tok.RequestID != "" {
		req.Header.Set(headerRequestID, tok.RequestID)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()

	resp, err := c.doer.Do(req)

	upstreamRequestSeconds.WithLabelValues(resource).Observe(time.Since(start).Seconds())

	if err != nil {
		upstreamRequests.WithLabelValues(resource, statusClass(0)).Inc()

		return ErrUpstreamRequest.Wrap(resource, method+" "+path, err)
	}
	defer resp.Body.Close()

	upstreamRequests.WithLabelValues(resource, statusClass(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		c.log.Debug("%s %s returned %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(snippet)))

		return ErrUpstreamRequest.WithStatus(resp.StatusCode).WithDetail(errorDetail(snippet)).
			Wrap(resource, method+" "+path, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return ErrUpstreamRequest.Wrap(resource, "json.Decode", err)
	}

	return nil
}

// errorDetail extracts the first message of a backend error body. Bodies are
// either {"errors":[{"message":...}]} or plain text.
func errorDetail(body []byte) string {
	var parsed struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}

	if json.Unmarshal(body, &parsed) == nil {
		if len(parsed.Errors) > 0 {
			return parsed.Errors[0].Message
		}

		return ""
	}

	text := strings.TrimSpace(string(body))
	if strings.HasPrefix(text, "{") {
		// Truncated JSON.
		return ""
	}

	return text
}

// cqlString quotes s for use inside a CQL query term.
func cqlString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)

	return `"` + r.Replace(s) + `"`
}

func pageQuery(cql string, offset, limit int) url.Values {
	q := url.Values{}
	q.Set("query", cql)
	q.Set("offset", fmt.Sprint(offset))
	q.Set("limit", fmt.Sprint(limit))

	return q
}
