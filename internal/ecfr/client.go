// Package ecfr is the HTTP client for the public eCFR API.
package ecfr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"

	"ecfr-proxy/internal/metrics"
	"ecfr-proxy/internal/reliability"
)

const userAgent = "ecfr-proxy/1.0"

// Client talks to the eCFR API with retries and a circuit breaker.
// All payloads are JSON except the full-title XML, which is streamed.
type Client struct {
	base    string
	hc      *http.Client
	breaker *reliability.CircuitBreaker
	retry   reliability.RetryConfig
}

// NewClient creates a client for the given base URL. The timeout
// bounds every request including the large XML downloads.
func NewClient(base string, timeout time.Duration) *Client {
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		MaxConnsPerHost:       20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	retry := reliability.DefaultRetryConfig()
	retry.RetryableCheck = retryable
	return &Client{
		base:    base,
		hc:      &http.Client{Timeout: timeout, Transport: tr},
		breaker: reliability.NewCircuitBreaker(reliability.DefaultCircuitConfig("ecfr")),
		retry:   retry,
	}
}

// statusError is a non-200 upstream response.
type statusError struct {
	status int
	url    string
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("GET %s: status=%d body=%q", e.url, e.status, e.body)
}

// retryable retries transport failures and throttling/server statuses;
// a 404 is the upstream's answer, not a transient fault.
func retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		switch se.status {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	return true
}

// Titles fetches the titles list from the versioner service.
func (c *Client) Titles(ctx context.Context) ([]Title, error) {
	var resp struct {
		Titles []Title `json:"titles"`
	}
	if err := c.getJSON(ctx, "titles", c.base+"/api/versioner/v1/titles.json", &resp); err != nil {
		return nil, err
	}
	return resp.Titles, nil
}

// Agencies fetches the agencies admin feed.
func (c *Client) Agencies(ctx context.Context) ([]Agency, error) {
	var resp struct {
		Agencies []Agency `json:"agencies"`
	}
	if err := c.getJSON(ctx, "agencies", c.base+"/api/admin/v1/agencies.json", &resp); err != nil {
		return nil, err
	}
	return resp.Agencies, nil
}

// FullTitleXML streams the full-text XML for a title at an issue date.
// The caller owns the returned body.
func (c *Client) FullTitleXML(ctx context.Context, date string, title int) (io.ReadCloser, error) {
	u := fmt.Sprintf("%s/api/versioner/v1/full/%s/title-%d.xml", c.base, url.PathEscape(date), title)
	res, err := c.get(ctx, "full_xml", u, "application/xml")
	if err != nil {
		return nil, err
	}
	return res.Body, nil
}

// Structure fetches the structure tree for a title at an issue date.
func (c *Client) Structure(ctx context.Context, date string, title int) (*StructureNode, error) {
	u := fmt.Sprintf("%s/api/versioner/v1/structure/%s/title-%d.json", c.base, url.PathEscape(date), title)
	var root StructureNode
	if err := c.getJSON(ctx, "structure", u, &root); err != nil {
		return nil, err
	}
	return &root, nil
}

// SearchResults proxies a search query through unmodified and returns
// the raw upstream JSON.
func (c *Client) SearchResults(ctx context.Context, query url.Values) ([]byte, error) {
	return c.getRaw(ctx, "search", c.base+"/api/search/v1/results?"+query.Encode())
}

// SearchCount proxies a search count query through unmodified.
func (c *Client) SearchCount(ctx context.Context, query url.Values) ([]byte, error) {
	return c.getRaw(ctx, "search_count", c.base+"/api/search/v1/count?"+query.Encode())
}

func (c *Client) getJSON(ctx context.Context, endpoint, u string, out any) error {
	res, err := c.get(ctx, endpoint, u, "application/json")
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) getRaw(ctx context.Context, endpoint, u string) ([]byte, error) {
	res, err := c.get(ctx, endpoint, u, "application/json")
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	return io.ReadAll(res.Body)
}

// get performs a GET with retry and circuit breaking. On success the
// caller owns the response body.
func (c *Client) get(ctx context.Context, endpoint, u, accept string) (*http.Response, error) {
	start := time.Now()
	res, err := reliability.RetryWithResult(ctx, c.retry, func() (*http.Response, error) {
		out, berr := c.breaker.Execute(func() (interface{}, error) {
			return c.doOnce(ctx, u, accept)
		})
		if berr != nil {
			return nil, berr
		}
		return out.(*http.Response), nil
	})
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.RecordUpstream(endpoint, outcome, time.Since(start).Seconds())
	return res, err
}

func (c *Client) doOnce(ctx context.Context, u, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", userAgent)

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		_ = res.Body.Close()
		return nil, &statusError{status: res.StatusCode, url: u, body: string(b)}
	}
	return res, nil
}
