package ecfr

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (rt roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt(req)
}

func jsonResponse(req *http.Request, status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
		Request:    req,
	}
}

func newFakeClient(t *testing.T, rt roundTripperFunc) *Client {
	t.Helper()
	cli := NewClient("http://ecfr.test", 2*time.Second)
	cli.hc.Transport = rt
	// Tests exercise failure paths; no backoff between attempts.
	cli.retry.InitialDelay = 0
	return cli
}

func TestClientEndpoints(t *testing.T) {
	cli := newFakeClient(t, func(req *http.Request) (*http.Response, error) {
		if ua := req.Header.Get("User-Agent"); ua != userAgent {
			t.Errorf("User-Agent = %q", ua)
		}
		switch req.URL.Path {
		case "/api/versioner/v1/titles.json":
			return jsonResponse(req, 200, `{"titles":[{"number":5,"name":"Administrative Personnel","latest_issue_date":"2025-01-02","reserved":false}]}`), nil
		case "/api/admin/v1/agencies.json":
			return jsonResponse(req, 200, `{"agencies":[{"name":"Test Agency","slug":"test-agency","cfr_references":[{"title":5,"chapter":"I"}]}]}`), nil
		case "/api/versioner/v1/full/2025-01-02/title-5.xml":
			return jsonResponse(req, 200, `<ROOT><P>Hello world</P></ROOT>`), nil
		case "/api/versioner/v1/structure/2025-01-02/title-5.json":
			return jsonResponse(req, 200, `{"type":"title","identifier":"5","children":[]}`), nil
		default:
			return jsonResponse(req, 404, "not found"), nil
		}
	})
	ctx := context.Background()

	titles, err := cli.Titles(ctx)
	if err != nil {
		t.Fatalf("Titles: %v", err)
	}
	if len(titles) != 1 || titles[0].Number != 5 || titles[0].LatestIssueDate != "2025-01-02" {
		t.Fatalf("unexpected titles: %#v", titles)
	}

	agencies, err := cli.Agencies(ctx)
	if err != nil {
		t.Fatalf("Agencies: %v", err)
	}
	if len(agencies) != 1 || agencies[0].Slug != "test-agency" {
		t.Fatalf("unexpected agencies: %#v", agencies)
	}

	rc, err := cli.FullTitleXML(ctx, "2025-01-02", 5)
	if err != nil {
		t.Fatalf("FullTitleXML: %v", err)
	}
	body, _ := io.ReadAll(rc)
	rc.Close()
	if !strings.Contains(string(body), "Hello world") {
		t.Fatalf("unexpected XML body: %s", body)
	}

	node, err := cli.Structure(ctx, "2025-01-02", 5)
	if err != nil {
		t.Fatalf("Structure: %v", err)
	}
	if node.Type != "title" || node.Identifier != "5" {
		t.Fatalf("unexpected structure root: %#v", node)
	}
}

func TestClientSearchPassthrough(t *testing.T) {
	var gotQuery url.Values
	cli := newFakeClient(t, func(req *http.Request) (*http.Response, error) {
		gotQuery = req.URL.Query()
		switch req.URL.Path {
		case "/api/search/v1/results":
			return jsonResponse(req, 200, `{"results":[{"hierarchy":{}}]}`), nil
		case "/api/search/v1/count":
			return jsonResponse(req, 200, `{"meta":{"total_count":12}}`), nil
		}
		return jsonResponse(req, 404, "not found"), nil
	})
	ctx := context.Background()

	q := url.Values{"query": {"aviation"}, "per_page": {"20"}}
	body, err := cli.SearchResults(ctx, q)
	if err != nil {
		t.Fatalf("SearchResults: %v", err)
	}
	// Upstream body passes through byte for byte.
	if string(body) != `{"results":[{"hierarchy":{}}]}` {
		t.Fatalf("unexpected body: %s", body)
	}
	// Caller query parameters forwarded unmodified.
	if gotQuery.Get("query") != "aviation" || gotQuery.Get("per_page") != "20" {
		t.Fatalf("query not forwarded: %v", gotQuery)
	}

	body, err = cli.SearchCount(ctx, q)
	if err != nil {
		t.Fatalf("SearchCount: %v", err)
	}
	if !strings.Contains(string(body), "total_count") {
		t.Fatalf("unexpected count body: %s", body)
	}
}

func TestClientRetriesOn503(t *testing.T) {
	attempts := 0
	cli := newFakeClient(t, func(req *http.Request) (*http.Response, error) {
		attempts++
		if attempts < 3 {
			return jsonResponse(req, 503, "unavailable"), nil
		}
		return jsonResponse(req, 200, `{"titles":[]}`), nil
	})

	if _, err := cli.Titles(context.Background()); err != nil {
		t.Fatalf("expected recovery after retries, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
}

func TestClientDoesNotRetry404(t *testing.T) {
	attempts := 0
	cli := newFakeClient(t, func(req *http.Request) (*http.Response, error) {
		attempts++
		return jsonResponse(req, 404, "not found"), nil
	})

	if _, err := cli.Titles(context.Background()); err == nil {
		t.Fatal("expected error for 404")
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1 (404 is not retryable)", attempts)
	}
}
