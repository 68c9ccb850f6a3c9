package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	errs "github.com/matzehuels/dottex/pkg/errors"
	"github.com/matzehuels/dottex/pkg/layout"
)

func fakePositioner(pos layout.Positions, err error) layout.Func {
	return layout.Func{ID: "fake:dot", Fn: func(ctx context.Context, dot string) (layout.Positions, error) {
		if dot == layout.ProbeGraph && err == nil {
			return layout.Positions{}, nil
		}
		return pos, err
	}}
}

func newTestServer(t *testing.T, p layout.Positioner) *httptest.Server {
	t.Helper()
	s := New(p, log.New(io.Discard), prometheus.NewRegistry())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, body string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Post(url, "text/plain", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, string(data)
}

func TestHealthz(t *testing.T) {
	tests := []struct {
		name       string
		p          layout.Positioner
		wantStatus int
		wantDetail string
	}{
		{"available", fakePositioner(nil, nil), http.StatusOK, ""},
		{"missing", fakePositioner(nil, errs.New(errs.ErrCodeToolMissing, "no dot")), http.StatusServiceUnavailable, "not installed"},
		{"broken", fakePositioner(nil, errs.New(errs.ErrCodeInternal, "boom")), http.StatusServiceUnavailable, "installed but not working"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.p)
			resp, err := http.Get(ts.URL + "/healthz")
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			var body healthResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Positioner != "fake:dot" {
				t.Errorf("positioner = %q", body.Positioner)
			}
			if body.Detail != tt.wantDetail {
				t.Errorf("detail = %q, want %q", body.Detail, tt.wantDetail)
			}
		})
	}
}

func TestQuote(t *testing.T) {
	ts := newTestServer(t, fakePositioner(nil, nil))

	tests := []struct {
		kind string
		body string
		want string
	}{
		{"latex", "coucou", `\text{coucou}`},
		{"str", "a\n{b}", "a\\n\\\nb"},
		{"key", "blah{bleh}\nbl.ih{", "blahblehblih"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			resp, got := post(t, ts.URL+"/v1/quote/"+tt.kind, tt.body)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d: %s", resp.StatusCode, got)
			}
			if got != tt.want {
				t.Errorf("body = %q, want %q", got, tt.want)
			}
		})
	}

	resp, body := post(t, ts.URL+"/v1/quote/key-hash", "a.b")
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(body, "ab_") {
		t.Errorf("key-hash: status=%d body=%q", resp.StatusCode, body)
	}
}

func TestQuoteUnknownKind(t *testing.T) {
	ts := newTestServer(t, fakePositioner(nil, nil))

	resp, body := post(t, ts.URL+"/v1/quote/html", "x")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if !strings.Contains(body, string(errs.ErrCodeInvalidInput)) {
		t.Errorf("body = %s", body)
	}
}

func TestPositions(t *testing.T) {
	ts := newTestServer(t, fakePositioner(layout.Positions{"a": {27, 18}}, nil))

	resp, body := post(t, ts.URL+"/v1/positions", "graph { a }")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var pos layout.Positions
	if err := json.Unmarshal([]byte(body), &pos); err != nil {
		t.Fatal(err)
	}
	if len(pos["a"]) != 2 || pos["a"][0] != 27 {
		t.Errorf("positions = %v", pos)
	}
}

func TestPositionsErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		body       string
		wantStatus int
	}{
		{"empty body", nil, "", http.StatusBadRequest},
		{"no graph body", nil, "graph", http.StatusBadRequest},
		{"invalid DOT", errs.New(errs.ErrCodeInvalidFormat, "syntax error"), "graph { -- }", http.StatusBadRequest},
		{"tool missing", errs.New(errs.ErrCodeToolMissing, "no dot"), "graph { a }", http.StatusServiceUnavailable},
		{"timeout", errs.New(errs.ErrCodeTimeout, "slow"), "graph { a }", http.StatusGatewayTimeout},
		{"unclassified", io.ErrUnexpectedEOF, "graph { a }", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, fakePositioner(nil, tt.err))
			resp, body := post(t, ts.URL+"/v1/positions", tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", resp.StatusCode, tt.wantStatus, body)
			}
			var e errorResponse
			if err := json.Unmarshal([]byte(body), &e); err != nil || e.Code == "" {
				t.Errorf("error body = %s", body)
			}
		})
	}
}

func TestDOT(t *testing.T) {
	ts := newTestServer(t, fakePositioner(nil, nil))

	resp, body := post(t, ts.URL+"/v1/dot?tex=1", "x_1 -> x_2\n")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	for _, want := range []string{"digraph", `"x_1" -> "x_2";`, `texlbl="$\text{x 1}$"`} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %s:\n%s", want, body)
		}
	}

	resp, body = post(t, ts.URL+"/v1/dot?undirected=true", "a -> b\n")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"a" -- "b";`) {
		t.Errorf("undirected: status=%d body=%s", resp.StatusCode, body)
	}

	resp, _ = post(t, ts.URL+"/v1/dot", "a ->\n")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad edge list status = %d, want 400", resp.StatusCode)
	}
}

func TestRequestID(t *testing.T) {
	ts := newTestServer(t, fakePositioner(nil, nil))

	resp, _ := post(t, ts.URL+"/v1/quote/key", "a")
	if id := resp.Header.Get(requestIDHeader); len(id) != 36 {
		t.Errorf("generated %s = %q, want a UUID", requestIDHeader, id)
	}

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/v1/quote/key", strings.NewReader("a"))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set(requestIDHeader, "caller-42")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(requestIDHeader); got != "caller-42" {
		t.Errorf("echoed %s = %q, want %q", requestIDHeader, got, "caller-42")
	}
}

func TestMetricsRoute(t *testing.T) {
	ts := newTestServer(t, fakePositioner(nil, nil))

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestListenAndServeShutsDown(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	l.Close()

	s := New(fakePositioner(nil, nil), log.New(io.Discard), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, addr, time.Second) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err == nil {
			resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not start: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("ListenAndServe did not return after cancel")
	}
}
