package parser

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestCheckAvailable(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{name: "healthy", status: http.StatusOK, want: true},
		{name: "server error", status: http.StatusInternalServerError, want: false},
		{name: "not found", status: http.StatusNotFound, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			g := NewGateway(srv.URL, nil)
			if got := g.CheckAvailable(context.Background()); got != tt.want {
				t.Fatalf("expected %t, got %t", tt.want, got)
			}
		})
	}
}

func TestCheckAvailable_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	g := NewGateway(srv.URL, nil)
	if g.CheckAvailable(context.Background()) {
		t.Fatalf("expected unavailable for closed server")
	}
}

func TestParse_Success(t *testing.T) {
	var gotURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusOK)
		case "/parse-resume/":
			var req struct {
				URL string `json:"url"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			gotURL = req.URL
			_, _ = w.Write([]byte(`{"parsed_data":{"fullName":"Jane"},"webhook_result":{"status":"success"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	g := NewGateway(srv.URL, nil)
	res := g.Parse(context.Background(), "https://bucket/cv.pdf")

	if res == nil {
		t.Fatalf("expected result")
	}
	if gotURL != "https://bucket/cv.pdf" {
		t.Fatalf("expected file url forwarded, got %q", gotURL)
	}
	if string(res.Data) != `{"fullName":"Jane"}` {
		t.Fatalf("unexpected parsed data: %s", res.Data)
	}
	if len(res.Raw) == 0 {
		t.Fatalf("expected raw response kept")
	}
}

func TestParse_ShortCircuitsWhenUnavailable(t *testing.T) {
	var parseCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusServiceUnavailable)
		case "/parse-resume/":
			parseCalls.Add(1)
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	g := NewGateway(srv.URL, nil)
	if res := g.Parse(context.Background(), "https://bucket/cv.pdf"); res != nil {
		t.Fatalf("expected nil result")
	}
	if parseCalls.Load() != 0 {
		t.Fatalf("parse endpoint must not be called when health check fails")
	}
}

func TestParse_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	g := NewGateway(srv.URL, nil)
	if res := g.Parse(context.Background(), "https://bucket/cv.pdf"); res != nil {
		t.Fatalf("expected nil result on non-2xx, got %+v", res)
	}
}
