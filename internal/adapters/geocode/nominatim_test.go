package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/avelarde/rentmap/internal/core/domain"
)

func testAddr() domain.Address {
	return domain.Address{
		Street:     "Gran Via 1",
		City:       "Bilbao",
		Country:    "Spain",
		PostalCode: "48001",
	}
}

func TestResolve_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("street"); got != "Gran Via 1" {
			t.Errorf("street = %q", got)
		}
		if got := r.URL.Query().Get("format"); got != "json" {
			t.Errorf("format = %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "1" {
			t.Errorf("limit = %q", got)
		}
		if ua := r.Header.Get("User-Agent"); ua != "RentMap/test (dev@rentmap.example)" {
			t.Errorf("user agent = %q", ua)
		}
		w.Write([]byte(`[{"lon":"-2.9350","lat":"43.2630"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "RentMap/test (dev@rentmap.example)", 2*time.Second, 1)
	point, resolved := c.Resolve(context.Background(), testAddr())
	if !resolved {
		t.Fatal("expected resolved")
	}
	if point.Longitude != -2.935 || point.Latitude != 43.263 {
		t.Errorf("point = %+v", point)
	}
}

func TestResolve_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "RentMap/test (dev@rentmap.example)", 2*time.Second, 1)
	point, resolved := c.Resolve(context.Background(), testAddr())
	if resolved {
		t.Fatal("expected unresolved")
	}
	if !point.IsOrigin() {
		t.Errorf("point = %+v", point)
	}
}

func TestResolve_MalformedCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lon":"not-a-number","lat":"43.2630"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "RentMap/test (dev@rentmap.example)", 2*time.Second, 1)
	if _, resolved := c.Resolve(context.Background(), testAddr()); resolved {
		t.Fatal("expected unresolved")
	}
}

func TestResolve_ServerErrorRetriesOnce(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[{"lon":"1.0","lat":"2.0"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "RentMap/test (dev@rentmap.example)", 2*time.Second, 1)
	point, resolved := c.Resolve(context.Background(), testAddr())
	if !resolved {
		t.Fatal("expected resolved after retry")
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
	if point.Longitude != 1.0 || point.Latitude != 2.0 {
		t.Errorf("point = %+v", point)
	}
}

func TestResolve_EmptyResultNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "RentMap/test (dev@rentmap.example)", 2*time.Second, 1)
	if _, resolved := c.Resolve(context.Background(), testAddr()); resolved {
		t.Fatal("expected unresolved")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (no retry on empty result)", calls.Load())
	}
}

func TestResolve_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := New(srv.URL, "RentMap/test (dev@rentmap.example)", 500*time.Millisecond, 1)
	if _, resolved := c.Resolve(context.Background(), testAddr()); resolved {
		t.Fatal("expected unresolved")
	}
}
