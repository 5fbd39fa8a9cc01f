package location

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kaamlink/kaamlink/internal/core/domain"
)

func TestIPAPI_ResolveSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","lat":27.7172,"lon":85.324}`))
	}))
	defer srv.Close()

	p := NewIPAPI(srv.URL)
	pt, err := p.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if pt.Lat != 27.7172 || pt.Lon != 85.324 {
		t.Errorf("got %+v", pt)
	}
}

func TestIPAPI_ResolveFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewIPAPI(srv.URL)
	if _, err := p.Resolve(context.Background()); !errors.Is(err, domain.ErrLocationUnavailable) {
		t.Errorf("want ErrLocationUnavailable, got %v", err)
	}
}

func TestIPAPI_LookupDenied(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail"}`))
	}))
	defer srv.Close()

	p := NewIPAPI(srv.URL)
	if _, err := p.Resolve(context.Background()); !errors.Is(err, domain.ErrLocationUnavailable) {
		t.Errorf("want ErrLocationUnavailable, got %v", err)
	}
}

func TestStatic_Resolve(t *testing.T) {
	p := NewStatic(28.2096, 83.9856)
	pt, err := p.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if pt.Lat != 28.2096 || pt.Lon != 83.9856 {
		t.Errorf("got %+v", pt)
	}
}

func TestUnavailable_Resolve(t *testing.T) {
	if _, err := (Unavailable{}).Resolve(context.Background()); !errors.Is(err, domain.ErrLocationUnavailable) {
		t.Errorf("want ErrLocationUnavailable, got %v", err)
	}
}
