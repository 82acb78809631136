package platform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func shortZipRetries(t *testing.T) {
	t.Helper()
	wait := zipRetryWait
	zipRetryWait = time.Millisecond
	t.Cleanup(func() { zipRetryWait = wait })
}

func TestZippedTiffRetriesTransientStatus(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("zipdata"))
	}))
	defer srv.Close()
	shortZipRetries(t)

	s := &MapProduct{baseURL: srv.URL, client: srv.Client()}
	body, err := s.ZippedTiff(context.Background(), "sf1", "", "image1", "NDVI")
	if err != nil {
		t.Fatalf("ZippedTiff: %v", err)
	}
	if string(body) != "zipdata" {
		t.Errorf("wrong body: %s", body)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("expected 2 calls, got %d", n)
	}
}

func TestZippedTiffDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "no such image", http.StatusNotFound)
	}))
	defer srv.Close()
	shortZipRetries(t)

	s := &MapProduct{baseURL: srv.URL, client: srv.Client()}
	if _, err := s.ZippedTiff(context.Background(), "sf1", "", "image1", "NDVI"); err == nil {
		t.Fatalf("expected an error")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected 1 call, got %d", n)
	}
}
