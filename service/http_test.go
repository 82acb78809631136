package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Geosys-Task-Code") != "Geosys_API_Bulk" {
			t.Errorf("missing task code header")
		}
		if r.Header.Get("X-Correlation-Id") == "" {
			t.Errorf("missing correlation id")
		}
		w.Write([]byte(`{"id":"sfid"}`))
	}))
	defer srv.Close()

	resp, err := HTTPGet(context.Background(), srv.Client(), srv.URL, http.Header{"X-Geosys-Task-Code": []string{"Geosys_API_Bulk"}})
	if err != nil {
		t.Fatalf("HTTPGet: %v", err)
	}
	if !resp.OK() {
		t.Fatalf("expected 200, got %d", resp.Status)
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := resp.JSON(&out); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if out.ID != "sfid" {
		t.Errorf("expected sfid, got %s", out.ID)
	}
}

func TestHTTPPostStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %s", ct)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	resp, err := HTTPPost(context.Background(), srv.Client(), srv.URL, map[string]string{"Geometry": "POINT (0 0)"}, nil)
	if err != nil {
		t.Fatalf("HTTPPost: %v", err)
	}
	if resp.Status != http.StatusCreated {
		t.Errorf("expected 201, got %d", resp.Status)
	}
}
