package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/earthdaily/geosys-go/service/log"
	"github.com/google/uuid"
)

// HTTPResponse is the decoded outcome of a platform call
type HTTPResponse struct {
	Status int
	Body   []byte
}

// OK returns true for 2xx statuses
func (r HTTPResponse) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// JSON unmarshals the body into out
func (r HTTPResponse) JSON(out interface{}) error {
	if err := json.Unmarshal(r.Body, out); err != nil {
		return fmt.Errorf("decode response: %w (body: %s)", err, r.Body)
	}
	return nil
}

// Err returns an ErrStatus describing the response
func (r HTTPResponse) Err() error {
	return ErrStatus{Status: r.Status, Body: r.Body}
}

func HTTPGet(ctx context.Context, client *http.Client, url string, headers http.Header) (HTTPResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return HTTPResponse{}, fmt.Errorf("HTTPGet: %w", err)
	}
	return do(ctx, client, req, headers)
}

func HTTPPost(ctx context.Context, client *http.Client, url string, payload interface{}, headers http.Header) (HTTPResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return HTTPResponse{}, fmt.Errorf("HTTPPost.Marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return HTTPResponse{}, fmt.Errorf("HTTPPost: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return do(ctx, client, req, headers)
}

func HTTPPatch(ctx context.Context, client *http.Client, url string, payload interface{}, headers http.Header) (HTTPResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return HTTPResponse{}, fmt.Errorf("HTTPPatch.Marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return HTTPResponse{}, fmt.Errorf("HTTPPatch: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return do(ctx, client, req, headers)
}

func do(ctx context.Context, client *http.Client, req *http.Request, headers http.Header) (HTTPResponse, error) {
	for k, vs := range headers {
		for _, v := range vs {
			if v != "" {
				req.Header.Set(k, v)
			}
		}
	}
	req.Header.Set("X-Correlation-Id", uuid.NewString())

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return HTTPResponse{}, fmt.Errorf("do[%s %s]: %w", req.Method, req.URL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return HTTPResponse{}, fmt.Errorf("do[%s %s].ReadAll: %w", req.Method, req.URL, err)
	}
	log.Logger(ctx).Sugar().Debugf("%s %s: %d (%do)", req.Method, req.URL, resp.StatusCode, len(body))
	return HTTPResponse{Status: resp.StatusCode, Body: body}, nil
}
