package identity_test

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/earthdaily/geosys-go/interface/identity"
)

func TestNewClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer token" {
			t.Errorf("wrong authorization header: %s", auth)
		}
	}))
	defer srv.Close()

	client := identity.NewClient(identity.StaticTokenSource("token"), nil)
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	resp.Body.Close()
}

func makeJWT(payload string) string {
	enc := base64.RawURLEncoding.EncodeToString
	return enc([]byte(`{"alg":"none"}`)) + "." + enc([]byte(payload)) + "."
}

func TestParseClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	claims, err := identity.ParseClaims(makeJWT(fmt.Sprintf(`{"aud":"master-data-management","exp":%d}`, exp)))
	if err != nil {
		t.Fatalf("ParseClaims: %v", err)
	}
	if !claims.Audience.Contains("master-data-management") {
		t.Errorf("wrong audience: %s", claims.Audience)
	}
	if claims.Expired() {
		t.Errorf("token must not be expired")
	}

	claims, err = identity.ParseClaims(makeJWT(`{"aud":["master-data-management","field-level-maps"],"exp":1}`))
	if err != nil {
		t.Fatalf("ParseClaims: %v", err)
	}
	if !claims.Audience.Contains("field-level-maps") {
		t.Errorf("wrong audience: %s", claims.Audience)
	}

	claims, err = identity.ParseClaims(makeJWT(`{"exp":1}`))
	if err != nil {
		t.Fatalf("ParseClaims: %v", err)
	}
	if !claims.Expired() {
		t.Errorf("token must be expired")
	}

	if _, err = identity.ParseClaims("not-a-jwt"); err == nil {
		t.Errorf("expected an error")
	}
}
