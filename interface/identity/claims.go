package identity

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Claims is the payload of a bearer token. The signature is not verified,
// claims are only inspected to report on the token itself.
type Claims struct {
	Audience Audience `json:"aud"`
	Expiry   int64    `json:"exp"`
}

// Audience of a token. The aud claim is served either as a single string or
// as a list.
type Audience []string

func (a *Audience) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*a = Audience{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*a = Audience(list)
	return nil
}

// Contains returns whether the audience includes the given value
func (a Audience) Contains(audience string) bool {
	for _, v := range a {
		if v == audience {
			return true
		}
	}
	return false
}

// ParseClaims decodes the payload of the jwt without verifying its signature
func ParseClaims(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, fmt.Errorf("ParseClaims: not a jwt")
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Claims{}, fmt.Errorf("ParseClaims.DecodeString: %w", err)
	}
	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Claims{}, fmt.Errorf("ParseClaims.Unmarshal: %w", err)
	}
	return claims, nil
}

// Expired returns whether the token expiry is in the past
func (c Claims) Expired() bool {
	return time.Now().After(time.Unix(c.Expiry, 0))
}
