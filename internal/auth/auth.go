// Package auth stores the API token the client sends as a bearer token.
// TADA_TOKEN overrides the credentials file written by `tada auth login`.
package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Makepad-fr/tada/internal/config"
)

const (
	EnvToken = "TADA_TOKEN"

	credFileName = "credentials.json"
	bearerPrefix = "bearer "
)

// Source says where a token was found.
type Source string

const (
	SourceEnv  Source = "env"
	SourceFile Source = "file"
)

// TokenInfo is the credentials file record. Source is never persisted.
type TokenInfo struct {
	Token     string     `json:"token"`
	Source    Source     `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the token carries an expiry that has passed.
func (ti *TokenInfo) Expired(now time.Time) bool {
	return ti.ExpiresAt != nil && !now.Before(*ti.ExpiresAt)
}

// CredFilePath is ~/.tada/credentials.json.
func CredFilePath() (string, error) {
	dir, err := config.DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, credFileName), nil
}

// GetToken returns nil, nil when no token is configured.
func GetToken() (*TokenInfo, error) {
	if tok := stripBearer(os.Getenv(EnvToken)); tok != "" {
		return &TokenInfo{Token: tok, Source: SourceEnv}, nil
	}

	path, err := CredFilePath()
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	ti := &TokenInfo{Source: SourceFile}
	if err := json.Unmarshal(raw, ti); err != nil {
		return nil, fmt.Errorf("parse credentials %s: %w", path, err)
	}
	ti.Token = stripBearer(ti.Token)
	if ti.Token == "" {
		return nil, nil
	}
	return ti, nil
}

// Token is GetToken reduced to the bare token string ("" when absent).
func Token() (string, error) {
	ti, err := GetToken()
	if err != nil || ti == nil {
		return "", err
	}
	return ti.Token, nil
}

// SetToken saves token to the credentials file. When expires is nil and the
// token is a JWT with an exp claim, that claim is used.
func SetToken(token string, expires *time.Time) error {
	token = stripBearer(token)
	if token == "" {
		return errors.New("empty token")
	}
	if expires == nil {
		expires = claimsOf(token).expiry()
	}
	path, err := CredFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	raw, err := json.MarshalIndent(TokenInfo{
		Token:     token,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expires,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// DeleteToken removes the credentials file. A missing file is not an error.
func DeleteToken() error {
	path, err := CredFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	if !hasBearerPrefix(header) {
		return "", false
	}
	tok := strings.TrimSpace(header[len(bearerPrefix):])
	return tok, tok != ""
}

func hasBearerPrefix(s string) bool {
	return len(s) >= len(bearerPrefix) && strings.EqualFold(s[:len(bearerPrefix)], bearerPrefix)
}

// stripBearer drops a leading "Bearer " scheme. A bare scheme word is
// treated as an empty token.
func stripBearer(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, strings.TrimSpace(bearerPrefix)) {
		return ""
	}
	if hasBearerPrefix(s) {
		return strings.TrimSpace(s[len(bearerPrefix):])
	}
	return s
}

// JWTPayload decodes the (unverified) payload segment of a JWT.
// ok is false for opaque tokens.
func JWTPayload(token string) (payload string, ok bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", false
	}
	// Some issuers pad the segments.
	dec, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return "", false
	}
	return string(dec), true
}

type claims struct {
	Exp int64 `json:"exp"`
}

// claimsOf is the zero value for opaque tokens.
func claimsOf(token string) claims {
	var c claims
	if payload, ok := JWTPayload(token); ok {
		json.Unmarshal([]byte(payload), &c)
	}
	return c
}

func (c claims) expiry() *time.Time {
	if c.Exp == 0 {
		return nil
	}
	t := time.Unix(c.Exp, 0).UTC()
	return &t
}
