package github

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func testPrivateKeyPEM(t *testing.T, key *rsa.PrivateKey) []byte {
	t.Helper()
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
}

func TestGenerateJWT(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	auth := &AppAuth{AppID: 12345, PrivateKeyPEM: testPrivateKeyPEM(t, key)}
	signed, err := auth.generateJWT(5 * time.Minute)
	if err != nil {
		t.Fatalf("generateJWT: %v", err)
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodRS256 {
			return nil, fmt.Errorf("unexpected signing method %v", token.Method)
		}
		return &key.PublicKey, nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token invalid: %v", err)
	}

	if claims.Issuer != "12345" {
		t.Errorf("issuer = %q, want 12345", claims.Issuer)
	}
	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if lifetime != 5*time.Minute {
		t.Errorf("lifetime = %v, want 5m", lifetime)
	}
}

func TestGenerateJWTDurationBounds(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	auth := &AppAuth{AppID: 1, PrivateKeyPEM: testPrivateKeyPEM(t, key)}

	for _, d := range []time.Duration{0, -time.Minute, 11 * time.Minute} {
		if _, err := auth.generateJWT(d); err == nil {
			t.Errorf("duration %v: expected error", d)
		}
	}
}

func TestParsePrivateKey(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	t.Run("pkcs1", func(t *testing.T) {
		if _, err := parsePrivateKey(testPrivateKeyPEM(t, key)); err != nil {
			t.Errorf("parsePrivateKey: %v", err)
		}
	})

	t.Run("pkcs8", func(t *testing.T) {
		der, err := x509.MarshalPKCS8PrivateKey(key)
		if err != nil {
			t.Fatalf("marshal pkcs8: %v", err)
		}
		pemData := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
		if _, err := parsePrivateKey(pemData); err != nil {
			t.Errorf("parsePrivateKey: %v", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := parsePrivateKey([]byte("not a key")); err == nil {
			t.Error("expected error for non-PEM input")
		}
	})
}

func TestAppAuthToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/app/installations/99/access_tokens" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			t.Errorf("Authorization = %q", auth)
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"token": "ghs_installation_token"}`)
	}))
	defer srv.Close()

	auth := &AppAuth{
		AppID:          42,
		InstallationID: 99,
		PrivateKeyPEM:  testPrivateKeyPEM(t, key),
		BaseURL:        srv.URL,
	}

	token, err := auth.Token(context.Background())
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if token != "ghs_installation_token" {
		t.Errorf("token = %q", token)
	}
}

func TestAppAuthTokenValidation(t *testing.T) {
	tests := []struct {
		name string
		auth AppAuth
	}{
		{"missing app ID", AppAuth{InstallationID: 1}},
		{"missing installation ID", AppAuth{AppID: 1}},
	}

	for _, tt := range tests {
		if _, err := tt.auth.Token(context.Background()); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}
