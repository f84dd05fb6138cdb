package github

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	gogithub "github.com/google/go-github/v58/github"
)

// maxAppJWTDuration is the longest JWT lifetime GitHub accepts for App
// authentication.
const maxAppJWTDuration = 10 * time.Minute

// AppAuth mints installation access tokens for a GitHub App. It is the
// alternative to a personal access token: App ID + installation ID +
// private key → short-lived JWT → installation token.
type AppAuth struct {
	AppID          int64
	InstallationID int64
	PrivateKeyPEM  []byte

	// BaseURL overrides the API endpoint (testing). Empty means production.
	BaseURL string
}

// Token exchanges an App JWT for an installation access token. The token is
// valid for one hour, which comfortably covers a single CLI run.
func (a *AppAuth) Token(ctx context.Context) (string, error) {
	if a.AppID <= 0 {
		return "", fmt.Errorf("app ID must be positive")
	}
	if a.InstallationID <= 0 {
		return "", fmt.Errorf("installation ID must be positive")
	}

	appJWT, err := a.generateJWT(maxAppJWTDuration)
	if err != nil {
		return "", fmt.Errorf("failed to generate App JWT: %w", err)
	}

	gh := gogithub.NewClient(&http.Client{Timeout: 30 * time.Second}).WithAuthToken(appJWT)
	if a.BaseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(a.BaseURL, "/") + "/")
		if err != nil {
			return "", fmt.Errorf("invalid base URL %q: %w", a.BaseURL, err)
		}
		gh.BaseURL = u
	}

	token, _, err := gh.Apps.CreateInstallationToken(ctx, a.InstallationID, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create installation token: %w", err)
	}

	return token.GetToken(), nil
}

// generateJWT signs a registered-claims JWT as the App.
func (a *AppAuth) generateJWT(duration time.Duration) (string, error) {
	if duration <= 0 || duration > maxAppJWTDuration {
		return "", fmt.Errorf("JWT duration %v out of range (0, %v]", duration, maxAppJWTDuration)
	}

	key, err := parsePrivateKey(a.PrivateKeyPEM)
	if err != nil {
		return "", fmt.Errorf("failed to parse private key: %w", err)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    fmt.Sprintf("%d", a.AppID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// parsePrivateKey parses a PEM-encoded RSA private key in PKCS#1 or PKCS#8
// form (GitHub hands out PKCS#1).
func parsePrivateKey(pemData []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM block")
	}

	if block.Type == "RSA PRIVATE KEY" {
		return x509.ParsePKCS1PrivateKey(block.Bytes)
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is not RSA")
	}

	return rsaKey, nil
}
