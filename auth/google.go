package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

var (
	// ErrProviderUnavailable means the federated verifier is not
	// configured; callers should tell the client to use password auth.
	ErrProviderUnavailable = errors.New("identity provider not configured")
	// ErrInvalidIDToken means the token failed verification.
	ErrInvalidIDToken = errors.New("invalid identity token")
)

// FederatedIdentity is the verified subject plus profile claims.
type FederatedIdentity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// IdentityProvider verifies a federated ID token out of process.
type IdentityProvider interface {
	VerifyIDToken(ctx context.Context, idToken string) (*FederatedIdentity, error)
}

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// GoogleProvider verifies Google ID tokens against the issuer's tokeninfo
// endpoint and checks the audience against the configured client id.
type GoogleProvider struct {
	clientID string
	baseURL  string
	client   *http.Client
}

// NewGoogleProvider returns a provider, or nil when no client id is
// configured (Google sign-in disabled).
func NewGoogleProvider(clientID string) *GoogleProvider {
	if clientID == "" {
		return nil
	}
	return &GoogleProvider{
		clientID: clientID,
		baseURL:  googleTokenInfoURL,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type tokenInfoResponse struct {
	Subject  string `json:"sub"`
	Audience string `json:"aud"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Picture  string `json:"picture"`
	Expiry   string `json:"exp"`
}

func (p *GoogleProvider) VerifyIDToken(ctx context.Context, idToken string) (*FederatedIdentity, error) {
	endpoint := p.baseURL + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build tokeninfo request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidIDToken
	}

	var info tokenInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode tokeninfo response: %w", err)
	}

	if info.Audience != p.clientID || info.Subject == "" || info.Email == "" {
		return nil, ErrInvalidIDToken
	}

	return &FederatedIdentity{
		Subject: info.Subject,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}
