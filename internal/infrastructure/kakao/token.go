package kakao

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
)

// tokenState is the private credential pair; an empty accessToken means NO_TOKEN.
type tokenState struct {
	refreshToken string
	accessToken  string
}

func (s tokenState) hasAccessToken() bool {
	return s.accessToken != ""
}

// TokenError is a failed refresh exchange as reported by the token endpoint.
type TokenError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *TokenError) Error() string {
	msg := fmt.Sprintf("kakao token endpoint returned %d", e.StatusCode)
	if e.Code != "" {
		msg += ": " + e.Code
	}
	if e.Description != "" {
		msg += " (" + e.Description + ")"
	}
	return msg
}

// AcquireAccessToken exchanges the refresh token for a fresh access token.
// On failure the notifier is left without an access token.
func (n *Notifier) AcquireAccessToken(ctx context.Context) error {
	n.state.accessToken = ""

	ctx = context.WithValue(ctx, oauth2.HTTPClient, n.client)
	seed := &oauth2.Token{RefreshToken: n.state.refreshToken}

	tok, err := n.oauth.TokenSource(ctx, seed).Token()
	if err != nil {
		var rErr *oauth2.RetrieveError
		if errors.As(err, &rErr) {
			tErr := &TokenError{
				Code:        rErr.ErrorCode,
				Description: rErr.ErrorDescription,
			}
			if rErr.Response != nil {
				tErr.StatusCode = rErr.Response.StatusCode
			}
			n.warn("access token refresh rejected",
				"status", tErr.StatusCode,
				"error_code", tErr.Code,
				"error_description", tErr.Description)
			return tErr
		}
		n.warn("access token refresh failed", "error", err)
		return fmt.Errorf("exchange refresh token: %w", err)
	}

	// Rotation: the provider may hand out a new refresh token and retire the old one.
	if tok.RefreshToken != "" && tok.RefreshToken != n.state.refreshToken {
		n.state.refreshToken = tok.RefreshToken
		n.warn("refresh token rotated", "refresh_token", mask(tok.RefreshToken))
	}
	n.state.accessToken = tok.AccessToken
	n.info("access token acquired", "expires_at", tok.Expiry)
	return nil
}

// RefreshToken returns the refresh token currently in use, rotated or not.
func (n *Notifier) RefreshToken() string {
	return n.state.refreshToken
}

func mask(secret string) string {
	if len(secret) <= 8 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:4] + "****" + secret[len(secret)-4:]
}
