// ABOUTME: OAuth configuration and handshake flow for Google Calendar
// ABOUTME: Builds consent URLs, exchanges authorization codes, and handles disconnect
package sync

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/yensaimusic-cyber/nexus-label-sub000/db"
	"github.com/yensaimusic-cyber/nexus-label-sub000/models"
)

const defaultRedirectURL = "http://localhost:8080/oauth/callback"

// revokeEndpoint is a var so tests can point it at a local server.
var revokeEndpoint = "https://oauth2.googleapis.com/revoke"

// NewOAuthConfig creates the OAuth2 config for Google Calendar from the
// environment. Missing credentials fail fast, before any network call.
func NewOAuthConfig() (*oauth2.Config, error) {
	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("google OAuth credentials not configured. Set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET environment variables")
	}

	redirectURL := os.Getenv("GOOGLE_REDIRECT_URL")
	if redirectURL == "" {
		redirectURL = defaultRedirectURL
	}

	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/calendar.events",
			"https://www.googleapis.com/auth/calendar.readonly",
		},
		Endpoint: google.Endpoint,
	}, nil
}

// AuthorizationURL builds the consent URL. The user id rides in the state
// parameter so the redirect callback can attribute the code without a
// server-side session.
func AuthorizationURL(config *oauth2.Config, userID string) string {
	return config.AuthCodeURL(userID,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"))
}

// ExchangeCode trades an authorization code for the initial token pair and
// upserts the user's token record.
func ExchangeCode(ctx context.Context, database *sql.DB, config *oauth2.Config, code, userID string) (*models.TokenRecord, error) {
	token, err := config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	rec := &models.TokenRecord{
		UserID:       userID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry.Unix(),
		CalendarID:   "primary",
	}
	if err := db.UpsertToken(database, rec); err != nil {
		return nil, err
	}

	return rec, nil
}

// Disconnect revokes the access token with Google (best effort) and deletes
// the local token record. Local deletion proceeds even when revocation fails;
// the user's intent to stop linking is always honorable locally.
func Disconnect(ctx context.Context, database *sql.DB, userID string) error {
	rec, err := db.GetToken(database, userID)
	if err != nil {
		return err
	}

	if rec != nil && rec.AccessToken != "" {
		if err := revokeToken(ctx, rec.AccessToken); err != nil {
			log.Printf("calendar disconnect: token revocation failed: %v", err)
		}
	}

	return db.DeleteToken(database, userID)
}

func revokeToken(ctx context.Context, accessToken string) error {
	body := url.Values{"token": {accessToken}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, revokeEndpoint, strings.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("revoke endpoint returned %d", resp.StatusCode)
	}
	return nil
}
