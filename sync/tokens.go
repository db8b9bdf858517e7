// ABOUTME: Access token lifecycle management for the Google Calendar account
// ABOUTME: Refreshes expiring tokens via the refresh-token grant and persists the result
package sync

import (
	"context"
	"database/sql"
	"time"

	"golang.org/x/oauth2"

	"github.com/yensaimusic-cyber/nexus-label-sub000/db"
	"github.com/yensaimusic-cyber/nexus-label-sub000/models"
)

// refreshSafetyMargin is how close to expiry a token may get before it is
// refreshed ahead of use.
const refreshSafetyMargin = 60 * time.Second

// Credentials is what a remote call needs: a validated access token and the
// calendar it targets.
type Credentials struct {
	AccessToken string
	CalendarID  string
}

// TokenProvider yields fresh credentials for a user. Refresh forces a new
// grant regardless of expiry, for the one retry after an ErrAuthExpired.
type TokenProvider interface {
	Fresh(ctx context.Context, userID string) (Credentials, error)
	Refresh(ctx context.Context, userID string) (Credentials, error)
}

// TokenManager implements TokenProvider over the calendar_tokens table.
// Concurrent refreshes for the same user may both hit the token endpoint;
// Google tolerates redundant refreshes and the store write is last-write-wins.
type TokenManager struct {
	db     *sql.DB
	config *oauth2.Config
	now    func() time.Time
}

func NewTokenManager(database *sql.DB, config *oauth2.Config) *TokenManager {
	return &TokenManager{db: database, config: config, now: time.Now}
}

// Fresh returns the stored access token, refreshing it first when it is
// missing or within the safety margin of expiry.
func (m *TokenManager) Fresh(ctx context.Context, userID string) (Credentials, error) {
	rec, err := db.GetToken(m.db, userID)
	if err != nil {
		return Credentials{}, err
	}
	if rec == nil {
		return Credentials{}, ErrUnauthenticated
	}

	if rec.AccessToken != "" && rec.Expiry().After(m.now().Add(refreshSafetyMargin)) {
		return Credentials{AccessToken: rec.AccessToken, CalendarID: rec.CalendarID}, nil
	}

	return m.refresh(ctx, rec)
}

// Refresh performs the refresh-token grant unconditionally.
func (m *TokenManager) Refresh(ctx context.Context, userID string) (Credentials, error) {
	rec, err := db.GetToken(m.db, userID)
	if err != nil {
		return Credentials{}, err
	}
	if rec == nil {
		return Credentials{}, ErrUnauthenticated
	}

	return m.refresh(ctx, rec)
}

func (m *TokenManager) refresh(ctx context.Context, rec *models.TokenRecord) (Credentials, error) {
	// A stored token without OAuth client credentials cannot be refreshed
	if m.config == nil {
		return Credentials{}, ErrUnauthenticated
	}

	// Seeding the source with only the refresh token forces a grant
	source := m.config.TokenSource(ctx, &oauth2.Token{RefreshToken: rec.RefreshToken})

	token, err := source.Token()
	if err != nil {
		return Credentials{}, classifyRefreshError(err)
	}

	rec.AccessToken = token.AccessToken
	rec.ExpiresAt = token.Expiry.Unix()
	if token.RefreshToken != "" && token.RefreshToken != rec.RefreshToken {
		rec.RefreshToken = token.RefreshToken
	}

	if err := db.UpsertToken(m.db, rec); err != nil {
		return Credentials{}, err
	}

	return Credentials{AccessToken: rec.AccessToken, CalendarID: rec.CalendarID}, nil
}
