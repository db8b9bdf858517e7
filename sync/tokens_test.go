// ABOUTME: Tests for access token refresh behavior
// ABOUTME: Covers the 60-second safety margin, persistence, and refresh failure classification
package sync

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/yensaimusic-cyber/nexus-label-sub000/db"
	"github.com/yensaimusic-cyber/nexus-label-sub000/models"
)

func setupSyncTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.InitSchema(database))
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// tokenEndpoint returns a fake OAuth token endpoint and a counter of grants
// performed against it.
func tokenEndpoint(t *testing.T, status int, accessToken string, expiresIn int) (*httptest.Server, *int) {
	t.Helper()

	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": accessToken,
			"token_type":   "Bearer",
			"expires_in":   expiresIn,
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func testOAuthConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
	}
}

func seedToken(t *testing.T, database *sql.DB, expiresAt time.Time) {
	t.Helper()
	require.NoError(t, db.UpsertToken(database, &models.TokenRecord{
		UserID:       "u1",
		AccessToken:  "stored-access",
		RefreshToken: "stored-refresh",
		ExpiresAt:    expiresAt.Unix(),
	}))
}

func TestFreshInsideMarginRefreshes(t *testing.T) {
	database := setupSyncTestDB(t)
	srv, hits := tokenEndpoint(t, http.StatusOK, "new-access", 3600)

	manager := NewTokenManager(database, testOAuthConfig(srv.URL))
	now := time.Now()
	manager.now = func() time.Time { return now }

	// expires_at = now+30s is inside the 60s margin
	seedToken(t, database, now.Add(30*time.Second))

	creds, err := manager.Fresh(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "new-access", creds.AccessToken)
	assert.Equal(t, "primary", creds.CalendarID)
	assert.Equal(t, 1, *hits, "expected exactly one refresh grant")

	// The new value was persisted, and its expiry is in the future
	rec, err := db.GetToken(database, "u1")
	require.NoError(t, err)
	assert.Equal(t, "new-access", rec.AccessToken)
	assert.True(t, rec.Expiry().After(now), "refreshed expiry must not be in the past")
}

func TestFreshOutsideMarginSkipsRefresh(t *testing.T) {
	database := setupSyncTestDB(t)
	srv, hits := tokenEndpoint(t, http.StatusOK, "new-access", 3600)

	manager := NewTokenManager(database, testOAuthConfig(srv.URL))
	now := time.Now()
	manager.now = func() time.Time { return now }

	// expires_at = now+120s is comfortably outside the margin
	seedToken(t, database, now.Add(120*time.Second))

	creds, err := manager.Fresh(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "stored-access", creds.AccessToken)
	assert.Equal(t, 0, *hits, "refresh endpoint must not be called")
}

func TestFreshMissingAccessTokenRefreshes(t *testing.T) {
	database := setupSyncTestDB(t)
	srv, hits := tokenEndpoint(t, http.StatusOK, "new-access", 3600)

	manager := NewTokenManager(database, testOAuthConfig(srv.URL))

	require.NoError(t, db.UpsertToken(database, &models.TokenRecord{
		UserID:       "u1",
		AccessToken:  "",
		RefreshToken: "stored-refresh",
		ExpiresAt:    time.Now().Add(time.Hour).Unix(),
	}))

	creds, err := manager.Fresh(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "new-access", creds.AccessToken)
	assert.Equal(t, 1, *hits)
}

func TestFreshNoRecordIsUnauthenticated(t *testing.T) {
	database := setupSyncTestDB(t)
	manager := NewTokenManager(database, testOAuthConfig("http://unused.invalid"))

	_, err := manager.Fresh(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestFreshExpiredTokenWithoutConfigErrors(t *testing.T) {
	database := setupSyncTestDB(t)

	// Token row from an earlier connect, but no OAuth client credentials
	manager := NewTokenManager(database, nil)
	now := time.Now()
	manager.now = func() time.Time { return now }

	seedToken(t, database, now.Add(-time.Minute))

	_, err := manager.Fresh(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = manager.Refresh(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRefreshRejectedRequiresReauth(t *testing.T) {
	database := setupSyncTestDB(t)
	srv, _ := tokenEndpoint(t, http.StatusBadRequest, "", 0)

	manager := NewTokenManager(database, testOAuthConfig(srv.URL))
	now := time.Now()
	manager.now = func() time.Time { return now }

	seedToken(t, database, now.Add(-time.Minute))

	_, err := manager.Fresh(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrReauthRequired)

	// The dead token record is left in place for the reconnect prompt
	rec, err := db.GetToken(database, "u1")
	require.NoError(t, err)
	assert.Equal(t, "stored-access", rec.AccessToken)
}

func TestRefreshEndpointDownIsRemoteUnavailable(t *testing.T) {
	database := setupSyncTestDB(t)
	srv, _ := tokenEndpoint(t, http.StatusInternalServerError, "", 0)

	manager := NewTokenManager(database, testOAuthConfig(srv.URL))
	now := time.Now()
	manager.now = func() time.Time { return now }

	seedToken(t, database, now.Add(-time.Minute))

	_, err := manager.Fresh(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
}
