// ABOUTME: Database operations for the calendar_tokens table
// ABOUTME: Manages the per-user Google Calendar OAuth token record
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/yensaimusic-cyber/nexus-label-sub000/models"
)

// GetToken retrieves the token record for a user. Returns nil when the user
// has never connected a calendar.
func GetToken(db *sql.DB, userID string) (*models.TokenRecord, error) {
	rec := &models.TokenRecord{}

	err := db.QueryRow(`
		SELECT user_id, access_token, refresh_token, expires_at, calendar_id, updated_at
		FROM calendar_tokens
		WHERE user_id = ?
	`, userID).Scan(
		&rec.UserID,
		&rec.AccessToken,
		&rec.RefreshToken,
		&rec.ExpiresAt,
		&rec.CalendarID,
		&rec.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	return rec, nil
}

// UpsertToken creates or replaces the token record for a user. Last write
// wins, which keeps concurrent refreshes consistent without locking.
func UpsertToken(db *sql.DB, rec *models.TokenRecord) error {
	if rec.CalendarID == "" {
		rec.CalendarID = "primary"
	}
	rec.UpdatedAt = time.Now()

	_, err := db.Exec(`
		INSERT INTO calendar_tokens (user_id, access_token, refresh_token, expires_at, calendar_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at,
			calendar_id = excluded.calendar_id,
			updated_at = excluded.updated_at
	`, rec.UserID, rec.AccessToken, rec.RefreshToken, rec.ExpiresAt, rec.CalendarID, rec.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert token: %w", err)
	}

	return nil
}

// DeleteToken removes the token record for a user. Deleting a missing record
// is not an error.
func DeleteToken(db *sql.DB, userID string) error {
	_, err := db.Exec(`DELETE FROM calendar_tokens WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
