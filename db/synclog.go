// ABOUTME: Database operations for the sync_journal table
// ABOUTME: Appends ULID-keyed records of pushes, updates, and deletes against the remote calendar
package db

import (
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/yensaimusic-cyber/nexus-label-sub000/models"
)

// AppendSyncEntry writes one journal row. The ULID key keeps entries lexically
// ordered by creation time.
func AppendSyncEntry(db *sql.DB, entry *models.SyncEntry) error {
	now := time.Now()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(now.UnixNano())), 0)
	entry.ID = ulid.MustNew(ulid.Timestamp(now), entropy).String()
	entry.CreatedAt = now

	_, err := db.Exec(`
		INSERT INTO sync_journal (id, action, entity_type, entity_id, remote_id, outcome, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Action, entry.EntityType, entry.EntityID,
		nullIfEmpty(entry.RemoteID), entry.Outcome, entry.Detail, entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to append sync entry: %w", err)
	}

	return nil
}

// RecentSyncEntries returns the newest journal rows, most recent first.
func RecentSyncEntries(db *sql.DB, limit int) ([]models.SyncEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT id, action, entity_type, entity_id, remote_id, outcome, detail, created_at
		FROM sync_journal
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync journal: %w", err)
	}
	defer rows.Close()

	var entries []models.SyncEntry
	for rows.Next() {
		var e models.SyncEntry
		var remoteID sql.NullString

		if err := rows.Scan(&e.ID, &e.Action, &e.EntityType, &e.EntityID, &remoteID, &e.Outcome, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sync entry: %w", err)
		}
		if remoteID.Valid {
			e.RemoteID = remoteID.String
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}
