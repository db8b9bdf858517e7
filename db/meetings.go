// ABOUTME: Meeting database operations
// ABOUTME: Handles CRUD operations and remote calendar link lifecycle for meetings
package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/yensaimusic-cyber/nexus-label-sub000/models"
)

func CreateMeeting(db *sql.DB, meeting *models.Meeting) error {
	meeting.ID = uuid.New()
	now := time.Now()
	meeting.CreatedAt = now
	meeting.UpdatedAt = now

	var projectID *string
	if meeting.ProjectID != nil {
		s := meeting.ProjectID.String()
		projectID = &s
	}

	attendees, err := json.Marshal(meeting.Attendees)
	if err != nil {
		return err
	}
	actionItems, err := json.Marshal(meeting.ActionItems)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO meetings (id, title, date, time, summary, attendees, action_items, project_id, color_key, linked_remote_id, synced_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, meeting.ID.String(), meeting.Title, meeting.Date, meeting.Time, meeting.Summary,
		string(attendees), string(actionItems), projectID, meeting.ColorKey,
		nullIfEmpty(meeting.LinkedRemoteID), meeting.SyncedAt, meeting.CreatedAt, meeting.UpdatedAt)

	return err
}

func GetMeeting(db *sql.DB, id uuid.UUID) (*models.Meeting, error) {
	row := db.QueryRow(`
		SELECT id, title, date, time, summary, attendees, action_items, project_id, color_key, linked_remote_id, synced_at, created_at, updated_at
		FROM meetings WHERE id = ?
	`, id.String())

	return scanMeeting(row)
}

func UpdateMeeting(db *sql.DB, meeting *models.Meeting) error {
	meeting.UpdatedAt = time.Now()

	var projectID *string
	if meeting.ProjectID != nil {
		s := meeting.ProjectID.String()
		projectID = &s
	}

	attendees, err := json.Marshal(meeting.Attendees)
	if err != nil {
		return err
	}
	actionItems, err := json.Marshal(meeting.ActionItems)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		UPDATE meetings
		SET title = ?, date = ?, time = ?, summary = ?, attendees = ?, action_items = ?, project_id = ?, color_key = ?, updated_at = ?
		WHERE id = ?
	`, meeting.Title, meeting.Date, meeting.Time, meeting.Summary, string(attendees),
		string(actionItems), projectID, meeting.ColorKey, meeting.UpdatedAt, meeting.ID.String())

	return err
}

func DeleteMeeting(db *sql.DB, id uuid.UUID) error {
	_, err := db.Exec(`DELETE FROM meetings WHERE id = ?`, id.String())
	return err
}

func ListMeetings(db *sql.DB) ([]models.Meeting, error) {
	rows, err := db.Query(`
		SELECT id, title, date, time, summary, attendees, action_items, project_id, color_key, linked_remote_id, synced_at, created_at, updated_at
		FROM meetings
		ORDER BY date
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meetings []models.Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, *m)
	}

	return meetings, rows.Err()
}

// SetMeetingRemoteLink records a successful remote create: linked_remote_id is
// null until then, and cleared again on delete or unlink.
func SetMeetingRemoteLink(db *sql.DB, id uuid.UUID, remoteID string) error {
	var syncedAt *time.Time
	if remoteID != "" {
		now := time.Now()
		syncedAt = &now
	}

	_, err := db.Exec(`
		UPDATE meetings SET linked_remote_id = ?, synced_at = ?, updated_at = ? WHERE id = ?
	`, nullIfEmpty(remoteID), syncedAt, time.Now(), id.String())
	return err
}

func scanMeeting(row rowScanner) (*models.Meeting, error) {
	meeting := &models.Meeting{}
	var attendees, actionItems string
	var projectID sql.NullString
	var linkedRemoteID sql.NullString
	var syncedAt sql.NullTime

	err := row.Scan(
		&meeting.ID,
		&meeting.Title,
		&meeting.Date,
		&meeting.Time,
		&meeting.Summary,
		&attendees,
		&actionItems,
		&projectID,
		&meeting.ColorKey,
		&linkedRemoteID,
		&syncedAt,
		&meeting.CreatedAt,
		&meeting.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if attendees != "" {
		if err := json.Unmarshal([]byte(attendees), &meeting.Attendees); err != nil {
			return nil, err
		}
	}
	if actionItems != "" {
		if err := json.Unmarshal([]byte(actionItems), &meeting.ActionItems); err != nil {
			return nil, err
		}
	}
	if projectID.Valid {
		pid, err := uuid.Parse(projectID.String)
		if err == nil {
			meeting.ProjectID = &pid
		}
	}
	if linkedRemoteID.Valid {
		meeting.LinkedRemoteID = linkedRemoteID.String
	}
	if syncedAt.Valid {
		meeting.SyncedAt = &syncedAt.Time
	}

	return meeting, nil
}
