// ABOUTME: Project database operations
// ABOUTME: Handles CRUD operations, release date queries, and remote link updates
package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/yensaimusic-cyber/nexus-label-sub000/models"
)

func CreateProject(db *sql.DB, project *models.Project) error {
	project.ID = uuid.New()
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now
	if project.Status == "" {
		project.Status = models.ProjectStatusPlanning
	}

	var artistID *string
	if project.ArtistID != nil {
		s := project.ArtistID.String()
		artistID = &s
	}

	_, err := db.Exec(`
		INSERT INTO projects (id, title, artist_id, status, release_date, linked_remote_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, project.ID.String(), project.Title, artistID, project.Status, project.ReleaseDate,
		nullIfEmpty(project.LinkedRemoteID), project.CreatedAt, project.UpdatedAt)

	return err
}

func GetProject(db *sql.DB, id uuid.UUID) (*models.Project, error) {
	row := db.QueryRow(`
		SELECT id, title, artist_id, status, release_date, linked_remote_id, created_at, updated_at
		FROM projects WHERE id = ?
	`, id.String())

	return scanProject(row)
}

func ListProjects(db *sql.DB, limit int) ([]models.Project, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.Query(`
		SELECT id, title, artist_id, status, release_date, linked_remote_id, created_at, updated_at
		FROM projects
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}

	return projects, rows.Err()
}

// ListReleaseProjects returns projects with a release date set, ordered by date.
func ListReleaseProjects(db *sql.DB) ([]models.Project, error) {
	rows, err := db.Query(`
		SELECT id, title, artist_id, status, release_date, linked_remote_id, created_at, updated_at
		FROM projects
		WHERE release_date IS NOT NULL
		ORDER BY release_date
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}

	return projects, rows.Err()
}

// SetProjectRemoteLink records the remote calendar event mirroring a release date.
// Best effort: an empty remoteID clears the link.
func SetProjectRemoteLink(db *sql.DB, id uuid.UUID, remoteID string) error {
	_, err := db.Exec(`
		UPDATE projects SET linked_remote_id = ?, updated_at = ? WHERE id = ?
	`, nullIfEmpty(remoteID), time.Now(), id.String())
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	project := &models.Project{}
	var artistID sql.NullString
	var releaseDate sql.NullTime
	var linkedRemoteID sql.NullString

	err := row.Scan(
		&project.ID,
		&project.Title,
		&artistID,
		&project.Status,
		&releaseDate,
		&linkedRemoteID,
		&project.CreatedAt,
		&project.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if artistID.Valid {
		aid, err := uuid.Parse(artistID.String)
		if err == nil {
			project.ArtistID = &aid
		}
	}
	if releaseDate.Valid {
		project.ReleaseDate = &releaseDate.Time
	}
	if linkedRemoteID.Valid {
		project.LinkedRemoteID = linkedRemoteID.String
	}

	return project, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
