// ABOUTME: Artist database operations
// ABOUTME: Handles CRUD operations and name lookups for label artists
package db

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yensaimusic-cyber/nexus-label-sub000/models"
)

func CreateArtist(db *sql.DB, artist *models.Artist) error {
	artist.ID = uuid.New()
	now := time.Now()
	artist.CreatedAt = now
	artist.UpdatedAt = now

	_, err := db.Exec(`
		INSERT INTO artists (id, name, genre, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, artist.ID.String(), artist.Name, artist.Genre, artist.Notes, artist.CreatedAt, artist.UpdatedAt)

	return err
}

func GetArtist(db *sql.DB, id uuid.UUID) (*models.Artist, error) {
	artist := &models.Artist{}

	err := db.QueryRow(`
		SELECT id, name, genre, notes, created_at, updated_at
		FROM artists WHERE id = ?
	`, id.String()).Scan(
		&artist.ID,
		&artist.Name,
		&artist.Genre,
		&artist.Notes,
		&artist.CreatedAt,
		&artist.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return artist, nil
}

func FindArtistByName(db *sql.DB, name string) (*models.Artist, error) {
	artist := &models.Artist{}

	err := db.QueryRow(`
		SELECT id, name, genre, notes, created_at, updated_at
		FROM artists WHERE LOWER(name) = ?
	`, strings.ToLower(name)).Scan(
		&artist.ID,
		&artist.Name,
		&artist.Genre,
		&artist.Notes,
		&artist.CreatedAt,
		&artist.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return artist, nil
}

func ListArtists(db *sql.DB, limit int) ([]models.Artist, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.Query(`
		SELECT id, name, genre, notes, created_at, updated_at
		FROM artists
		ORDER BY name
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artists []models.Artist
	for rows.Next() {
		var a models.Artist
		if err := rows.Scan(&a.ID, &a.Name, &a.Genre, &a.Notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		artists = append(artists, a)
	}

	return artists, rows.Err()
}
