// ABOUTME: Data models for label calendar entities
// ABOUTME: Defines Artist, Project, Task, Meeting, TokenRecord, and NormalizedEvent structs
package models

import (
	"time"

	"github.com/google/uuid"
)

type Artist struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Genre     string    `json:"genre,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Project struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	ArtistID       *uuid.UUID `json:"artist_id,omitempty"`
	Status         string     `json:"status"`
	ReleaseDate    *time.Time `json:"release_date,omitempty"`
	LinkedRemoteID string     `json:"linked_remote_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type Task struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Status         string     `json:"status"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	ProjectID      *uuid.UUID `json:"project_id,omitempty"`
	Assignee       string     `json:"assignee,omitempty"`
	LinkedRemoteID string     `json:"linked_remote_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type Meeting struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Date           time.Time  `json:"date"`
	Time           string     `json:"time,omitempty"` // HH:MM, empty for all-day
	Summary        string     `json:"summary,omitempty"`
	Attendees      []string   `json:"attendees,omitempty"`
	ActionItems    []string   `json:"action_items,omitempty"`
	ProjectID      *uuid.UUID `json:"project_id,omitempty"`
	ColorKey       string     `json:"color_key,omitempty"`
	LinkedRemoteID string     `json:"linked_remote_id,omitempty"`
	SyncedAt       *time.Time `json:"synced_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TokenRecord holds the Google Calendar OAuth credentials for one user.
// At most one record exists per user; refreshes mutate it in place.
type TokenRecord struct {
	UserID       string    `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    int64     `json:"expires_at"` // epoch seconds
	CalendarID   string    `json:"calendar_id"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Expiry returns the access token expiry as a time.Time.
func (t *TokenRecord) Expiry() time.Time {
	return time.Unix(t.ExpiresAt, 0)
}

// Event kinds.
const (
	KindRelease = "release"
	KindSession = "session"
	KindPromo   = "promo"
	KindMeeting = "meeting"
	KindTask    = "task"
)

// Event origins.
const (
	OriginLocal  = "local"
	OriginRemote = "remote"
)

// Task status constants.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// Project status constants.
const (
	ProjectStatusPlanning   = "planning"
	ProjectStatusProduction = "production"
	ProjectStatusReleased   = "released"
)

// NormalizedEvent is the unified calendar item shown to the user. It is
// recomputed on every aggregation pass and never stored.
type NormalizedEvent struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Kind           string `json:"kind"`
	OwnerLabel     string `json:"owner_label"`
	Date           string `json:"date"`           // YYYY-MM-DD
	Time           string `json:"time,omitempty"` // HH:MM, empty for all-day
	ColorKey       string `json:"color_key,omitempty"`
	Origin         string `json:"origin"`
	SourceRef      string `json:"source_ref"`
	LinkedRemoteID string `json:"linked_remote_id,omitempty"`
}

// KindColors maps event kinds to their default color keys.
var KindColors = map[string]string{
	KindRelease: "violet",
	KindSession: "blue",
	KindPromo:   "amber",
	KindMeeting: "green",
	KindTask:    "rose",
}

// ColorKeyOrDefault resolves an explicit color key, falling back to the
// kind's default.
func ColorKeyOrDefault(colorKey, kind string) string {
	if colorKey != "" {
		return colorKey
	}
	if c, ok := KindColors[kind]; ok {
		return c
	}
	return "slate"
}

// Sync journal entry actions.
const (
	SyncActionPush    = "push"
	SyncActionUpdate  = "update"
	SyncActionDelete  = "delete"
	SyncActionRefresh = "refresh"
)

// Sync journal entry outcomes.
const (
	SyncOutcomeOK      = "ok"
	SyncOutcomeWarning = "warning"
	SyncOutcomeError   = "error"
)

// SyncEntry records one sync operation against the remote calendar.
type SyncEntry struct {
	ID         string    `json:"id"` // ULID, lexically sortable by time
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	RemoteID   string    `json:"remote_id,omitempty"`
	Outcome    string    `json:"outcome"`
	Detail     string    `json:"detail,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
