// ABOUTME: Shared test setup for MCP tool handler tests
// ABOUTME: Provides an in-memory database and a fake calendar service
package handlers

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"github.com/yensaimusic-cyber/nexus-label-sub000/db"
	"github.com/yensaimusic-cyber/nexus-label-sub000/models"
	"github.com/yensaimusic-cyber/nexus-label-sub000/sync"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := db.InitSchema(database); err != nil {
		t.Fatalf("Failed to initialize schema: %v", err)
	}
	return database
}

// localOnlyService runs the calendar tools against the local store without a
// remote calendar, the way a never-connected install behaves.
type localOnlyService struct {
	db      *sql.DB
	warning *sync.SyncWarning

	remoteErr     error
	remotePatches map[string]sync.EventPatch
	remoteDeletes []string
}

func (s *localOnlyService) CreateMeeting(_ context.Context, _ string, meeting *models.Meeting, pushRemote bool) (*sync.SyncWarning, error) {
	if err := db.CreateMeeting(s.db, meeting); err != nil {
		return nil, err
	}
	if pushRemote {
		return s.warning, nil
	}
	return nil, nil
}

func (s *localOnlyService) UpdateMeeting(_ context.Context, _ string, meeting *models.Meeting) (*sync.SyncWarning, error) {
	return s.warning, db.UpdateMeeting(s.db, meeting)
}

func (s *localOnlyService) DeleteMeeting(_ context.Context, _ string, meetingID uuid.UUID) (*sync.SyncWarning, error) {
	return s.warning, db.DeleteMeeting(s.db, meetingID)
}

func (s *localOnlyService) UpdateRemoteEvent(_ context.Context, _ string, remoteID string, patch sync.EventPatch) error {
	if s.remoteErr != nil {
		return s.remoteErr
	}
	if s.remotePatches == nil {
		s.remotePatches = map[string]sync.EventPatch{}
	}
	s.remotePatches[remoteID] = patch
	return nil
}

func (s *localOnlyService) DeleteRemoteEvent(_ context.Context, _ string, remoteID string) error {
	if s.remoteErr != nil {
		return s.remoteErr
	}
	s.remoteDeletes = append(s.remoteDeletes, remoteID)
	return nil
}

func (s *localOnlyService) Snapshot(_ context.Context, _ string) (*sync.Snapshot, error) {
	meetings, err := db.ListMeetings(s.db)
	if err != nil {
		return nil, err
	}
	tasks, err := db.ListOpenDatedTasks(s.db)
	if err != nil {
		return nil, err
	}
	projects, err := db.ListProjects(s.db, 0)
	if err != nil {
		return nil, err
	}
	artists, err := db.ListArtists(s.db, 0)
	if err != nil {
		return nil, err
	}

	return &sync.Snapshot{
		Events: sync.Aggregate(sync.AggregationInput{
			Meetings: meetings,
			Tasks:    tasks,
			Projects: projects,
			Artists:  artists,
		}),
	}, nil
}
