// ABOUTME: Tests for the event aggregator
// ABOUTME: Covers owner labels, kind mapping, ordering stability, and purity
package sync

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yensaimusic-cyber/nexus-label-sub000/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAggregateTaskAndReleaseSameDate(t *testing.T) {
	artistID := uuid.New()
	projectID := uuid.New()
	due := date(2025, 4, 1)

	in := AggregationInput{
		Tasks: []models.Task{{
			ID:      uuid.New(),
			Title:   "Mix approval",
			Status:  models.TaskStatusTodo,
			DueDate: &due,
		}},
		Projects: []models.Project{{
			ID:          projectID,
			Title:       "Neon Pulse",
			ArtistID:    &artistID,
			ReleaseDate: &due,
		}},
		Artists: []models.Artist{{ID: artistID, Name: "Velvet Era"}},
	}

	events := Aggregate(in)
	require.Len(t, events, 2)

	// Same date, two distinct events: task first (source order), then release
	assert.Equal(t, models.KindTask, events[0].Kind)
	assert.Equal(t, "Mix approval", events[0].Title)
	assert.Equal(t, "2025-04-01", events[0].Date)
	assert.Equal(t, models.KindRelease, events[1].Kind)
	assert.Equal(t, "Release: Neon Pulse", events[1].Title)
	assert.Equal(t, "Velvet Era", events[1].OwnerLabel)
	assert.Equal(t, "2025-04-01", events[1].Date)
	assert.NotEqual(t, events[0].ID, events[1].ID)
}

func TestAggregateMeetingFields(t *testing.T) {
	meeting := models.Meeting{
		ID:             uuid.New(),
		Title:          "A&R Sync",
		Date:           date(2025, 3, 10),
		Time:           "14:30",
		LinkedRemoteID: "g123",
	}

	events := Aggregate(AggregationInput{Meetings: []models.Meeting{meeting}})
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, models.KindMeeting, ev.Kind)
	assert.Equal(t, "Board/Team", ev.OwnerLabel)
	assert.Equal(t, "14:30", ev.Time)
	assert.Equal(t, "green", ev.ColorKey)
	assert.Equal(t, models.OriginLocal, ev.Origin)
	assert.Equal(t, meeting.ID.String(), ev.SourceRef)
	assert.Equal(t, "g123", ev.LinkedRemoteID)
}

func TestAggregateMeetingExplicitColorWins(t *testing.T) {
	meeting := models.Meeting{ID: uuid.New(), Title: "x", Date: date(2025, 1, 1), ColorKey: "teal"}
	events := Aggregate(AggregationInput{Meetings: []models.Meeting{meeting}})
	require.Len(t, events, 1)
	assert.Equal(t, "teal", events[0].ColorKey)
}

func TestAggregateSkipsDoneAndUndatedTasks(t *testing.T) {
	due := date(2025, 2, 1)
	in := AggregationInput{
		Tasks: []models.Task{
			{ID: uuid.New(), Title: "done task", Status: models.TaskStatusDone, DueDate: &due},
			{ID: uuid.New(), Title: "undated task", Status: models.TaskStatusTodo},
			{ID: uuid.New(), Title: "open task", Status: models.TaskStatusTodo, DueDate: &due},
		},
	}

	events := Aggregate(in)
	require.Len(t, events, 1)
	assert.Equal(t, "open task", events[0].Title)
	assert.Equal(t, "Internal", events[0].OwnerLabel, "task with no project gets the internal label")
}

func TestAggregateTaskOwnerViaProjectArtist(t *testing.T) {
	artistID := uuid.New()
	projectID := uuid.New()
	due := date(2025, 2, 1)

	in := AggregationInput{
		Tasks: []models.Task{{
			ID:        uuid.New(),
			Title:     "Master delivery",
			Status:    models.TaskStatusInProgress,
			DueDate:   &due,
			ProjectID: &projectID,
		}},
		Projects: []models.Project{{ID: projectID, Title: "LP", ArtistID: &artistID}},
		Artists:  []models.Artist{{ID: artistID, Name: "Neon Pulse"}},
	}

	events := Aggregate(in)
	require.Len(t, events, 1)
	assert.Equal(t, "Neon Pulse", events[0].OwnerLabel)
}

func TestAggregateRemoteEvents(t *testing.T) {
	in := AggregationInput{
		Remote: []RemoteEvent{
			{
				ID:        "ext1",
				Title:     "Distributor call",
				Start:     time.Date(2025, 3, 5, 15, 0, 0, 0, time.UTC),
				Organizer: "Dana Reyes",
			},
			{
				ID:     "ext2",
				Title:  "Conference",
				Start:  date(2025, 3, 6),
				AllDay: true,
			},
		},
	}

	events := Aggregate(in)
	require.Len(t, events, 2)

	assert.Equal(t, RemoteIDPrefix+"ext1", events[0].ID)
	assert.Equal(t, models.KindMeeting, events[0].Kind)
	assert.Equal(t, "Dana Reyes", events[0].OwnerLabel)
	assert.Equal(t, "15:00", events[0].Time)
	assert.Equal(t, models.OriginRemote, events[0].Origin)
	assert.Equal(t, "ext1", events[0].SourceRef)

	assert.Equal(t, "Google Calendar", events[1].OwnerLabel, "missing organizer falls back to generic label")
	assert.Empty(t, events[1].Time, "all-day remote event has no clock time")
}

func TestAggregateOrderingAndPurity(t *testing.T) {
	due := date(2025, 1, 2)
	in := AggregationInput{
		Meetings: []models.Meeting{
			{ID: uuid.New(), Title: "late meeting", Date: date(2025, 1, 3)},
			{ID: uuid.New(), Title: "early meeting", Date: date(2025, 1, 1)},
		},
		Tasks: []models.Task{
			{ID: uuid.New(), Title: "mid task", Status: models.TaskStatusTodo, DueDate: &due},
		},
		Remote: []RemoteEvent{
			{ID: "r1", Title: "mid remote", Start: date(2025, 1, 2)},
		},
	}

	first := Aggregate(in)
	second := Aggregate(in)
	assert.Equal(t, first, second, "aggregation must be deterministic")

	require.Len(t, first, 4)
	assert.Equal(t, "early meeting", first[0].Title)
	// Same-date tie: task before remote, per source order
	assert.Equal(t, "mid task", first[1].Title)
	assert.Equal(t, "mid remote", first[2].Title)
	assert.Equal(t, "late meeting", first[3].Title)
}
