// ABOUTME: Sync coordinator keeping local records and their remote calendar twins consistent
// ABOUTME: Local store is authoritative; the remote calendar is a best-effort mirror
package sync

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/yensaimusic-cyber/nexus-label-sub000/db"
	"github.com/yensaimusic-cyber/nexus-label-sub000/models"
)

// Coordinator orchestrates create, update, and delete across the local store
// and the remote calendar. Remote failures never roll back local writes; they
// surface as SyncWarnings.
type Coordinator struct {
	db       *sql.DB
	remote   RemoteCalendar
	tokens   TokenProvider
	cache    *EventCache  // optional
	notifier *db.Notifier // optional
}

func NewCoordinator(database *sql.DB, remote RemoteCalendar, tokens TokenProvider) *Coordinator {
	return &Coordinator{db: database, remote: remote, tokens: tokens}
}

// WithCache attaches a remote-event cache used when Google is unreachable.
func (c *Coordinator) WithCache(cache *EventCache) *Coordinator {
	c.cache = cache
	return c
}

// WithNotifier attaches a change notifier fired after each local mutation.
func (c *Coordinator) WithNotifier(n *db.Notifier) *Coordinator {
	c.notifier = n
	return c
}

func (c *Coordinator) notify(entity string) {
	if c.notifier != nil {
		c.notifier.Notify(entity)
	}
}

func (c *Coordinator) journal(action, entityType, entityID, remoteID, outcome, detail string) {
	entry := &models.SyncEntry{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		RemoteID:   remoteID,
		Outcome:    outcome,
		Detail:     detail,
	}
	if err := db.AppendSyncEntry(c.db, entry); err != nil {
		// The journal is advisory; a failed append must not fail the operation
		log.Printf("warning: sync journal append failed: %v", err)
	}
}

// withRetry runs a remote call, retrying exactly once with forcibly refreshed
// credentials when the access token is rejected mid-call.
func (c *Coordinator) withRetry(ctx context.Context, userID string, fn func(creds Credentials) error) error {
	creds, err := c.tokens.Fresh(ctx, userID)
	if err != nil {
		return err
	}

	err = fn(creds)
	if errors.Is(err, ErrAuthExpired) {
		creds, err = c.tokens.Refresh(ctx, userID)
		if err != nil {
			return err
		}
		err = fn(creds)
	}
	return err
}

// meetingStart returns the event start for a meeting: its date at the given
// clock time, or 09:00 when the meeting has none.
func meetingStart(m *models.Meeting) time.Time {
	clock := m.Time
	if clock == "" {
		clock = "09:00"
	}
	if t, err := time.Parse("15:04", clock); err == nil {
		return time.Date(m.Date.Year(), m.Date.Month(), m.Date.Day(), t.Hour(), t.Minute(), 0, 0, time.Local)
	}
	return time.Date(m.Date.Year(), m.Date.Month(), m.Date.Day(), 9, 0, 0, 0, time.Local)
}

func meetingDraft(m *models.Meeting) EventDraft {
	return EventDraft{
		Title:          m.Title,
		Description:    m.Summary,
		Start:          meetingStart(m),
		AttendeeEmails: m.Attendees,
		ColorID:        m.ColorKey,
	}
}

// CreateMeeting writes the meeting locally first, so it exists even if the
// remote push fails, then optionally mirrors it to the remote calendar and
// links the returned id.
func (c *Coordinator) CreateMeeting(ctx context.Context, userID string, meeting *models.Meeting, pushRemote bool) (*SyncWarning, error) {
	if err := db.CreateMeeting(c.db, meeting); err != nil {
		return nil, err
	}
	c.notify(db.EntityMeetings)

	if !pushRemote {
		return nil, nil
	}

	var created *RemoteEvent
	err := c.withRetry(ctx, userID, func(creds Credentials) error {
		ev, err := c.remote.CreateEvent(ctx, creds.AccessToken, creds.CalendarID, meetingDraft(meeting))
		if err != nil {
			return err
		}
		created = ev
		return nil
	})
	if err != nil {
		c.journal(models.SyncActionPush, "meeting", meeting.ID.String(), "", models.SyncOutcomeWarning, err.Error())
		return warnf("push meeting", err), nil
	}

	if err := db.SetMeetingRemoteLink(c.db, meeting.ID, created.ID); err != nil {
		return nil, err
	}
	meeting.LinkedRemoteID = created.ID
	c.notify(db.EntityMeetings)
	c.journal(models.SyncActionPush, "meeting", meeting.ID.String(), created.ID, models.SyncOutcomeOK, "")

	return nil, nil
}

// UpdateMeeting writes the local record, then patches the linked remote event
// if one exists. A remote failure is reported but the local write stands.
func (c *Coordinator) UpdateMeeting(ctx context.Context, userID string, meeting *models.Meeting) (*SyncWarning, error) {
	if err := db.UpdateMeeting(c.db, meeting); err != nil {
		return nil, err
	}
	c.notify(db.EntityMeetings)

	if meeting.LinkedRemoteID == "" {
		return nil, nil
	}

	start := meetingStart(meeting)
	end := start.Add(defaultEventDuration)
	patch := EventPatch{
		Title:       &meeting.Title,
		Description: &meeting.Summary,
		Start:       &start,
		End:         &end,
	}
	if meeting.ColorKey != "" {
		patch.ColorID = &meeting.ColorKey
	}

	err := c.withRetry(ctx, userID, func(creds Credentials) error {
		return c.remote.UpdateEvent(ctx, creds.AccessToken, creds.CalendarID, meeting.LinkedRemoteID, patch)
	})
	if err != nil {
		c.journal(models.SyncActionUpdate, "meeting", meeting.ID.String(), meeting.LinkedRemoteID, models.SyncOutcomeWarning, err.Error())
		return warnf("update remote event", err), nil
	}

	c.journal(models.SyncActionUpdate, "meeting", meeting.ID.String(), meeting.LinkedRemoteID, models.SyncOutcomeOK, "")
	return nil, nil
}

// DeleteMeeting deletes the remote twin first (tolerating already-deleted),
// then removes the local record regardless, so a remote error can never strand
// a stale local item.
func (c *Coordinator) DeleteMeeting(ctx context.Context, userID string, meetingID uuid.UUID) (*SyncWarning, error) {
	meeting, err := db.GetMeeting(c.db, meetingID)
	if err != nil {
		return nil, err
	}
	if meeting == nil {
		return nil, nil
	}

	var warning *SyncWarning
	if meeting.LinkedRemoteID != "" {
		err := c.withRetry(ctx, userID, func(creds Credentials) error {
			return c.remote.DeleteEvent(ctx, creds.AccessToken, creds.CalendarID, meeting.LinkedRemoteID)
		})
		if err != nil {
			warning = warnf("delete remote event", err)
			c.journal(models.SyncActionDelete, "meeting", meeting.ID.String(), meeting.LinkedRemoteID, models.SyncOutcomeWarning, err.Error())
		} else {
			c.journal(models.SyncActionDelete, "meeting", meeting.ID.String(), meeting.LinkedRemoteID, models.SyncOutcomeOK, "")
		}
	}

	if err := db.DeleteMeeting(c.db, meetingID); err != nil {
		return warning, err
	}
	c.notify(db.EntityMeetings)

	return warning, nil
}

// UpdateRemoteEvent patches an event that exists only in the external
// calendar; there is no local row to touch. NotFound is a hard failure here.
func (c *Coordinator) UpdateRemoteEvent(ctx context.Context, userID, remoteID string, patch EventPatch) error {
	return c.withRetry(ctx, userID, func(creds Credentials) error {
		return c.remote.UpdateEvent(ctx, creds.AccessToken, creds.CalendarID, remoteID, patch)
	})
}

// DeleteRemoteEvent removes a remote-only event.
func (c *Coordinator) DeleteRemoteEvent(ctx context.Context, userID, remoteID string) error {
	return c.withRetry(ctx, userID, func(creds Credentials) error {
		return c.remote.DeleteEvent(ctx, creds.AccessToken, creds.CalendarID, remoteID)
	})
}

// PushTaskDeadline mirrors a task's due date to the remote calendar and
// records the link best-effort on the task row.
func (c *Coordinator) PushTaskDeadline(ctx context.Context, userID string, taskID uuid.UUID) (*SyncWarning, error) {
	task, err := db.GetTask(c.db, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil || task.DueDate == nil {
		return nil, fmt.Errorf("task has no due date to push")
	}

	draft := EventDraft{
		Title: "Due: " + task.Title,
		Start: *task.DueDate,
	}

	var created *RemoteEvent
	err = c.withRetry(ctx, userID, func(creds Credentials) error {
		ev, err := c.remote.CreateEvent(ctx, creds.AccessToken, creds.CalendarID, draft)
		if err != nil {
			return err
		}
		created = ev
		return nil
	})
	if err != nil {
		c.journal(models.SyncActionPush, "task", task.ID.String(), "", models.SyncOutcomeWarning, err.Error())
		return warnf("push task deadline", err), nil
	}

	if err := db.SetTaskRemoteLink(c.db, task.ID, created.ID); err != nil {
		return nil, err
	}
	c.notify(db.EntityTasks)
	c.journal(models.SyncActionPush, "task", task.ID.String(), created.ID, models.SyncOutcomeOK, "")

	return nil, nil
}

// PushProjectRelease mirrors a project's release date to the remote calendar.
func (c *Coordinator) PushProjectRelease(ctx context.Context, userID string, projectID uuid.UUID) (*SyncWarning, error) {
	project, err := db.GetProject(c.db, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil || project.ReleaseDate == nil {
		return nil, fmt.Errorf("project has no release date to push")
	}

	draft := EventDraft{
		Title: "Release: " + project.Title,
		Start: *project.ReleaseDate,
	}

	var created *RemoteEvent
	err = c.withRetry(ctx, userID, func(creds Credentials) error {
		ev, err := c.remote.CreateEvent(ctx, creds.AccessToken, creds.CalendarID, draft)
		if err != nil {
			return err
		}
		created = ev
		return nil
	})
	if err != nil {
		c.journal(models.SyncActionPush, "project", project.ID.String(), "", models.SyncOutcomeWarning, err.Error())
		return warnf("push release date", err), nil
	}

	if err := db.SetProjectRemoteLink(c.db, project.ID, created.ID); err != nil {
		return nil, err
	}
	c.notify(db.EntityProjects)
	c.journal(models.SyncActionPush, "project", project.ID.String(), created.ID, models.SyncOutcomeOK, "")

	return nil, nil
}

// Snapshot is one aggregation pass: everything local, plus the remote window,
// merged into the normalized timeline.
type Snapshot struct {
	Events  []models.NormalizedEvent
	Warning *SyncWarning
	Stale   bool // remote events came from the cache
}

// Snapshot re-reads all four sources and aggregates them. Remote events whose
// id is already linked by a local record are dropped before aggregation, so a
// pushed meeting is not double-rendered once it shows up in the remote list.
// When the remote side is unreachable the cached list is used and the
// snapshot is marked stale; when the user has never connected a calendar the
// snapshot is local-only with no warning.
func (c *Coordinator) Snapshot(ctx context.Context, userID string) (*Snapshot, error) {
	meetings, err := db.ListMeetings(c.db)
	if err != nil {
		return nil, err
	}
	tasks, err := db.ListOpenDatedTasks(c.db)
	if err != nil {
		return nil, err
	}
	projects, err := db.ListProjects(c.db, 0)
	if err != nil {
		return nil, err
	}
	artists, err := db.ListArtists(c.db, 0)
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{}
	var remote []RemoteEvent

	err = c.withRetry(ctx, userID, func(creds Credentials) error {
		events, err := c.remote.ListEvents(ctx, creds.AccessToken, creds.CalendarID, time.Time{}, time.Time{})
		if err != nil {
			return err
		}
		remote = events
		return nil
	})
	switch {
	case err == nil:
		if c.cache != nil {
			if cacheErr := c.cache.Put(userID, remote); cacheErr != nil {
				log.Printf("warning: event cache write failed: %v", cacheErr)
			}
		}
	case errors.Is(err, ErrUnauthenticated):
		// Not connected; the local timeline is the whole timeline
	case errors.Is(err, ErrRemoteUnavailable):
		snapshot.Warning = warnf("list remote events", err)
		if c.cache != nil {
			if cached, ok, cacheErr := c.cache.Get(userID); cacheErr == nil && ok {
				remote = cached
				snapshot.Stale = true
			}
		}
	default:
		snapshot.Warning = warnf("list remote events", err)
	}

	linked := make(map[string]bool)
	for _, m := range meetings {
		if m.LinkedRemoteID != "" {
			linked[m.LinkedRemoteID] = true
		}
	}
	for _, t := range tasks {
		if t.LinkedRemoteID != "" {
			linked[t.LinkedRemoteID] = true
		}
	}
	for _, p := range projects {
		if p.LinkedRemoteID != "" {
			linked[p.LinkedRemoteID] = true
		}
	}

	unlinked := remote[:0:0]
	for _, ev := range remote {
		if !linked[ev.ID] {
			unlinked = append(unlinked, ev)
		}
	}

	snapshot.Events = Aggregate(AggregationInput{
		Meetings: meetings,
		Tasks:    tasks,
		Projects: projects,
		Artists:  artists,
		Remote:   unlinked,
	})

	return snapshot, nil
}
