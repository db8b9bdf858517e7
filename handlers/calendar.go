// ABOUTME: Calendar MCP tool handlers
// ABOUTME: Implements agenda, meeting, remote-only event, and sync_status tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yensaimusic-cyber/nexus-label-sub000/db"
	"github.com/yensaimusic-cyber/nexus-label-sub000/models"
	"github.com/yensaimusic-cyber/nexus-label-sub000/sync"
)

// CalendarService is the slice of the sync coordinator the calendar tools use.
type CalendarService interface {
	CreateMeeting(ctx context.Context, userID string, meeting *models.Meeting, pushRemote bool) (*sync.SyncWarning, error)
	UpdateMeeting(ctx context.Context, userID string, meeting *models.Meeting) (*sync.SyncWarning, error)
	DeleteMeeting(ctx context.Context, userID string, meetingID uuid.UUID) (*sync.SyncWarning, error)
	UpdateRemoteEvent(ctx context.Context, userID, remoteID string, patch sync.EventPatch) error
	DeleteRemoteEvent(ctx context.Context, userID, remoteID string) error
	Snapshot(ctx context.Context, userID string) (*sync.Snapshot, error)
}

type CalendarHandlers struct {
	db     *sql.DB
	coord  CalendarService
	userID string
}

func NewCalendarHandlers(database *sql.DB, coord CalendarService, userID string) *CalendarHandlers {
	return &CalendarHandlers{db: database, coord: coord, userID: userID}
}

type EventOutput struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Kind       string `json:"kind"`
	OwnerLabel string `json:"owner_label,omitempty"`
	Date       string `json:"date"`
	Time       string `json:"time,omitempty"`
	ColorKey   string `json:"color_key"`
	Origin     string `json:"origin"`
}

type ListAgendaInput struct {
	Date string `json:"date,omitempty" jsonschema:"Only return events on this date (YYYY-MM-DD)"`
	Kind string `json:"kind,omitempty" jsonschema:"Only return events of this kind (release, session, promo, meeting, task)"`
}

type ListAgendaOutput struct {
	Events  []EventOutput `json:"events"`
	Stale   bool          `json:"stale,omitempty"`
	Warning string        `json:"warning,omitempty"`
}

func (h *CalendarHandlers) ListAgenda(ctx context.Context, request *mcp.CallToolRequest, input ListAgendaInput) (*mcp.CallToolResult, ListAgendaOutput, error) {
	snap, err := h.coord.Snapshot(ctx, h.userID)
	if err != nil {
		return nil, ListAgendaOutput{}, fmt.Errorf("failed to build agenda: %w", err)
	}

	out := ListAgendaOutput{Stale: snap.Stale}
	if snap.Warning != nil {
		out.Warning = snap.Warning.String()
	}

	for _, ev := range snap.Events {
		if input.Date != "" && ev.Date != input.Date {
			continue
		}
		if input.Kind != "" && ev.Kind != input.Kind {
			continue
		}
		out.Events = append(out.Events, eventToOutput(ev))
	}

	return nil, out, nil
}

type AddMeetingInput struct {
	Title     string   `json:"title" jsonschema:"Meeting title (required)"`
	Date      string   `json:"date" jsonschema:"Meeting date in YYYY-MM-DD format (required)"`
	Time      string   `json:"time,omitempty" jsonschema:"Meeting time in HH:MM format, omit for all-day"`
	Summary   string   `json:"summary,omitempty" jsonschema:"Meeting summary or agenda"`
	Attendees []string `json:"attendees,omitempty" jsonschema:"Attendee email addresses"`
	ColorKey  string   `json:"color_key,omitempty" jsonschema:"Display color key"`
	Sync      bool     `json:"sync,omitempty" jsonschema:"Also push the meeting to the linked Google Calendar"`
}

type MeetingOutput struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Date           string   `json:"date"`
	Time           string   `json:"time,omitempty"`
	Summary        string   `json:"summary,omitempty"`
	Attendees      []string `json:"attendees,omitempty"`
	LinkedRemoteID string   `json:"linked_remote_id,omitempty"`
	Warning        string   `json:"warning,omitempty"`
}

func (h *CalendarHandlers) AddMeeting(ctx context.Context, request *mcp.CallToolRequest, input AddMeetingInput) (*mcp.CallToolResult, MeetingOutput, error) {
	if input.Title == "" {
		return nil, MeetingOutput{}, fmt.Errorf("title is required")
	}
	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		return nil, MeetingOutput{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", input.Date)
	}

	meeting := &models.Meeting{
		Title:     input.Title,
		Date:      date,
		Time:      input.Time,
		Summary:   input.Summary,
		Attendees: input.Attendees,
		ColorKey:  input.ColorKey,
	}

	warning, err := h.coord.CreateMeeting(ctx, h.userID, meeting, input.Sync)
	if err != nil {
		return nil, MeetingOutput{}, fmt.Errorf("failed to create meeting: %w", err)
	}

	return nil, meetingToOutput(meeting, warning), nil
}

type UpdateMeetingInput struct {
	ID      string `json:"id" jsonschema:"Meeting ID (required)"`
	Title   string `json:"title,omitempty" jsonschema:"New title"`
	Date    string `json:"date,omitempty" jsonschema:"New date in YYYY-MM-DD format"`
	Time    string `json:"time,omitempty" jsonschema:"New time in HH:MM format"`
	Summary string `json:"summary,omitempty" jsonschema:"New summary"`
}

func (h *CalendarHandlers) UpdateMeeting(ctx context.Context, request *mcp.CallToolRequest, input UpdateMeetingInput) (*mcp.CallToolResult, MeetingOutput, error) {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, MeetingOutput{}, fmt.Errorf("invalid meeting ID: %w", err)
	}

	meeting, err := db.GetMeeting(h.db, id)
	if err != nil {
		return nil, MeetingOutput{}, fmt.Errorf("failed to get meeting: %w", err)
	}
	if meeting == nil {
		return nil, MeetingOutput{}, fmt.Errorf("meeting not found: %s", input.ID)
	}

	if input.Title != "" {
		meeting.Title = input.Title
	}
	if input.Date != "" {
		date, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			return nil, MeetingOutput{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", input.Date)
		}
		meeting.Date = date
	}
	if input.Time != "" {
		meeting.Time = input.Time
	}
	if input.Summary != "" {
		meeting.Summary = input.Summary
	}

	warning, err := h.coord.UpdateMeeting(ctx, h.userID, meeting)
	if err != nil {
		return nil, MeetingOutput{}, fmt.Errorf("failed to update meeting: %w", err)
	}

	return nil, meetingToOutput(meeting, warning), nil
}

type DeleteMeetingInput struct {
	ID string `json:"id" jsonschema:"Meeting ID (required)"`
}

type DeleteMeetingOutput struct {
	Deleted bool   `json:"deleted"`
	Warning string `json:"warning,omitempty"`
}

func (h *CalendarHandlers) DeleteMeeting(ctx context.Context, request *mcp.CallToolRequest, input DeleteMeetingInput) (*mcp.CallToolResult, DeleteMeetingOutput, error) {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, DeleteMeetingOutput{}, fmt.Errorf("invalid meeting ID: %w", err)
	}

	warning, err := h.coord.DeleteMeeting(ctx, h.userID, id)
	if err != nil {
		return nil, DeleteMeetingOutput{}, fmt.Errorf("failed to delete meeting: %w", err)
	}

	out := DeleteMeetingOutput{Deleted: true}
	if warning != nil {
		out.Warning = warning.String()
	}
	return nil, out, nil
}

type UpdateRemoteEventInput struct {
	ID          string `json:"id" jsonschema:"Remote event ID as shown in the agenda, with or without the gcal_ prefix (required)"`
	Title       string `json:"title,omitempty" jsonschema:"New title"`
	Description string `json:"description,omitempty" jsonschema:"New description"`
	Date        string `json:"date,omitempty" jsonschema:"New date in YYYY-MM-DD format"`
	Time        string `json:"time,omitempty" jsonschema:"New start time in HH:MM format, only used with date"`
}

type RemoteEventOutput struct {
	ID      string `json:"id"`
	Updated bool   `json:"updated,omitempty"`
	Deleted bool   `json:"deleted,omitempty"`
}

// UpdateRemoteEvent patches a Google-origin event that has no local row.
func (h *CalendarHandlers) UpdateRemoteEvent(ctx context.Context, request *mcp.CallToolRequest, input UpdateRemoteEventInput) (*mcp.CallToolResult, RemoteEventOutput, error) {
	remoteID, err := remoteEventID(input.ID)
	if err != nil {
		return nil, RemoteEventOutput{}, err
	}

	var patch sync.EventPatch
	if input.Title != "" {
		patch.Title = &input.Title
	}
	if input.Description != "" {
		patch.Description = &input.Description
	}
	if input.Date != "" {
		stamp := input.Date + " " + input.Time
		if input.Time == "" {
			stamp = input.Date + " 09:00"
		}
		start, err := time.Parse("2006-01-02 15:04", stamp)
		if err != nil {
			return nil, RemoteEventOutput{}, fmt.Errorf("invalid date/time %q: expected YYYY-MM-DD and HH:MM", stamp)
		}
		end := start.Add(time.Hour)
		patch.Start = &start
		patch.End = &end
	} else if input.Time != "" {
		return nil, RemoteEventOutput{}, fmt.Errorf("time requires a date")
	}

	if patch.Title == nil && patch.Description == nil && patch.Start == nil {
		return nil, RemoteEventOutput{}, fmt.Errorf("nothing to update")
	}

	if err := h.coord.UpdateRemoteEvent(ctx, h.userID, remoteID, patch); err != nil {
		return nil, RemoteEventOutput{}, fmt.Errorf("failed to update remote event: %w", err)
	}

	return nil, RemoteEventOutput{ID: remoteID, Updated: true}, nil
}

type DeleteRemoteEventInput struct {
	ID string `json:"id" jsonschema:"Remote event ID as shown in the agenda, with or without the gcal_ prefix (required)"`
}

// DeleteRemoteEvent removes a Google-origin event that has no local row.
func (h *CalendarHandlers) DeleteRemoteEvent(ctx context.Context, request *mcp.CallToolRequest, input DeleteRemoteEventInput) (*mcp.CallToolResult, RemoteEventOutput, error) {
	remoteID, err := remoteEventID(input.ID)
	if err != nil {
		return nil, RemoteEventOutput{}, err
	}

	if err := h.coord.DeleteRemoteEvent(ctx, h.userID, remoteID); err != nil {
		return nil, RemoteEventOutput{}, fmt.Errorf("failed to delete remote event: %w", err)
	}

	return nil, RemoteEventOutput{ID: remoteID, Deleted: true}, nil
}

// remoteEventID accepts both the raw Google event id and the prefixed form
// the agenda prints.
func remoteEventID(id string) (string, error) {
	remoteID := strings.TrimPrefix(id, sync.RemoteIDPrefix)
	if remoteID == "" {
		return "", fmt.Errorf("remote event ID is required")
	}
	return remoteID, nil
}

type SyncStatusInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of journal entries (default 10)"`
}

type SyncEntryOutput struct {
	ID         string `json:"id"`
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	RemoteID   string `json:"remote_id,omitempty"`
	Outcome    string `json:"outcome"`
	Detail     string `json:"detail,omitempty"`
	CreatedAt  string `json:"created_at"`
}

type SyncStatusOutput struct {
	Connected bool              `json:"connected"`
	Entries   []SyncEntryOutput `json:"entries"`
}

func (h *CalendarHandlers) SyncStatus(ctx context.Context, request *mcp.CallToolRequest, input SyncStatusInput) (*mcp.CallToolResult, SyncStatusOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 10
	}

	token, err := db.GetToken(h.db, h.userID)
	if err != nil {
		return nil, SyncStatusOutput{}, fmt.Errorf("failed to read token: %w", err)
	}

	entries, err := db.RecentSyncEntries(h.db, limit)
	if err != nil {
		return nil, SyncStatusOutput{}, fmt.Errorf("failed to read sync journal: %w", err)
	}

	out := SyncStatusOutput{Connected: token != nil}
	for _, e := range entries {
		out.Entries = append(out.Entries, SyncEntryOutput{
			ID:         e.ID,
			Action:     e.Action,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			RemoteID:   e.RemoteID,
			Outcome:    e.Outcome,
			Detail:     e.Detail,
			CreatedAt:  e.CreatedAt.Format(time.RFC3339),
		})
	}

	return nil, out, nil
}

func eventToOutput(ev models.NormalizedEvent) EventOutput {
	return EventOutput{
		ID:         ev.ID,
		Title:      ev.Title,
		Kind:       ev.Kind,
		OwnerLabel: ev.OwnerLabel,
		Date:       ev.Date,
		Time:       ev.Time,
		ColorKey:   ev.ColorKey,
		Origin:     ev.Origin,
	}
}

func meetingToOutput(m *models.Meeting, warning *sync.SyncWarning) MeetingOutput {
	out := MeetingOutput{
		ID:             m.ID.String(),
		Title:          m.Title,
		Date:           m.Date.Format("2006-01-02"),
		Time:           m.Time,
		Summary:        m.Summary,
		Attendees:      m.Attendees,
		LinkedRemoteID: m.LinkedRemoteID,
	}
	if warning != nil {
		out.Warning = warning.String()
	}
	return out
}
