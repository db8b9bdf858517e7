// ABOUTME: Thin Google Calendar API client for event CRUD
// ABOUTME: Builds a calendar.Service per call from a validated access token
package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	// defaultListWindow bounds ListEvents when the caller gives no range.
	defaultListWindow = 30 * 24 * time.Hour

	// defaultEventDuration applies when a draft has no explicit end.
	defaultEventDuration = time.Hour

	maxResults = 250 // Google Calendar API max per page
)

// RemoteEvent is the gateway's neutral view of a provider event, decoupled
// from the calendar.Event wire type.
type RemoteEvent struct {
	ID          string
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Organizer   string
	ColorID     string
	Attendees   []string
	Status      string
}

// EventDraft carries the fields for a remote create.
type EventDraft struct {
	Title          string
	Description    string
	Start          time.Time
	End            time.Time // zero means Start + 1h
	AttendeeEmails []string
	ColorID        string
}

// EventPatch carries a partial update. Nil fields are left untouched.
type EventPatch struct {
	Title       *string
	Description *string
	Start       *time.Time
	End         *time.Time
	ColorID     *string
}

// RemoteCalendar is the gateway contract the coordinator depends on.
type RemoteCalendar interface {
	ListEvents(ctx context.Context, accessToken, calendarID string, from, to time.Time) ([]RemoteEvent, error)
	CreateEvent(ctx context.Context, accessToken, calendarID string, draft EventDraft) (*RemoteEvent, error)
	UpdateEvent(ctx context.Context, accessToken, calendarID, remoteID string, patch EventPatch) error
	DeleteEvent(ctx context.Context, accessToken, calendarID, remoteID string) error
}

// Gateway implements RemoteCalendar against the real Google Calendar API.
type Gateway struct {
	opts []option.ClientOption
}

// NewGateway creates a gateway. Extra options (endpoint overrides) are for
// tests; production callers pass none.
func NewGateway(opts ...option.ClientOption) *Gateway {
	return &Gateway{opts: opts}
}

func (g *Gateway) service(ctx context.Context, accessToken string) (*calendar.Service, error) {
	opts := make([]option.ClientOption, 0, len(g.opts)+1)
	opts = append(opts, option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})))
	opts = append(opts, g.opts...)

	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return svc, nil
}

// ListEvents fetches events in [from, to), defaulting to now..now+30d. A
// missing or empty calendar yields an empty list, not an error.
func (g *Gateway) ListEvents(ctx context.Context, accessToken, calendarID string, from, to time.Time) ([]RemoteEvent, error) {
	svc, err := g.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	if from.IsZero() {
		from = time.Now()
	}
	if to.IsZero() {
		to = from.Add(defaultListWindow)
	}

	var events []RemoteEvent
	pageToken := ""

	for {
		call := svc.Events.List(calendarID).
			TimeMin(from.Format(time.RFC3339)).
			TimeMax(to.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			MaxResults(maxResults).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		page, err := call.Do()
		if err != nil {
			classified := classifyRemoteError(err)
			if errors.Is(classified, ErrNotFound) {
				// Calendar itself is gone; treat as empty
				return []RemoteEvent{}, nil
			}
			return nil, classified
		}

		for _, item := range page.Items {
			if ev := fromAPIEvent(item); ev != nil {
				events = append(events, *ev)
			}
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
	}

	if events == nil {
		events = []RemoteEvent{}
	}
	return events, nil
}

// CreateEvent inserts a new event. A draft without an explicit end gets the
// default one-hour duration.
func (g *Gateway) CreateEvent(ctx context.Context, accessToken, calendarID string, draft EventDraft) (*RemoteEvent, error) {
	svc, err := g.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	end := draft.End
	if end.IsZero() {
		end = draft.Start.Add(defaultEventDuration)
	}

	event := &calendar.Event{
		Summary:     draft.Title,
		Description: draft.Description,
		Start:       &calendar.EventDateTime{DateTime: draft.Start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339)},
		ColorId:     draft.ColorID,
	}
	for _, email := range draft.AttendeeEmails {
		event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: email})
	}

	created, err := svc.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, classifyRemoteError(err)
	}

	remote := fromAPIEvent(created)
	if remote == nil {
		return nil, fmt.Errorf("%w: create returned unusable event", ErrValidationRejected)
	}
	return remote, nil
}

// UpdateEvent patches an existing event. Only fields present in the patch
// are sent; everything else keeps its remote value.
func (g *Gateway) UpdateEvent(ctx context.Context, accessToken, calendarID, remoteID string, patch EventPatch) error {
	svc, err := g.service(ctx, accessToken)
	if err != nil {
		return err
	}

	event := &calendar.Event{}
	if patch.Title != nil {
		event.Summary = *patch.Title
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	if patch.Start != nil {
		event.Start = &calendar.EventDateTime{DateTime: patch.Start.Format(time.RFC3339)}
	}
	if patch.End != nil {
		event.End = &calendar.EventDateTime{DateTime: patch.End.Format(time.RFC3339)}
	}
	if patch.ColorID != nil {
		event.ColorId = *patch.ColorID
	}

	_, err = svc.Events.Patch(calendarID, remoteID, event).Context(ctx).Do()
	if err != nil {
		return classifyRemoteError(err)
	}
	return nil
}

// DeleteEvent removes an event. Deleting an already-deleted event succeeds,
// so double deletes never surface to the caller.
func (g *Gateway) DeleteEvent(ctx context.Context, accessToken, calendarID, remoteID string) error {
	svc, err := g.service(ctx, accessToken)
	if err != nil {
		return err
	}

	err = svc.Events.Delete(calendarID, remoteID).Context(ctx).Do()
	if err != nil {
		classified := classifyRemoteError(err)
		if errors.Is(classified, ErrNotFound) {
			return nil
		}
		return classified
	}
	return nil
}

// fromAPIEvent converts a wire event, returning nil for events without a
// usable start.
func fromAPIEvent(item *calendar.Event) *RemoteEvent {
	if item == nil || item.Start == nil {
		return nil
	}

	ev := &RemoteEvent{
		ID:          item.Id,
		Title:       item.Summary,
		Description: item.Description,
		ColorID:     item.ColorId,
		Status:      item.Status,
	}

	if item.Start.Date != "" {
		// All-day events carry a date instead of a datetime
		ev.AllDay = true
		if t, err := time.Parse("2006-01-02", item.Start.Date); err == nil {
			ev.Start = t
		}
		if item.End != nil && item.End.Date != "" {
			if t, err := time.Parse("2006-01-02", item.End.Date); err == nil {
				ev.End = t
			}
		}
	} else {
		if t, err := time.Parse(time.RFC3339, item.Start.DateTime); err == nil {
			ev.Start = t
		}
		if item.End != nil && item.End.DateTime != "" {
			if t, err := time.Parse(time.RFC3339, item.End.DateTime); err == nil {
				ev.End = t
			}
		}
	}

	if item.Organizer != nil {
		if item.Organizer.DisplayName != "" {
			ev.Organizer = item.Organizer.DisplayName
		} else {
			ev.Organizer = item.Organizer.Email
		}
	}
	for _, attendee := range item.Attendees {
		ev.Attendees = append(ev.Attendees, attendee.Email)
	}

	return ev
}
