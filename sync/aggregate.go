// ABOUTME: Local event aggregation across meetings, tasks, releases, and remote events
// ABOUTME: Pure merge into the normalized calendar model with stable ordering
package sync

import (
	"sort"

	"github.com/google/uuid"
	"github.com/yensaimusic-cyber/nexus-label-sub000/models"
)

// RemoteIDPrefix disambiguates remote-origin event ids from local UUIDs; a
// prefixed id can never collide with a local one.
const RemoteIDPrefix = "gcal_"

// Owner labels for events without an artist to attribute.
const (
	ownerBoard    = "Board/Team"
	ownerInternal = "Internal"
	ownerLabel    = "Label"
	ownerExternal = "Google Calendar"
)

const dateLayout = "2006-01-02"

// AggregationInput bundles the four event sources plus the lookup records
// needed to resolve owner labels.
type AggregationInput struct {
	Meetings []models.Meeting
	Tasks    []models.Task
	Projects []models.Project
	Artists  []models.Artist
	Remote   []RemoteEvent
}

// Aggregate merges the four sources into one normalized timeline. It is
// deterministic and side-effect free: identical inputs yield identical,
// order-stable output. Ordering is ascending by date, ties broken by source
// order (meetings, tasks, releases, remote) and then input order.
func Aggregate(in AggregationInput) []models.NormalizedEvent {
	artistNames := make(map[uuid.UUID]string, len(in.Artists))
	for _, artist := range in.Artists {
		artistNames[artist.ID] = artist.Name
	}
	projectByID := make(map[uuid.UUID]models.Project, len(in.Projects))
	for _, project := range in.Projects {
		projectByID[project.ID] = project
	}

	var events []models.NormalizedEvent

	for _, m := range in.Meetings {
		events = append(events, models.NormalizedEvent{
			ID:             m.ID.String(),
			Title:          m.Title,
			Kind:           models.KindMeeting,
			OwnerLabel:     ownerBoard,
			Date:           m.Date.Format(dateLayout),
			Time:           m.Time,
			ColorKey:       models.ColorKeyOrDefault(m.ColorKey, models.KindMeeting),
			Origin:         models.OriginLocal,
			SourceRef:      m.ID.String(),
			LinkedRemoteID: m.LinkedRemoteID,
		})
	}

	for _, t := range in.Tasks {
		if t.DueDate == nil || t.Status == models.TaskStatusDone {
			continue
		}

		owner := ownerInternal
		if t.ProjectID != nil {
			if project, ok := projectByID[*t.ProjectID]; ok && project.ArtistID != nil {
				if name, ok := artistNames[*project.ArtistID]; ok {
					owner = name
				}
			}
		}

		events = append(events, models.NormalizedEvent{
			ID:             t.ID.String(),
			Title:          t.Title,
			Kind:           models.KindTask,
			OwnerLabel:     owner,
			Date:           t.DueDate.Format(dateLayout),
			ColorKey:       models.ColorKeyOrDefault("", models.KindTask),
			Origin:         models.OriginLocal,
			SourceRef:      t.ID.String(),
			LinkedRemoteID: t.LinkedRemoteID,
		})
	}

	for _, p := range in.Projects {
		if p.ReleaseDate == nil {
			continue
		}

		owner := ownerLabel
		if p.ArtistID != nil {
			if name, ok := artistNames[*p.ArtistID]; ok {
				owner = name
			}
		}

		events = append(events, models.NormalizedEvent{
			ID:             p.ID.String(),
			Title:          "Release: " + p.Title,
			Kind:           models.KindRelease,
			OwnerLabel:     owner,
			Date:           p.ReleaseDate.Format(dateLayout),
			ColorKey:       models.ColorKeyOrDefault("", models.KindRelease),
			Origin:         models.OriginLocal,
			SourceRef:      p.ID.String(),
			LinkedRemoteID: p.LinkedRemoteID,
		})
	}

	for _, r := range in.Remote {
		owner := ownerExternal
		if r.Organizer != "" {
			owner = r.Organizer
		}

		clock := ""
		if !r.AllDay && !r.Start.IsZero() {
			clock = r.Start.Format("15:04")
		}

		events = append(events, models.NormalizedEvent{
			ID:         RemoteIDPrefix + r.ID,
			Title:      r.Title,
			Kind:       models.KindMeeting,
			OwnerLabel: owner,
			Date:       r.Start.Format(dateLayout),
			Time:       clock,
			ColorKey:   models.ColorKeyOrDefault(r.ColorID, models.KindMeeting),
			Origin:     models.OriginRemote,
			SourceRef:  r.ID,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date < events[j].Date
	})

	return events
}
