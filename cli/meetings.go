// ABOUTME: Meeting CLI commands
// ABOUTME: Human-friendly commands for managing meetings with optional calendar push
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/yensaimusic-cyber/nexus-label-sub000/db"
	"github.com/yensaimusic-cyber/nexus-label-sub000/models"
)

// AddMeetingCommand creates a meeting, optionally pushing it to Google Calendar.
func AddMeetingCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-meeting", flag.ExitOnError)
	title := fs.String("title", "", "Meeting title (required)")
	date := fs.String("date", "", "Date YYYY-MM-DD (required)")
	clock := fs.String("time", "", "Time HH:MM (omit for all-day)")
	summary := fs.String("summary", "", "Meeting summary")
	attendees := fs.String("attendees", "", "Comma-separated attendee emails")
	color := fs.String("color", "", "Display color key")
	push := fs.Bool("sync", false, "Also push to the linked Google Calendar")
	_ = fs.Parse(args)

	if *title == "" {
		return fmt.Errorf("--title is required")
	}
	day, err := time.Parse("2006-01-02", *date)
	if err != nil {
		return fmt.Errorf("--date must be YYYY-MM-DD")
	}

	meeting := &models.Meeting{
		Title:    *title,
		Date:     day,
		Time:     *clock,
		Summary:  *summary,
		ColorKey: *color,
	}
	if *attendees != "" {
		for _, a := range strings.Split(*attendees, ",") {
			if a = strings.TrimSpace(a); a != "" {
				meeting.Attendees = append(meeting.Attendees, a)
			}
		}
	}

	coord := localCoordinator(database)
	warning, err := coord.CreateMeeting(context.Background(), DefaultUserID, meeting, *push)
	if err != nil {
		return fmt.Errorf("failed to create meeting: %w", err)
	}

	fmt.Printf("✓ Meeting created: %s (ID: %s)\n", meeting.Title, meeting.ID)
	if meeting.LinkedRemoteID != "" {
		fmt.Printf("  Synced to Google Calendar (%s)\n", meeting.LinkedRemoteID)
	}
	if warning != nil {
		fmt.Printf("  ⚠ %s\n", warning)
	}
	return nil
}

// ListMeetingsCommand lists meetings in date order.
func ListMeetingsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-meetings", flag.ExitOnError)
	_ = fs.Parse(args)

	meetings, err := db.ListMeetings(database)
	if err != nil {
		return fmt.Errorf("failed to list meetings: %w", err)
	}
	if len(meetings) == 0 {
		fmt.Println("No meetings found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DATE\tTIME\tTITLE\tSYNCED\tID")
	for _, m := range meetings {
		clock := m.Time
		if clock == "" {
			clock = "all-day"
		}
		synced := "-"
		if m.LinkedRemoteID != "" {
			synced = "✓"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			m.Date.Format("2006-01-02"), clock, m.Title, synced, m.ID)
	}
	return w.Flush()
}

// UpdateMeetingCommand edits a meeting and mirrors the change to a linked event.
func UpdateMeetingCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("update-meeting", flag.ExitOnError)
	id := fs.String("id", "", "Meeting ID (required)")
	title := fs.String("title", "", "New title")
	date := fs.String("date", "", "New date YYYY-MM-DD")
	clock := fs.String("time", "", "New time HH:MM")
	summary := fs.String("summary", "", "New summary")
	_ = fs.Parse(args)

	meetingID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("--id must be a valid meeting ID")
	}

	meeting, err := db.GetMeeting(database, meetingID)
	if err != nil {
		return fmt.Errorf("failed to get meeting: %w", err)
	}
	if meeting == nil {
		return fmt.Errorf("meeting not found: %s", *id)
	}

	if *title != "" {
		meeting.Title = *title
	}
	if *date != "" {
		day, err := time.Parse("2006-01-02", *date)
		if err != nil {
			return fmt.Errorf("--date must be YYYY-MM-DD")
		}
		meeting.Date = day
	}
	if *clock != "" {
		meeting.Time = *clock
	}
	if *summary != "" {
		meeting.Summary = *summary
	}

	coord := localCoordinator(database)
	warning, err := coord.UpdateMeeting(context.Background(), DefaultUserID, meeting)
	if err != nil {
		return fmt.Errorf("failed to update meeting: %w", err)
	}

	fmt.Printf("✓ Meeting updated: %s\n", meeting.Title)
	if warning != nil {
		fmt.Printf("  ⚠ %s\n", warning)
	}
	return nil
}

// DeleteMeetingCommand removes a meeting and its linked remote event.
func DeleteMeetingCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("delete-meeting", flag.ExitOnError)
	id := fs.String("id", "", "Meeting ID (required)")
	_ = fs.Parse(args)

	meetingID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("--id must be a valid meeting ID")
	}

	coord := localCoordinator(database)
	warning, err := coord.DeleteMeeting(context.Background(), DefaultUserID, meetingID)
	if err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}

	fmt.Println("✓ Meeting deleted")
	if warning != nil {
		fmt.Printf("  ⚠ %s\n", warning)
	}
	return nil
}
