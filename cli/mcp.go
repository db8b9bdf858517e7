// ABOUTME: MCP server subcommand
// ABOUTME: Exposes the calendar and roster tools over stdio for assistant integration
package cli

import (
	"context"
	"database/sql"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yensaimusic-cyber/nexus-label-sub000/db"
	"github.com/yensaimusic-cyber/nexus-label-sub000/handlers"
)

// MCPCommand starts the MCP server on stdio.
func MCPCommand(database *sql.DB) error {
	log.Println("Starting nexus MCP server...")

	notifier := db.NewNotifier()
	cancel := notifier.Subscribe("", func(entity string) {
		log.Printf("local change: %s", entity)
	})
	defer cancel()

	coord := withEventCache(localCoordinator(database)).WithNotifier(notifier)
	calendarHandlers := handlers.NewCalendarHandlers(database, coord, DefaultUserID)
	rosterHandlers := handlers.NewRosterHandlers(database)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "nexus",
		Version: "0.1.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_agenda",
		Description: "List the unified label timeline (meetings, deadlines, releases, remote calendar events)",
	}, calendarHandlers.ListAgenda)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_meeting",
		Description: "Create a meeting, optionally pushed to the linked Google Calendar",
	}, calendarHandlers.AddMeeting)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_meeting",
		Description: "Update a meeting and mirror the change to its linked calendar event",
	}, calendarHandlers.UpdateMeeting)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_meeting",
		Description: "Delete a meeting and its linked calendar event",
	}, calendarHandlers.DeleteMeeting)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_remote_event",
		Description: "Update a Google Calendar event that only exists remotely",
	}, calendarHandlers.UpdateRemoteEvent)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_remote_event",
		Description: "Delete a Google Calendar event that only exists remotely",
	}, calendarHandlers.DeleteRemoteEvent)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "sync_status",
		Description: "Show the Google Calendar connection state and recent sync activity",
	}, calendarHandlers.SyncStatus)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_artist",
		Description: "Add an artist to the label roster",
	}, rosterHandlers.AddArtist)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_project",
		Description: "Create a project, optionally dated for release",
	}, rosterHandlers.AddProject)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_task",
		Description: "Create a task with an optional due date",
	}, rosterHandlers.AddTask)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "complete_task",
		Description: "Mark a task as done",
	}, rosterHandlers.CompleteTask)

	ctx := context.Background()
	return server.Run(ctx, &mcp.StdioTransport{})
}
