// ABOUTME: Entry point for the nexus label calendar tool
// ABOUTME: Routes to the MCP server, TUI agenda, or CLI commands based on arguments
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"

	"github.com/yensaimusic-cyber/nexus-label-sub000/cli"
	"github.com/yensaimusic-cyber/nexus-label-sub000/db"
)

const version = "0.1.0"

func main() {
	// .env is optional; real deployments set the variables directly
	_ = godotenv.Load()

	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/nexus/nexus.db)")
	initOnly := flag.Bool("init", false, "Initialize database and exit")

	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("nexus version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	command := args[0]
	commandArgs := args[1:]

	finalDBPath := getDatabasePath(*dbPath)
	database, err := db.OpenDatabase(finalDBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	if *initOnly {
		log.Printf("Database initialized: %s", finalDBPath)
		os.Exit(0)
	}

	switch command {
	case "mcp":
		if err := cli.MCPCommand(database); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	case "agenda":
		if err := cli.AgendaCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "list":
		if err := cli.ListAgendaCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "serve":
		if err := cli.ServeCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "calendar":
		if len(commandArgs) == 0 {
			fmt.Println("Error: calendar requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		calCommand := commandArgs[0]
		calArgs := commandArgs[1:]

		switch calCommand {
		case "connect":
			if err := cli.ConnectCommand(database, calArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "status":
			if err := cli.CalendarStatusCommand(database, calArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "disconnect":
			if err := cli.DisconnectCommand(database, calArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		default:
			fmt.Printf("Unknown calendar command: %s\n\n", calCommand)
			printUsage()
			os.Exit(1)
		}

	case "meeting":
		dispatch(database, commandArgs, map[string]commandFunc{
			"add":    cli.AddMeetingCommand,
			"list":   cli.ListMeetingsCommand,
			"update": cli.UpdateMeetingCommand,
			"delete": cli.DeleteMeetingCommand,
		}, "meeting")

	case "artist":
		dispatch(database, commandArgs, map[string]commandFunc{
			"add":  cli.AddArtistCommand,
			"list": cli.ListArtistsCommand,
		}, "artist")

	case "project":
		dispatch(database, commandArgs, map[string]commandFunc{
			"add":          cli.AddProjectCommand,
			"list":         cli.ListProjectsCommand,
			"push-release": cli.PushReleaseCommand,
		}, "project")

	case "task":
		dispatch(database, commandArgs, map[string]commandFunc{
			"add":      cli.AddTaskCommand,
			"list":     cli.ListTasksCommand,
			"complete": cli.CompleteTaskCommand,
			"push":     cli.PushTaskCommand,
		}, "task")

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

type commandFunc func(database *sql.DB, args []string) error

func dispatch(database *sql.DB, args []string, commands map[string]commandFunc, group string) {
	if len(args) == 0 {
		fmt.Printf("Error: %s requires a subcommand\n", group)
		printUsage()
		os.Exit(1)
	}

	fn, ok := commands[args[0]]
	if !ok {
		fmt.Printf("Unknown %s command: %s\n\n", group, args[0])
		printUsage()
		os.Exit(1)
	}

	if err := fn(database, args[1:]); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func getDatabasePath(dbPath string) string {
	if dbPath != "" {
		return dbPath
	}
	return filepath.Join(xdg.DataHome, "nexus", "nexus.db")
}

func printUsage() {
	fmt.Printf(`nexus v%s - label calendar and roster tool

USAGE:
  nexus [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/nexus/nexus.db)
  --init                 Initialize database and exit

COMMANDS:
  agenda                 Interactive TUI agenda
  list                   Print the unified timeline
    --date <YYYY-MM-DD>    Only events on this date
    --kind <kind>          Only events of this kind (release, session, promo, meeting, task)

  calendar connect       Link a Google Calendar account (OAuth)
  calendar status        Show connection state and recent sync activity
  calendar disconnect    Revoke and forget the Google Calendar link

  meeting add            Create a meeting
    --title <title>        Meeting title (required)
    --date <YYYY-MM-DD>    Date (required)
    --time <HH:MM>         Time (omit for all-day)
    --summary <text>       Summary
    --attendees <emails>   Comma-separated attendee emails
    --sync                 Also push to Google Calendar
  meeting list           List meetings
  meeting update         Update a meeting (--id required)
  meeting delete         Delete a meeting (--id required)

  artist add             Add a roster artist (--name required)
  artist list            List artists

  project add            Create a project (--title required)
    --artist <name>        Owning artist
    --release <date>       Release date YYYY-MM-DD
  project list           List projects
  project push-release   Push a release date to Google Calendar (--id required)

  task add               Create a task (--title required, --due optional)
  task list              List tasks
  task complete          Mark a task done (--id required)
  task push              Push a task deadline to Google Calendar (--id required)

  serve                  Read-only web dashboard (default port 8090)
  mcp                    Start the MCP server (stdio)

ENVIRONMENT:
  GOOGLE_CLIENT_ID       OAuth client id (required for calendar sync)
  GOOGLE_CLIENT_SECRET   OAuth client secret (required for calendar sync)
  GOOGLE_REDIRECT_URL    OAuth redirect (default http://localhost:8080/oauth/callback)

EXAMPLES:
  # Link a Google Calendar and open the agenda
  nexus calendar connect
  nexus agenda

  # Create a synced meeting
  nexus meeting add --title "A&R sync" --date 2025-03-10 --time 14:00 --sync

  # Date a release and push it to the calendar
  nexus project add --title "Debut EP" --artist "Neon Pulse" --release 2025-06-01
  nexus project push-release --id <project-id>

`, version)
}
