// ABOUTME: Agenda CLI commands
// ABOUTME: Prints the unified timeline or launches the interactive TUI view
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/adrg/xdg"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yensaimusic-cyber/nexus-label-sub000/sync"
	"github.com/yensaimusic-cyber/nexus-label-sub000/tui"
)

// withEventCache attaches the badger cache when its directory is usable.
func withEventCache(coord *sync.Coordinator) *sync.Coordinator {
	dir := filepath.Join(xdg.CacheHome, "nexus", "events")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("warning: event cache disabled: %v", err)
		return coord
	}
	cache, err := sync.OpenEventCache(dir)
	if err != nil {
		log.Printf("warning: event cache disabled: %v", err)
		return coord
	}
	return coord.WithCache(cache)
}

// ListAgendaCommand prints the aggregated timeline to stdout.
func ListAgendaCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	date := fs.String("date", "", "Only events on this date (YYYY-MM-DD)")
	kind := fs.String("kind", "", "Only events of this kind")
	_ = fs.Parse(args)

	coord := withEventCache(localCoordinator(database))
	snap, err := coord.Snapshot(context.Background(), DefaultUserID)
	if err != nil {
		return fmt.Errorf("failed to build agenda: %w", err)
	}

	if snap.Warning != nil {
		fmt.Printf("⚠ %s\n", snap.Warning)
	}
	if snap.Stale {
		fmt.Println("⚠ Remote events are served from cache")
	}

	shown := 0
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DATE\tTIME\tKIND\tTITLE\tOWNER")
	for _, ev := range snap.Events {
		if *date != "" && ev.Date != *date {
			continue
		}
		if *kind != "" && ev.Kind != *kind {
			continue
		}
		clock := ev.Time
		if clock == "" {
			clock = "all-day"
		}
		owner := ev.OwnerLabel
		if owner == "" {
			owner = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", ev.Date, clock, ev.Kind, ev.Title, owner)
		shown++
	}
	if shown == 0 {
		fmt.Println("Nothing scheduled")
		return nil
	}
	return w.Flush()
}

// AgendaCommand launches the interactive TUI agenda.
func AgendaCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("agenda", flag.ExitOnError)
	_ = fs.Parse(args)

	coord := withEventCache(localCoordinator(database))
	p := tea.NewProgram(tui.NewModel(coord, DefaultUserID), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
