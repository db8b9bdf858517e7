// ABOUTME: Web dashboard subcommand
// ABOUTME: Starts the read-only agenda dashboard server
package cli

import (
	"database/sql"
	"flag"
	"fmt"

	"github.com/yensaimusic-cyber/nexus-label-sub000/web"
)

// ServeCommand starts the read-only web dashboard.
func ServeCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.Int("port", 8090, "Port to listen on")
	_ = fs.Parse(args)

	coord := withEventCache(localCoordinator(database))
	server, err := web.NewServer(database, coord, DefaultUserID)
	if err != nil {
		return fmt.Errorf("failed to start web server: %w", err)
	}
	return server.Start(*port)
}
