// ABOUTME: Google Calendar CLI commands
// ABOUTME: Handles the OAuth connect flow, connection status, and disconnect
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/yensaimusic-cyber/nexus-label-sub000/db"
	"github.com/yensaimusic-cyber/nexus-label-sub000/models"
	"github.com/yensaimusic-cyber/nexus-label-sub000/sync"
)

// DefaultUserID identifies the single local operator. The token store is keyed
// by user so a future multi-user deployment only changes the callers.
const DefaultUserID = "default"

// newCoordinator wires the production sync stack for CLI commands.
func newCoordinator(database *sql.DB) (*sync.Coordinator, error) {
	config, err := sync.NewOAuthConfig()
	if err != nil {
		return nil, err
	}
	tokens := sync.NewTokenManager(database, config)
	return sync.NewCoordinator(database, sync.NewGateway(), tokens), nil
}

// localCoordinator builds a coordinator that works without Google credentials;
// remote calls will surface ErrUnauthenticated and the agenda stays local.
func localCoordinator(database *sql.DB) *sync.Coordinator {
	config, err := sync.NewOAuthConfig()
	if err != nil {
		// No credentials configured; a TokenManager over an empty store
		// yields ErrUnauthenticated on every call, which is the behavior
		// we want for a local-only install.
		return sync.NewCoordinator(database, sync.NewGateway(), sync.NewTokenManager(database, nil))
	}
	return sync.NewCoordinator(database, sync.NewGateway(), sync.NewTokenManager(database, config))
}

// ConnectCommand runs the OAuth handshake against a local callback server.
func ConnectCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("connect", flag.ExitOnError)
	_ = fs.Parse(args)

	ctx := context.Background()

	config, err := sync.NewOAuthConfig()
	if err != nil {
		return err
	}

	doneChan := make(chan *models.TokenRecord)
	errChan := make(chan error)

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/callback", func(w http.ResponseWriter, r *http.Request) {
		if state := r.URL.Query().Get("state"); state != DefaultUserID {
			errChan <- fmt.Errorf("OAuth state mismatch")
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			errChan <- fmt.Errorf("no authorization code received")
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		rec, err := sync.ExchangeCode(ctx, database, config, code, DefaultUserID)
		if err != nil {
			errChan <- err
			http.Error(w, "token exchange failed", http.StatusInternalServerError)
			return
		}

		_, _ = fmt.Fprintf(w, "Authorization successful! You can close this window.")
		doneChan <- rec
	})

	server := &http.Server{Addr: ":8080", Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	authURL := sync.AuthorizationURL(config, DefaultUserID)

	fmt.Println("Opening browser for Google OAuth...")
	fmt.Printf("\nIf the browser doesn't open, visit this URL:\n%s\n\n", authURL)
	_ = openBrowser(authURL)

	select {
	case <-doneChan:
		_ = server.Shutdown(ctx)
		fmt.Printf("\n✓ Google Calendar connected\n")
		fmt.Println("Run 'nexus agenda' to see the unified timeline.")
		return nil
	case err := <-errChan:
		_ = server.Shutdown(ctx)
		return fmt.Errorf("OAuth flow failed: %w", err)
	}
}

// CalendarStatusCommand shows the connection state and recent sync activity.
func CalendarStatusCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	limit := fs.Int("limit", 10, "Journal entries to show")
	_ = fs.Parse(args)

	token, err := db.GetToken(database, DefaultUserID)
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}

	if token == nil {
		fmt.Println("Google Calendar: not connected")
		fmt.Println("Run 'nexus calendar connect' to link an account.")
	} else {
		fmt.Printf("Google Calendar: connected (calendar %s)\n", token.CalendarID)
		if token.Expiry().Before(time.Now()) {
			fmt.Println("Access token expired; it will refresh on the next sync.")
		}
	}

	entries, err := db.RecentSyncEntries(database, *limit)
	if err != nil {
		return fmt.Errorf("failed to read sync journal: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("\nNo sync activity yet")
		return nil
	}

	fmt.Println("\nRecent sync activity:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WHEN\tACTION\tENTITY\tOUTCOME\tDETAIL")
	for _, e := range entries {
		detail := e.Detail
		if detail == "" {
			detail = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Format("Jan 2 15:04"), e.Action, e.EntityType, e.Outcome, detail)
	}
	return w.Flush()
}

// DisconnectCommand revokes and forgets the Google Calendar link.
func DisconnectCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("disconnect", flag.ExitOnError)
	_ = fs.Parse(args)

	if err := sync.Disconnect(context.Background(), database, DefaultUserID); err != nil {
		return fmt.Errorf("failed to disconnect: %w", err)
	}

	fmt.Println("✓ Google Calendar disconnected")
	return nil
}

// openBrowser attempts to open URL in the default browser.
func openBrowser(url string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		cmd = "xdg-open"
		args = []string{url}
	}

	return exec.Command(cmd, args...).Start()
}
