// ABOUTME: Web UI server with embedded templates
// ABOUTME: Provides a read-only agenda dashboard at localhost
package web

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/yensaimusic-cyber/nexus-label-sub000/db"
	"github.com/yensaimusic-cyber/nexus-label-sub000/models"
	"github.com/yensaimusic-cyber/nexus-label-sub000/sync"
)

//go:embed templates/*
var templatesFS embed.FS

// AgendaSource is the slice of the sync coordinator the dashboard reads from.
type AgendaSource interface {
	Snapshot(ctx context.Context, userID string) (*sync.Snapshot, error)
}

type Server struct {
	db        *sql.DB
	coord     AgendaSource
	userID    string
	templates *template.Template
}

func NewServer(database *sql.DB, coord AgendaSource, userID string) (*Server, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Server{
		db:        database,
		coord:     coord,
		userID:    userID,
		templates: tmpl,
	}, nil
}

func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting web server at http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// Handler exposes the mux so tests can drive it without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleAgenda)
	mux.HandleFunc("/journal", s.handleJournal)
	return mux
}

// DayView groups the timeline under one date header.
type DayView struct {
	Date   string
	Events []models.NormalizedEvent
}

func (s *Server) handleAgenda(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	snap, err := s.coord.Snapshot(r.Context(), s.userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var days []DayView
	for _, ev := range snap.Events {
		if len(days) == 0 || days[len(days)-1].Date != ev.Date {
			days = append(days, DayView{Date: ev.Date})
		}
		days[len(days)-1].Events = append(days[len(days)-1].Events, ev)
	}

	warning := ""
	if snap.Warning != nil {
		warning = snap.Warning.String()
	}

	data := map[string]interface{}{
		"Title":           "Agenda",
		"ContentTemplate": "agenda-content",
		"Days":            days,
		"Stale":           snap.Stale,
		"Warning":         warning,
	}
	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	entries, err := db.RecentSyncEntries(s.db, 50)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{
		"Title":           "Sync Journal",
		"ContentTemplate": "journal-content",
		"Entries":         entries,
	}
	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Template error rendering %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
