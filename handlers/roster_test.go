// ABOUTME: Tests for roster MCP tool handlers
// ABOUTME: Validates artist, project, and task tool input handling
package handlers

import (
	"context"
	"testing"

	"github.com/yensaimusic-cyber/nexus-label-sub000/models"
)

func TestAddArtistHandler(t *testing.T) {
	handler := NewRosterHandlers(setupTestDB(t))

	_, out, err := handler.AddArtist(context.Background(), nil, AddArtistInput{
		Name:  "Neon Pulse",
		Genre: "synthwave",
	})
	if err != nil {
		t.Fatalf("AddArtist failed: %v", err)
	}
	if out.ID == "" {
		t.Error("ID was not set")
	}
	if out.Name != "Neon Pulse" {
		t.Errorf("Expected name 'Neon Pulse', got %q", out.Name)
	}
}

func TestAddArtistRequiresName(t *testing.T) {
	handler := NewRosterHandlers(setupTestDB(t))

	_, _, err := handler.AddArtist(context.Background(), nil, AddArtistInput{Genre: "synthwave"})
	if err == nil {
		t.Fatal("Expected error for missing name")
	}
}

func TestAddProjectLinksArtistByName(t *testing.T) {
	handler := NewRosterHandlers(setupTestDB(t))

	_, artist, err := handler.AddArtist(context.Background(), nil, AddArtistInput{Name: "Neon Pulse"})
	if err != nil {
		t.Fatalf("AddArtist failed: %v", err)
	}

	_, out, err := handler.AddProject(context.Background(), nil, AddProjectInput{
		Title:       "Debut EP",
		ArtistName:  "neon pulse", // lookup is case-insensitive
		ReleaseDate: "2025-06-01",
	})
	if err != nil {
		t.Fatalf("AddProject failed: %v", err)
	}
	if out.ArtistID != artist.ID {
		t.Errorf("Expected artist id %s, got %s", artist.ID, out.ArtistID)
	}
	if out.Status != models.ProjectStatusPlanning {
		t.Errorf("Expected default status planning, got %q", out.Status)
	}
	if out.ReleaseDate != "2025-06-01" {
		t.Errorf("Expected release date 2025-06-01, got %q", out.ReleaseDate)
	}
}

func TestAddProjectUnknownArtist(t *testing.T) {
	handler := NewRosterHandlers(setupTestDB(t))

	_, _, err := handler.AddProject(context.Background(), nil, AddProjectInput{
		Title:      "Orphan",
		ArtistName: "Nobody",
	})
	if err == nil {
		t.Fatal("Expected error for unknown artist")
	}
}

func TestAddAndCompleteTask(t *testing.T) {
	handler := NewRosterHandlers(setupTestDB(t))

	_, created, err := handler.AddTask(context.Background(), nil, AddTaskInput{
		Title:   "Mix approval",
		DueDate: "2025-04-01",
	})
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if created.Status != models.TaskStatusTodo {
		t.Errorf("Expected status todo, got %q", created.Status)
	}

	_, done, err := handler.CompleteTask(context.Background(), nil, CompleteTaskInput{ID: created.ID})
	if err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}
	if done.Status != models.TaskStatusDone {
		t.Errorf("Expected status done, got %q", done.Status)
	}
}

func TestCompleteTaskBadID(t *testing.T) {
	handler := NewRosterHandlers(setupTestDB(t))

	_, _, err := handler.CompleteTask(context.Background(), nil, CompleteTaskInput{ID: "not-a-uuid"})
	if err == nil {
		t.Fatal("Expected error for malformed task ID")
	}
}
