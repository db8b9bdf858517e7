// ABOUTME: Tests for task and project database operations
// ABOUTME: Covers calendar-facing queries and best-effort remote links
package db

import (
	"testing"
	"time"

	"github.com/yensaimusic-cyber/nexus-label-sub000/models"
)

func TestListOpenDatedTasks(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	due := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	dated := &models.Task{Title: "Mix approval", Status: models.TaskStatusTodo, DueDate: &due}
	done := &models.Task{Title: "Master delivered", Status: models.TaskStatusDone, DueDate: &due}
	undated := &models.Task{Title: "Pick single", Status: models.TaskStatusTodo}

	for _, task := range []*models.Task{dated, done, undated} {
		if err := CreateTask(db, task); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
	}

	tasks, err := ListOpenDatedTasks(db)
	if err != nil {
		t.Fatalf("ListOpenDatedTasks failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("Expected 1 calendar-facing task, got %d", len(tasks))
	}
	if tasks[0].Title != "Mix approval" {
		t.Errorf("Got task %q", tasks[0].Title)
	}
}

func TestSetTaskRemoteLink(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	task := &models.Task{Title: "Artwork review"}
	if err := CreateTask(db, task); err != nil {
		t.Fatal(err)
	}

	if err := SetTaskRemoteLink(db, task.ID, "g-task-1"); err != nil {
		t.Fatalf("SetTaskRemoteLink failed: %v", err)
	}

	got, err := GetTask(db, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.LinkedRemoteID != "g-task-1" {
		t.Errorf("LinkedRemoteID = %q", got.LinkedRemoteID)
	}
}

func TestListReleaseProjects(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	artist := &models.Artist{Name: "Neon Pulse"}
	if err := CreateArtist(db, artist); err != nil {
		t.Fatal(err)
	}

	release := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	withDate := &models.Project{Title: "Neon Pulse LP", ArtistID: &artist.ID, ReleaseDate: &release}
	withoutDate := &models.Project{Title: "Untitled EP", ArtistID: &artist.ID}

	if err := CreateProject(db, withDate); err != nil {
		t.Fatal(err)
	}
	if err := CreateProject(db, withoutDate); err != nil {
		t.Fatal(err)
	}

	projects, err := ListReleaseProjects(db)
	if err != nil {
		t.Fatalf("ListReleaseProjects failed: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("Expected 1 project with release date, got %d", len(projects))
	}
	if projects[0].Title != "Neon Pulse LP" {
		t.Errorf("Got project %q", projects[0].Title)
	}
	if projects[0].ArtistID == nil || *projects[0].ArtistID != artist.ID {
		t.Error("ArtistID did not round-trip")
	}
}

func TestFindArtistByName(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	artist := &models.Artist{Name: "Velvet Era", Genre: "synthpop"}
	if err := CreateArtist(db, artist); err != nil {
		t.Fatal(err)
	}

	got, err := FindArtistByName(db, "velvet era")
	if err != nil {
		t.Fatalf("FindArtistByName failed: %v", err)
	}
	if got == nil || got.ID != artist.ID {
		t.Error("Case-insensitive lookup failed")
	}

	missing, err := FindArtistByName(db, "nobody")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Error("Expected nil for unknown artist")
	}
}
