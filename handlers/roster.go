// ABOUTME: Roster MCP tool handlers
// ABOUTME: Implements add_artist, add_project, add_task, and complete_task tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yensaimusic-cyber/nexus-label-sub000/db"
	"github.com/yensaimusic-cyber/nexus-label-sub000/models"
)

type RosterHandlers struct {
	db *sql.DB
}

func NewRosterHandlers(database *sql.DB) *RosterHandlers {
	return &RosterHandlers{db: database}
}

type AddArtistInput struct {
	Name  string `json:"name" jsonschema:"Artist name (required)"`
	Genre string `json:"genre,omitempty" jsonschema:"Primary genre"`
	Notes string `json:"notes,omitempty" jsonschema:"Additional notes about the artist"`
}

type ArtistOutput struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Genre string `json:"genre,omitempty"`
	Notes string `json:"notes,omitempty"`
}

func (h *RosterHandlers) AddArtist(_ context.Context, request *mcp.CallToolRequest, input AddArtistInput) (*mcp.CallToolResult, ArtistOutput, error) {
	if input.Name == "" {
		return nil, ArtistOutput{}, fmt.Errorf("name is required")
	}

	artist := &models.Artist{
		Name:  input.Name,
		Genre: input.Genre,
		Notes: input.Notes,
	}
	if err := db.CreateArtist(h.db, artist); err != nil {
		return nil, ArtistOutput{}, fmt.Errorf("failed to create artist: %w", err)
	}

	return nil, ArtistOutput{
		ID:    artist.ID.String(),
		Name:  artist.Name,
		Genre: artist.Genre,
		Notes: artist.Notes,
	}, nil
}

type AddProjectInput struct {
	Title       string `json:"title" jsonschema:"Project title (required)"`
	ArtistName  string `json:"artist_name,omitempty" jsonschema:"Owning artist name (must already exist)"`
	Status      string `json:"status,omitempty" jsonschema:"Project status (default planning)"`
	ReleaseDate string `json:"release_date,omitempty" jsonschema:"Release date in YYYY-MM-DD format"`
}

type ProjectOutput struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ArtistID    string `json:"artist_id,omitempty"`
	Status      string `json:"status"`
	ReleaseDate string `json:"release_date,omitempty"`
}

func (h *RosterHandlers) AddProject(_ context.Context, request *mcp.CallToolRequest, input AddProjectInput) (*mcp.CallToolResult, ProjectOutput, error) {
	if input.Title == "" {
		return nil, ProjectOutput{}, fmt.Errorf("title is required")
	}

	project := &models.Project{
		Title:  input.Title,
		Status: input.Status,
	}
	if project.Status == "" {
		project.Status = models.ProjectStatusPlanning
	}

	if input.ArtistName != "" {
		artist, err := db.FindArtistByName(h.db, input.ArtistName)
		if err != nil {
			return nil, ProjectOutput{}, fmt.Errorf("failed to look up artist: %w", err)
		}
		if artist == nil {
			return nil, ProjectOutput{}, fmt.Errorf("artist not found: %s", input.ArtistName)
		}
		project.ArtistID = &artist.ID
	}

	if input.ReleaseDate != "" {
		date, err := time.Parse("2006-01-02", input.ReleaseDate)
		if err != nil {
			return nil, ProjectOutput{}, fmt.Errorf("invalid release date %q: expected YYYY-MM-DD", input.ReleaseDate)
		}
		project.ReleaseDate = &date
	}

	if err := db.CreateProject(h.db, project); err != nil {
		return nil, ProjectOutput{}, fmt.Errorf("failed to create project: %w", err)
	}

	return nil, projectToOutput(project), nil
}

type AddTaskInput struct {
	Title    string `json:"title" jsonschema:"Task title (required)"`
	DueDate  string `json:"due_date,omitempty" jsonschema:"Due date in YYYY-MM-DD format"`
	Assignee string `json:"assignee,omitempty" jsonschema:"Person responsible for the task"`
}

type TaskOutput struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	DueDate  string `json:"due_date,omitempty"`
	Assignee string `json:"assignee,omitempty"`
}

func (h *RosterHandlers) AddTask(_ context.Context, request *mcp.CallToolRequest, input AddTaskInput) (*mcp.CallToolResult, TaskOutput, error) {
	if input.Title == "" {
		return nil, TaskOutput{}, fmt.Errorf("title is required")
	}

	task := &models.Task{
		Title:    input.Title,
		Status:   models.TaskStatusTodo,
		Assignee: input.Assignee,
	}
	if input.DueDate != "" {
		date, err := time.Parse("2006-01-02", input.DueDate)
		if err != nil {
			return nil, TaskOutput{}, fmt.Errorf("invalid due date %q: expected YYYY-MM-DD", input.DueDate)
		}
		task.DueDate = &date
	}

	if err := db.CreateTask(h.db, task); err != nil {
		return nil, TaskOutput{}, fmt.Errorf("failed to create task: %w", err)
	}

	return nil, taskToOutput(task), nil
}

type CompleteTaskInput struct {
	ID string `json:"id" jsonschema:"Task ID (required)"`
}

func (h *RosterHandlers) CompleteTask(_ context.Context, request *mcp.CallToolRequest, input CompleteTaskInput) (*mcp.CallToolResult, TaskOutput, error) {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, TaskOutput{}, fmt.Errorf("invalid task ID: %w", err)
	}

	if err := db.UpdateTaskStatus(h.db, id, models.TaskStatusDone); err != nil {
		return nil, TaskOutput{}, fmt.Errorf("failed to complete task: %w", err)
	}

	task, err := db.GetTask(h.db, id)
	if err != nil {
		return nil, TaskOutput{}, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return nil, TaskOutput{}, fmt.Errorf("task not found: %s", input.ID)
	}

	return nil, taskToOutput(task), nil
}

func projectToOutput(p *models.Project) ProjectOutput {
	out := ProjectOutput{
		ID:     p.ID.String(),
		Title:  p.Title,
		Status: p.Status,
	}
	if p.ArtistID != nil {
		out.ArtistID = p.ArtistID.String()
	}
	if p.ReleaseDate != nil {
		out.ReleaseDate = p.ReleaseDate.Format("2006-01-02")
	}
	return out
}

func taskToOutput(t *models.Task) TaskOutput {
	out := TaskOutput{
		ID:       t.ID.String(),
		Title:    t.Title,
		Status:   t.Status,
		Assignee: t.Assignee,
	}
	if t.DueDate != nil {
		out.DueDate = t.DueDate.Format("2006-01-02")
	}
	return out
}
