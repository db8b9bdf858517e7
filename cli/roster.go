// ABOUTME: Roster CLI commands
// ABOUTME: Manages artists, projects, and tasks that feed the unified timeline
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/yensaimusic-cyber/nexus-label-sub000/db"
	"github.com/yensaimusic-cyber/nexus-label-sub000/models"
)

// AddArtistCommand adds a roster artist.
func AddArtistCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-artist", flag.ExitOnError)
	name := fs.String("name", "", "Artist name (required)")
	genre := fs.String("genre", "", "Primary genre")
	notes := fs.String("notes", "", "Notes about the artist")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	artist := &models.Artist{Name: *name, Genre: *genre, Notes: *notes}
	if err := db.CreateArtist(database, artist); err != nil {
		return fmt.Errorf("failed to create artist: %w", err)
	}

	fmt.Printf("✓ Artist added: %s (ID: %s)\n", artist.Name, artist.ID)
	return nil
}

// ListArtistsCommand lists the roster.
func ListArtistsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-artists", flag.ExitOnError)
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	artists, err := db.ListArtists(database, *limit)
	if err != nil {
		return fmt.Errorf("failed to list artists: %w", err)
	}
	if len(artists) == 0 {
		fmt.Println("No artists found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tGENRE\tID")
	for _, a := range artists {
		genre := a.Genre
		if genre == "" {
			genre = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", a.Name, genre, a.ID)
	}
	return w.Flush()
}

// AddProjectCommand creates a project, optionally dated for release.
func AddProjectCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-project", flag.ExitOnError)
	title := fs.String("title", "", "Project title (required)")
	artistName := fs.String("artist", "", "Owning artist name")
	status := fs.String("status", models.ProjectStatusPlanning, "Project status")
	release := fs.String("release", "", "Release date YYYY-MM-DD")
	_ = fs.Parse(args)

	if *title == "" {
		return fmt.Errorf("--title is required")
	}

	project := &models.Project{Title: *title, Status: *status}

	if *artistName != "" {
		artist, err := db.FindArtistByName(database, *artistName)
		if err != nil {
			return fmt.Errorf("failed to look up artist: %w", err)
		}
		if artist == nil {
			return fmt.Errorf("artist not found: %s", *artistName)
		}
		project.ArtistID = &artist.ID
	}

	if *release != "" {
		day, err := time.Parse("2006-01-02", *release)
		if err != nil {
			return fmt.Errorf("--release must be YYYY-MM-DD")
		}
		project.ReleaseDate = &day
	}

	if err := db.CreateProject(database, project); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	fmt.Printf("✓ Project created: %s (ID: %s)\n", project.Title, project.ID)
	return nil
}

// ListProjectsCommand lists projects.
func ListProjectsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-projects", flag.ExitOnError)
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	projects, err := db.ListProjects(database, *limit)
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}
	if len(projects) == 0 {
		fmt.Println("No projects found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TITLE\tSTATUS\tRELEASE\tID")
	for _, p := range projects {
		release := "-"
		if p.ReleaseDate != nil {
			release = p.ReleaseDate.Format("2006-01-02")
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Title, p.Status, release, p.ID)
	}
	return w.Flush()
}

// AddTaskCommand creates a task.
func AddTaskCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-task", flag.ExitOnError)
	title := fs.String("title", "", "Task title (required)")
	due := fs.String("due", "", "Due date YYYY-MM-DD")
	assignee := fs.String("assignee", "", "Person responsible")
	_ = fs.Parse(args)

	if *title == "" {
		return fmt.Errorf("--title is required")
	}

	task := &models.Task{Title: *title, Status: models.TaskStatusTodo, Assignee: *assignee}
	if *due != "" {
		day, err := time.Parse("2006-01-02", *due)
		if err != nil {
			return fmt.Errorf("--due must be YYYY-MM-DD")
		}
		task.DueDate = &day
	}

	if err := db.CreateTask(database, task); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	fmt.Printf("✓ Task created: %s (ID: %s)\n", task.Title, task.ID)
	return nil
}

// ListTasksCommand lists tasks.
func ListTasksCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-tasks", flag.ExitOnError)
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	tasks, err := db.ListTasks(database, *limit)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TITLE\tSTATUS\tDUE\tID")
	for _, task := range tasks {
		due := "-"
		if task.DueDate != nil {
			due = task.DueDate.Format("2006-01-02")
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", task.Title, task.Status, due, task.ID)
	}
	return w.Flush()
}

// CompleteTaskCommand marks a task done.
func CompleteTaskCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("complete-task", flag.ExitOnError)
	id := fs.String("id", "", "Task ID (required)")
	_ = fs.Parse(args)

	taskID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("--id must be a valid task ID")
	}

	if err := db.UpdateTaskStatus(database, taskID, models.TaskStatusDone); err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}

	fmt.Println("✓ Task completed")
	return nil
}

// PushTaskCommand mirrors a task deadline to Google Calendar.
func PushTaskCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("push-task", flag.ExitOnError)
	id := fs.String("id", "", "Task ID (required)")
	_ = fs.Parse(args)

	taskID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("--id must be a valid task ID")
	}

	coord, err := newCoordinator(database)
	if err != nil {
		return err
	}
	warning, err := coord.PushTaskDeadline(context.Background(), DefaultUserID, taskID)
	if err != nil {
		return fmt.Errorf("failed to push task deadline: %w", err)
	}
	if warning != nil {
		fmt.Printf("⚠ %s\n", warning)
		return nil
	}

	fmt.Println("✓ Task deadline pushed to Google Calendar")
	return nil
}

// PushReleaseCommand mirrors a project release date to Google Calendar.
func PushReleaseCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("push-release", flag.ExitOnError)
	id := fs.String("id", "", "Project ID (required)")
	_ = fs.Parse(args)

	projectID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("--id must be a valid project ID")
	}

	coord, err := newCoordinator(database)
	if err != nil {
		return err
	}
	warning, err := coord.PushProjectRelease(context.Background(), DefaultUserID, projectID)
	if err != nil {
		return fmt.Errorf("failed to push release date: %w", err)
	}
	if warning != nil {
		fmt.Printf("⚠ %s\n", warning)
		return nil
	}

	fmt.Println("✓ Release date pushed to Google Calendar")
	return nil
}
