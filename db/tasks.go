// ABOUTME: Task database operations
// ABOUTME: Handles CRUD operations, due date queries, and remote link updates
package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/yensaimusic-cyber/nexus-label-sub000/models"
)

func CreateTask(db *sql.DB, task *models.Task) error {
	task.ID = uuid.New()
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	if task.Status == "" {
		task.Status = models.TaskStatusTodo
	}

	var projectID *string
	if task.ProjectID != nil {
		s := task.ProjectID.String()
		projectID = &s
	}

	_, err := db.Exec(`
		INSERT INTO tasks (id, title, status, due_date, project_id, assignee, linked_remote_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, task.ID.String(), task.Title, task.Status, task.DueDate, projectID, task.Assignee,
		nullIfEmpty(task.LinkedRemoteID), task.CreatedAt, task.UpdatedAt)

	return err
}

func GetTask(db *sql.DB, id uuid.UUID) (*models.Task, error) {
	row := db.QueryRow(`
		SELECT id, title, status, due_date, project_id, assignee, linked_remote_id, created_at, updated_at
		FROM tasks WHERE id = ?
	`, id.String())

	return scanTask(row)
}

func UpdateTaskStatus(db *sql.DB, id uuid.UUID, status string) error {
	_, err := db.Exec(`
		UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?
	`, status, time.Now(), id.String())
	return err
}

func ListTasks(db *sql.DB, limit int) ([]models.Task, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.Query(`
		SELECT id, title, status, due_date, project_id, assignee, linked_remote_id, created_at, updated_at
		FROM tasks
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTasks(rows)
}

// ListOpenDatedTasks returns tasks with a due date whose status is not done,
// ordered by due date. These are the tasks that surface on the calendar.
func ListOpenDatedTasks(db *sql.DB) ([]models.Task, error) {
	rows, err := db.Query(`
		SELECT id, title, status, due_date, project_id, assignee, linked_remote_id, created_at, updated_at
		FROM tasks
		WHERE due_date IS NOT NULL AND status != 'done'
		ORDER BY due_date
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTasks(rows)
}

// SetTaskRemoteLink records the remote calendar event mirroring a task deadline.
// Best effort: an empty remoteID clears the link.
func SetTaskRemoteLink(db *sql.DB, id uuid.UUID, remoteID string) error {
	_, err := db.Exec(`
		UPDATE tasks SET linked_remote_id = ?, updated_at = ? WHERE id = ?
	`, nullIfEmpty(remoteID), time.Now(), id.String())
	return err
}

func collectTasks(rows *sql.Rows) ([]models.Task, error) {
	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func scanTask(row rowScanner) (*models.Task, error) {
	task := &models.Task{}
	var dueDate sql.NullTime
	var projectID sql.NullString
	var linkedRemoteID sql.NullString

	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Status,
		&dueDate,
		&projectID,
		&task.Assignee,
		&linkedRemoteID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if dueDate.Valid {
		task.DueDate = &dueDate.Time
	}
	if projectID.Valid {
		pid, err := uuid.Parse(projectID.String)
		if err == nil {
			task.ProjectID = &pid
		}
	}
	if linkedRemoteID.Valid {
		task.LinkedRemoteID = linkedRemoteID.String
	}

	return task, nil
}
