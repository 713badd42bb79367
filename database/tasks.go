package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/timfmjones/project-manager-backend/models"
)

const (
	taskColumns          = `id, project_id, title, description, status, position, created_at, updated_at`
	taskColumnsQualified = `t.id, t.project_id, t.title, t.description, t.status, t.position, t.created_at, t.updated_at`
)

// BatchInsertError reports which queued statement in a batch failed.
type BatchInsertError struct {
	FailedIndex int
	Total       int
	Err         error
}

func (e *BatchInsertError) Error() string {
	return fmt.Sprintf("failed to insert task at index %d/%d: %v", e.FailedIndex, e.Total, e.Err)
}

// ListTasks returns a project's tasks in board order. Ties on equal
// positions break by creation time.
func (db *DB) ListTasks(ctx context.Context, userID, projectID uuid.UUID) ([]models.Task, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tasks t
		JOIN projects p ON p.id = t.project_id
		WHERE t.project_id = $1 AND p.user_id = $2
		ORDER BY t.position ASC, t.created_at ASC
	`, taskColumnsQualified)

	rows, err := db.Pool.Query(ctx, query, projectID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// CreateTask inserts a task with a fresh millisecond-timestamp position so
// it sorts after every existing task without querying the current max.
// The INSERT only fires when the target project belongs to the caller.
func (db *DB) CreateTask(ctx context.Context, userID, projectID uuid.UUID, title string, description *string, status models.TaskStatus) (*models.Task, error) {
	if status == "" {
		status = models.StatusTodo
	}

	query := fmt.Sprintf(`
		INSERT INTO tasks (project_id, title, description, status, position)
		SELECT $1, $3, $4, $5, $6
		WHERE EXISTS (SELECT 1 FROM projects WHERE id = $1 AND user_id = $2)
		RETURNING %s
	`, taskColumns)

	task, err := scanTask(db.Pool.QueryRow(ctx, query,
		projectID, userID, title, description, status, time.Now().UnixMilli()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// CreateTasksBatch inserts AI-suggested tasks in one round trip. Positions
// are basePosition+index so the new tasks keep the suggested order and
// land after everything already on the board. The caller has already
// verified project ownership by fetching the project.
func (db *DB) CreateTasksBatch(ctx context.Context, projectID uuid.UUID, suggested []models.SuggestedTask, basePosition int64) error {
	if len(suggested) == 0 {
		return nil
	}

	start := time.Now()
	defer func() {
		log.Printf("CreateTasksBatch: duration=%v count=%d", time.Since(start), len(suggested))
	}()

	query := `
		INSERT INTO tasks (project_id, title, description, status, position)
		VALUES ($1, $2, $3, $4, $5)
	`

	batch := &pgx.Batch{}
	for i, s := range suggested {
		batch.Queue(query, projectID, s.Title, s.Description, models.StatusTodo, basePosition+int64(i))
	}

	results := db.Pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(suggested); i++ {
		if _, err := results.Exec(); err != nil {
			return &BatchInsertError{FailedIndex: i, Total: len(suggested), Err: err}
		}
	}

	return nil
}

// UpdateTask applies a partial update. Nil fields keep their stored value;
// the ownership join is part of the UPDATE predicate itself.
func (db *DB) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req models.UpdateTaskRequest) (*models.Task, error) {
	query := fmt.Sprintf(`
		UPDATE tasks t
		SET title = COALESCE($3, t.title),
		    description = COALESCE($4, t.description),
		    status = COALESCE($5, t.status),
		    position = COALESCE($6, t.position),
		    updated_at = NOW()
		FROM projects p
		WHERE t.id = $1 AND p.id = t.project_id AND p.user_id = $2
		RETURNING %s
	`, taskColumnsQualified)

	var status *string
	if req.Status != nil {
		s := string(*req.Status)
		status = &s
	}

	task, err := scanTask(db.Pool.QueryRow(ctx, query,
		taskID, userID, req.Title, req.Description, status, req.Position))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

func (db *DB) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	query := `
		DELETE FROM tasks t
		USING projects p
		WHERE t.id = $1 AND p.id = t.project_id AND p.user_id = $2
	`

	result, err := db.Pool.Exec(ctx, query, taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	log.Printf("Deleted task: %s", taskID)
	return nil
}

// ReorderTasks rewrites each listed task's position to its index in the
// supplied order, inside a single transaction. An id that does not belong
// to the caller's project fails its scoped UPDATE and rolls back the whole
// batch, so no position changes. Tasks omitted from the list keep their
// old positions, which may leave gaps or duplicates.
func (db *DB) ReorderTasks(ctx context.Context, userID, projectID uuid.UUID, orderedIDs []uuid.UUID) error {
	if _, err := db.GetProject(ctx, userID, projectID); err != nil {
		return err
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin reorder transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE tasks
		SET position = $3, updated_at = NOW()
		WHERE id = $1 AND project_id = $2
	`

	batch := &pgx.Batch{}
	for i, id := range orderedIDs {
		batch.Queue(query, id, projectID, int64(i))
	}

	results := tx.SendBatch(ctx, batch)
	for i := range orderedIDs {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return fmt.Errorf("failed to reorder task at index %d: %w", i, err)
		}
		if tag.RowsAffected() == 0 {
			results.Close()
			return ErrNotFound
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close reorder batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit reorder: %w", err)
	}

	log.Printf("Reordered %d tasks in project %s", len(orderedIDs), projectID)
	return nil
}

// ListRecentTasks returns the project's most recently touched tasks for
// the Q&A context snapshot. Ownership was verified by the caller's
// project fetch.
func (db *DB) ListRecentTasks(ctx context.Context, projectID uuid.UUID, limit int) ([]models.Task, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tasks
		WHERE project_id = $1
		ORDER BY updated_at DESC
		LIMIT $2
	`, taskColumns)

	rows, err := db.Pool.Query(ctx, query, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent tasks: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// Helper functions

func scanTask(row rowScanner) (*models.Task, error) {
	var task models.Task
	err := row.Scan(
		&task.ID,
		&task.ProjectID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Position,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func scanTasks(rows rowsScanner) ([]models.Task, error) {
	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}
