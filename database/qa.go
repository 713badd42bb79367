package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/timfmjones/project-manager-backend/models"
)

const (
	qaColumns          = `id, project_id, question, answer, suggestions, examples, helpful, created_at`
	qaColumnsQualified = `q.id, q.project_id, q.question, q.answer, q.suggestions, q.examples, q.helpful, q.created_at`
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// ListQAHistory returns a project's recent questions, newest first.
func (db *DB) ListQAHistory(ctx context.Context, userID, projectID uuid.UUID, limit int) ([]models.QAQuestion, error) {
	limit = validateLimit(limit, defaultHistoryLimit, maxHistoryLimit)

	query := fmt.Sprintf(`
		SELECT %s
		FROM qa_questions q
		JOIN projects p ON p.id = q.project_id
		WHERE q.project_id = $1 AND p.user_id = $2
		ORDER BY q.created_at DESC
		LIMIT $3
	`, qaColumnsQualified)

	rows, err := db.Pool.Query(ctx, query, projectID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list QA history: %w", err)
	}
	defer rows.Close()

	questions := []models.QAQuestion{}
	for rows.Next() {
		q, err := scanQAQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, *q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}

	return questions, nil
}

func (db *DB) CreateQAQuestion(ctx context.Context, projectID uuid.UUID, question, answer string, suggestions, examples []string) (*models.QAQuestion, error) {
	if suggestions == nil {
		suggestions = []string{}
	}
	if examples == nil {
		examples = []string{}
	}

	query := fmt.Sprintf(`
		INSERT INTO qa_questions (project_id, question, answer, suggestions, examples)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s
	`, qaColumns)

	q, err := scanQAQuestion(db.Pool.QueryRow(ctx, query,
		projectID, question, answer, suggestions, examples))
	if err != nil {
		return nil, fmt.Errorf("failed to create QA question: %w", err)
	}
	return q, nil
}

// SetQAFeedback records the single helpfulness rating. Ownership is
// re-verified through the question -> project -> user chain in the same
// statement that performs the write.
func (db *DB) SetQAFeedback(ctx context.Context, userID, questionID uuid.UUID, helpful bool) error {
	query := `
		UPDATE qa_questions q
		SET helpful = $3
		FROM projects p
		WHERE q.id = $1 AND p.id = q.project_id AND p.user_id = $2
	`

	result, err := db.Pool.Exec(ctx, query, questionID, userID, helpful)
	if err != nil {
		return fmt.Errorf("failed to set QA feedback: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetProjectStats gathers the aggregate counts for the Q&A context in a
// single round trip. Ownership was verified by the caller's project fetch.
func (db *DB) GetProjectStats(ctx context.Context, projectID uuid.UUID) (*models.ProjectStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM tasks WHERE project_id = $1),
			(SELECT COUNT(*) FROM tasks WHERE project_id = $1 AND status = 'DONE'),
			(SELECT COUNT(*) FROM insights i JOIN idea_dumps d ON d.id = i.idea_dump_id WHERE d.project_id = $1),
			(SELECT COUNT(*) FROM milestones WHERE project_id = $1 AND due_date >= NOW())
	`

	var stats models.ProjectStats
	err := db.Pool.QueryRow(ctx, query, projectID).Scan(
		&stats.TotalTasks,
		&stats.CompletedTasks,
		&stats.TotalInsights,
		&stats.UpcomingMilestones,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get project stats: %w", err)
	}
	return &stats, nil
}

// CountTasksByStatus counts a project's tasks in one status, used for
// context-aware question suggestions.
func (db *DB) CountTasksByStatus(ctx context.Context, projectID uuid.UUID, status models.TaskStatus) (int, error) {
	query := `SELECT COUNT(*) FROM tasks WHERE project_id = $1 AND status = $2`

	var count int
	if err := db.Pool.QueryRow(ctx, query, projectID, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

// Helper functions

func scanQAQuestion(row rowScanner) (*models.QAQuestion, error) {
	var q models.QAQuestion
	err := row.Scan(
		&q.ID,
		&q.ProjectID,
		&q.Question,
		&q.Answer,
		&q.Suggestions,
		&q.Examples,
		&q.Helpful,
		&q.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

func validateLimit(limit, defaultLimit, maxLimit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
