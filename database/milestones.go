package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/timfmjones/project-manager-backend/models"
)

const (
	milestoneColumns          = `id, project_id, title, description, due_date, created_at, updated_at`
	milestoneColumnsQualified = `m.id, m.project_id, m.title, m.description, m.due_date, m.created_at, m.updated_at`
)

func (db *DB) ListMilestones(ctx context.Context, userID, projectID uuid.UUID) ([]models.Milestone, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM milestones m
		JOIN projects p ON p.id = m.project_id
		WHERE m.project_id = $1 AND p.user_id = $2
		ORDER BY m.due_date ASC NULLS LAST
	`, milestoneColumnsQualified)

	rows, err := db.Pool.Query(ctx, query, projectID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list milestones: %w", err)
	}
	defer rows.Close()

	return scanMilestones(rows)
}

func (db *DB) CreateMilestone(ctx context.Context, userID, projectID uuid.UUID, title string, description *string, dueDate *time.Time) (*models.Milestone, error) {
	query := fmt.Sprintf(`
		INSERT INTO milestones (project_id, title, description, due_date)
		SELECT $1, $3, $4, $5
		WHERE EXISTS (SELECT 1 FROM projects WHERE id = $1 AND user_id = $2)
		RETURNING %s
	`, milestoneColumns)

	milestone, err := scanMilestone(db.Pool.QueryRow(ctx, query,
		projectID, userID, title, description, dueDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to create milestone: %w", err)
	}
	return milestone, nil
}

// MilestoneUpdate carries tri-state fields resolved by the handler: a nil
// pointer-to-pointer means "leave alone", a non-nil outer pointer with a
// nil inner value means "clear the column".
type MilestoneUpdate struct {
	Title       *string
	Description **string
	DueDate     **time.Time
}

// UpdateMilestone applies a partial update with explicit-null semantics.
// The SET list is built from the fields actually present so an omitted
// field never touches its column.
func (db *DB) UpdateMilestone(ctx context.Context, userID, milestoneID uuid.UUID, upd MilestoneUpdate) (*models.Milestone, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{milestoneID, userID}
	argN := 3

	if upd.Title != nil {
		sets = append(sets, fmt.Sprintf("title = $%d", argN))
		args = append(args, *upd.Title)
		argN++
	}
	if upd.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", argN))
		args = append(args, *upd.Description)
		argN++
	}
	if upd.DueDate != nil {
		sets = append(sets, fmt.Sprintf("due_date = $%d", argN))
		args = append(args, *upd.DueDate)
		argN++
	}

	query := fmt.Sprintf(`
		UPDATE milestones m
		SET %s
		FROM projects p
		WHERE m.id = $1 AND p.id = m.project_id AND p.user_id = $2
		RETURNING %s
	`, strings.Join(sets, ", "), milestoneColumnsQualified)

	milestone, err := scanMilestone(db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update milestone: %w", err)
	}
	return milestone, nil
}

func (db *DB) DeleteMilestone(ctx context.Context, userID, milestoneID uuid.UUID) error {
	query := `
		DELETE FROM milestones m
		USING projects p
		WHERE m.id = $1 AND p.id = m.project_id AND p.user_id = $2
	`

	result, err := db.Pool.Exec(ctx, query, milestoneID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete milestone: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	log.Printf("Deleted milestone: %s", milestoneID)
	return nil
}

// ListUpcomingMilestones returns milestones due from now on, soonest
// first, for the Q&A context snapshot.
func (db *DB) ListUpcomingMilestones(ctx context.Context, projectID uuid.UUID, limit int) ([]models.Milestone, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM milestones
		WHERE project_id = $1 AND due_date >= NOW()
		ORDER BY due_date ASC
		LIMIT $2
	`, milestoneColumns)

	rows, err := db.Pool.Query(ctx, query, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming milestones: %w", err)
	}
	defer rows.Close()

	return scanMilestones(rows)
}

// CountMilestonesDueWithin counts milestones due in the next window,
// used for context-aware question suggestions.
func (db *DB) CountMilestonesDueWithin(ctx context.Context, projectID uuid.UUID, window time.Duration) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM milestones
		WHERE project_id = $1 AND due_date >= NOW() AND due_date <= NOW() + make_interval(secs => $2)
	`

	var count int
	err := db.Pool.QueryRow(ctx, query, projectID, window.Seconds()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count upcoming milestones: %w", err)
	}
	return count, nil
}

// Helper functions

func scanMilestone(row rowScanner) (*models.Milestone, error) {
	var m models.Milestone
	err := row.Scan(
		&m.ID,
		&m.ProjectID,
		&m.Title,
		&m.Description,
		&m.DueDate,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanMilestones(rows rowsScanner) ([]models.Milestone, error) {
	milestones := []models.Milestone{}
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan milestone: %w", err)
		}
		milestones = append(milestones, *m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating milestones: %w", err)
	}

	return milestones, nil
}
