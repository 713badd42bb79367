package database

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/timfmjones/project-manager-backend/models"
)

const projectColumns = `id, user_id, name, summary_banner, created_at, updated_at`

func (db *DB) CreateProject(ctx context.Context, userID uuid.UUID, name string) (*models.Project, error) {
	query := fmt.Sprintf(`
		INSERT INTO projects (user_id, name)
		VALUES ($1, $2)
		RETURNING %s
	`, projectColumns)

	project, err := scanProject(db.Pool.QueryRow(ctx, query, userID, name))
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	log.Printf("Created project: %s (ID: %s)", project.Name, project.ID)
	return project, nil
}

func (db *DB) ListProjects(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM projects
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`, projectColumns)

	rows, err := db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}

func (db *DB) GetProject(ctx context.Context, userID, projectID uuid.UUID) (*models.Project, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM projects
		WHERE id = $1 AND user_id = $2
	`, projectColumns)

	project, err := scanProject(db.Pool.QueryRow(ctx, query, projectID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// UpdateProjectName renames a project. The owner predicate rides in the
// UPDATE itself; zero rows affected means not found or not owned.
func (db *DB) UpdateProjectName(ctx context.Context, userID, projectID uuid.UUID, name string) error {
	query := `
		UPDATE projects
		SET name = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`

	result, err := db.Pool.Exec(ctx, query, projectID, userID, name)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) GetProjectSummary(ctx context.Context, userID, projectID uuid.UUID) (*string, error) {
	query := `
		SELECT summary_banner
		FROM projects
		WHERE id = $1 AND user_id = $2
	`

	var banner *string
	err := db.Pool.QueryRow(ctx, query, projectID, userID).Scan(&banner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project summary: %w", err)
	}
	return banner, nil
}

func (db *DB) UpdateProjectSummary(ctx context.Context, userID, projectID uuid.UUID, banner string) error {
	query := `
		UPDATE projects
		SET summary_banner = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`

	result, err := db.Pool.Exec(ctx, query, projectID, userID, banner)
	if err != nil {
		return fmt.Errorf("failed to update project summary: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Helper functions

func scanProject(row rowScanner) (*models.Project, error) {
	var project models.Project
	err := row.Scan(
		&project.ID,
		&project.UserID,
		&project.Name,
		&project.SummaryBanner,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

type rowsScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanProjects(rows rowsScanner) ([]models.Project, error) {
	projects := []models.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, nil
}
