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

const (
	ideaDumpColumns = `id, project_id, user_id, content_text, audio_url, transcript, created_at`
	insightColumns  = `id, idea_dump_id, short_summary, recommendations, suggested_tasks, pinned, created_at`
)

// CreateIdeaDump persists a raw dump. The owner id is written from the
// verified caller, never from the request body, and the insert only fires
// when the project belongs to that caller.
func (db *DB) CreateIdeaDump(ctx context.Context, userID, projectID uuid.UUID, contentText, audioURL, transcript *string) (*models.IdeaDump, error) {
	query := fmt.Sprintf(`
		INSERT INTO idea_dumps (project_id, user_id, content_text, audio_url, transcript)
		SELECT $1, $2, $3, $4, $5
		WHERE EXISTS (SELECT 1 FROM projects WHERE id = $1 AND user_id = $2)
		RETURNING %s
	`, ideaDumpColumns)

	dump, err := scanIdeaDump(db.Pool.QueryRow(ctx, query,
		projectID, userID, contentText, audioURL, transcript))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to create idea dump: %w", err)
	}

	log.Printf("Created idea dump: %s (project %s)", dump.ID, projectID)
	return dump, nil
}

func (db *DB) CreateInsight(ctx context.Context, ideaDumpID uuid.UUID, data models.InsightData) (*models.Insight, error) {
	query := fmt.Sprintf(`
		INSERT INTO insights (idea_dump_id, short_summary, recommendations, suggested_tasks)
		VALUES ($1, $2, $3, $4)
		RETURNING %s
	`, insightColumns)

	insight, err := scanInsight(db.Pool.QueryRow(ctx, query,
		ideaDumpID, data.ShortSummary, data.Recommendations, data.SuggestedTasks))
	if err != nil {
		return nil, fmt.Errorf("failed to create insight: %w", err)
	}
	return insight, nil
}

// ListInsights returns every insight for a project, newest first, joined
// with the idea-dump content it was derived from. The two-hop ownership
// chain (insight -> idea dump -> project -> user) is enforced in the join.
func (db *DB) ListInsights(ctx context.Context, userID, projectID uuid.UUID, limit int) ([]models.InsightWithSource, error) {
	query := `
		SELECT i.id, i.idea_dump_id, i.short_summary, i.recommendations,
		       i.suggested_tasks, i.pinned, i.created_at,
		       d.content_text, d.transcript, d.audio_url, d.created_at
		FROM insights i
		JOIN idea_dumps d ON d.id = i.idea_dump_id
		JOIN projects p ON p.id = d.project_id
		WHERE d.project_id = $1 AND p.user_id = $2
		ORDER BY i.created_at DESC
	`
	args := []interface{}{projectID, userID}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}
	defer rows.Close()

	insights := []models.InsightWithSource{}
	for rows.Next() {
		var iws models.InsightWithSource
		err := rows.Scan(
			&iws.ID,
			&iws.IdeaDumpID,
			&iws.ShortSummary,
			&iws.Recommendations,
			&iws.SuggestedTasks,
			&iws.Pinned,
			&iws.CreatedAt,
			&iws.Source.ContentText,
			&iws.Source.Transcript,
			&iws.Source.AudioURL,
			&iws.Source.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan insight: %w", err)
		}
		insights = append(insights, iws)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating insights: %w", err)
	}

	return insights, nil
}

// SetInsightPinned flips the pin flag, re-verifying ownership through the
// two-hop chain in the same statement.
func (db *DB) SetInsightPinned(ctx context.Context, userID, insightID uuid.UUID, pinned bool) error {
	query := `
		UPDATE insights i
		SET pinned = $3
		FROM idea_dumps d
		WHERE i.id = $1 AND d.id = i.idea_dump_id AND d.user_id = $2
	`

	result, err := db.Pool.Exec(ctx, query, insightID, userID, pinned)
	if err != nil {
		return fmt.Errorf("failed to pin insight: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Helper functions

func scanIdeaDump(row rowScanner) (*models.IdeaDump, error) {
	var d models.IdeaDump
	err := row.Scan(
		&d.ID,
		&d.ProjectID,
		&d.UserID,
		&d.ContentText,
		&d.AudioURL,
		&d.Transcript,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func scanInsight(row rowScanner) (*models.Insight, error) {
	var i models.Insight
	err := row.Scan(
		&i.ID,
		&i.IdeaDumpID,
		&i.ShortSummary,
		&i.Recommendations,
		&i.SuggestedTasks,
		&i.Pinned,
		&i.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}
