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

const userColumns = `id, email, password_hash, google_id, display_name, photo_url, created_at, updated_at`

// ErrEmailTaken is returned when registering an email that already exists.
var ErrEmailTaken = errors.New("email already registered")

func (db *DB) CreateUser(ctx context.Context, email string, passwordHash *string) (*models.User, error) {
	query := fmt.Sprintf(`
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING %s
	`, userColumns)

	user, err := scanUser(db.Pool.QueryRow(ctx, query, email, passwordHash))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("Created user: %s (ID: %s)", user.Email, user.ID)
	return user, nil
}

func (db *DB) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	user, err := scanUser(db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)

	user, err := scanUser(db.Pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (db *DB) GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE google_id = $1`, userColumns)

	user, err := scanUser(db.Pool.QueryRow(ctx, query, googleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// CreateGoogleUser creates an account from a verified federated identity.
func (db *DB) CreateGoogleUser(ctx context.Context, email, googleID string, displayName, photoURL *string) (*models.User, error) {
	query := fmt.Sprintf(`
		INSERT INTO users (email, google_id, display_name, photo_url)
		VALUES ($1, $2, $3, $4)
		RETURNING %s
	`, userColumns)

	user, err := scanUser(db.Pool.QueryRow(ctx, query, email, googleID, displayName, photoURL))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("Created google user: %s (ID: %s)", user.Email, user.ID)
	return user, nil
}

// LinkGoogleIdentity attaches a federated subject id and profile claims to
// an existing account. The link is one-way; google_id is only ever written
// when it is still null, which makes the operation idempotent.
func (db *DB) LinkGoogleIdentity(ctx context.Context, userID uuid.UUID, googleID string, displayName, photoURL *string) (*models.User, error) {
	query := fmt.Sprintf(`
		UPDATE users
		SET google_id = COALESCE(google_id, $2),
		    display_name = COALESCE(display_name, $3),
		    photo_url = COALESCE(photo_url, $4),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, userColumns)

	user, err := scanUser(db.Pool.QueryRow(ctx, query, userID, googleID, displayName, photoURL))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to link google identity: %w", err)
	}
	return user, nil
}

// Helper functions

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.GoogleID,
		&user.DisplayName,
		&user.PhotoURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr interface{ SQLState() string }
	return errors.As(err, &pgErr) && pgErr.SQLState() == "23505"
}
