package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timfmjones/project-manager-backend/models"
)

// createTestUser inserts a password-auth user with a unique email.
func createTestUser(t *testing.T, db *DB) *models.User {
	t.Helper()

	hash := "not-a-real-hash"
	user, err := db.CreateUser(context.Background(),
		fmt.Sprintf("user-%s@example.com", uuid.New()), &hash)
	require.NoError(t, err)
	return user
}

// createTestProject inserts a project owned by the given user.
func createTestProject(t *testing.T, db *DB, userID uuid.UUID) *models.Project {
	t.Helper()

	project, err := db.CreateProject(context.Background(), userID, "Test Project")
	require.NoError(t, err)
	return project
}

func TestCreateUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()

	hash := "hash1"
	user, err := db.CreateUser(ctx, "alice@example.com", &hash)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	require.NotNil(t, user.PasswordHash)
	assert.Equal(t, "hash1", *user.PasswordHash)

	fetched, err := db.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, fetched.ID)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()

	hash := "hash1"
	_, err := db.CreateUser(ctx, "bob@example.com", &hash)
	require.NoError(t, err)

	_, err = db.CreateUser(ctx, "bob@example.com", &hash)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	_, err := db.GetUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateGoogleUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()

	name := "Carol"
	user, err := db.CreateGoogleUser(ctx, "carol@example.com", "google-sub-1", &name, nil)
	require.NoError(t, err)
	assert.Nil(t, user.PasswordHash)
	require.NotNil(t, user.GoogleID)
	assert.Equal(t, "google-sub-1", *user.GoogleID)

	fetched, err := db.GetUserByGoogleID(ctx, "google-sub-1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, fetched.ID)
}

func TestLinkGoogleIdentity(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	user := createTestUser(t, db)

	linked, err := db.LinkGoogleIdentity(ctx, user.ID, "google-sub-2", nil, nil)
	require.NoError(t, err)
	require.NotNil(t, linked.GoogleID)
	assert.Equal(t, "google-sub-2", *linked.GoogleID)

	// Linking again with a different subject keeps the first link.
	relinked, err := db.LinkGoogleIdentity(ctx, user.ID, "google-sub-other", nil, nil)
	require.NoError(t, err)
	require.NotNil(t, relinked.GoogleID)
	assert.Equal(t, "google-sub-2", *relinked.GoogleID)
}
