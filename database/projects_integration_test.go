package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProject(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	user := createTestUser(t, db)

	project, err := db.CreateProject(ctx, user.ID, "My Project")
	require.NoError(t, err)
	assert.Equal(t, "My Project", project.Name)
	assert.Equal(t, user.ID, project.UserID)
	assert.Nil(t, project.SummaryBanner)
}

func TestListProjects_ScopedToOwner(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	alice := createTestUser(t, db)
	bob := createTestUser(t, db)

	createTestProject(t, db, alice.ID)
	createTestProject(t, db, alice.ID)
	createTestProject(t, db, bob.ID)

	projects, err := db.ListProjects(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, projects, 2)
	for _, p := range projects {
		assert.Equal(t, alice.ID, p.UserID)
	}
}

func TestGetProject_WrongOwner(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	alice := createTestUser(t, db)
	bob := createTestUser(t, db)
	project := createTestProject(t, db, alice.ID)

	_, err := db.GetProject(ctx, bob.ID, project.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	fetched, err := db.GetProject(ctx, alice.ID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, fetched.ID)
}

func TestUpdateProjectName(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	alice := createTestUser(t, db)
	bob := createTestUser(t, db)
	project := createTestProject(t, db, alice.ID)

	err := db.UpdateProjectName(ctx, bob.ID, project.ID, "hijacked")
	assert.ErrorIs(t, err, ErrNotFound)

	err = db.UpdateProjectName(ctx, alice.ID, project.ID, "Renamed")
	require.NoError(t, err)

	fetched, err := db.GetProject(ctx, alice.ID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", fetched.Name)
}

func TestProjectSummary(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	user := createTestUser(t, db)
	project := createTestProject(t, db, user.ID)

	summary, err := db.GetProjectSummary(ctx, user.ID, project.ID)
	require.NoError(t, err)
	assert.Nil(t, summary)

	err = db.UpdateProjectSummary(ctx, user.ID, project.ID, "Shipping v1 this month")
	require.NoError(t, err)

	summary, err = db.GetProjectSummary(ctx, user.ID, project.ID)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, "Shipping v1 this month", *summary)
}
