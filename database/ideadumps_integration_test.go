package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timfmjones/project-manager-backend/models"
)

func TestCreateIdeaDump(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	user := createTestUser(t, db)
	project := createTestProject(t, db, user.ID)

	content := "maybe we should add dark mode"
	dump, err := db.CreateIdeaDump(ctx, user.ID, project.ID, &content, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, project.ID, dump.ProjectID)
	assert.Equal(t, user.ID, dump.UserID)
	require.NotNil(t, dump.ContentText)
	assert.Equal(t, content, *dump.ContentText)
	assert.Nil(t, dump.AudioURL)
}

func TestCreateIdeaDump_WrongOwner(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	alice := createTestUser(t, db)
	bob := createTestUser(t, db)
	project := createTestProject(t, db, alice.ID)

	content := "sneaky"
	_, err := db.CreateIdeaDump(ctx, bob.ID, project.ID, &content, nil, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateInsightAndList(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	user := createTestUser(t, db)
	project := createTestProject(t, db, user.ID)

	content := "users keep asking for exports"
	dump, err := db.CreateIdeaDump(ctx, user.ID, project.ID, &content, nil, nil)
	require.NoError(t, err)

	desc := "CSV first, PDF later"
	data := models.InsightData{
		ShortSummary:    []string{"Export demand is growing"},
		Recommendations: []string{"Prioritize CSV export"},
		SuggestedTasks:  []models.SuggestedTask{{Title: "Build CSV export", Description: &desc}},
	}
	insight, err := db.CreateInsight(ctx, dump.ID, data)
	require.NoError(t, err)
	assert.Equal(t, dump.ID, insight.IdeaDumpID)
	assert.Nil(t, insight.Pinned)

	insights, err := db.ListInsights(ctx, user.ID, project.ID, 0)
	require.NoError(t, err)
	require.Len(t, insights, 1)

	got := insights[0]
	assert.Equal(t, insight.ID, got.ID)
	assert.Equal(t, []string{"Export demand is growing"}, got.ShortSummary)
	require.Len(t, got.SuggestedTasks, 1)
	assert.Equal(t, "Build CSV export", got.SuggestedTasks[0].Title)
	require.NotNil(t, got.Source.ContentText)
	assert.Equal(t, content, *got.Source.ContentText)
}

func TestListInsights_ScopedToOwner(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	alice := createTestUser(t, db)
	bob := createTestUser(t, db)
	project := createTestProject(t, db, alice.ID)

	content := "private notes"
	dump, err := db.CreateIdeaDump(ctx, alice.ID, project.ID, &content, nil, nil)
	require.NoError(t, err)
	_, err = db.CreateInsight(ctx, dump.ID, models.InsightData{
		ShortSummary:    []string{"s"},
		Recommendations: []string{"r"},
		SuggestedTasks:  []models.SuggestedTask{},
	})
	require.NoError(t, err)

	insights, err := db.ListInsights(ctx, bob.ID, project.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, insights)
}

func TestSetInsightPinned(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	alice := createTestUser(t, db)
	bob := createTestUser(t, db)
	project := createTestProject(t, db, alice.ID)

	content := "pin me"
	dump, err := db.CreateIdeaDump(ctx, alice.ID, project.ID, &content, nil, nil)
	require.NoError(t, err)
	insight, err := db.CreateInsight(ctx, dump.ID, models.InsightData{
		ShortSummary:    []string{"s"},
		Recommendations: []string{"r"},
		SuggestedTasks:  []models.SuggestedTask{},
	})
	require.NoError(t, err)

	err = db.SetInsightPinned(ctx, bob.ID, insight.ID, true)
	assert.ErrorIs(t, err, ErrNotFound)

	err = db.SetInsightPinned(ctx, alice.ID, insight.ID, true)
	require.NoError(t, err)

	insights, err := db.ListInsights(ctx, alice.ID, project.ID, 0)
	require.NoError(t, err)
	require.Len(t, insights, 1)
	require.NotNil(t, insights[0].Pinned)
	assert.True(t, *insights[0].Pinned)
}
