package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timfmjones/project-manager-backend/models"
)

func TestCreateQAQuestion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	user := createTestUser(t, db)
	project := createTestProject(t, db, user.ID)

	q, err := db.CreateQAQuestion(ctx, project.ID,
		"What should I do next?", "Focus on the export feature.", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "What should I do next?", q.Question)
	assert.Nil(t, q.Helpful)
	assert.Equal(t, []string{}, q.Suggestions)
	assert.Equal(t, []string{}, q.Examples)
}

func TestListQAHistory(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	user := createTestUser(t, db)
	project := createTestProject(t, db, user.ID)

	for i := 0; i < 3; i++ {
		_, err := db.CreateQAQuestion(ctx, project.ID, "question text here", "answer",
			[]string{"follow up"}, nil)
		require.NoError(t, err)
	}

	questions, err := db.ListQAHistory(ctx, user.ID, project.ID, 2)
	require.NoError(t, err)
	assert.Len(t, questions, 2)

	questions, err = db.ListQAHistory(ctx, user.ID, project.ID, 0)
	require.NoError(t, err)
	assert.Len(t, questions, 3)
}

func TestListQAHistory_ScopedToOwner(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	alice := createTestUser(t, db)
	bob := createTestUser(t, db)
	project := createTestProject(t, db, alice.ID)

	_, err := db.CreateQAQuestion(ctx, project.ID, "private question", "answer", nil, nil)
	require.NoError(t, err)

	questions, err := db.ListQAHistory(ctx, bob.ID, project.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, questions)
}

func TestSetQAFeedback(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	alice := createTestUser(t, db)
	bob := createTestUser(t, db)
	project := createTestProject(t, db, alice.ID)

	q, err := db.CreateQAQuestion(ctx, project.ID, "was this helpful?", "yes", nil, nil)
	require.NoError(t, err)

	err = db.SetQAFeedback(ctx, bob.ID, q.ID, true)
	assert.ErrorIs(t, err, ErrNotFound)

	err = db.SetQAFeedback(ctx, alice.ID, q.ID, true)
	require.NoError(t, err)

	questions, err := db.ListQAHistory(ctx, alice.ID, project.ID, 0)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	require.NotNil(t, questions[0].Helpful)
	assert.True(t, *questions[0].Helpful)
}

func TestGetProjectStats(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	user := createTestUser(t, db)
	project := createTestProject(t, db, user.ID)

	_, err := db.CreateTask(ctx, user.ID, project.ID, "open", nil, models.StatusTodo)
	require.NoError(t, err)
	_, err = db.CreateTask(ctx, user.ID, project.ID, "done", nil, models.StatusDone)
	require.NoError(t, err)

	future := time.Now().Add(24 * time.Hour)
	_, err = db.CreateMilestone(ctx, user.ID, project.ID, "ahead", nil, &future)
	require.NoError(t, err)

	content := "stats fodder"
	dump, err := db.CreateIdeaDump(ctx, user.ID, project.ID, &content, nil, nil)
	require.NoError(t, err)
	_, err = db.CreateInsight(ctx, dump.ID, models.InsightData{
		ShortSummary:    []string{"s"},
		Recommendations: []string{"r"},
		SuggestedTasks:  []models.SuggestedTask{},
	})
	require.NoError(t, err)

	stats, err := db.GetProjectStats(ctx, project.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalTasks)
	assert.Equal(t, 1, stats.CompletedTasks)
	assert.Equal(t, 1, stats.TotalInsights)
	assert.Equal(t, 1, stats.UpcomingMilestones)
}

func TestCountTasksByStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	user := createTestUser(t, db)
	project := createTestProject(t, db, user.ID)

	for i := 0; i < 3; i++ {
		_, err := db.CreateTask(ctx, user.ID, project.ID, "todo", nil, models.StatusTodo)
		require.NoError(t, err)
	}
	_, err := db.CreateTask(ctx, user.ID, project.ID, "doing", nil, models.StatusInProgress)
	require.NoError(t, err)

	count, err := db.CountTasksByStatus(ctx, project.ID, models.StatusTodo)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
