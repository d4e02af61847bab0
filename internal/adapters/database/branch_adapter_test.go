package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elvinq/branchfeedback/backend/internal/domain/repositories"
	"github.com/elvinq/branchfeedback/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/elvinq/branchfeedback/backend/pkg/errors"
)

func newMockAdapter(t *testing.T) (repositories.BranchRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBranchAdapter(postgres.NewClientWithDB(db)), mock
}

func upsertColumns() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "created_at", "updated_at", "inserted"})
}

func TestBranchAdapter_Upsert_ReportsInsert(t *testing.T) {
	adapter, mock := newMockAdapter(t)
	branch := sampleBranch()

	mock.ExpectQuery(`INSERT INTO branches .*ON CONFLICT \(external_id\)`).
		WithArgs(branch.ID, branch.ExternalID, branch.Name, branch.Address,
			branch.Type, branch.Services, branch.Location.Latitude, branch.Location.Longitude).
		WillReturnRows(upsertColumns().AddRow(branch.ID, sampleTime, sampleTime, true))

	created, err := adapter.Upsert(context.Background(), branch)

	require.NoError(t, err)
	assert.True(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBranchAdapter_Upsert_ReportsUpdate(t *testing.T) {
	adapter, mock := newMockAdapter(t)
	branch := sampleBranch()

	// conflict path: the row keeps its original id
	mock.ExpectQuery(`INSERT INTO branches .*ON CONFLICT \(external_id\)`).
		WillReturnRows(upsertColumns().AddRow("existing-id", sampleTime, sampleTime, false))

	created, err := adapter.Upsert(context.Background(), branch)

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "existing-id", branch.ID)
}

func TestBranchAdapter_Upsert_RequiresExternalID(t *testing.T) {
	adapter, _ := newMockAdapter(t)
	branch := sampleBranch()
	branch.ExternalID = ""

	_, err := adapter.Upsert(context.Background(), branch)

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestBranchAdapter_GetByID_NotFound(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`SELECT .* FROM branches b`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(branchColumns()))

	_, err := adapter.GetByID(context.Background(), "missing")

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestBranchAdapter_GetByID_ScansAggregates(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	rows := sqlmock.NewRows(branchColumns()).
		AddRow("b-1", "bank-api-42", "Nizami ATM", "Nizami St 5", "ATM",
			"Cash withdrawal", 40.40, 49.86, 3, 4.5, sampleTime, sampleTime)
	mock.ExpectQuery(`SELECT .* FROM branches b`).
		WithArgs("b-1").
		WillReturnRows(rows)

	branch, err := adapter.GetByID(context.Background(), "b-1")

	require.NoError(t, err)
	assert.Equal(t, "bank-api-42", branch.ExternalID)
	assert.Equal(t, 3, branch.FeedbackCount)
	assert.InDelta(t, 4.5, branch.AverageRating, 0.001)
	assert.InDelta(t, 40.40, branch.Location.Latitude, 0.001)
}

func TestBranchAdapter_List_FiltersAndSorts(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	rows := sqlmock.NewRows(branchColumns()).
		AddRow("b-1", nil, "Head Office", "Fountain Sq", "Branch",
			"", 40.37, 49.83, 10, 4.2, sampleTime, sampleTime)
	mock.ExpectQuery(`SELECT .* FROM branches b .*b\.type = \$1.*ORDER BY average_rating DESC`).
		WithArgs("Branch", 20).
		WillReturnRows(rows)

	branches, err := adapter.List(context.Background(), repositories.BranchFilter{
		Type:   "Branch",
		SortBy: repositories.BranchSortByRating,
		Limit:  20,
	})

	require.NoError(t, err)
	require.Len(t, branches, 1)
	assert.Empty(t, branches[0].ExternalID)
	assert.Equal(t, 10, branches[0].FeedbackCount)
}

func TestBranchAdapter_UpdateType_NotFound(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectExec(`UPDATE branches SET type`).
		WithArgs("Service Points", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := adapter.UpdateType(context.Background(), "missing", "Service Points")

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestBranchAdapter_Stats(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`SELECT COUNT\(DISTINCT b\.id\), COUNT\(f\.id\)`).
		WillReturnRows(sqlmock.NewRows([]string{"branches", "feedback", "avg"}).
			AddRow(12, 80, 4.1))
	mock.ExpectQuery(`SELECT b\.type, COUNT\(DISTINCT b\.id\)`).
		WillReturnRows(sqlmock.NewRows([]string{"type", "count", "feedback_count"}).
			AddRow("Branch", 5, 70).
			AddRow("ATM", 7, 10))

	stats, err := adapter.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 12, stats.TotalBranches)
	assert.Equal(t, 80, stats.TotalFeedback)
	assert.InDelta(t, 4.1, stats.AverageRating, 0.001)
	assert.Equal(t, 5, stats.ByType["Branch"].Count)
	assert.Equal(t, 10, stats.ByType["ATM"].FeedbackCount)
}
