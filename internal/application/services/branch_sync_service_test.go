package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elvinq/branchfeedback/backend/internal/domain/entities"
	"github.com/elvinq/branchfeedback/backend/internal/domain/repositories"
	"github.com/elvinq/branchfeedback/backend/internal/infrastructure/clients/bankapi"
	apperrors "github.com/elvinq/branchfeedback/backend/pkg/errors"
)

type stubFeedClient struct {
	resp *bankapi.ServiceNetworkResponse
	err  error
}

func (c *stubFeedClient) FetchServiceNetwork(ctx context.Context) (*bankapi.ServiceNetworkResponse, error) {
	return c.resp, c.err
}

// memBranchRepo keeps branches keyed on external id, mirroring the unique
// constraint the real adapter relies on.
type memBranchRepo struct {
	byExternalID map[string]*entities.Branch
	upsertErr    error
}

func newMemBranchRepo() *memBranchRepo {
	return &memBranchRepo{byExternalID: make(map[string]*entities.Branch)}
}

func (r *memBranchRepo) Create(ctx context.Context, branch *entities.Branch) error {
	return errors.New("not implemented")
}

func (r *memBranchRepo) GetByID(ctx context.Context, id string) (*entities.Branch, error) {
	for _, branch := range r.byExternalID {
		if branch.ID == id {
			return branch, nil
		}
	}
	return nil, apperrors.NewNotFoundError("branch not found: " + id)
}

func (r *memBranchRepo) Upsert(ctx context.Context, branch *entities.Branch) (bool, error) {
	if r.upsertErr != nil {
		return false, r.upsertErr
	}
	existing, ok := r.byExternalID[branch.ExternalID]
	if !ok {
		stored := *branch
		stored.CreatedAt = time.Now()
		stored.UpdatedAt = stored.CreatedAt
		r.byExternalID[branch.ExternalID] = &stored
		return true, nil
	}
	existing.Name = branch.Name
	existing.Address = branch.Address
	existing.Type = branch.Type
	existing.Services = branch.Services
	existing.Location = branch.Location
	existing.UpdatedAt = time.Now()
	branch.ID = existing.ID
	return false, nil
}

func (r *memBranchRepo) List(ctx context.Context, filter repositories.BranchFilter) ([]*entities.Branch, error) {
	var branches []*entities.Branch
	for _, branch := range r.byExternalID {
		if filter.Type != "" && branch.Type != filter.Type {
			continue
		}
		if filter.TypeContains != "" && !strings.Contains(branch.Type, filter.TypeContains) {
			continue
		}
		branches = append(branches, branch)
	}
	return branches, nil
}

func (r *memBranchRepo) UpdateType(ctx context.Context, id, branchType string) error {
	return errors.New("not implemented")
}

func (r *memBranchRepo) Stats(ctx context.Context) (*repositories.BranchStats, error) {
	return nil, errors.New("not implemented")
}

func feedResponse(records ...bankapi.Location) *bankapi.ServiceNetworkResponse {
	return &bankapi.ServiceNetworkResponse{
		StatusCode: 200,
		Payload: &bankapi.ServiceNetworkPayload{
			Contents: records,
		},
	}
}

func TestSync_CreatesBranchFromFeedRecord(t *testing.T) {
	client := &stubFeedClient{resp: feedResponse(bankapi.Location{
		Title:        "Nizami ATM",
		Address:      "Nizami St 5",
		ServiceNames: "Cash withdrawal",
		Location:     "40.40, 49.86",
		Language:     "en",
		ID:           "42",
	})}
	repo := newMemBranchRepo()
	svc := NewBranchSyncService(client, repo)

	result, err := svc.Sync(context.Background())

	require.NoError(t, err)
	assert.Equal(t, SyncStats{Total: 1, Created: 1, Updated: 0, Errors: 0}, result.Stats)
	assert.Equal(t, "Sync completed: 1 created, 0 updated, 0 errors", result.Message)

	branch := repo.byExternalID["bank-api-42"]
	require.NotNil(t, branch)
	assert.Equal(t, "Nizami ATM", branch.Name)
	assert.Equal(t, "ATM", branch.Type)
	assert.NotEmpty(t, branch.ID)
	assert.InDelta(t, 40.40, branch.Location.Latitude, 1e-9)
	assert.InDelta(t, 49.86, branch.Location.Longitude, 1e-9)
}

func TestSync_KeepsOnlyEnglishRecords(t *testing.T) {
	client := &stubFeedClient{resp: feedResponse(
		bankapi.Location{Title: "28 May Branch", Location: "40.38, 49.85", Language: "en", ID: "7"},
		bankapi.Location{Title: "28 May filialı", Location: "40.38, 49.85", Language: "az", ID: "7"},
		bankapi.Location{Title: "Филиал 28 Мая", Location: "40.38, 49.85", Language: "ru", ID: "7"},
	)}
	repo := newMemBranchRepo()
	svc := NewBranchSyncService(client, repo)

	result, err := svc.Sync(context.Background())

	require.NoError(t, err)
	assert.Equal(t, SyncStats{Total: 1, Created: 1}, result.Stats)
	require.Len(t, repo.byExternalID, 1)
	assert.Equal(t, "28 May Branch", repo.byExternalID["bank-api-7"].Name)
}

func TestSync_CountsUnparseableCoordinates(t *testing.T) {
	client := &stubFeedClient{resp: feedResponse(
		bankapi.Location{Title: "Broken", Location: "not-coordinates", Language: "en", ID: "1"},
		bankapi.Location{Title: "Good Branch", Location: "40.0, 49.0", Language: "en", ID: "2"},
	)}
	repo := newMemBranchRepo()
	svc := NewBranchSyncService(client, repo)

	result, err := svc.Sync(context.Background())

	require.NoError(t, err)
	assert.Equal(t, SyncStats{Total: 2, Created: 1, Errors: 1}, result.Stats)
	assert.NotContains(t, repo.byExternalID, "bank-api-1")
}

func TestSync_SecondRunUpdates(t *testing.T) {
	record := bankapi.Location{Title: "Ganjlik Branch", Address: "A", Location: "40.40, 49.85", Language: "en", ID: "9"}
	repo := newMemBranchRepo()

	svc := NewBranchSyncService(&stubFeedClient{resp: feedResponse(record)}, repo)
	_, err := svc.Sync(context.Background())
	require.NoError(t, err)

	firstID := repo.byExternalID["bank-api-9"].ID

	// same location comes back renamed as an ATM
	record.Title = "Ganjlik ATM"
	svc = NewBranchSyncService(&stubFeedClient{resp: feedResponse(record)}, repo)
	result, err := svc.Sync(context.Background())

	require.NoError(t, err)
	assert.Equal(t, SyncStats{Total: 1, Created: 0, Updated: 1}, result.Stats)

	branch := repo.byExternalID["bank-api-9"]
	assert.Equal(t, firstID, branch.ID)
	assert.Equal(t, "Ganjlik ATM", branch.Name)
	assert.Equal(t, "ATM", branch.Type)
}

func TestSync_UpsertFailureCountsError(t *testing.T) {
	client := &stubFeedClient{resp: feedResponse(
		bankapi.Location{Title: "Any", Location: "40.0, 49.0", Language: "en", ID: "3"},
	)}
	repo := newMemBranchRepo()
	repo.upsertErr = errors.New("connection reset")
	svc := NewBranchSyncService(client, repo)

	result, err := svc.Sync(context.Background())

	require.NoError(t, err)
	assert.Equal(t, SyncStats{Total: 1, Errors: 1}, result.Stats)
}

func TestSync_FetchFailurePropagates(t *testing.T) {
	upstreamErr := &bankapi.UpstreamError{StatusCode: 503}
	client := &stubFeedClient{err: upstreamErr}
	repo := newMemBranchRepo()
	svc := NewBranchSyncService(client, repo)

	_, err := svc.Sync(context.Background())

	require.Error(t, err)
	assert.ErrorAs(t, err, &upstreamErr)
	assert.Empty(t, repo.byExternalID)
}

func TestPreview_TransformsWithoutWriting(t *testing.T) {
	client := &stubFeedClient{resp: feedResponse(
		bankapi.Location{Title: "Nizami ATM", Address: "X", ServiceNames: "Cash", Location: "40.40, 49.86", Language: "en", ID: "42"},
		bankapi.Location{Title: "Broken", Location: "??", Language: "en", ID: "43"},
		bankapi.Location{Title: "az-only", Location: "40.0, 49.0", Language: "az", ID: "44"},
	)}
	repo := newMemBranchRepo()
	svc := NewBranchSyncService(client, repo)

	previews, err := svc.Preview(context.Background())

	require.NoError(t, err)
	require.Len(t, previews, 1)
	// the preview shows the raw upstream id, not the namespaced external key
	assert.Equal(t, PreviewedBranch{
		ID:        "42",
		Name:      "Nizami ATM",
		Address:   "X",
		Type:      "ATM",
		Services:  "Cash",
		Latitude:  40.40,
		Longitude: 49.86,
	}, previews[0])
	assert.Empty(t, repo.byExternalID)
}
