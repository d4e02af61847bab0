package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/elvinq/branchfeedback/backend/internal/domain/entities"
	"github.com/elvinq/branchfeedback/backend/internal/domain/providers"
	"github.com/elvinq/branchfeedback/backend/internal/domain/repositories"
	"github.com/elvinq/branchfeedback/backend/internal/infrastructure/clients/bankapi"
	"github.com/elvinq/branchfeedback/backend/internal/infrastructure/observability"
)

const (
	// externalIDPrefix namespaces upstream feed ids so rows from other
	// sources can never collide with them.
	externalIDPrefix = "bank-api-"

	// feedLanguage selects one record per location from the multilingual feed
	feedLanguage = "en"
)

// SyncStats summarizes one sync run.
type SyncStats struct {
	Total   int `json:"total"`
	Created int `json:"created"`
	Updated int `json:"updated"`
	Errors  int `json:"errors"`
}

// SyncResult is returned to the caller of a sync run.
type SyncResult struct {
	Message string    `json:"message"`
	Stats   SyncStats `json:"stats"`
}

// PreviewedBranch is a feed record transformed for display without persisting.
type PreviewedBranch struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Type      string  `json:"type"`
	Services  string  `json:"services"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// BranchSyncService pulls the bank's service-network feed and reconciles it
// into the branches table. Search indexing, events and metrics are optional
// collaborators.
type BranchSyncService struct {
	client     bankapi.Client
	branchRepo repositories.BranchRepository
	searchRepo repositories.BranchSearchRepository
	eventBus   providers.EventBus
	metrics    *observability.Metrics
}

// NewBranchSyncService creates a new sync service.
func NewBranchSyncService(client bankapi.Client, branchRepo repositories.BranchRepository) *BranchSyncService {
	return &BranchSyncService{
		client:     client,
		branchRepo: branchRepo,
	}
}

// SetSearchRepository enables search indexing of synced branches.
func (s *BranchSyncService) SetSearchRepository(repo repositories.BranchSearchRepository) {
	s.searchRepo = repo
}

// SetEventBus enables publishing sync events.
func (s *BranchSyncService) SetEventBus(bus providers.EventBus) {
	s.eventBus = bus
}

// SetMetrics enables sync metrics recording.
func (s *BranchSyncService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// Sync fetches the feed and upserts every English-language record. A record
// that fails to parse or persist is counted and skipped; it never aborts the
// run. Only a failed fetch returns an error.
func (s *BranchSyncService) Sync(ctx context.Context) (*SyncResult, error) {
	ctx, span := observability.StartSpan(ctx, "BranchSyncService.Sync")
	defer span.End()

	logger := observability.LoggerFromContext(ctx)

	resp, err := s.client.FetchServiceNetwork(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	stats := SyncStats{}
	for _, record := range resp.Payload.Contents {
		if record.Language != feedLanguage {
			continue
		}
		stats.Total++

		branch, err := s.transform(record)
		if err != nil {
			logger.Warn().Err(err).
				Str("external_id", string(record.ID)).
				Str("title", record.Title).
				Msg("skipping unparseable feed record")
			stats.Errors++
			continue
		}

		created, err := s.branchRepo.Upsert(ctx, branch)
		if err != nil {
			logger.Error().Err(err).
				Str("external_id", branch.ExternalID).
				Msg("failed to upsert branch")
			stats.Errors++
			continue
		}

		if created {
			stats.Created++
		} else {
			stats.Updated++
		}

		if s.searchRepo != nil {
			if err := s.searchRepo.Index(ctx, branch); err != nil {
				// search lags behind until the next sync; not a record error
				logger.Warn().Err(err).Str("branch_id", branch.ID).Msg("failed to index branch")
			}
		}
	}

	observability.SetSpanAttributes(span,
		attribute.Int("sync.total", stats.Total),
		attribute.Int("sync.created", stats.Created),
		attribute.Int("sync.updated", stats.Updated),
		attribute.Int("sync.errors", stats.Errors),
	)
	if s.metrics != nil {
		observability.RecordSyncRecords(ctx, s.metrics, "created", stats.Created)
		observability.RecordSyncRecords(ctx, s.metrics, "updated", stats.Updated)
		observability.RecordSyncRecords(ctx, s.metrics, "error", stats.Errors)
	}

	s.publishSyncCompleted(ctx, stats)

	result := &SyncResult{
		Message: fmt.Sprintf("Sync completed: %d created, %d updated, %d errors",
			stats.Created, stats.Updated, stats.Errors),
		Stats: stats,
	}

	logger.Info().
		Int("total", stats.Total).
		Int("created", stats.Created).
		Int("updated", stats.Updated).
		Int("errors", stats.Errors).
		Msg("branch sync completed")

	return result, nil
}

// Preview fetches and transforms the feed without writing anything. Records
// with unparseable coordinates are dropped silently. The preview carries the
// raw upstream id; the bank-api- namespacing only applies once a record is
// persisted.
func (s *BranchSyncService) Preview(ctx context.Context) ([]PreviewedBranch, error) {
	resp, err := s.client.FetchServiceNetwork(ctx)
	if err != nil {
		return nil, err
	}

	previews := []PreviewedBranch{}
	for _, record := range resp.Payload.Contents {
		if record.Language != feedLanguage {
			continue
		}

		location, err := ParseLocation(record.Location)
		if err != nil {
			continue
		}

		previews = append(previews, PreviewedBranch{
			ID:        string(record.ID),
			Name:      record.Title,
			Address:   record.Address,
			Type:      ClassifyLocationTitle(record.Title),
			Services:  record.ServiceNames,
			Latitude:  location.Latitude,
			Longitude: location.Longitude,
		})
	}

	return previews, nil
}

func (s *BranchSyncService) transform(record bankapi.Location) (*entities.Branch, error) {
	location, err := ParseLocation(record.Location)
	if err != nil {
		return nil, err
	}

	return &entities.Branch{
		ID:         uuid.New().String(),
		ExternalID: externalIDPrefix + string(record.ID),
		Name:       record.Title,
		Address:    record.Address,
		Type:       ClassifyLocationTitle(record.Title),
		Services:   record.ServiceNames,
		Location:   location,
	}, nil
}

func (s *BranchSyncService) publishSyncCompleted(ctx context.Context, stats SyncStats) {
	if s.eventBus == nil {
		return
	}

	event := entities.NewBranchEvent("", entities.BranchEventTypeSyncCompleted, map[string]interface{}{
		"total":   stats.Total,
		"created": stats.Created,
		"updated": stats.Updated,
		"errors":  stats.Errors,
	})
	if err := s.eventBus.Publish(ctx, providers.EventChannelBranchUpdates, event); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to publish sync event")
	}
}
