package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/elvinq/branchfeedback/backend/internal/domain/entities"
	"github.com/elvinq/branchfeedback/backend/internal/domain/repositories"
	tsclient "github.com/elvinq/branchfeedback/backend/internal/infrastructure/clients/typesense"
)

// TypesenseAdapter implements branch keyword search using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ repositories.BranchSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the branches collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	_, err := a.client.Client().Collection(tsclient.BranchesCollection).Retrieve(ctx)
	if err == nil {
		return nil // Collection exists
	}

	schema := &api.CollectionSchema{
		Name: tsclient.BranchesCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "address", Type: "string"},
			{Name: "type", Type: "string", Facet: pointer.True()},
			{Name: "services", Type: "string"},
			{Name: "location", Type: "geopoint"},
			{Name: "created_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("created_at"),
	}

	_, err = a.client.Client().Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}

	return nil
}

// Index upserts a branch document
func (a *TypesenseAdapter) Index(ctx context.Context, branch *entities.Branch) error {
	document := map[string]interface{}{
		"id":         branch.ID,
		"name":       branch.Name,
		"address":    branch.Address,
		"type":       branch.Type,
		"services":   branch.Services,
		"location":   []float64{branch.Location.Latitude, branch.Location.Longitude},
		"created_at": branch.CreatedAt.Unix(),
	}

	_, err := a.client.Client().Collection(tsclient.BranchesCollection).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index branch: %w", err)
	}

	return nil
}

// Delete removes a branch from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(tsclient.BranchesCollection).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete branch from index: %w", err)
	}
	return nil
}

// Search performs a keyword search over name, address and services, with an
// optional type facet filter.
func (a *TypesenseAdapter) Search(ctx context.Context, params repositories.BranchSearchParams) ([]*entities.Branch, error) {
	query := strings.TrimSpace(params.Query)
	if query == "" {
		query = "*"
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("name,address,services"),
		PerPage: pointer.Int(limit),
	}
	if params.Type != "" {
		searchParams.FilterBy = pointer.String(fmt.Sprintf("type:=%s", params.Type))
	}

	result, err := a.client.Client().Collection(tsclient.BranchesCollection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search branches: %w", err)
	}

	branches := []*entities.Branch{}
	if result.Hits == nil {
		return branches, nil
	}

	for _, hit := range *result.Hits {
		doc := *hit.Document

		var lat, lon float64
		if loc, ok := doc["location"].([]interface{}); ok && len(loc) == 2 {
			lat, _ = loc[0].(float64)
			lon, _ = loc[1].(float64)
		}

		// Typesense stores only the searchable projection; feedback
		// aggregates come from Postgres on the detail path.
		branch := &entities.Branch{
			Location: entities.Location{
				Latitude:  lat,
				Longitude: lon,
			},
		}
		if val, ok := doc["id"].(string); ok {
			branch.ID = val
		}
		if val, ok := doc["name"].(string); ok {
			branch.Name = val
		}
		if val, ok := doc["address"].(string); ok {
			branch.Address = val
		}
		if val, ok := doc["type"].(string); ok {
			branch.Type = val
		}
		if val, ok := doc["services"].(string); ok {
			branch.Services = val
		}

		branches = append(branches, branch)
	}

	return branches, nil
}
