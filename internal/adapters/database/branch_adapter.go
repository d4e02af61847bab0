package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/elvinq/branchfeedback/backend/internal/domain/entities"
	"github.com/elvinq/branchfeedback/backend/internal/domain/repositories"
	"github.com/elvinq/branchfeedback/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/elvinq/branchfeedback/backend/pkg/errors"
)

// BranchAdapter implements branch persistence in Postgres.
type BranchAdapter struct {
	client *postgres.Client
}

// NewBranchAdapter creates a new branch adapter.
func NewBranchAdapter(client *postgres.Client) repositories.BranchRepository {
	return &BranchAdapter{client: client}
}

// Create inserts a branch row. Used by the manual admin path; feed records go
// through Upsert.
func (a *BranchAdapter) Create(ctx context.Context, branch *entities.Branch) error {
	if branch == nil {
		return apperrors.NewInternalError("branch is nil", fmt.Errorf("branch is nil"))
	}

	query := `
		INSERT INTO branches (id, external_id, name, address, type, services, latitude, longitude, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`

	externalID := sql.NullString{String: branch.ExternalID, Valid: branch.ExternalID != ""}

	_, err := a.client.DB().ExecContext(ctx, query,
		branch.ID,
		externalID,
		branch.Name,
		branch.Address,
		branch.Type,
		branch.Services,
		branch.Location.Latitude,
		branch.Location.Longitude,
	)
	if err != nil {
		return apperrors.NewInternalError("failed to create branch", err)
	}

	return nil
}

// GetByID retrieves a branch with its feedback aggregates.
func (a *BranchAdapter) GetByID(ctx context.Context, id string) (*entities.Branch, error) {
	query := `
		SELECT b.id, b.external_id, b.name, b.address, b.type, b.services,
		       b.latitude, b.longitude,
		       COUNT(f.id) AS feedback_count,
		       COALESCE(AVG(f.rating), 0) AS average_rating,
		       b.created_at, b.updated_at
		FROM branches b
		LEFT JOIN feedback f ON f.branch_id = b.id
		WHERE b.id = $1
		GROUP BY b.id`

	branch, err := scanBranch(a.client.DB().QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("branch not found: %s", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get branch", err)
	}

	return branch, nil
}

// Upsert inserts the branch or, when a row with the same external id already
// exists, refreshes its mutable columns. The xmax system column distinguishes
// a fresh insert from a conflict update.
func (a *BranchAdapter) Upsert(ctx context.Context, branch *entities.Branch) (bool, error) {
	if branch == nil {
		return false, apperrors.NewInternalError("branch is nil", fmt.Errorf("branch is nil"))
	}
	if branch.ExternalID == "" {
		return false, apperrors.NewValidationError("branch external id is required for upsert")
	}

	query := `
		INSERT INTO branches (id, external_id, name, address, type, services, latitude, longitude, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (external_id) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			type = EXCLUDED.type,
			services = EXCLUDED.services,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			updated_at = NOW()
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted`

	var inserted bool
	err := a.client.DB().QueryRowContext(ctx, query,
		branch.ID,
		branch.ExternalID,
		branch.Name,
		branch.Address,
		branch.Type,
		branch.Services,
		branch.Location.Latitude,
		branch.Location.Longitude,
	).Scan(&branch.ID, &branch.CreatedAt, &branch.UpdatedAt, &inserted)
	if err != nil {
		return false, apperrors.NewInternalError("failed to upsert branch", err)
	}

	return inserted, nil
}

// List retrieves branches with optional filters and feedback aggregates.
func (a *BranchAdapter) List(ctx context.Context, filter repositories.BranchFilter) ([]*entities.Branch, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT b.id, b.external_id, b.name, b.address, b.type, b.services,
		       b.latitude, b.longitude,
		       COUNT(f.id) AS feedback_count,
		       COALESCE(AVG(f.rating), 0) AS average_rating,
		       b.created_at, b.updated_at
		FROM branches b
		LEFT JOIN feedback f ON f.branch_id = b.id`)

	var conditions []string
	var args []interface{}

	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("b.type = $%d", len(args)))
	}
	if filter.TypeContains != "" {
		args = append(args, "%"+filter.TypeContains+"%")
		conditions = append(conditions, fmt.Sprintf("b.type ILIKE $%d", len(args)))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		conditions = append(conditions, fmt.Sprintf("(b.name ILIKE $%d OR b.address ILIKE $%d)", len(args), len(args)))
	}

	if len(conditions) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	sb.WriteString(" GROUP BY b.id")

	switch filter.SortBy {
	case repositories.BranchSortByRating:
		sb.WriteString(" ORDER BY average_rating DESC, b.name ASC")
	case repositories.BranchSortByFeedback:
		sb.WriteString(" ORDER BY feedback_count DESC, b.name ASC")
	default:
		sb.WriteString(" ORDER BY b.name ASC")
	}

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}

	rows, err := a.client.DB().QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list branches", err)
	}
	defer rows.Close()

	var branches []*entities.Branch
	for rows.Next() {
		branch, err := scanBranch(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan branch", err)
		}
		branches = append(branches, branch)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate branches", err)
	}

	return branches, nil
}

// UpdateType rewrites the type column of one branch.
func (a *BranchAdapter) UpdateType(ctx context.Context, id, branchType string) error {
	result, err := a.client.DB().ExecContext(ctx,
		`UPDATE branches SET type = $1, updated_at = NOW() WHERE id = $2`,
		branchType, id,
	)
	if err != nil {
		return apperrors.NewInternalError("failed to update branch type", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to read affected rows", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("branch not found: %s", id))
	}

	return nil
}

// Stats returns the dashboard aggregates: global totals plus per-type branch
// and feedback counts.
func (a *BranchAdapter) Stats(ctx context.Context) (*repositories.BranchStats, error) {
	stats := &repositories.BranchStats{
		ByType: make(map[string]repositories.BranchTypeStats),
	}

	totalsQuery := `
		SELECT COUNT(DISTINCT b.id), COUNT(f.id), COALESCE(AVG(f.rating), 0)
		FROM branches b
		LEFT JOIN feedback f ON f.branch_id = b.id`

	err := a.client.DB().QueryRowContext(ctx, totalsQuery).Scan(
		&stats.TotalBranches, &stats.TotalFeedback, &stats.AverageRating,
	)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get branch totals", err)
	}

	byTypeQuery := `
		SELECT b.type, COUNT(DISTINCT b.id), COUNT(f.id)
		FROM branches b
		LEFT JOIN feedback f ON f.branch_id = b.id
		GROUP BY b.type`

	rows, err := a.client.DB().QueryContext(ctx, byTypeQuery)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get per-type stats", err)
	}
	defer rows.Close()

	for rows.Next() {
		var branchType string
		var typeStats repositories.BranchTypeStats
		if err := rows.Scan(&branchType, &typeStats.Count, &typeStats.FeedbackCount); err != nil {
			return nil, apperrors.NewInternalError("failed to scan per-type stats", err)
		}
		stats.ByType[branchType] = typeStats
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate per-type stats", err)
	}

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBranch(row rowScanner) (*entities.Branch, error) {
	branch := &entities.Branch{}
	var externalID sql.NullString

	err := row.Scan(
		&branch.ID,
		&externalID,
		&branch.Name,
		&branch.Address,
		&branch.Type,
		&branch.Services,
		&branch.Location.Latitude,
		&branch.Location.Longitude,
		&branch.FeedbackCount,
		&branch.AverageRating,
		&branch.CreatedAt,
		&branch.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	branch.ExternalID = externalID.String
	return branch, nil
}
