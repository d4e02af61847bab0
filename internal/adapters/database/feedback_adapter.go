package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/elvinq/branchfeedback/backend/internal/domain/entities"
	"github.com/elvinq/branchfeedback/backend/internal/domain/repositories"
	"github.com/elvinq/branchfeedback/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/elvinq/branchfeedback/backend/pkg/errors"
)

// FeedbackAdapter implements feedback persistence in Postgres.
type FeedbackAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewFeedbackAdapter creates a new feedback adapter.
func NewFeedbackAdapter(client *postgres.Client) repositories.FeedbackRepository {
	return &FeedbackAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a feedback record. The seeder passes explicit created_at
// values, so the column is always written rather than defaulted.
func (a *FeedbackAdapter) Create(ctx context.Context, feedback *entities.Feedback) error {
	if feedback == nil {
		return apperrors.NewInternalError("feedback is nil", fmt.Errorf("feedback is nil"))
	}

	record := goqu.Record{
		"id":             feedback.ID,
		"branch_id":      feedback.BranchID,
		"rating":         feedback.Rating,
		"category":       feedback.Category,
		"comment":        sql.NullString{String: feedback.Comment, Valid: feedback.Comment != ""},
		"customer_name":  sql.NullString{String: feedback.CustomerName, Valid: feedback.CustomerName != ""},
		"customer_email": sql.NullString{String: feedback.CustomerEmail, Valid: feedback.CustomerEmail != ""},
		"customer_phone": sql.NullString{String: feedback.CustomerPhone, Valid: feedback.CustomerPhone != ""},
		"created_at":     feedback.CreatedAt,
	}

	query, args, err := a.db.Insert("feedback").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build feedback insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create feedback", err)
	}

	return nil
}

// ListByBranch returns a branch's feedback, newest first.
func (a *FeedbackAdapter) ListByBranch(ctx context.Context, branchID string, limit, offset int) ([]*entities.Feedback, error) {
	ds := a.db.From("feedback").
		Select("id", "branch_id", "rating", "category", "comment",
			"customer_name", "customer_email", "customer_phone", "created_at").
		Where(goqu.C("branch_id").Eq(branchID)).
		Order(goqu.C("created_at").Desc())

	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}
	if offset > 0 {
		ds = ds.Offset(uint(offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build feedback list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list feedback", err)
	}
	defer rows.Close()

	var items []*entities.Feedback
	for rows.Next() {
		item := &entities.Feedback{}
		var comment, name, email, phone sql.NullString
		err := rows.Scan(
			&item.ID, &item.BranchID, &item.Rating, &item.Category,
			&comment, &name, &email, &phone, &item.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan feedback", err)
		}
		item.Comment = comment.String
		item.CustomerName = name.String
		item.CustomerEmail = email.String
		item.CustomerPhone = phone.String
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate feedback", err)
	}

	return items, nil
}

// RatingDistribution counts feedback rows per rating value.
func (a *FeedbackAdapter) RatingDistribution(ctx context.Context) (map[int]int, error) {
	query, args, err := a.db.From("feedback").
		Select("rating", goqu.COUNT("id")).
		GroupBy("rating").
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build rating distribution query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get rating distribution", err)
	}
	defer rows.Close()

	distribution := make(map[int]int)
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, apperrors.NewInternalError("failed to scan rating distribution", err)
		}
		distribution[rating] = count
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate rating distribution", err)
	}

	return distribution, nil
}
