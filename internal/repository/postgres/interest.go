// Package postgres contains the PostgreSQL implementations of the service
// repository interfaces.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/insulindose/interest-api/internal/domain"
	"github.com/insulindose/interest-api/internal/service/interest"
)

// sortColumns is the allow-list for dynamic ORDER BY construction. Anything
// not in this set falls back to submitted_at. Only these validated names are
// ever interpolated into query text; every user-supplied value is bound.
var sortColumns = map[string]bool{
	"id":           true,
	"name":         true,
	"email":        true,
	"country":      true,
	"submitted_at": true,
}

// InterestRepo implements interest.Repository against PostgreSQL.
type InterestRepo struct{ db *sql.DB }

// NewInterestRepo creates a Postgres-backed submission repository.
func NewInterestRepo(db *sql.DB) *InterestRepo { return &InterestRepo{db: db} }

func (r *InterestRepo) Insert(ctx context.Context, title *string, name, email, country string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO expressions_of_interest (title, name, email, country, submitted_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id
	`, title, name, email, country).Scan(&id)
	if err != nil {
		// The base schema has no uniqueness constraint on email, but a
		// deployment may add one. Surface it distinguishably.
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return 0, interest.ErrDuplicate
		}
		return 0, fmt.Errorf("insert submission: %w", err)
	}
	return id, nil
}

func (r *InterestRepo) List(ctx context.Context, f interest.Filter) ([]domain.Submission, int, error) {
	where, args := buildFilter(f)

	var total int
	countQ := "SELECT COUNT(*) FROM expressions_of_interest" + where
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count submissions: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	q := fmt.Sprintf(
		"SELECT id, title, name, email, country, submitted_at FROM expressions_of_interest%s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		where, sortColumn(f.SortBy), sortDirection(f.SortOrder), len(args)+1, len(args)+2)
	qArgs := append(args, limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, q, qArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var out []domain.Submission
	for rows.Next() {
		var s domain.Submission
		if err := rows.Scan(&s.ID, &s.Title, &s.Name, &s.Email, &s.Country, &s.SubmittedAt); err != nil {
			return nil, 0, fmt.Errorf("scan submission: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate submissions: %w", err)
	}
	return out, total, nil
}

func (r *InterestRepo) DistinctCountries(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT country FROM expressions_of_interest
		WHERE country <> '' ORDER BY country
	`)
	if err != nil {
		return nil, fmt.Errorf("distinct countries: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate countries: %w", err)
	}
	return out, nil
}

// buildFilter renders the WHERE clause shared by the count and page queries,
// with every user value bound.
func buildFilter(f interest.Filter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if f.Search != "" {
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", len(args)+1, len(args)+2))
		term := "%" + f.Search + "%"
		args = append(args, term, term)
	}
	if f.Country != "" {
		conds = append(conds, fmt.Sprintf("country = $%d", len(args)+1))
		args = append(args, f.Country)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func sortColumn(requested string) string {
	if sortColumns[requested] {
		return requested
	}
	return "submitted_at"
}

func sortDirection(requested string) string {
	if strings.EqualFold(requested, "ASC") {
		return "ASC"
	}
	return "DESC"
}
