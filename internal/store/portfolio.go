package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertPortfolioCompany = `
INSERT INTO portfolio_companies (
	company_name, website, sector, round_stage, invested_cents,
	invested_date, performance_score, status, notes, created_by
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

// InsertPortfolioCompanyParams holds one portfolio company row for insertion.
type InsertPortfolioCompanyParams struct {
	CompanyName      pgtype.Text
	Website          pgtype.Text
	Sector           pgtype.Text
	RoundStage       pgtype.Text
	InvestedCents    pgtype.Int8
	InvestedDate     pgtype.Date
	PerformanceScore pgtype.Int4
	Status           pgtype.Text
	Notes            pgtype.Text
	CreatedBy        pgtype.UUID
}

// InsertPortfolioCompany inserts a single portfolio company.
func (q *Queries) InsertPortfolioCompany(ctx context.Context, arg InsertPortfolioCompanyParams) error {
	_, err := q.db.Exec(ctx, insertPortfolioCompany,
		arg.CompanyName, arg.Website, arg.Sector, arg.RoundStage,
		arg.InvestedCents, arg.InvestedDate, arg.PerformanceScore,
		arg.Status, arg.Notes, arg.CreatedBy,
	)
	return err
}

const listPortfolioCompanies = `
SELECT company_name, website, sector, round_stage, invested_cents,
	invested_date, performance_score, status, notes
FROM portfolio_companies
ORDER BY created_at DESC
LIMIT $1
`

// PortfolioCompanyRow is one portfolio company as read back for export.
type PortfolioCompanyRow struct {
	CompanyName      pgtype.Text
	Website          pgtype.Text
	Sector           pgtype.Text
	RoundStage       pgtype.Text
	InvestedCents    pgtype.Int8
	InvestedDate     pgtype.Date
	PerformanceScore pgtype.Int4
	Status           pgtype.Text
	Notes            pgtype.Text
}

// ListPortfolioCompanies returns the most recent portfolio companies.
func (q *Queries) ListPortfolioCompanies(ctx context.Context, limit int32) ([]PortfolioCompanyRow, error) {
	rows, err := q.db.Query(ctx, listPortfolioCompanies, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []PortfolioCompanyRow
	for rows.Next() {
		var r PortfolioCompanyRow
		if err := rows.Scan(
			&r.CompanyName, &r.Website, &r.Sector, &r.RoundStage,
			&r.InvestedCents, &r.InvestedDate, &r.PerformanceScore,
			&r.Status, &r.Notes,
		); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}
