package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertDeal = `
INSERT INTO deals (
	company_name, contact_name, contact_email, website, sector, location,
	round_stage, pipeline_stage, deal_size_cents, deal_score,
	expected_close_date, notes, created_by
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`

// InsertDealParams holds one deal row for insertion.
type InsertDealParams struct {
	CompanyName       pgtype.Text
	ContactName       pgtype.Text
	ContactEmail      pgtype.Text
	Website           pgtype.Text
	Sector            pgtype.Text
	Location          pgtype.Text
	RoundStage        pgtype.Text
	PipelineStage     pgtype.Text
	DealSizeCents     pgtype.Int8
	DealScore         pgtype.Int4
	ExpectedCloseDate pgtype.Date
	Notes             pgtype.Text
	CreatedBy         pgtype.UUID
}

// InsertDeal inserts a single deal.
func (q *Queries) InsertDeal(ctx context.Context, arg InsertDealParams) error {
	_, err := q.db.Exec(ctx, insertDeal,
		arg.CompanyName, arg.ContactName, arg.ContactEmail, arg.Website,
		arg.Sector, arg.Location, arg.RoundStage, arg.PipelineStage,
		arg.DealSizeCents, arg.DealScore, arg.ExpectedCloseDate,
		arg.Notes, arg.CreatedBy,
	)
	return err
}

const listDeals = `
SELECT company_name, contact_name, contact_email, website, sector, location,
	round_stage, pipeline_stage, deal_size_cents, deal_score,
	expected_close_date, notes
FROM deals
ORDER BY created_at DESC
LIMIT $1
`

// DealRow is one deal as read back for export.
type DealRow struct {
	CompanyName       pgtype.Text
	ContactName       pgtype.Text
	ContactEmail      pgtype.Text
	Website           pgtype.Text
	Sector            pgtype.Text
	Location          pgtype.Text
	RoundStage        pgtype.Text
	PipelineStage     pgtype.Text
	DealSizeCents     pgtype.Int8
	DealScore         pgtype.Int4
	ExpectedCloseDate pgtype.Date
	Notes             pgtype.Text
}

// ListDeals returns the most recent deals, newest first.
func (q *Queries) ListDeals(ctx context.Context, limit int32) ([]DealRow, error) {
	rows, err := q.db.Query(ctx, listDeals, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []DealRow
	for rows.Next() {
		var r DealRow
		if err := rows.Scan(
			&r.CompanyName, &r.ContactName, &r.ContactEmail, &r.Website,
			&r.Sector, &r.Location, &r.RoundStage, &r.PipelineStage,
			&r.DealSizeCents, &r.DealScore, &r.ExpectedCloseDate, &r.Notes,
		); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}
