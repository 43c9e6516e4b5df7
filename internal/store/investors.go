package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertInvestor = `
INSERT INTO investors (
	firm_name, contact_name, contact_email, website, location,
	investor_type, check_size_cents, focus, notes, created_by
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

// InsertInvestorParams holds one investor row for insertion.
type InsertInvestorParams struct {
	FirmName       pgtype.Text
	ContactName    pgtype.Text
	ContactEmail   pgtype.Text
	Website        pgtype.Text
	Location       pgtype.Text
	InvestorType   pgtype.Text
	CheckSizeCents pgtype.Int8
	Focus          pgtype.Text
	Notes          pgtype.Text
	CreatedBy      pgtype.UUID
}

// InsertInvestor inserts a single investor.
func (q *Queries) InsertInvestor(ctx context.Context, arg InsertInvestorParams) error {
	_, err := q.db.Exec(ctx, insertInvestor,
		arg.FirmName, arg.ContactName, arg.ContactEmail, arg.Website,
		arg.Location, arg.InvestorType, arg.CheckSizeCents, arg.Focus,
		arg.Notes, arg.CreatedBy,
	)
	return err
}

const listInvestors = `
SELECT firm_name, contact_name, contact_email, website, location,
	investor_type, check_size_cents, focus, notes
FROM investors
ORDER BY created_at DESC
LIMIT $1
`

// InvestorRow is one investor as read back for export.
type InvestorRow struct {
	FirmName       pgtype.Text
	ContactName    pgtype.Text
	ContactEmail   pgtype.Text
	Website        pgtype.Text
	Location       pgtype.Text
	InvestorType   pgtype.Text
	CheckSizeCents pgtype.Int8
	Focus          pgtype.Text
	Notes          pgtype.Text
}

// ListInvestors returns the most recent investors, newest first.
func (q *Queries) ListInvestors(ctx context.Context, limit int32) ([]InvestorRow, error) {
	rows, err := q.db.Query(ctx, listInvestors, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []InvestorRow
	for rows.Next() {
		var r InvestorRow
		if err := rows.Scan(
			&r.FirmName, &r.ContactName, &r.ContactEmail, &r.Website,
			&r.Location, &r.InvestorType, &r.CheckSizeCents, &r.Focus,
			&r.Notes,
		); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}
