package entity

import (
	"context"
	"fmt"

	"github.com/dealflowhq/dealflow/internal/importer"
	"github.com/dealflowhq/dealflow/internal/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

var investorColumns = []importer.TemplateColumn{
	{Key: "firm_name", Label: "Firm Name", Required: true},
	{Key: "contact_name", Label: "Contact Name", Required: true},
	{Key: "contact_email", Label: "Contact Email"},
	{Key: "website", Label: "Website"},
	{Key: "location", Label: "Location"},
	{Key: "investor_type", Label: "Investor Type"},
	{Key: "check_size", Label: "Check Size"},
	{Key: "focus", Label: "Focus"},
	{Key: "notes", Label: "Notes"},
}

func registerInvestors() {
	importer.Register(importer.EntityDefinition{
		Kind:    importer.KindInvestor,
		Title:   "Investors",
		Columns: investorColumns,

		Normalize: normalizeInvestor,

		BuildParams: func(row importer.NormalizedRow, actor uuid.UUID) (any, error) {
			return store.InsertInvestorParams{
				FirmName:       importer.PgText(row, "firm_name"),
				ContactName:    importer.PgText(row, "contact_name"),
				ContactEmail:   importer.PgText(row, "contact_email"),
				Website:        importer.PgText(row, "website"),
				Location:       importer.PgText(row, "location"),
				InvestorType:   importer.PgText(row, "investor_type"),
				CheckSizeCents: importer.PgCents(row, "check_size"),
				Focus:          importer.PgText(row, "focus"),
				Notes:          importer.PgText(row, "notes"),
				CreatedBy:      pgtype.UUID{Bytes: actor, Valid: true},
			}, nil
		},

		Insert: func(ctx context.Context, db importer.DBTX, params any) error {
			p, ok := params.(store.InsertInvestorParams)
			if !ok {
				return fmt.Errorf("unexpected params type %T", params)
			}
			return store.New(db).InsertInvestor(ctx, p)
		},

		ExportHeader: columnLabels(investorColumns),
		Export: func(ctx context.Context, db importer.DBTX, limit int) ([][]string, error) {
			rows, err := store.New(db).ListInvestors(ctx, int32(limit))
			if err != nil {
				return nil, err
			}
			out := make([][]string, 0, len(rows))
			for _, r := range rows {
				out = append(out, []string{
					text(r.FirmName), text(r.ContactName), text(r.ContactEmail),
					text(r.Website), text(r.Location), text(r.InvestorType),
					cents(r.CheckSizeCents), text(r.Focus), text(r.Notes),
				})
			}
			return out, nil
		},
	})
}

func normalizeInvestor(m importer.MappedRow) (importer.NormalizedRow, []importer.FieldError) {
	row := make(importer.NormalizedRow, len(investorColumns))
	var errs []importer.FieldError

	row["firm_name"] = m["firm_name"]
	row["contact_name"] = m["contact_name"]
	row["location"] = m["location"]
	row["investor_type"] = m["investor_type"]
	row["focus"] = m["focus"]
	row["notes"] = m["notes"]

	email, fe := normalizeEmail(m["contact_email"], "Contact Email")
	if fe != nil {
		errs = append(errs, *fe)
	}
	row["contact_email"] = email

	row["website"] = importer.NormalizeWebsite(m["website"])
	setCurrency(row, "check_size", m["check_size"])

	return row, errs
}
