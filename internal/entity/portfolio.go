package entity

import (
	"context"
	"fmt"

	"github.com/dealflowhq/dealflow/internal/importer"
	"github.com/dealflowhq/dealflow/internal/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

var portfolioColumns = []importer.TemplateColumn{
	{Key: "company_name", Label: "Company Name", Required: true},
	{Key: "website", Label: "Website"},
	{Key: "sector", Label: "Sector"},
	{Key: "round_stage", Label: "Round Stage"},
	{Key: "invested_amount", Label: "Invested Amount"},
	{Key: "invested_date", Label: "Invested Date"},
	{Key: "performance_score", Label: "Performance Score"},
	{Key: "status", Label: "Status"},
	{Key: "notes", Label: "Notes"},
}

func registerPortfolioCompanies() {
	importer.Register(importer.EntityDefinition{
		Kind:    importer.KindPortfolioCompany,
		Title:   "Portfolio Companies",
		Columns: portfolioColumns,

		Normalize: normalizePortfolioCompany,

		BuildParams: func(row importer.NormalizedRow, actor uuid.UUID) (any, error) {
			return store.InsertPortfolioCompanyParams{
				CompanyName:      importer.PgText(row, "company_name"),
				Website:          importer.PgText(row, "website"),
				Sector:           importer.PgText(row, "sector"),
				RoundStage:       importer.PgText(row, "round_stage"),
				InvestedCents:    importer.PgCents(row, "invested_amount"),
				InvestedDate:     importer.PgDate(row, "invested_date"),
				PerformanceScore: importer.PgScore(row, "performance_score"),
				Status:           importer.PgText(row, "status"),
				Notes:            importer.PgText(row, "notes"),
				CreatedBy:        pgtype.UUID{Bytes: actor, Valid: true},
			}, nil
		},

		Insert: func(ctx context.Context, db importer.DBTX, params any) error {
			p, ok := params.(store.InsertPortfolioCompanyParams)
			if !ok {
				return fmt.Errorf("unexpected params type %T", params)
			}
			return store.New(db).InsertPortfolioCompany(ctx, p)
		},

		ExportHeader: columnLabels(portfolioColumns),
		Export: func(ctx context.Context, db importer.DBTX, limit int) ([][]string, error) {
			rows, err := store.New(db).ListPortfolioCompanies(ctx, int32(limit))
			if err != nil {
				return nil, err
			}
			out := make([][]string, 0, len(rows))
			for _, r := range rows {
				out = append(out, []string{
					text(r.CompanyName), text(r.Website), text(r.Sector),
					text(r.RoundStage), cents(r.InvestedCents),
					date(r.InvestedDate), score(r.PerformanceScore),
					text(r.Status), text(r.Notes),
				})
			}
			return out, nil
		},
	})
}

func normalizePortfolioCompany(m importer.MappedRow) (importer.NormalizedRow, []importer.FieldError) {
	row := make(importer.NormalizedRow, len(portfolioColumns))

	row["company_name"] = m["company_name"]
	row["sector"] = m["sector"]
	row["status"] = m["status"]
	row["notes"] = m["notes"]
	row["website"] = importer.NormalizeWebsite(m["website"])

	if stage, ok := importer.NormalizeRoundStage(m["round_stage"]); ok {
		row["round_stage"] = stage
	} else {
		row["round_stage"] = nil
	}

	setCurrency(row, "invested_amount", m["invested_amount"])
	setScore(row, "performance_score", m["performance_score"])
	setDate(row, "invested_date", m["invested_date"])

	return row, nil
}
