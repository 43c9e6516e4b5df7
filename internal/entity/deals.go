package entity

import (
	"context"
	"fmt"

	"github.com/dealflowhq/dealflow/internal/importer"
	"github.com/dealflowhq/dealflow/internal/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

var dealColumns = []importer.TemplateColumn{
	{Key: "company_name", Label: "Company Name", Required: true},
	{Key: "contact_name", Label: "Contact Name"},
	{Key: "contact_email", Label: "Contact Email"},
	{Key: "website", Label: "Website"},
	{Key: "sector", Label: "Sector"},
	{Key: "location", Label: "Location"},
	{Key: "round_stage", Label: "Round Stage"},
	{Key: "pipeline_stage", Label: "Pipeline Stage"},
	{Key: "deal_size", Label: "Deal Size"},
	{Key: "deal_score", Label: "Deal Score"},
	{Key: "expected_close_date", Label: "Expected Close Date"},
	{Key: "notes", Label: "Notes"},
}

func registerDeals() {
	importer.Register(importer.EntityDefinition{
		Kind:    importer.KindDeal,
		Title:   "Deals",
		Columns: dealColumns,

		Normalize: normalizeDeal,

		BuildParams: func(row importer.NormalizedRow, actor uuid.UUID) (any, error) {
			return store.InsertDealParams{
				CompanyName:       importer.PgText(row, "company_name"),
				ContactName:       importer.PgText(row, "contact_name"),
				ContactEmail:      importer.PgText(row, "contact_email"),
				Website:           importer.PgText(row, "website"),
				Sector:            importer.PgText(row, "sector"),
				Location:          importer.PgText(row, "location"),
				RoundStage:        importer.PgText(row, "round_stage"),
				PipelineStage:     importer.PgText(row, "pipeline_stage"),
				DealSizeCents:     importer.PgCents(row, "deal_size"),
				DealScore:         importer.PgScore(row, "deal_score"),
				ExpectedCloseDate: importer.PgDate(row, "expected_close_date"),
				Notes:             importer.PgText(row, "notes"),
				CreatedBy:         pgtype.UUID{Bytes: actor, Valid: true},
			}, nil
		},

		Insert: func(ctx context.Context, db importer.DBTX, params any) error {
			p, ok := params.(store.InsertDealParams)
			if !ok {
				return fmt.Errorf("unexpected params type %T", params)
			}
			return store.New(db).InsertDeal(ctx, p)
		},

		ExportHeader: columnLabels(dealColumns),
		Export: func(ctx context.Context, db importer.DBTX, limit int) ([][]string, error) {
			rows, err := store.New(db).ListDeals(ctx, int32(limit))
			if err != nil {
				return nil, err
			}
			out := make([][]string, 0, len(rows))
			for _, r := range rows {
				out = append(out, []string{
					text(r.CompanyName), text(r.ContactName), text(r.ContactEmail),
					text(r.Website), text(r.Sector), text(r.Location),
					text(r.RoundStage), text(r.PipelineStage),
					cents(r.DealSizeCents), score(r.DealScore),
					date(r.ExpectedCloseDate), text(r.Notes),
				})
			}
			return out, nil
		},
	})
}

// normalizeDeal applies the per-field normalizers to one mapped deal row.
// Total: every field lands as a typed value, a fallback, or nil. The only
// field-level error it can emit is a malformed contact email.
func normalizeDeal(m importer.MappedRow) (importer.NormalizedRow, []importer.FieldError) {
	row := make(importer.NormalizedRow, len(dealColumns))
	var errs []importer.FieldError

	row["company_name"] = m["company_name"]
	row["contact_name"] = m["contact_name"]
	row["sector"] = m["sector"]
	row["location"] = m["location"]
	row["notes"] = m["notes"]

	email, fe := normalizeEmail(m["contact_email"], "Contact Email")
	if fe != nil {
		errs = append(errs, *fe)
	}
	row["contact_email"] = email

	row["website"] = importer.NormalizeWebsite(m["website"])
	row["pipeline_stage"] = importer.NormalizePipelineStage(m["pipeline_stage"])

	if stage, ok := importer.NormalizeRoundStage(m["round_stage"]); ok {
		row["round_stage"] = stage
	} else {
		row["round_stage"] = nil
	}

	setCurrency(row, "deal_size", m["deal_size"])
	setScore(row, "deal_score", m["deal_score"])
	setDate(row, "expected_close_date", m["expected_close_date"])

	return row, errs
}

// columnLabels extracts display labels for export headers.
func columnLabels(cols []importer.TemplateColumn) []string {
	labels := make([]string, len(cols))
	for i, c := range cols {
		labels[i] = c.Label
	}
	return labels
}
