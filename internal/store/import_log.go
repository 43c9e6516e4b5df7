package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertImportLog = `
INSERT INTO import_log (
	id, kind, file_name, total_rows, imported, skipped, failed,
	quality_score, actor, duration_ms
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

// InsertImportLogParams records the outcome of one import attempt.
type InsertImportLogParams struct {
	ID           pgtype.UUID
	Kind         string
	FileName     pgtype.Text
	TotalRows    int32
	Imported     int32
	Skipped      int32
	Failed       int32
	QualityScore pgtype.Int4
	Actor        pgtype.UUID
	DurationMs   int32
}

// InsertImportLog appends one entry to the import history.
func (q *Queries) InsertImportLog(ctx context.Context, arg InsertImportLogParams) error {
	_, err := q.db.Exec(ctx, insertImportLog,
		arg.ID, arg.Kind, arg.FileName, arg.TotalRows, arg.Imported,
		arg.Skipped, arg.Failed, arg.QualityScore, arg.Actor, arg.DurationMs,
	)
	return err
}

const listImportLog = `
SELECT id, kind, file_name, total_rows, imported, skipped, failed,
	quality_score, actor, duration_ms, created_at
FROM import_log
WHERE kind = $1
ORDER BY created_at DESC
LIMIT $2
`

// ImportLogRow is one import history entry.
type ImportLogRow struct {
	ID           pgtype.UUID
	Kind         string
	FileName     pgtype.Text
	TotalRows    int32
	Imported     int32
	Skipped      int32
	Failed       int32
	QualityScore pgtype.Int4
	Actor        pgtype.UUID
	DurationMs   int32
	CreatedAt    pgtype.Timestamptz
}

// ListImportLog returns recent import attempts for one entity kind.
func (q *Queries) ListImportLog(ctx context.Context, kind string, limit int32) ([]ImportLogRow, error) {
	rows, err := q.db.Query(ctx, listImportLog, kind, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ImportLogRow
	for rows.Next() {
		var r ImportLogRow
		if err := rows.Scan(
			&r.ID, &r.Kind, &r.FileName, &r.TotalRows, &r.Imported,
			&r.Skipped, &r.Failed, &r.QualityScore, &r.Actor,
			&r.DurationMs, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}
