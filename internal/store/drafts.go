package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// drafts.go implements the DraftStore contract over Postgres. Drafts are a
// write-through cache of unsaved form state keyed by entity identity, so an
// interrupted edit survives a reload.

const upsertDraft = `
INSERT INTO import_drafts (key, payload, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET payload = $2, updated_at = now()
`

const getDraft = `
SELECT payload FROM import_drafts WHERE key = $1
`

const deleteDraft = `
DELETE FROM import_drafts WHERE key = $1
`

// DraftStore persists drafts in the import_drafts table.
type DraftStore struct {
	q *Queries
}

// NewDraftStore creates a DraftStore bound to the given DBTX.
func NewDraftStore(db DBTX) *DraftStore {
	return &DraftStore{q: New(db)}
}

// Load returns the draft payload for key, with found=false when absent.
func (s *DraftStore) Load(ctx context.Context, key string) (string, bool, error) {
	var payload string
	err := s.q.db.QueryRow(ctx, getDraft, key).Scan(&payload)
	if err == pgx.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return payload, true, nil
}

// Save writes the draft payload for key, replacing any previous value.
func (s *DraftStore) Save(ctx context.Context, key, value string) error {
	_, err := s.q.db.Exec(ctx, upsertDraft, key, value)
	return err
}

// Clear removes the draft for key. Clearing a missing key is not an error.
func (s *DraftStore) Clear(ctx context.Context, key string) error {
	_, err := s.q.db.Exec(ctx, deleteDraft, key)
	return err
}
