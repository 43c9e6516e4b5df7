package importer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dealflowhq/dealflow/internal/notify"
	"github.com/dealflowhq/dealflow/internal/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// DefaultImportTimeout is the maximum duration for one import operation.
var DefaultImportTimeout = 10 * time.Minute

// resultRetention is how long a finished import stays queryable.
var resultRetention = 5 * time.Minute

// ServiceConfig tunes the import service.
type ServiceConfig struct {
	MaxConcurrent int
	MaxWait       time.Duration
	Timeout       time.Duration
}

// Service coordinates CRM imports: it owns the pipeline run for each
// uploaded file, tracks progress for subscribers, and records history.
type Service struct {
	db      DBTX
	drafts  DraftStore
	limiter *ImportLimiter
	hub     *notify.Registry[Progress]
	timeout time.Duration

	mu      sync.RWMutex
	imports map[string]*activeImport
}

type activeImport struct {
	ID       string
	Kind     EntityKind
	FileName string
	Cancel   context.CancelFunc
	Done     chan struct{}

	mu       sync.Mutex
	progress Progress
	result   *ImportResult
}

// NewService creates an import service bound to a database and draft store.
func NewService(db DBTX, drafts DraftStore, cfg ServiceConfig) *Service {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultImportTimeout
	}

	return &Service{
		db:      db,
		drafts:  drafts,
		limiter: NewImportLimiter(cfg.MaxConcurrent, cfg.MaxWait),
		hub:     notify.NewRegistry[Progress](),
		timeout: timeout,
		imports: make(map[string]*activeImport),
	}
}

// Drafts returns the injected draft store.
func (s *Service) Drafts() DraftStore { return s.drafts }

// LimiterStatus reports current batch concurrency for monitoring.
func (s *Service) LimiterStatus() LimiterStatus { return s.limiter.Status() }

// WaitForImports blocks until in-flight imports finish or ctx is cancelled.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// StartImport begins an asynchronous import and returns its ID immediately.
// Use SubscribeProgress for updates and Result for the terminal summary.
//
// The file must carry a .csv extension; that is enforced before any parsing
// is attempted. Actor and valid-row preconditions are checked inside the
// run so their failures surface through the ImportSummary contract.
func (s *Service) StartImport(ctx context.Context, kind EntityKind, fileName string, data []byte, actor uuid.UUID) (string, error) {
	def, ok := Get(kind)
	if !ok {
		return "", fmt.Errorf("unknown entity kind: %s", kind)
	}

	if !strings.HasSuffix(strings.ToLower(fileName), ".csv") {
		return "", fmt.Errorf("unsupported file type: %s (expected .csv)", fileName)
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return "", err
	}

	importID := uuid.New().String()
	runCtx, cancel := context.WithTimeout(context.Background(), s.timeout)

	imp := &activeImport{
		ID:       importID,
		Kind:     kind,
		FileName: fileName,
		Cancel:   cancel,
		Done:     make(chan struct{}),
		progress: Progress{
			ImportID: importID,
			Kind:     kind.String(),
			Phase:    PhaseIdle,
			FileName: fileName,
		},
	}

	s.mu.Lock()
	s.imports[importID] = imp
	s.mu.Unlock()

	go s.runImport(runCtx, imp, def, data, actor)

	return importID, nil
}

// runImport executes the full pipeline for one file and publishes the
// terminal result. It always releases the limiter slot and closes the
// progress topic, even on early precondition failures.
func (s *Service) runImport(ctx context.Context, imp *activeImport, def EntityDefinition, data []byte, actor uuid.UUID) {
	start := time.Now()

	defer func() {
		s.hub.Close(imp.ID)
		close(imp.Done)
		s.limiter.Release()
		s.cleanup(imp.ID, resultRetention)
	}()

	tok := Tokenize(string(SanitizeUTF8(data)))
	batch := PrepareBatch(def, tok)

	imp.setProgress(func(p *Progress) {
		p.Phase = PhaseImporting
		p.TotalRows = len(batch.Rows)
		p.Skipped = batch.SkippedBlank
	})
	s.hub.Publish(imp.ID, imp.snapshot())

	summary := ImportSummary{}
	for _, ve := range batch.ValidationErrors {
		summary.Errors = append(summary.Errors, ve.Error())
	}

	// Whole-batch preconditions: surfaced as the singular error field,
	// with no rows attempted.
	switch {
	case actor == uuid.Nil:
		summary.Error = ErrNotAuthenticated.Error()
	case len(batch.Rows) == 0:
		summary.Error = ErrNoValidRows.Error()
	}

	if summary.Error != "" {
		s.finish(imp, def, batch, summary, 0, PhaseFailed, start, actor)
		return
	}

	imported, rowErrs, runErr := RunBatch(ctx, s.db, def, batch.Rows, actor, func(done, imported, failed int) {
		imp.setProgress(func(p *Progress) {
			p.CurrentRow = done
			p.Imported = imported
		})
		if done%50 == 0 || done == len(batch.Rows) {
			s.hub.Publish(imp.ID, imp.snapshot())
		}
	})

	summary.Errors = append(summary.Errors, rowErrs...)
	summary.Imported = imported
	summary.Success = len(summary.Errors) == 0 && runErr == nil
	summary.Warnings = duplicateKeyWarnings(def, batch.Rows)
	summary.QualityScore = QualityScore(def, batch.Rows)

	phase := PhaseFor(imported, len(summary.Errors))
	if runErr != nil {
		summary.Error = "import cancelled"
		summary.Success = false
		phase = PhaseFailed
	}

	s.finish(imp, def, batch, summary, imported, phase, start, actor)
}

// finish records the terminal state: progress, result, and history entry.
func (s *Service) finish(imp *activeImport, def EntityDefinition, batch PreparedBatch, summary ImportSummary, imported int, phase ImportPhase, start time.Time, actor uuid.UUID) {
	duration := time.Since(start)

	result := &ImportResult{
		ImportID: imp.ID,
		Kind:     def.Kind,
		FileName: imp.FileName,
		Summary:  summary,
		Total:    len(batch.Rows) + batch.SkippedBlank + countErrorRows(batch.ValidationErrors),
		Skipped:  batch.SkippedBlank,
		Duration: duration,
	}

	imp.mu.Lock()
	imp.result = result
	imp.progress.Phase = phase
	imp.progress.Imported = imported
	if summary.Error != "" {
		imp.progress.Error = summary.Error
	}
	imp.mu.Unlock()

	s.hub.Publish(imp.ID, imp.snapshot())

	logID, _ := uuid.NewRandom()
	failed := len(summary.Errors)
	qs := pgtype.Int4{Valid: false}
	if summary.QualityScore != nil {
		qs = pgtype.Int4{Int32: int32(*summary.QualityScore), Valid: true}
	}

	logCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = store.New(s.db).InsertImportLog(logCtx, store.InsertImportLogParams{
		ID:           pgtype.UUID{Bytes: logID, Valid: true},
		Kind:         def.Kind.String(),
		FileName:     pgtype.Text{String: imp.FileName, Valid: imp.FileName != ""},
		TotalRows:    int32(result.Total),
		Imported:     int32(imported),
		Skipped:      int32(batch.SkippedBlank),
		Failed:       int32(failed),
		QualityScore: qs,
		Actor:        pgtype.UUID{Bytes: actor, Valid: actor != uuid.Nil},
		DurationMs:   int32(duration.Milliseconds()),
	})
}

// SubscribeProgress returns a progress channel and its disposer. The current
// progress is delivered first; the channel closes when the import ends.
func (s *Service) SubscribeProgress(importID string) (<-chan Progress, func(), error) {
	s.mu.RLock()
	imp, ok := s.imports[importID]
	s.mu.RUnlock()

	if !ok {
		return nil, nil, fmt.Errorf("import not found: %s", importID)
	}

	ch, dispose := s.hub.Subscribe(importID)
	s.hub.Publish(importID, imp.snapshot())

	return ch, dispose, nil
}

// CancelImport cancels an in-progress import. The per-row loop observes the
// cancellation between inserts; rows already inserted stay inserted.
func (s *Service) CancelImport(importID string) error {
	s.mu.RLock()
	imp, ok := s.imports[importID]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("import not found: %s", importID)
	}

	imp.Cancel()
	return nil
}

// Result blocks until the import completes and returns its terminal result.
func (s *Service) Result(importID string) (*ImportResult, error) {
	s.mu.RLock()
	imp, ok := s.imports[importID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("import not found: %s", importID)
	}

	<-imp.Done

	imp.mu.Lock()
	defer imp.mu.Unlock()
	return imp.result, nil
}

// GetProgress returns the current progress without blocking.
func (s *Service) GetProgress(importID string) (Progress, error) {
	s.mu.RLock()
	imp, ok := s.imports[importID]
	s.mu.RUnlock()

	if !ok {
		return Progress{}, fmt.Errorf("import not found: %s", importID)
	}

	return imp.snapshot(), nil
}

// PreviewFile runs the read-only analysis pipeline for one file.
func (s *Service) PreviewFile(kind EntityKind, fileName string, data []byte) (*PreviewReport, error) {
	def, ok := Get(kind)
	if !ok {
		return nil, fmt.Errorf("unknown entity kind: %s", kind)
	}

	if !strings.HasSuffix(strings.ToLower(fileName), ".csv") {
		return nil, fmt.Errorf("unsupported file type: %s (expected .csv)", fileName)
	}

	return Preview(def, data), nil
}

// ExportRows returns the export header and rows for one entity kind.
func (s *Service) ExportRows(ctx context.Context, kind EntityKind, limit int) ([]string, [][]string, error) {
	def, ok := Get(kind)
	if !ok {
		return nil, nil, fmt.Errorf("unknown entity kind: %s", kind)
	}

	rows, err := def.Export(ctx, s.db, limit)
	if err != nil {
		return nil, nil, err
	}
	return def.ExportHeader, rows, nil
}

// HistoryEntry is one import attempt as surfaced to the UI.
type HistoryEntry struct {
	ID           string `json:"id"`
	FileName     string `json:"fileName,omitempty"`
	TotalRows    int    `json:"totalRows"`
	Imported     int    `json:"imported"`
	Skipped      int    `json:"skipped"`
	Failed       int    `json:"failed"`
	QualityScore *int   `json:"qualityScore,omitempty"`
	DurationMs   int    `json:"durationMs"`
	CreatedAt    string `json:"createdAt"`
}

// History returns recent import attempts for one entity kind.
func (s *Service) History(ctx context.Context, kind EntityKind, limit int) ([]HistoryEntry, error) {
	rows, err := store.New(s.db).ListImportLog(ctx, kind.String(), int32(limit))
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(rows))
	for _, r := range rows {
		e := HistoryEntry{
			TotalRows:  int(r.TotalRows),
			Imported:   int(r.Imported),
			Skipped:    int(r.Skipped),
			Failed:     int(r.Failed),
			DurationMs: int(r.DurationMs),
		}
		if r.ID.Valid {
			e.ID = uuid.UUID(r.ID.Bytes).String()
		}
		if r.FileName.Valid {
			e.FileName = r.FileName.String
		}
		if r.QualityScore.Valid {
			score := int(r.QualityScore.Int32)
			e.QualityScore = &score
		}
		if r.CreatedAt.Valid {
			e.CreatedAt = r.CreatedAt.Time.UTC().Format(time.RFC3339)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// setProgress mutates progress under the import's lock.
func (imp *activeImport) setProgress(fn func(*Progress)) {
	imp.mu.Lock()
	defer imp.mu.Unlock()
	fn(&imp.progress)
}

// snapshot returns a copy of the current progress.
func (imp *activeImport) snapshot() Progress {
	imp.mu.Lock()
	defer imp.mu.Unlock()
	return imp.progress
}

// cleanup removes the import from tracking after a delay.
func (s *Service) cleanup(importID string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.imports, importID)
		s.mu.Unlock()
	})
}
