package resolverstatus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/jward/resolverstatus/internal/extract"
	"github.com/jward/resolverstatus/internal/filter"
	"github.com/jward/resolverstatus/internal/reconcile"
	"github.com/jward/resolverstatus/internal/resolver"
	"github.com/jward/resolverstatus/internal/store"
)

// DefaultExtensions are the source extensions enumerated by BuildRegistry.
var DefaultExtensions = []string{".ts"}

// Engine orchestrates the resolverstatus pipeline: file enumeration,
// extraction, snapshot IO, reconciliation and run history.
type Engine struct {
	fs         afero.Fs
	extensions map[string]bool
	extractor  *extract.Extractor
	filter     *filter.Filter
	logger     *slog.Logger

	historyPath string
	store       *store.Store // nil when history is disabled
}

// Option configures an Engine.
type Option func(*Engine)

// WithFS sets the filesystem sources and snapshots are read from.
func WithFS(fsys afero.Fs) Option {
	return func(e *Engine) {
		e.fs = fsys
	}
}

// WithExtensions restricts which file extensions BuildRegistry reads.
func WithExtensions(exts ...string) Option {
	return func(e *Engine) {
		e.extensions = make(map[string]bool, len(exts))
		for _, ext := range exts {
			e.extensions[ext] = true
		}
	}
}

// WithAdminMarker overrides the import path fragment identifying the admin
// type namespace.
func WithAdminMarker(marker string) Option {
	return func(e *Engine) {
		e.extractor = extract.New(extract.WithAdminMarker(marker))
	}
}

// WithFilter drops records the filter rejects from every built registry.
func WithFilter(f *filter.Filter) Option {
	return func(e *Engine) {
		e.filter = f
	}
}

// WithLogger sets the logger for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithHistory records runs in a SQLite database at dbPath.
func WithHistory(dbPath string) Option {
	return func(e *Engine) {
		e.historyPath = dbPath
	}
}

// New creates an Engine. When WithHistory is given the database is opened
// and migrated.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		fs:        afero.NewOsFs(),
		extractor: extract.New(),
		logger:    slog.Default(),
	}
	WithExtensions(DefaultExtensions...)(e)
	for _, opt := range opts {
		opt(e)
	}

	if e.historyPath != "" {
		s, err := store.NewStore(e.historyPath)
		if err != nil {
			return nil, fmt.Errorf("resolverstatus: create store: %w", err)
		}
		if err := s.Migrate(); err != nil {
			s.Close()
			return nil, fmt.Errorf("resolverstatus: migrate: %w", err)
		}
		e.store = s
	}
	return e, nil
}

// Close releases the history database, if any.
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// Store returns the history store, or nil when history is disabled.
func (e *Engine) Store() *Store {
	return e.store
}

// FileStat describes one source file read by BuildRegistry.
type FileStat struct {
	Path      string
	Hash      string
	Resolvers int
}

// Build is the result of BuildRegistry.
type Build struct {
	Registry Registry
	Files    []FileStat
	// RunID is the history run, empty when history is disabled.
	RunID string
	// Changes is the drift against the previous successful extraction.
	Changes []Change
}

// ListSources returns the files in dir with an enabled extension, sorted
// by name. Subdirectories are not entered.
func (e *Engine) ListSources(dir string) ([]string, error) {
	entries, err := afero.ReadDir(e.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !e.extensions[filepath.Ext(entry.Name())] {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}

// BuildRegistry extracts every source file in dir into one registry. Files
// are processed sequentially so a name declared in several files resolves
// to the lexicographically last one.
func (e *Engine) BuildRegistry(ctx context.Context, dir string) (*Build, error) {
	var run *store.Run
	if e.store != nil {
		var err error
		if run, err = e.store.BeginRun(store.KindExtract, dir); err != nil {
			return nil, fmt.Errorf("resolverstatus: %w", err)
		}
	}

	build, err := e.buildRegistry(ctx, dir)
	if run != nil {
		build, err = e.recordExtraction(run, build, err)
	}
	if err != nil {
		return nil, err
	}
	return build, nil
}

func (e *Engine) buildRegistry(ctx context.Context, dir string) (*Build, error) {
	paths, err := e.ListSources(dir)
	if err != nil {
		return nil, fmt.Errorf("resolverstatus: %w", err)
	}

	build := &Build{Registry: Registry{}}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := afero.ReadFile(e.fs, path)
		if err != nil {
			return nil, fmt.Errorf("resolverstatus: read file: %w", err)
		}
		records, err := e.extractor.ExtractSource(ctx, path, content)
		if err != nil {
			return nil, fmt.Errorf("resolverstatus: %w", err)
		}

		for _, rec := range records {
			if prev, replaced := build.Registry.Put(rec); replaced {
				e.logger.Debug("resolver redeclared",
					"name", rec.Name, "previous", prev.Source, "source", rec.Source)
			}
		}
		build.Files = append(build.Files, FileStat{
			Path:      path,
			Hash:      store.ContentHash(content),
			Resolvers: len(records),
		})
	}

	if e.filter != nil {
		build.Registry, err = e.filter.Apply(ctx, build.Registry)
		if err != nil {
			return nil, fmt.Errorf("resolverstatus: %w", err)
		}
	}

	e.logger.Info("registry built", "dir", dir, "files", len(build.Files), "resolvers", len(build.Registry))
	return build, nil
}

// recordExtraction persists a finished extraction and computes drift
// against the previous one. buildErr is the extraction's own error.
func (e *Engine) recordExtraction(run *store.Run, build *Build, buildErr error) (*Build, error) {
	if buildErr != nil {
		run.Error = buildErr.Error()
		if err := e.store.FinishRun(run); err != nil {
			return nil, errors.Join(buildErr, err)
		}
		return nil, buildErr
	}

	build.RunID = run.ID
	run.ResolverCount = len(build.Registry)

	files := make([]store.RunFile, 0, len(build.Files))
	for _, f := range build.Files {
		files = append(files, store.RunFile{Path: f.Path, Hash: f.Hash, ResolverCount: f.Resolvers})
	}
	if err := e.store.InsertFiles(run.ID, files); err != nil {
		return nil, fmt.Errorf("resolverstatus: %w", err)
	}
	if err := e.store.InsertRegistry(run.ID, build.Registry); err != nil {
		return nil, fmt.Errorf("resolverstatus: %w", err)
	}

	prev, err := e.store.PreviousExtraction(run.ID)
	if err != nil {
		return nil, fmt.Errorf("resolverstatus: %w", err)
	}
	if prev != nil {
		prevReg, err := e.store.RunRegistry(prev.ID)
		if err != nil {
			return nil, fmt.Errorf("resolverstatus: %w", err)
		}
		build.Changes = resolver.Diff(prevReg, build.Registry)
		for _, c := range build.Changes {
			e.logger.Info("resolver drift",
				"name", c.Name, "change", string(c.Kind), "from", string(c.From), "to", string(c.To))
		}
	}

	if err := e.store.FinishRun(run); err != nil {
		return nil, fmt.Errorf("resolverstatus: %w", err)
	}
	return build, nil
}

// WriteSnapshot writes reg as the interchange snapshot at path.
func (e *Engine) WriteSnapshot(path string, reg Registry) error {
	if err := resolver.WriteSnapshot(e.fs, path, reg); err != nil {
		return fmt.Errorf("resolverstatus: %w", err)
	}
	return nil
}

// ReadSnapshot reads the interchange snapshot at path.
func (e *Engine) ReadSnapshot(path string) (Registry, error) {
	reg, err := resolver.ReadSnapshot(e.fs, path)
	if err != nil {
		return nil, fmt.Errorf("resolverstatus: %w", err)
	}
	return reg, nil
}

// Reconcile brings db in line with reg. source labels the history run
// (typically the snapshot path). Options are passed to the reconciler;
// the Engine's logger is used unless one is given.
func (e *Engine) Reconcile(ctx context.Context, db reconcile.Database, reg Registry, source string, opts ...reconcile.Option) (*Report, error) {
	var run *store.Run
	if e.store != nil {
		var err error
		if run, err = e.store.BeginRun(store.KindReconcile, source); err != nil {
			return nil, fmt.Errorf("resolverstatus: %w", err)
		}
	}

	opts = append([]reconcile.Option{reconcile.WithLogger(e.logger)}, opts...)
	report, err := reconcile.New(db, opts...).Reconcile(ctx, reg)

	if run != nil {
		run.ResolverCount = len(reg)
		if herr := e.recordReconcile(run, report, err); herr != nil {
			if err != nil {
				return nil, fmt.Errorf("resolverstatus: %w", errors.Join(err, herr))
			}
			return report, herr
		}
	}
	if err != nil {
		return nil, fmt.Errorf("resolverstatus: %w", err)
	}
	return report, nil
}

func (e *Engine) recordReconcile(run *store.Run, report *Report, reconcileErr error) error {
	if reconcileErr != nil {
		run.Error = reconcileErr.Error()
	}
	if report != nil {
		run.Updated = report.Count(reconcile.OutcomeUpdated)
		run.UpToDate = report.Count(reconcile.OutcomeUpToDate)
		run.Skipped = report.Skipped()
		run.Failed = report.Count(reconcile.OutcomeFailed)

		outcomes := make([]store.Outcome, 0, len(report.Results))
		for _, r := range report.Results {
			o := store.Outcome{
				PageID: r.PageID, Name: r.Name, Type: r.Type,
				Outcome: string(r.Outcome), From: r.From, To: r.To,
			}
			if r.Err != nil {
				o.Error = r.Err.Error()
			}
			outcomes = append(outcomes, o)
		}
		if err := e.store.InsertOutcomes(run.ID, outcomes); err != nil {
			return fmt.Errorf("resolverstatus: %w", err)
		}
	}
	if err := e.store.FinishRun(run); err != nil {
		return fmt.Errorf("resolverstatus: %w", err)
	}
	return nil
}
