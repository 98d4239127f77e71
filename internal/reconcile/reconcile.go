// Package reconcile brings the status column of an external tracking
// database in line with an extracted resolver registry. Records are
// matched by name and type label, and only drifted statuses are written.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jward/resolverstatus/internal/notion"
	"github.com/jward/resolverstatus/internal/resolver"
)

// Database is the tracking database as seen by the reconciler.
type Database interface {
	// Query returns one page of records starting at cursor ("" for the
	// first page).
	Query(ctx context.Context, cursor string) (*notion.QueryResult, error)
	// UpdateOption sets a select or status property of one record.
	UpdateOption(ctx context.Context, pageID, property, kind, name string) error
}

// Properties names the record properties the reconciler reads and writes.
type Properties struct {
	Name   string
	Type   string
	Status string
}

// DefaultProperties matches the tracking database's column names.
var DefaultProperties = Properties{Name: "Name", Type: "Type", Status: "Status"}

// Engine reconciles one registry against the database.
type Engine struct {
	db     Database
	props  Properties
	logger *slog.Logger
	dryRun bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithProperties overrides the property names.
func WithProperties(p Properties) Option {
	return func(e *Engine) {
		e.props = p
	}
}

// WithLogger sets the logger used for per-record diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithDryRun computes decisions without issuing updates.
func WithDryRun(dryRun bool) Option {
	return func(e *Engine) {
		e.dryRun = dryRun
	}
}

// New creates an Engine.
func New(db Database, opts ...Option) *Engine {
	e := &Engine{
		db:     db,
		props:  DefaultProperties,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FetchAll reads every record, following the continuation cursor until
// none is returned.
func (e *Engine) FetchAll(ctx context.Context) ([]notion.Page, error) {
	var pages []notion.Page
	cursor := ""
	for {
		res, err := e.db.Query(ctx, cursor)
		if err != nil {
			return nil, err
		}
		pages = append(pages, res.Results...)
		if res.NextCursor == "" {
			return pages, nil
		}
		cursor = res.NextCursor
	}
}

// Reconcile fetches all records and then walks them in fetch order,
// updating each matched record whose status differs from the registry.
// Only a fetch failure is returned as an error; update failures are
// recorded in the report and processing continues.
func (e *Engine) Reconcile(ctx context.Context, reg resolver.Registry) (*Report, error) {
	pages, err := e.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("reconcile: fetch records: %w", err)
	}
	e.logger.Info("fetched tracking records", "count", len(pages), "resolvers", len(reg))

	report := &Report{}
	for _, page := range pages {
		report.add(e.reconcilePage(ctx, page, reg))
	}
	return report, nil
}

func (e *Engine) reconcilePage(ctx context.Context, page notion.Page, reg resolver.Registry) Result {
	name, hasName := ReadProperty(page, e.props.Name)
	typ, hasType := ReadProperty(page, e.props.Type)
	current, _ := ReadProperty(page, e.props.Status)
	res := Result{PageID: page.ID, Name: name, Type: typ, From: current}
	log := e.logger.With("page_id", page.ID, "name", name, "type", typ)

	if !hasName || !hasType {
		log.Info("skipping record: missing name or type")
		res.Outcome = OutcomeSkippedMissing
		return res
	}

	rec, ok := reg.Lookup(name)
	if !ok || !MatchType(typ, rec) {
		log.Info("no matching resolver found")
		res.Outcome = OutcomeNoMatch
		return res
	}

	res.To = string(rec.Status)
	if current == string(rec.Status) {
		log.Debug("status already up to date", "status", current)
		res.Outcome = OutcomeUpToDate
		return res
	}

	if e.dryRun {
		log.Info("would update status", "from", current, "to", rec.Status)
		res.Outcome = OutcomeWouldUpdate
		return res
	}

	kind := statusKind(page, e.props.Status)
	if err := e.db.UpdateOption(ctx, page.ID, e.props.Status, kind, string(rec.Status)); err != nil {
		log.Error("failed to update status", "to", rec.Status, "error", err)
		res.Outcome = OutcomeFailed
		res.Err = err
		return res
	}
	log.Info("updated status", "from", current, "to", rec.Status)
	res.Outcome = OutcomeUpdated
	return res
}
