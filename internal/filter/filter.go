// Package filter evaluates user-supplied Risor expressions against
// resolver records, e.g. `category == "admin" && status != "In Progress"`.
package filter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/risor-io/risor"

	"github.com/jward/resolverstatus/internal/resolver"
)

// ErrEmptyExpression is returned by New for a blank expression.
var ErrEmptyExpression = errors.New("filter: empty expression")

// Filter is a compiled-on-demand Risor predicate. The expression sees the
// globals name, category, operation, status and source.
type Filter struct {
	expr string
}

// New validates expr by evaluating it against a placeholder record.
func New(ctx context.Context, expr string) (*Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, ErrEmptyExpression
	}
	f := &Filter{expr: expr}
	probe := resolver.Record{
		Name:      "probe",
		Category:  resolver.CategoryUnknown,
		Operation: resolver.OperationUnknown,
		Status:    resolver.StatusInProgress,
	}
	if _, err := f.Match(ctx, probe); err != nil {
		return nil, err
	}
	return f, nil
}

// String returns the expression text.
func (f *Filter) String() string { return f.expr }

// Match reports whether rec satisfies the expression; the result is the
// truthiness of the expression's value.
func (f *Filter) Match(ctx context.Context, rec resolver.Record) (bool, error) {
	result, err := risor.Eval(ctx, f.expr,
		risor.WithGlobal("name", rec.Name),
		risor.WithGlobal("category", string(rec.Category)),
		risor.WithGlobal("operation", string(rec.Operation)),
		risor.WithGlobal("status", string(rec.Status)),
		risor.WithGlobal("source", rec.Source),
	)
	if err != nil {
		return false, fmt.Errorf("filter: evaluate %q: %w", f.expr, err)
	}
	return result != nil && result.IsTruthy(), nil
}

// Apply returns the subset of reg matched by f. A nil Filter keeps every
// record.
func (f *Filter) Apply(ctx context.Context, reg resolver.Registry) (resolver.Registry, error) {
	if f == nil {
		return reg, nil
	}
	out := make(resolver.Registry, len(reg))
	for name, rec := range reg {
		ok, err := f.Match(ctx, rec)
		if err != nil {
			return nil, err
		}
		if ok {
			out[name] = rec
		}
	}
	return out, nil
}
