// Package extract recovers resolver declarations from TypeScript and
// JavaScript sources. It finds array literals bound to a `resolvers`
// property anywhere in a file and classifies each object element by name
// convention, import namespace and environment flags.
package extract

import (
	"context"
	"fmt"

	"github.com/jward/resolverstatus/internal/resolver"
	"github.com/jward/resolverstatus/internal/syntax"
)

// Extractor extracts resolver records from source files.
type Extractor struct {
	classifier Classifier
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithAdminMarker overrides the import path fragment that marks the admin
// type namespace.
func WithAdminMarker(marker string) Option {
	return func(e *Extractor) {
		e.classifier.AdminMarker = marker
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{classifier: Classifier{AdminMarker: DefaultAdminMarker}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractSource parses src (the grammar is chosen from path's extension)
// and returns its resolver records in source order. Records may repeat a
// name.
func (e *Extractor) ExtractSource(ctx context.Context, path string, src []byte) ([]resolver.Record, error) {
	tree, err := syntax.Parse(ctx, path, src)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	defer tree.Close()

	return e.ExtractTree(tree.Root(), path), nil
}

// ExtractTree extracts resolver records from an already parsed tree.
// source is stamped on every record.
func (e *Extractor) ExtractTree(root syntax.Node, source string) []resolver.Record {
	imports := BuildImportTable(root)

	var records []resolver.Record
	syntax.Walk(root, func(n syntax.Node) bool {
		if n.Kind() != "object" {
			return true
		}
		for _, p := range properties(n) {
			if p.key != "resolvers" || p.value.Kind() != "array" {
				continue
			}
			for _, el := range syntax.Children(p.value) {
				if el.Kind() != "object" {
					continue
				}
				if rec, ok := e.classifier.Classify(el, imports); ok {
					rec.Source = source
					records = append(records, rec)
				}
			}
		}
		// Nested resolver blocks are still visited.
		return true
	})
	return records
}
