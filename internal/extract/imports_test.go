package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/resolverstatus/internal/syntax"
)

func importsOf(t *testing.T, src string) ImportTable {
	t.Helper()
	tree, err := syntax.Parse(context.Background(), "imports.ts", []byte(src))
	require.NoError(t, err)
	defer tree.Close()
	return BuildImportTable(tree.Root())
}

func TestBuildImportTable(t *testing.T) {
	t.Parallel()
	got := importsOf(t, `
import Default from "./default";
import * as NS from '@adminTypes/ns';
import { A, B as BB } from "./named";
import Both, { C } from "./both";
import type { T } from "./types";
import "./side-effect";
import legacy = require("./legacy");
export { R as RE } from "./reexport";
export * as Star from "./star";
export { local };
`)
	assert.Equal(t, ImportTable{
		"Default": "./default",
		"NS":      "@adminTypes/ns",
		"A":       "./named",
		"BB":      "./named",
		"Both":    "./both",
		"C":       "./both",
		"T":       "./types",
		"legacy":  "./legacy",
		"RE":      "./reexport",
		"Star":    "./star",
	}, got)
}

func TestBuildImportTable_LaterBindingWins(t *testing.T) {
	t.Parallel()
	got := importsOf(t, `
import X from "./first";
import * as X from "./second";
`)
	assert.Equal(t, "./second", got["X"])
}

func TestBuildImportTable_Empty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, importsOf(t, `const x = 1;`))
}
