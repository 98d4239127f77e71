package filter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/resolverstatus/internal/resolver"
)

func registry() resolver.Registry {
	return resolver.Registry{
		"A_QUERY":    {Name: "A_QUERY", Category: resolver.CategoryAdmin, Operation: resolver.OperationQuery, Status: resolver.StatusDeployedDev, Source: "admin.ts"},
		"B_MUTATION": {Name: "B_MUTATION", Category: resolver.CategoryAPI, Operation: resolver.OperationMutation, Status: resolver.StatusInProgress, Source: "api.ts"},
		"cleanup":    {Name: "cleanup", Category: resolver.CategoryScheduled, Operation: resolver.OperationTask, Status: resolver.StatusDeployedProd, Source: "jobs.ts"},
	}
}

func TestFilter_Apply(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tests := []struct {
		expr string
		want []string
	}{
		{`category == "admin"`, []string{"A_QUERY"}},
		{`status != "In Progress"`, []string{"A_QUERY", "cleanup"}},
		{`operation == "task" || source == "api.ts"`, []string{"B_MUTATION", "cleanup"}},
		{`false`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			f, err := New(ctx, tt.expr)
			require.NoError(t, err)

			got, err := f.Apply(ctx, registry())
			require.NoError(t, err)
			var names []string
			for _, n := range []string{"A_QUERY", "B_MUTATION", "cleanup"} {
				if _, ok := got[n]; ok {
					names = append(names, n)
				}
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestFilter_NilKeepsEverything(t *testing.T) {
	t.Parallel()
	var f *Filter
	got, err := f.Apply(context.Background(), registry())
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()
	_, err := New(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyExpression)

	_, err = New(context.Background(), `category ==`)
	assert.Error(t, err)
}

func TestFilter_String(t *testing.T) {
	t.Parallel()
	f, err := New(context.Background(), ` name == "x" `)
	require.NoError(t, err)
	assert.Equal(t, `name == "x"`, f.String())
}
