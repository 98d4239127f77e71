package resolver

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRegistry() Registry {
	reg := Registry{}
	reg.Put(Record{Name: "GET_WIDGET_QUERY", Category: CategoryAdmin, Operation: OperationQuery, Status: StatusDeployedDev, Source: "widgets.ts"})
	reg.Put(Record{Name: "CREATE_WIDGET_MUTATION", Category: CategoryAPI, Operation: OperationMutation, Status: StatusDeployedProd})
	reg.Put(Record{Name: "purgeWidgets", Category: CategoryScheduled, Operation: OperationTask, Status: StatusInProgress})
	return reg
}

func TestMarshalSnapshot_Golden(t *testing.T) {
	data, err := MarshalSnapshot(sampleRegistry())
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "snapshot", data)
}

func TestSnapshot_WriteRead(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	reg := sampleRegistry()

	require.NoError(t, WriteSnapshot(fs, "/out/status.json", reg))

	got, err := ReadSnapshot(fs, "/out/status.json")
	require.NoError(t, err)
	require.Len(t, got, 3)

	rec, ok := got.Lookup("GET_WIDGET_QUERY")
	require.True(t, ok)
	assert.Equal(t, CategoryAdmin, rec.Category)
	assert.Equal(t, OperationQuery, rec.Operation)
	assert.Equal(t, StatusDeployedDev, rec.Status)
	assert.Empty(t, rec.Source, "source is not part of the snapshot")
}

func TestReadSnapshot_Missing(t *testing.T) {
	t.Parallel()
	_, err := ReadSnapshot(afero.NewMemMapFs(), "/nope.json")
	require.Error(t, err)
}

func TestUnmarshalSnapshot_NameFromKey(t *testing.T) {
	t.Parallel()
	reg, err := UnmarshalSnapshot([]byte(`{"FOO_QUERY": {"type": "api", "operation": "query", "status": "In Progress"}}`))
	require.NoError(t, err)
	assert.Equal(t, "FOO_QUERY", reg["FOO_QUERY"].Name)
}

func TestUnmarshalSnapshot_Invalid(t *testing.T) {
	t.Parallel()
	_, err := UnmarshalSnapshot([]byte(`[1, 2]`))
	require.Error(t, err)
}

func TestRegistry_PutReplaces(t *testing.T) {
	t.Parallel()
	reg := Registry{}
	_, replaced := reg.Put(Record{Name: "A", Status: StatusDeployedDev, Source: "a.ts"})
	assert.False(t, replaced)

	prev, replaced := reg.Put(Record{Name: "A", Status: StatusDeployedProd, Source: "b.ts"})
	assert.True(t, replaced)
	assert.Equal(t, "a.ts", prev.Source)
	assert.Equal(t, StatusDeployedProd, reg["A"].Status)
}

func TestDiff(t *testing.T) {
	t.Parallel()
	prev := Registry{
		"A": {Name: "A", Status: StatusDeployedDev},
		"B": {Name: "B", Status: StatusInProgress},
		"C": {Name: "C", Status: StatusDeployedProd},
	}
	next := Registry{
		"A": {Name: "A", Status: StatusDeployedStage},
		"C": {Name: "C", Status: StatusDeployedProd},
		"D": {Name: "D", Status: StatusCodeComplete},
	}

	assert.Equal(t, []Change{
		{Name: "A", Kind: ChangeStatus, From: StatusDeployedDev, To: StatusDeployedStage},
		{Name: "B", Kind: ChangeRemoved, From: StatusInProgress},
		{Name: "D", Kind: ChangeAdded, To: StatusCodeComplete},
	}, Diff(prev, next))
	assert.Empty(t, Diff(next, next))
}
