package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/resolverstatus/internal/syntax/syntaxtest"
)

func envPair(key string, value *syntaxtest.Node) *syntaxtest.Node {
	return syntaxtest.N("pair", "").
		Field("key", syntaxtest.N("property_identifier", key)).
		Field("value", value)
}

func TestParseEnvironmentConfig_Literal(t *testing.T) {
	t.Parallel()
	N := syntaxtest.N
	obj := N("object", "",
		envPair("dev", N("true", "true")),
		envPair("stage", N("false", "false")),
		envPair("prod", N("unary_expression", "!false")),
		envPair("qa", N("true", "true")),
	)
	cfg := ParseEnvironmentConfig(obj)
	require.NotNil(t, cfg)
	assert.Equal(t, 3, cfg.Len())
	assert.True(t, *cfg.Dev)
	assert.False(t, *cfg.Stage)
	assert.False(t, *cfg.Prod)
	assert.Nil(t, cfg.Local)
}

func TestParseEnvironmentConfig_NotObject(t *testing.T) {
	t.Parallel()
	cfg := ParseEnvironmentConfig(syntaxtest.N("identifier", "sharedEnvs"))
	require.NotNil(t, cfg)
	assert.Equal(t, 0, cfg.Len())

	cfg = ParseEnvironmentConfig(nil)
	require.NotNil(t, cfg)
	assert.Equal(t, 0, cfg.Len())
}

func TestParseEnvironmentConfig_IgnoresNonIdentifierKeys(t *testing.T) {
	t.Parallel()
	N := syntaxtest.N
	obj := N("object", "",
		N("pair", "").Field("key", N("string", `"dev"`)).Field("value", N("true", "true")),
		N("shorthand_property_identifier", "prod"),
		N("spread_element", "...base"),
	)
	assert.Equal(t, 0, ParseEnvironmentConfig(obj).Len())
}
