package extract

import (
	"github.com/jward/resolverstatus/internal/resolver"
	"github.com/jward/resolverstatus/internal/syntax"
)

// ParseEnvironmentConfig reads an object literal of environment flags.
// Anything other than an object literal yields an empty config. Only the
// recognized environment names are kept, and a flag is true only when its
// value is spelled exactly `true`; computed or negated expressions are
// false.
func ParseEnvironmentConfig(n syntax.Node) *resolver.EnvironmentConfig {
	cfg := &resolver.EnvironmentConfig{}
	if n == nil || n.Kind() != "object" {
		return cfg
	}
	for _, p := range properties(n) {
		cfg.Set(p.key, p.value.Text() == "true")
	}
	return cfg
}

// property is an identifier-keyed `key: value` pair of an object literal.
type property struct {
	key   string
	value syntax.Node
}

// properties lists the identifier-keyed pairs of an object literal in
// source order. Shorthand properties, spreads, methods and string or
// computed keys are ignored.
func properties(obj syntax.Node) []property {
	var out []property
	for _, c := range syntax.Children(obj) {
		if c.Kind() != "pair" {
			continue
		}
		key := c.ChildByField("key")
		value := c.ChildByField("value")
		if key == nil || value == nil || key.Kind() != "property_identifier" {
			continue
		}
		out = append(out, property{key: key.Text(), value: value})
	}
	return out
}
