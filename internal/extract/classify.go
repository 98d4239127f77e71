package extract

import (
	"strings"

	"github.com/jward/resolverstatus/internal/resolver"
	"github.com/jward/resolverstatus/internal/syntax"
)

// DefaultAdminMarker is the import path fragment identifying the admin
// type namespace.
const DefaultAdminMarker = "@adminTypes"

// operationMarkers are checked in order; the first marker contained in the
// dotted name decides the operation, regardless of where it occurs.
var operationMarkers = []struct {
	marker string
	op     resolver.Operation
}{
	{"MUTATION", resolver.OperationMutation},
	{"QUERY", resolver.OperationQuery},
	{"SUBSCRIPTION", resolver.OperationSubscription},
	{"TASK", resolver.OperationTask},
}

// OperationFromName derives the operation from a resolver name constant.
func OperationFromName(name string) resolver.Operation {
	for _, m := range operationMarkers {
		if strings.Contains(name, m.marker) {
			return m.op
		}
	}
	return resolver.OperationUnknown
}

// Classifier turns a resolver object literal into a Record.
type Classifier struct {
	// AdminMarker is matched as a substring of the import path of a
	// dotted name's root identifier.
	AdminMarker string
}

// Classify reads the name, environment flags and schedule marker of one
// resolver object literal. It reports false when the object has no usable
// name property.
func (c Classifier) Classify(obj syntax.Node, imports ImportTable) (resolver.Record, bool) {
	rec := resolver.Record{
		Category:  resolver.CategoryUnknown,
		Operation: resolver.OperationUnknown,
	}
	var environments, adminEnvironments *resolver.EnvironmentConfig
	scheduled := false

	for _, p := range properties(obj) {
		switch p.key {
		case "name":
			c.applyName(&rec, p.value, imports)
		case "environments":
			environments = ParseEnvironmentConfig(p.value)
		case "adminEnvironments":
			adminEnvironments = ParseEnvironmentConfig(p.value)
		case "scheduleInfo":
			scheduled = true
		}
	}

	if scheduled {
		rec.Category = resolver.CategoryScheduled
		rec.Operation = resolver.OperationTask
	}
	rec.Status = resolver.DeriveStatus(environments, adminEnvironments)

	return rec, rec.Name != ""
}

func (c Classifier) applyName(rec *resolver.Record, value syntax.Node, imports ImportTable) {
	switch value.Kind() {
	case "member_expression":
		full := value.Text()
		segments := strings.Split(full, ".")
		rec.Name = strings.TrimSpace(segments[len(segments)-1])
		root := strings.TrimSpace(segments[0])

		rec.Category = resolver.CategoryAPI
		if path, ok := imports[root]; ok && c.AdminMarker != "" && strings.Contains(path, c.AdminMarker) {
			rec.Category = resolver.CategoryAdmin
		}
		rec.Operation = OperationFromName(full)
	case "string":
		// String names carry no namespace, so nothing else is inferred.
		rec.Name = syntax.Unquote(value.Text())
	}
}
