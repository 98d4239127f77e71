package reconcile

import (
	"strings"

	"github.com/jward/resolverstatus/internal/notion"
	"github.com/jward/resolverstatus/internal/resolver"
)

// NormalizeType lowercases a tracking-database type and drops all
// whitespace, so "Admin Query" and "adminquery" compare equal.
func NormalizeType(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// MatchType reports whether an external type label describes rec. API
// resolvers are labelled by operation alone ("Query"); every other
// category is labelled category then operation ("AdminMutation").
func MatchType(externalType string, rec resolver.Record) bool {
	got := NormalizeType(externalType)
	if strings.EqualFold(string(rec.Category), string(resolver.CategoryAPI)) {
		return got == strings.ToLower(string(rec.Operation))
	}
	return got == strings.ToLower(string(rec.Category)+string(rec.Operation))
}

// ReadProperty returns the display text of a page property; see
// notion.Property.Text for the supported kinds.
func ReadProperty(page notion.Page, name string) (string, bool) {
	prop, ok := page.Properties[name]
	if !ok {
		return "", false
	}
	return prop.Text()
}

// statusKind returns the kind to write a status value as, mirroring the
// page's current property. Missing or unexpected kinds are written as a
// status property.
func statusKind(page notion.Page, name string) string {
	if prop, ok := page.Properties[name]; ok && prop.Type == notion.KindSelect {
		return notion.KindSelect
	}
	return notion.KindStatus
}
