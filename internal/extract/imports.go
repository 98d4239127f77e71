package extract

import "github.com/jward/resolverstatus/internal/syntax"

// ImportTable maps identifiers bound by import declarations to the module
// path they came from.
type ImportTable map[string]string

// BuildImportTable collects every binding introduced by import statements
// and sourced re-exports in the tree. Default, namespace and named imports
// all bind their local name; type-only imports are treated like value
// imports. Later bindings of the same name win.
func BuildImportTable(root syntax.Node) ImportTable {
	imports := make(ImportTable)
	syntax.Walk(root, func(n syntax.Node) bool {
		switch n.Kind() {
		case "import_statement":
			addImportStatement(imports, n)
			return false
		case "export_statement":
			addReexport(imports, n)
		}
		return true
	})
	return imports
}

func addImportStatement(imports ImportTable, stmt syntax.Node) {
	// import x = require("y")
	if req := syntax.FirstChildOfKind(stmt, "import_require_clause"); req != nil {
		src := req.ChildByField("source")
		if src == nil {
			src = syntax.FirstChildOfKind(req, "string")
		}
		if id := syntax.FirstChildOfKind(req, "identifier"); id != nil && src != nil {
			imports[id.Text()] = syntax.Unquote(src.Text())
		}
		return
	}

	src := stmt.ChildByField("source")
	clause := syntax.FirstChildOfKind(stmt, "import_clause")
	if src == nil || clause == nil {
		return // side-effect import
	}
	path := syntax.Unquote(src.Text())

	for _, c := range syntax.Children(clause) {
		switch c.Kind() {
		case "identifier":
			imports[c.Text()] = path
		case "namespace_import":
			if id := syntax.FirstChildOfKind(c, "identifier"); id != nil {
				imports[id.Text()] = path
			}
		case "named_imports":
			for _, spec := range syntax.Children(c) {
				if spec.Kind() != "import_specifier" {
					continue
				}
				if local := localName(spec); local != "" {
					imports[local] = path
				}
			}
		}
	}
}

// addReexport handles `export { A as B } from "x"` and
// `export * as ns from "x"`. Exports without a source bind nothing new.
func addReexport(imports ImportTable, stmt syntax.Node) {
	src := stmt.ChildByField("source")
	if src == nil {
		return
	}
	path := syntax.Unquote(src.Text())

	for _, c := range syntax.Children(stmt) {
		switch c.Kind() {
		case "export_clause":
			for _, spec := range syntax.Children(c) {
				if spec.Kind() != "export_specifier" {
					continue
				}
				if local := localName(spec); local != "" {
					imports[local] = path
				}
			}
		case "namespace_export":
			if id := c.NamedChild(0); id != nil {
				imports[syntax.Unquote(id.Text())] = path
			}
		}
	}
}

// localName returns the alias of an import/export specifier, or its name
// when it is not aliased.
func localName(spec syntax.Node) string {
	if alias := spec.ChildByField("alias"); alias != nil {
		return syntax.Unquote(alias.Text())
	}
	if name := spec.ChildByField("name"); name != nil {
		return syntax.Unquote(name.Text())
	}
	return ""
}
