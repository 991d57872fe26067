package analyzer

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// decompose converts one import statement into its ImportTarget records.
// A plain import yields one ModuleImport per comma-separated clause; a
// from-import yields one NameFromModule for the module path plus one
// NameImport per imported identifier. Aliases never affect the recorded
// path; matching always uses the original imported identifier.
func decompose(node *sitter.Node, source []byte) []ImportTarget {
	pos := Position{
		Line:   int(node.StartPosition().Row) + 1,
		Column: int(node.StartPosition().Column) + 1,
	}
	switch node.Kind() {
	case "import_statement":
		return decomposeImport(node, source, pos)
	case "import_from_statement":
		return decomposeFromImport(node, source, pos)
	}
	return nil
}

func decomposeImport(node *sitter.Node, source []byte, pos Position) []ImportTarget {
	var targets []ImportTarget
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "aliased_import" {
			child = child.ChildByFieldName("name")
		}
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "dotted_name", "identifier":
			targets = append(targets, ImportTarget{
				Path:     pathSegments(child, source),
				Kind:     ModuleImport,
				Position: pos,
			})
		}
	}
	return targets
}

func decomposeFromImport(node *sitter.Node, source []byte, pos Position) []ImportTarget {
	var (
		moduleSegs []string
		level      int
	)
	if moduleNode := node.ChildByFieldName("module_name"); moduleNode != nil {
		switch moduleNode.Kind() {
		case "relative_import":
			for i := uint(0); i < moduleNode.ChildCount(); i++ {
				switch child := moduleNode.Child(i); child.Kind() {
				case "import_prefix":
					level = strings.Count(nodeText(child, source), ".")
				case "dotted_name", "identifier":
					moduleSegs = pathSegments(child, source)
				}
			}
		case "dotted_name", "identifier":
			moduleSegs = pathSegments(moduleNode, source)
		}
	}

	targets := []ImportTarget{{
		Path:          moduleSegs,
		RelativeLevel: level,
		Kind:          NameFromModule,
		Position:      pos,
	}}

	// Imported names are the dotted_name/aliased_import children after the
	// `import` keyword. A wildcard import carries no identifier to check.
	seenImportKeyword := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "import" {
			seenImportKeyword = true
			continue
		}
		if !seenImportKeyword {
			continue
		}
		if child.Kind() == "aliased_import" {
			child = child.ChildByFieldName("name")
		}
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "dotted_name", "identifier":
			path := make([]string, 0, len(moduleSegs)+1)
			path = append(path, moduleSegs...)
			path = append(path, nodeText(child, source))
			targets = append(targets, ImportTarget{
				Path:          path,
				RelativeLevel: level,
				Kind:          NameImport,
				Position:      pos,
			})
		}
	}
	return targets
}

// pathSegments splits a dotted_name node into its identifier segments.
func pathSegments(node *sitter.Node, source []byte) []string {
	if node.Kind() == "identifier" {
		return []string{nodeText(node, source)}
	}
	var segs []string
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child.Kind() == "identifier" {
			segs = append(segs, nodeText(child, source))
		}
	}
	return segs
}

func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}
