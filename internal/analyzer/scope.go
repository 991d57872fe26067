package analyzer

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// scopeContext is the immutable traversal state passed by value into each
// recursive step of the walk.
type scopeContext struct {
	inFunction bool
}

type scopeWalker struct {
	source           []byte
	skipLocal        bool
	skipTypeChecking bool
	imports          []ScopedImport
}

// collectImports walks the module tree top-down once and returns every import
// statement found in an eligible scope, annotated with its scope tag, in
// source order. Module-level conditional and exception blocks are traversed
// transparently; function and class bodies contribute only their direct
// children (deeper nesting is ignored by design).
func collectImports(root *sitter.Node, source []byte, skipLocal, skipTypeChecking bool) []ScopedImport {
	w := &scopeWalker{
		source:           source,
		skipLocal:        skipLocal,
		skipTypeChecking: skipTypeChecking,
	}
	w.walkBody(root, scopeContext{})
	return w.imports
}

// walkBody visits the statements that are direct children of a module or
// block node.
func (w *scopeWalker) walkBody(body *sitter.Node, ctx scopeContext) {
	if body == nil {
		return
	}
	for i := uint(0); i < body.ChildCount(); i++ {
		w.walkStatement(body.Child(i), ctx)
	}
}

func (w *scopeWalker) walkStatement(node *sitter.Node, ctx scopeContext) {
	switch node.Kind() {
	case "import_statement", "import_from_statement":
		w.addImport(node, ctx)

	case "decorated_definition":
		if def := node.ChildByFieldName("definition"); def != nil {
			w.walkStatement(def, ctx)
		}

	case "function_definition", "class_definition":
		if w.skipLocal {
			return
		}
		w.walkBody(node.ChildByFieldName("body"), scopeContext{inFunction: true})

	case "if_statement":
		if ctx.inFunction {
			return // conditional bodies inside a def are never eligible
		}
		w.walkGuardedBlock(node.ChildByFieldName("condition"), node.ChildByFieldName("consequence"), ctx)
		for i := uint(0); i < node.ChildCount(); i++ {
			switch clause := node.Child(i); clause.Kind() {
			case "elif_clause":
				w.walkGuardedBlock(clause.ChildByFieldName("condition"), clause.ChildByFieldName("consequence"), ctx)
			case "else_clause":
				w.walkBody(clause.ChildByFieldName("body"), ctx)
			}
		}

	case "try_statement":
		if ctx.inFunction {
			return
		}
		w.walkBody(node.ChildByFieldName("body"), ctx)
		for i := uint(0); i < node.ChildCount(); i++ {
			switch clause := node.Child(i); clause.Kind() {
			case "except_clause", "except_group_clause", "else_clause", "finally_clause":
				w.walkClauseBlocks(clause, ctx)
			}
		}
	}
}

// walkGuardedBlock handles an if/elif body, excluding it when the condition
// is a TYPE_CHECKING guard and that exclusion is active.
func (w *scopeWalker) walkGuardedBlock(condition, body *sitter.Node, ctx scopeContext) {
	if w.skipTypeChecking && w.isTypeCheckingGuard(condition) {
		return
	}
	w.walkBody(body, ctx)
}

// walkClauseBlocks visits the block children of an except/else/finally clause.
func (w *scopeWalker) walkClauseBlocks(clause *sitter.Node, ctx scopeContext) {
	for i := uint(0); i < clause.ChildCount(); i++ {
		if child := clause.Child(i); child.Kind() == "block" {
			w.walkBody(child, ctx)
		}
	}
}

// isTypeCheckingGuard matches the literal spellings `TYPE_CHECKING` and
// `<anything>.TYPE_CHECKING`. No symbol resolution is attempted.
func (w *scopeWalker) isTypeCheckingGuard(condition *sitter.Node) bool {
	if condition == nil {
		return false
	}
	switch condition.Kind() {
	case "identifier":
		return w.text(condition) == "TYPE_CHECKING"
	case "attribute":
		return w.text(condition.ChildByFieldName("attribute")) == "TYPE_CHECKING"
	}
	return false
}

func (w *scopeWalker) addImport(node *sitter.Node, ctx scopeContext) {
	tag := ModuleEligible
	if ctx.inFunction {
		tag = LocalFirstLevel
	}
	w.imports = append(w.imports, ScopedImport{Node: node, Tag: tag})
}

func (w *scopeWalker) text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(w.source[node.StartByte():node.EndByte()])
}
