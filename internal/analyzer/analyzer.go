package analyzer

import (
	"fmt"
	"sort"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Analyze runs the private-import check over one parsed file and returns its
// diagnostics sorted by position. It is a pure function of its inputs: the
// same tree, file context and rules always produce the same sequence, and a
// single SkipConfig may back any number of concurrent calls.
func Analyze(root *sitter.Node, source []byte, file FileContext, rules *SkipConfig) []Diagnostic {
	if rules.SkipTest && file.IsTestFile {
		return nil
	}

	var diags []Diagnostic
	for _, imp := range collectImports(root, source, rules.SkipLocal, rules.SkipTypeChecking) {
		for _, target := range decompose(imp.Node, source) {
			if d, ok := check(target, rules); ok {
				diags = append(diags, d)
			}
		}
	}

	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].Line != diags[j].Line {
			return diags[i].Line < diags[j].Line
		}
		return diags[i].Column < diags[j].Column
	})
	return diags
}

func check(target ImportTarget, rules *SkipConfig) (Diagnostic, bool) {
	if rules.SkipRelative && target.RelativeLevel > 0 {
		return Diagnostic{}, false
	}

	switch target.Kind {
	case ModuleImport:
		if len(target.Path) == 0 || !IsPrivate(target.Path[len(target.Path)-1]) {
			return Diagnostic{}, false
		}
		module := target.ModulePath()
		if rules.moduleSkipped(module) {
			return Diagnostic{}, false
		}
		return diagnostic(CodePrivateModule, target.Position, "found import of private module: %s", module), true

	case NameFromModule:
		if len(target.Path) == 0 || !IsPrivate(target.Path[len(target.Path)-1]) {
			return Diagnostic{}, false
		}
		module := target.ModulePath()
		if rules.namesFromModuleSkipped(module) {
			return Diagnostic{}, false
		}
		return diagnostic(CodeFromPrivateModule, target.Position, "found import from private module: %s", module), true

	case NameImport:
		name := target.Name()
		if !IsPrivate(name) {
			return Diagnostic{}, false
		}
		module := target.ModulePath()
		// A skip-names-from-modules entry silences both the module report
		// and every name imported from it.
		if rules.nameSkipped(module, name) || rules.namesFromModuleSkipped(module) {
			return Diagnostic{}, false
		}
		return diagnostic(CodePrivateName, target.Position, "found import of private name: %s", name), true
	}
	return Diagnostic{}, false
}

func diagnostic(code string, pos Position, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Code:    code,
		Line:    pos.Line,
		Column:  pos.Column,
		Message: fmt.Sprintf(format, args...),
	}
}
