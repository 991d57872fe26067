package analyzer

import (
	"testing"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

func collectFromSource(t *testing.T, src string, skipLocal, skipTypeChecking bool) []ScopedImport {
	t.Helper()

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(sitter.NewLanguage(tree_sitter_python.Language()))

	tree := parser.Parse([]byte(src), nil)
	if tree == nil {
		t.Fatalf("parse failed for %q", src)
	}
	defer tree.Close()

	// The tree is released when this test returns; tags and counts are
	// asserted before that happens.
	imports := collectImports(tree.RootNode(), []byte(src), skipLocal, skipTypeChecking)
	tags := make([]ScopedImport, len(imports))
	copy(tags, imports)
	return tags
}

func TestCollectImportsTags(t *testing.T) {
	src := "import a\n" +
		"if cond:\n" +
		"    import b\n" +
		"def f():\n" +
		"    import c\n" +
		"    if cond:\n" +
		"        import d\n"

	imports := collectFromSource(t, src, false, true)
	if len(imports) != 3 {
		t.Fatalf("expected 3 eligible imports, got %d", len(imports))
	}

	wantTags := []ScopeTag{ModuleEligible, ModuleEligible, LocalFirstLevel}
	for i, imp := range imports {
		if imp.Tag != wantTags[i] {
			t.Errorf("import %d: tag = %v, want %v", i, imp.Tag, wantTags[i])
		}
	}
}

func TestCollectImportsSkipLocal(t *testing.T) {
	src := "import a\ndef f():\n    import b\n"

	imports := collectFromSource(t, src, true, true)
	if len(imports) != 1 {
		t.Fatalf("expected 1 eligible import, got %d", len(imports))
	}
	if imports[0].Tag != ModuleEligible {
		t.Errorf("tag = %v, want ModuleEligible", imports[0].Tag)
	}
}

func TestCollectImportsTypeCheckingGuard(t *testing.T) {
	src := "if TYPE_CHECKING:\n    import a\n"

	if imports := collectFromSource(t, src, false, true); len(imports) != 0 {
		t.Errorf("guard body should be excluded, got %d imports", len(imports))
	}
	if imports := collectFromSource(t, src, false, false); len(imports) != 1 {
		t.Errorf("disabled guard exclusion should expose the import, got %d", len(imports))
	}
}

func TestScopeTagStrings(t *testing.T) {
	tags := map[ScopeTag]string{
		ModuleEligible:       "module",
		LocalFirstLevel:      "local",
		LocalNested:          "local-nested",
		TypeCheckingExcluded: "type-checking",
		TestFileExcluded:     "test-file",
	}
	for tag, want := range tags {
		if tag.String() != want {
			t.Errorf("%d.String() = %q, want %q", tag, tag.String(), want)
		}
	}
}
