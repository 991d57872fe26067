package analyzer

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Diagnostic codes emitted by Analyze.
const (
	CodePrivateName       = "PNI001"
	CodePrivateModule     = "PNI002"
	CodeFromPrivateModule = "PNI003"
)

type TargetKind int

const (
	// ModuleImport is a plain `import a.b.c` clause.
	ModuleImport TargetKind = iota
	// NameFromModule is the module part of a `from a.b import x` statement.
	NameFromModule
	// NameImport is one imported identifier of a `from a.b import x` statement.
	NameImport
)

// ScopeTag classifies the lexical position of a statement during the walk.
type ScopeTag int

const (
	ModuleEligible ScopeTag = iota
	LocalFirstLevel
	LocalNested
	TypeCheckingExcluded
	TestFileExcluded
)

func (t ScopeTag) String() string {
	switch t {
	case ModuleEligible:
		return "module"
	case LocalFirstLevel:
		return "local"
	case LocalNested:
		return "local-nested"
	case TypeCheckingExcluded:
		return "type-checking"
	case TestFileExcluded:
		return "test-file"
	}
	return "unknown"
}

type Position struct {
	Line   int // 1-based
	Column int // 1-based
}

// ImportTarget is the unit of classification. Every target traces back to
// exactly one import statement; a `from m import a, b` statement yields one
// NameFromModule target plus one NameImport target per identifier.
type ImportTarget struct {
	Path          []string
	RelativeLevel int
	Kind          TargetKind
	Position      Position
}

// ModulePath renders the module part of the target as written in source,
// leading relative dots preserved verbatim. For NameImport targets the final
// path segment is the imported identifier and is not part of the module.
func (t ImportTarget) ModulePath() string {
	segs := t.Path
	if t.Kind == NameImport && len(segs) > 0 {
		segs = segs[:len(segs)-1]
	}
	return strings.Repeat(".", t.RelativeLevel) + strings.Join(segs, ".")
}

// Name returns the identifier a NameImport target refers to.
func (t ImportTarget) Name() string {
	if len(t.Path) == 0 {
		return ""
	}
	return t.Path[len(t.Path)-1]
}

type Diagnostic struct {
	Code    string `json:"code"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

// FileContext carries the per-file inputs the host computed before analysis.
type FileContext struct {
	Path       string
	IsTestFile bool
}

// ScopedImport pairs an import statement node with its effective scope tag.
type ScopedImport struct {
	Node *sitter.Node
	Tag  ScopeTag
}
