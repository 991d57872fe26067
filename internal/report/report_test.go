package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"pni/internal/analyzer"
	"pni/internal/runner"
)

func sampleResult() *runner.Result {
	return &runner.Result{
		Files: []runner.FileResult{
			{
				Path: "/project/pkg/module.py",
				Diagnostics: []analyzer.Diagnostic{
					{Code: analyzer.CodePrivateName, Line: 3, Column: 1, Message: "found import of private name: _secret"},
					{Code: analyzer.CodeFromPrivateModule, Line: 7, Column: 5, Message: "found import from private module: ._m"},
				},
			},
			{Path: "/project/pkg/other.py"},
		},
		FilesScanned: 2,
		Duration:     1234 * time.Millisecond,
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, sampleResult()); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	want := "/project/pkg/module.py:3:1: PNI001 found import of private name: _secret"
	if lines[0] != want {
		t.Errorf("line 0 = %q, want %q", lines[0], want)
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, sampleResult()); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}

	out := buf.String()
	for _, fragment := range []string{"scanned 2 files", "2 private-import findings", "PNI001=1", "PNI002=0", "PNI003=1"} {
		if !strings.Contains(out, fragment) {
			t.Errorf("summary %q missing %q", out, fragment)
		}
	}
}

func TestGenerateJSON(t *testing.T) {
	data, err := GenerateJSON(sampleResult(), "1.0.0")
	if err != nil {
		t.Fatalf("GenerateJSON failed: %v", err)
	}

	var doc struct {
		Tool    string         `json:"tool"`
		Version string         `json:"version"`
		Totals  map[string]int `json:"totals"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON document: %v", err)
	}
	if doc.Tool != "pni" || doc.Version != "1.0.0" {
		t.Errorf("unexpected header: %+v", doc)
	}
	if doc.Totals[analyzer.CodePrivateName] != 1 || doc.Totals[analyzer.CodeFromPrivateModule] != 1 {
		t.Errorf("unexpected totals: %v", doc.Totals)
	}
}

func TestGenerateSARIF(t *testing.T) {
	data, err := GenerateSARIF("/project", sampleResult(), "1.0.0")
	if err != nil {
		t.Fatalf("GenerateSARIF failed: %v", err)
	}

	var doc sarifReport
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid SARIF document: %v", err)
	}

	if doc.Version != "2.1.0" {
		t.Errorf("version = %q, want 2.1.0", doc.Version)
	}
	if len(doc.Runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(doc.Runs))
	}

	run := doc.Runs[0]
	if run.Tool.Driver.Name != "pni" {
		t.Errorf("driver name = %q", run.Tool.Driver.Name)
	}
	// Only rules for codes present in the result are declared.
	if len(run.Tool.Driver.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(run.Tool.Driver.Rules))
	}
	if run.Tool.Driver.Rules[0].ID != analyzer.CodePrivateName {
		t.Errorf("rule 0 = %q", run.Tool.Driver.Rules[0].ID)
	}

	if len(run.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(run.Results))
	}
	first := run.Results[0]
	if first.Level != "warning" {
		t.Errorf("level = %q", first.Level)
	}
	loc := first.Locations[0].PhysicalLocation
	if loc.ArtifactLocation.URI != "pkg/module.py" {
		t.Errorf("URI = %q, want project-relative path", loc.ArtifactLocation.URI)
	}
	if loc.Region.StartLine != 3 || loc.Region.StartColumn != 1 {
		t.Errorf("region = %+v", loc.Region)
	}
}

func TestRelativeURI(t *testing.T) {
	if got := relativeURI("/project", "/project/a/b.py"); got != "a/b.py" {
		t.Errorf("relativeURI = %q", got)
	}
	if got := relativeURI("", "a/b.py"); got != "a/b.py" {
		t.Errorf("relativeURI with empty root = %q", got)
	}
}
