package report

import (
	"encoding/json"
	"time"

	"pni/internal/runner"
)

type jsonDocument struct {
	Tool        string              `json:"tool"`
	Version     string              `json:"version"`
	GeneratedAt time.Time           `json:"generated_at"`
	Files       []runner.FileResult `json:"files"`
	Totals      map[string]int      `json:"totals"`
}

// GenerateJSON builds the machine-readable report document.
func GenerateJSON(result *runner.Result, version string) ([]byte, error) {
	doc := jsonDocument{
		Tool:        "pni",
		Version:     version,
		GeneratedAt: time.Now().UTC(),
		Files:       result.Files,
		Totals:      result.CountByCode(),
	}
	return json.MarshalIndent(doc, "", "  ")
}
