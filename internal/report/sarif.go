package report

import (
	"encoding/json"
	"path/filepath"

	"pni/internal/analyzer"
	"pni/internal/runner"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"
)

// sarifReport is the top-level SARIF document.
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}

var ruleDescriptions = map[string]string{
	analyzer.CodePrivateName:       "An import statement brings a private (leading-underscore) name into scope.",
	analyzer.CodePrivateModule:     "An import statement imports a private (leading-underscore) module.",
	analyzer.CodeFromPrivateModule: "A from-import reads names out of a private (leading-underscore) module.",
}

var ruleNames = map[string]string{
	analyzer.CodePrivateName:       "PrivateNameImport",
	analyzer.CodePrivateModule:     "PrivateModuleImport",
	analyzer.CodeFromPrivateModule: "ImportFromPrivateModule",
}

// GenerateSARIF builds a SARIF v2.1.0 document from a scan result. File URIs
// are made relative to projectRoot so reports are safe to share.
func GenerateSARIF(projectRoot string, result *runner.Result, version string) ([]byte, error) {
	seen := make(map[string]bool)
	results := make([]sarifResult, 0)

	for _, file := range result.Files {
		for _, d := range file.Diagnostics {
			seen[d.Code] = true
			results = append(results, sarifResult{
				RuleID:  d.Code,
				Level:   "warning",
				Message: sarifMessage{Text: d.Message},
				Locations: []sarifLocation{{
					PhysicalLocation: sarifPhysicalLocation{
						ArtifactLocation: sarifArtifactLocation{
							URI:       relativeURI(projectRoot, file.Path),
							URIBaseID: "%SRCROOT%",
						},
						Region: &sarifRegion{
							StartLine:   d.Line,
							StartColumn: d.Column,
						},
					},
				}},
			})
		}
	}

	rules := make([]sarifRule, 0, len(seen))
	for _, code := range []string{analyzer.CodePrivateName, analyzer.CodePrivateModule, analyzer.CodeFromPrivateModule} {
		if !seen[code] {
			continue
		}
		rules = append(rules, sarifRule{
			ID:               code,
			Name:             ruleNames[code],
			ShortDescription: sarifMessage{Text: ruleDescriptions[code]},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "warning"},
		})
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    "pni",
						Version: version,
						Rules:   rules,
					},
				},
				Results: results,
			},
		},
	}

	return json.MarshalIndent(report, "", "  ")
}

// relativeURI converts an absolute file path to a forward-slash relative URI
// anchored at projectRoot. If the path is already relative or projectRoot is
// empty, the original path (with forward slashes) is returned.
func relativeURI(projectRoot, filePath string) string {
	if projectRoot != "" && filepath.IsAbs(filePath) {
		rel, err := filepath.Rel(projectRoot, filePath)
		if err == nil {
			filePath = rel
		}
	}
	// SARIF URIs use forward slashes.
	return filepath.ToSlash(filePath)
}
