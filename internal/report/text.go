package report

import (
	"fmt"
	"io"
	"time"

	"pni/internal/runner"
)

// WriteText renders diagnostics in the classic linter line format:
// path:line:col: CODE message
func WriteText(w io.Writer, result *runner.Result) error {
	for _, file := range result.Files {
		for _, d := range file.Diagnostics {
			if _, err := fmt.Fprintf(w, "%s:%d:%d: %s %s\n", file.Path, d.Line, d.Column, d.Code, d.Message); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteSummary prints the one-line scan summary used in plain CLI mode.
func WriteSummary(w io.Writer, result *runner.Result) error {
	counts := result.CountByCode()
	_, err := fmt.Fprintf(w, "scanned %d files in %s: %d private-import findings (PNI001=%d PNI002=%d PNI003=%d)\n",
		result.FilesScanned, result.Duration.Round(time.Millisecond), result.TotalDiagnostics(),
		counts["PNI001"], counts["PNI002"], counts["PNI003"])
	return err
}
