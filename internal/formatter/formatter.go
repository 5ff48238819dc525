// package formatter renders sync reports to various formats (plain text, Markdown, CSV, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/vocx/internal/models"
	"github.com/desertthunder/vocx/internal/shared"
)

// Format names a report rendering.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatMarkdown, FormatCSV, FormatJSON}

// ParseFormat resolves a format name or common alias (txt, md).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown report format %q", shared.ErrInvalidArgument, s)
	}
}

// FormatFromPath guesses a format from a file extension, defaulting to text.
func FormatFromPath(path string) Format {
	switch {
	case strings.HasSuffix(path, ".md"):
		return FormatMarkdown
	case strings.HasSuffix(path, ".csv"):
		return FormatCSV
	case strings.HasSuffix(path, ".json"):
		return FormatJSON
	default:
		return FormatText
	}
}

// Render converts a report to the requested format. targetURL is included when non-empty.
func Render(report *models.RunReport, format Format, targetURL string) ([]byte, error) {
	switch format {
	case FormatText:
		return ReportToText(report, targetURL)
	case FormatMarkdown:
		return ReportToMarkdown(report, targetURL)
	case FormatCSV:
		return ReportToCSV(report)
	case FormatJSON:
		return ReportToJSON(report, targetURL)
	default:
		return nil, fmt.Errorf("%w: unknown report format %q", shared.ErrInvalidArgument, format)
	}
}

// ReportToText renders the end-of-run console summary.
func ReportToText(report *models.RunReport, targetURL string) ([]byte, error) {
	var buf bytes.Buffer

	if report.Canceled {
		buf.WriteString("Processing interrupted.\n")
	} else {
		buf.WriteString("Processing complete!\n")
	}
	buf.WriteString(fmt.Sprintf("Final stats: %d successful, %d errors out of %d total words\n", report.Succeeded, report.Failed, report.Worklist))
	buf.WriteString(fmt.Sprintf("Total words now in target: %d\n", report.TotalInTarget()))

	if len(report.Failures) > 0 {
		divider := strings.Repeat("=", 30)
		buf.WriteString(fmt.Sprintf("\nFailed Words (%d):\n", len(report.Failures)))
		buf.WriteString(divider + "\n")
		for i, f := range report.Failures {
			buf.WriteString(fmt.Sprintf("%2d. %s\n", i+1, f.Word))
		}
		buf.WriteString(divider + "\n")
		buf.WriteString("You can manually retry these words later or check if they have typos.\n")
	} else if report.Worklist > 0 && !report.Canceled {
		buf.WriteString("All words processed successfully!\n")
	}

	if targetURL != "" {
		buf.WriteString(fmt.Sprintf("Check your target sheet: %s\n", targetURL))
	}

	return buf.Bytes(), nil
}

// ReportToMarkdown renders the report as a Markdown document with a failed words table.
func ReportToMarkdown(report *models.RunReport, targetURL string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Vocabulary Sync Report\n\n")
	if report.RunID != "" {
		buf.WriteString(fmt.Sprintf("**Run**: `%s`\n", report.RunID))
	}
	if !report.StartedAt.IsZero() {
		buf.WriteString(fmt.Sprintf("**Started**: %s\n", report.StartedAt.Format("2006-01-02 15:04:05")))
	}
	if d := report.Duration(); d > 0 {
		buf.WriteString(fmt.Sprintf("**Duration**: %s\n", shared.FormatDuration(d)))
	}
	if targetURL != "" {
		buf.WriteString(fmt.Sprintf("**Target**: <%s>\n", targetURL))
	}
	buf.WriteString("\n")

	buf.WriteString("| Metric | Count |\n|---|---|\n")
	rows := []struct {
		label string
		value int
	}{
		{"Candidates", report.Candidates},
		{"Already in target", report.Existing},
		{"New words", report.Worklist},
		{"Processed", report.Processed},
		{"Successful", report.Succeeded},
		{"Errors", report.Failed},
		{"Total in target", report.TotalInTarget()},
	}
	for _, r := range rows {
		buf.WriteString(fmt.Sprintf("| %s | %d |\n", r.label, r.value))
	}

	if len(report.Failures) > 0 {
		buf.WriteString(fmt.Sprintf("\n## Failed Words (%d)\n\n", len(report.Failures)))
		buf.WriteString("| # | Word | Reason |\n|---|---|---|\n")
		for i, f := range report.Failures {
			buf.WriteString(fmt.Sprintf("| %d | %s | %s |\n", i+1, escapeMarkdownCell(f.Word), f.Reason))
		}
	}

	return buf.Bytes(), nil
}

// ReportToCSV lists failed words with columns: Position, Word, Reason, Detail
func ReportToCSV(report *models.RunReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Word", "Reason", "Detail"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, f := range report.Failures {
		record := []string{strconv.Itoa(f.Position), f.Word, f.Reason, f.Detail}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

type reportJSON struct {
	*models.RunReport
	TotalInTarget int    `json:"total_in_target"`
	TargetURL     string `json:"target_url,omitempty"`
}

// ReportToJSON renders the report as indented JSON.
func ReportToJSON(report *models.RunReport, targetURL string) ([]byte, error) {
	return shared.MarshalJSON(reportJSON{RunReport: report, TotalInTarget: report.TotalInTarget(), TargetURL: targetURL}, true)
}

// WriteReport renders the report and writes it to path.
func WriteReport(report *models.RunReport, format Format, path, targetURL string) error {
	data, err := Render(report, format, targetURL)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

// RecordToText renders a single dictionary record for the lookup command.
func RecordToText(rec *models.Record) string {
	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("%s (%s)\n", rec.Word, orDash(rec.PartOfSpeech)))
	buf.WriteString(fmt.Sprintf("  meaning:      %s\n", orDash(rec.Meaning)))
	buf.WriteString(fmt.Sprintf("  example:      %s\n", orDash(rec.Example)))
	buf.WriteString(fmt.Sprintf("  similar word: %s\n", orDash(rec.Synonyms)))
	return buf.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func escapeMarkdownCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
