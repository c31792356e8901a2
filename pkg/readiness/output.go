package readiness

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"sigs.k8s.io/yaml"

	"github.com/datapak-io/readiness-cli/pkg/constants"
	"github.com/datapak-io/readiness-cli/pkg/printer/table"
	"github.com/datapak-io/readiness-cli/pkg/readiness/check"
)

//nolint:gochecknoglobals
var (
	statusPass = color.New(color.FgGreen).Sprint(constants.VerdictLabelPass)
	statusWarn = color.New(color.FgYellow).Sprint(constants.VerdictLabelWarn)
	statusFail = color.New(color.FgRed).Sprint(constants.VerdictLabelFail)
	statusSkip = color.New(color.FgCyan).Sprint(constants.VerdictLabelSkip)

	tableHeaders = []string{"STATUS", "CHECK", "MESSAGE"}
)

func statusLabel(v check.Verdict) string {
	switch v {
	case check.VerdictPass:
		return statusPass
	case check.VerdictWarn:
		return statusWarn
	case check.VerdictFail:
		return statusFail
	case check.VerdictSkip:
		return statusSkip
	default:
		return v.String()
	}
}

// OutputTable renders the report as a table with a summary line.
func OutputTable(out io.Writer, report *check.Report) error {
	renderer := table.NewRenderer(
		table.WithWriter(out),
		table.WithHeaders(tableHeaders...),
	)

	for _, result := range report.Checks {
		if err := renderer.Append([]any{statusLabel(result.Verdict), result.Name, result.Message}); err != nil {
			return fmt.Errorf("appending table row: %w", err)
		}
	}

	if err := renderer.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintf(out, "Summary: %d passed | %d warned | %d failed | %d skipped\n",
		report.Summary.Pass, report.Summary.Warn, report.Summary.Fail, report.Summary.Skip)
	_, _ = fmt.Fprintf(out, "Overall: %s\n", statusLabel(report.Overall))

	return nil
}

// OutputJSON renders the report as indented JSON.
func OutputJSON(out io.Writer, report *check.Report) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("rendering JSON output: %w", err)
	}

	return nil
}

// OutputYAML renders the report as YAML.
func OutputYAML(out io.Writer, report *check.Report) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("rendering YAML output: %w", err)
	}

	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("writing YAML output: %w", err)
	}

	return nil
}
