package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fiware-datamodels/dmv/internal/cli/output"
	"github.com/fiware-datamodels/dmv/pkg/report"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// kindPhrases are the lower case labels of the message kinds.
var kindPhrases = map[report.Kind]string{
	report.KindValidSchema:      "valid schemas",
	report.KindValidExample:     "valid examples",
	report.KindSupportedExample: "supported examples",
	report.KindWarning:          "warnings",
	report.KindError:            "errors",
}

func kindTitle(kind report.Kind) string {
	return cases.Title(language.English).String(kindPhrases[kind])
}

func summarize(rep *report.Report) output.ReportSummary {
	return output.ReportSummary{
		Models:            len(rep.Models()),
		ValidSchemas:      rep.Count(report.KindValidSchema),
		ValidExamples:     rep.Count(report.KindValidExample),
		SupportedExamples: rep.Count(report.KindSupportedExample),
		Warnings:          rep.Count(report.KindWarning),
		Errors:            rep.Count(report.KindError),
	}
}

func renderReport(r *output.Renderer, result *ScanResult) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return renderReportJSON(r, result)
	case output.ModeMarkdown:
		return renderReportMarkdown(r, result)
	default:
		return renderReportText(r, result)
	}
}

func renderReportText(r *output.Renderer, result *ScanResult) error {
	styles := r.Styles()
	rep := result.Report

	r.Println("")
	r.Println(styles.Header1.Render("Data model validation"))
	r.Println(styles.Muted.Render(result.Root))
	r.Println("")

	for _, kind := range report.Kinds() {
		m := rep.Map(kind)
		if len(m) == 0 {
			continue
		}
		r.Println(styles.Header2.Render(fmt.Sprintf("%s (%d)", kindTitle(kind), rep.Count(kind))))
		for _, model := range rep.Models() {
			msgs := m[model]
			if len(msgs) == 0 {
				continue
			}
			r.Println("  " + styles.ModelPath.Render(model))
			for _, msg := range msgs {
				r.Printf("    %s %s\n", kindIcon(styles, kind), msg)
			}
		}
		r.Println("")
	}

	sum := summarize(rep)
	r.Printf("Summary: %s, %s, %s\n",
		styles.Success.Render(fmt.Sprintf("%d valid schemas", sum.ValidSchemas)),
		styles.Warning.Render(fmt.Sprintf("%d warnings", sum.Warnings)),
		styles.Error.Render(fmt.Sprintf("%d errors", sum.Errors)),
	)
	if result.ScanID != "" {
		r.Println(styles.Muted.Render("Scan " + result.ScanID))
	}

	switch {
	case result.Err != nil:
		r.Println(styles.StatusFailed.String() + " " + styles.Error.Render("Aborted: "+result.Err.Error()))
	case rep.HasErrors():
		r.Println(styles.StatusFailed.String() + " " + styles.Error.Render("Validation failed"))
	default:
		r.Println(styles.StatusSuccess.String() + " " + styles.Success.Render("Validation passed"))
	}
	r.Println("")
	return nil
}

func kindIcon(styles *output.Styles, kind report.Kind) string {
	switch kind {
	case report.KindError:
		return styles.StatusFailed.String()
	case report.KindWarning:
		return styles.Warning.Render("!")
	default:
		return styles.StatusSuccess.String()
	}
}

func renderReportMarkdown(r *output.Renderer, result *ScanResult) error {
	rep := result.Report

	r.Println(output.FormatHeader(1, "Data model validation"))
	r.Println(output.FormatKeyValue("Root", output.FormatCode(result.Root)))
	r.Println(output.FormatKeyValue("Status", string(result.Status())))
	if result.ScanID != "" {
		r.Println(output.FormatKeyValue("Scan", output.FormatCode(result.ScanID)))
	}
	if result.Err != nil {
		r.Println(output.FormatKeyValue("Aborted", result.Err.Error()))
	}
	r.Println("")

	for _, kind := range report.Kinds() {
		m := rep.Map(kind)
		if len(m) == 0 {
			continue
		}
		r.Println(output.FormatHeader(2, kindTitle(kind)))
		for _, model := range rep.Models() {
			msgs := m[model]
			if len(msgs) == 0 {
				continue
			}
			r.Println(output.FormatHeader(3, model))
			for _, msg := range msgs {
				r.Println("- " + escapeMarkdown(msg))
			}
			r.Println("")
		}
	}

	sum := summarize(rep)
	r.Println(output.FormatHeader(2, "Summary"))
	r.Println(output.FormatKeyValue("Root Models", fmt.Sprintf("%d", sum.Models)))
	r.Println(output.FormatKeyValue("Valid Schemas", fmt.Sprintf("%d", sum.ValidSchemas)))
	r.Println(output.FormatKeyValue("Valid Examples", fmt.Sprintf("%d", sum.ValidExamples)))
	r.Println(output.FormatKeyValue("Supported Examples", fmt.Sprintf("%d", sum.SupportedExamples)))
	r.Println(output.FormatKeyValue("Warnings", fmt.Sprintf("%d", sum.Warnings)))
	r.Println(output.FormatKeyValue("Errors", fmt.Sprintf("%d", sum.Errors)))
	return nil
}

// escapeMarkdown keeps regular expressions in messages from being read as
// markdown emphasis.
func escapeMarkdown(s string) string {
	return strings.NewReplacer("*", `\*`, "_", `\_`).Replace(s)
}

func renderReportJSON(r *output.Renderer, result *ScanResult) error {
	rep := result.Report
	out := output.ReportOutput{
		ScanID:            result.ScanID,
		Root:              result.Root,
		Status:            string(result.Status()),
		Summary:           summarize(rep),
		ValidSchemas:      rep.ValidSchemas,
		ValidExamples:     rep.ValidExamples,
		SupportedExamples: rep.SupportedExamples,
		Warnings:          rep.Warnings,
		Errors:            rep.Errors,
	}
	if result.Err != nil {
		out.Aborted = result.Err.Error()
	}
	return r.JSON(out)
}

// statusStyle picks the style of a scan status.
func statusStyle(styles *output.Styles, status string) lipgloss.Style {
	switch status {
	case "passed":
		return styles.Success
	case "failed", "aborted":
		return styles.Error
	default:
		return styles.Muted
	}
}
