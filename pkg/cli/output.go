package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ctlsys/docaudit/pkg/audit"
)

func outputText(report *audit.Report, verbose bool) {
	for _, f := range report.Findings {
		fmt.Printf("  %s: [%s] %s (%s)\n", f.Subject, f.Severity, f.Message, f.Check)
	}

	fmt.Printf("\n")
	fmt.Printf("Summary:\n")
	fmt.Printf("  Callables checked: %d\n", report.Summary.CallablesChecked)
	fmt.Printf("  Errors:            %d\n", report.Summary.Errors)
	fmt.Printf("  Warnings:          %d\n", report.Summary.Warnings)

	if len(report.Findings) == 0 {
		fmt.Println("\n✓ Documentation is consistent")
	}
}

func outputJSON(report *audit.Report) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func outputGitHub(report *audit.Report) {
	// GitHub Actions annotation format:
	// ::error file={name},line={line},col={col}::{message}
	for _, f := range report.Findings {
		level := "error"
		switch f.Severity {
		case audit.SeverityWarning:
			level = "warning"
		case audit.SeverityInfo:
			level = "notice"
		}
		fmt.Printf("::%s title=%s::%s: %s\n", level, f.Check, f.Subject, f.Message)
	}
}

// SARIF structs (abridged)
type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
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
	Name    string `json:"name"`
	Version string `json:"version"`
}
type sarifResult struct {
	RuleID  string       `json:"ruleId"`
	Level   string       `json:"level"`
	Message sarifMessage `json:"message"`
}
type sarifMessage struct {
	Text string `json:"text"`
}

func outputSARIF(report *audit.Report) error {
	results := make([]sarifResult, 0, len(report.Findings))
	for _, f := range report.Findings {
		level := "error"
		switch f.Severity {
		case audit.SeverityWarning:
			level = "warning"
		case audit.SeverityInfo:
			level = "note"
		}
		results = append(results, sarifResult{
			RuleID: f.Check,
			Level:  level,
			Message: sarifMessage{
				Text: fmt.Sprintf("%s: %s", f.Subject, f.Message),
			},
		})
	}

	log := sarifLog{
		Version: "2.1.0",
		Schema:  "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json",
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    "docaudit",
						Version: "0.1.0",
					},
				},
				Results: results,
			},
		},
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(log)
}
