package audit

// Severity indicates how serious a finding is.
type Severity string

const (
	// SeverityError findings are fatal for the check that produced them.
	SeverityError Severity = "error"
	// SeverityWarning findings are reported but never abort a check.
	SeverityWarning Severity = "warning"
	// SeverityInfo findings record notable but acceptable conditions.
	SeverityInfo Severity = "info"
)

// Category groups related checks.
type Category string

const (
	CategoryParameters  Category = "parameters"
	CategoryStyle       Category = "style"
	CategoryChecksum    Category = "checksum"
	CategoryDeprecation Category = "deprecation"
	CategoryClasses     Category = "classes"
)

// Finding is a single audit result.
type Finding struct {
	// Check names the check that produced the finding.
	Check    string   `json:"check" yaml:"check"`
	Severity Severity `json:"severity" yaml:"severity"`
	Category Category `json:"category" yaml:"category"`
	// Subject is the qualified name of the callable or class examined.
	Subject string `json:"subject" yaml:"subject"`
	Message string `json:"message" yaml:"message"`
}

// Summary totals the findings of a run.
type Summary struct {
	Errors           int `json:"errors" yaml:"errors"`
	Warnings         int `json:"warnings" yaml:"warnings"`
	Infos            int `json:"infos" yaml:"infos"`
	CallablesChecked int `json:"callables_checked" yaml:"callables_checked"`
}

// Report is the full result of one audit run.
type Report struct {
	// ID identifies the run in logs and exported output.
	ID       string    `json:"id" yaml:"id"`
	Package  string    `json:"package" yaml:"package"`
	Findings []Finding `json:"findings" yaml:"findings"`
	Summary  Summary   `json:"summary" yaml:"summary"`
}

// Failed reports whether the run produced any fatal finding.
func (r *Report) Failed() bool {
	return r.Summary.Errors > 0
}

// FindingsBySeverity returns the findings matching a severity, in report
// order.
func (r *Report) FindingsBySeverity(sev Severity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}

func (r *Report) summarize() {
	r.Summary.Errors = 0
	r.Summary.Warnings = 0
	r.Summary.Infos = 0
	for _, f := range r.Findings {
		switch f.Severity {
		case SeverityError:
			r.Summary.Errors++
		case SeverityWarning:
			r.Summary.Warnings++
		case SeverityInfo:
			r.Summary.Infos++
		}
	}
}
