// Package audit implements the documentation auditor.
//
// # Overview
//
// The engine cross-references every callable in a library manifest against
// its structured docstring and runs three passes:
//
// Parameter docs: every formal parameter, every keyword name recovered from
// source text, and every registered attribute must be documented exactly once
// in the Parameters section. Variadic-positional callables are covered by a
// content checksum registry instead.
//
// Deprecations: formal deprecation directives must be backed by a runtime
// warning in the source, informal deprecation phrasing without the directive
// is rejected, and removed legacy names are asserted absent.
//
// Class docs: registry-driven consistency checks between primary data
// classes, their factory functions, and their ancestor chains.
//
// Findings are reported on three channels: fatal findings (SeverityError,
// which abort only the check for the entity being examined), non-fatal
// warnings, and a verbose trace emitted through the logger when the
// configured verbosity threshold is exceeded.
//
// # Usage Example
//
//	lib, _ := manifest.Load("control-manifest.yaml")
//	config, _ := audit.LoadConfig("docaudit.yaml")
//
//	engine := audit.New(lib, config, nil)
//	report := engine.Run()
//
//	for _, f := range report.Findings {
//		fmt.Printf("[%s] %s: %s\n", f.Severity, f.Subject, f.Message)
//	}
//	if report.Failed() {
//		os.Exit(1)
//	}
//
// # Related Packages
//
//   - pkg/manifest: The registry of auditable library members
//   - pkg/docstring: Section parsing and parameter lookup
package audit
