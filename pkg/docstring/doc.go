// Package docstring parses the structured docstring convention used by the
// audited library: a Parameters section of "name : type" entries, followed by
// Returns and Other Parameters sections, with deprecation notices expressed
// as ".. deprecated::" directives.
//
// The parsing here is deliberately textual. The checks the audit engine runs
// are defined in terms of line patterns, so the package exposes the pattern
// matching directly (CheckParam, ReturnEntries, deprecation markers) rather
// than a full document model.
package docstring
