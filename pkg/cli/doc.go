// Package cli implements the docaudit command line interface: auditing a
// manifest against its configuration, listing the audit passes, and
// generating manifests from Go source trees. Reports can be emitted as text,
// JSON, GitHub Actions annotations, or SARIF.
package cli
