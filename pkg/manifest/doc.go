// Package manifest defines the static registry of auditable library members.
//
// # Overview
//
// A manifest is a snapshot of a library's public namespace: every module, the
// functions and classes it exports, each callable's formal signature, its
// docstring, and its source text. The audit engine traverses this registry
// instead of introspecting a live runtime, so the same checks can be driven
// from a YAML file or from a generated snapshot.
//
// # Usage Example
//
// Load a manifest and look up a class:
//
//	lib, err := manifest.Load("control-manifest.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	cls, ok := lib.Class("StateSpace")
//	if ok {
//		fmt.Printf("%s has %d methods\n", cls.Name, len(cls.Methods))
//	}
//
// # Related Packages
//
//   - pkg/audit: Traverses the manifest and reports findings
//   - pkg/gosource: Generates manifests from Go source trees
package manifest
