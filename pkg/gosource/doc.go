// Package gosource generates library manifests from Go source trees, the
// platform's equivalent of compiling the audit registry from a language's own
// reflection facility. Exported functions and types become auditable
// callables and classes; variadic parameters map to the var-positional kind
// and embedded structs form the ancestor chain.
package gosource
