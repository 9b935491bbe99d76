package audit

import (
	"regexp"
	"sort"
)

// ScanKeywords recovers the keyword names a callable consumes from its
// variadic keyword argument by pattern-matching the source text for the three
// extraction idioms the audited library uses:
//
//   - direct access: kwargs['name'], kwargs.pop('name'), kwargs.get('name')
//   - config lookup: _get_param('module', 'name', kwargs, ...)
//   - legacy translation: _process_legacy_keyword(kwargs, 'old', 'name')
//
// The recovery is a heuristic over source text; callables whose source cannot
// be scanned declare their keywords explicitly on the manifest instead.
func ScanKeywords(argname, source string) []string {
	quoted := regexp.QuoteMeta(argname)

	directRe := regexp.MustCompile(quoted + `(\[|\.pop\(|\.get\()['"]([\w]+)['"]`)
	configRe := regexp.MustCompile(`_get_param\(\s*['"][\w.]*['"],\s*['"]([\w]+)['"],\s*` + quoted)
	legacyRe := regexp.MustCompile(`_process_legacy_keyword\(\s*` + quoted + `,\s*['"][\w]+['"],\s*['"]([\w]+)['"]`)

	set := make(map[string]bool)
	for _, m := range directRe.FindAllStringSubmatch(source, -1) {
		set[m[2]] = true
	}
	for _, m := range configRe.FindAllStringSubmatch(source, -1) {
		set[m[1]] = true
	}
	for _, m := range legacyRe.FindAllStringSubmatch(source, -1) {
		set[m[1]] = true
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
