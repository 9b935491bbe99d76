package audit

import (
	"regexp"
	"strings"

	"github.com/ctlsys/docaudit/pkg/docstring"
	"github.com/ctlsys/docaudit/pkg/manifest"
)

const checkNameDeprecations = "deprecations"

// checkDeprecations is the second traversal: every discovered callable's
// deprecation notice, runtime warning, and informal phrasing must agree, and
// removed legacy names must stay gone.
func (e *Engine) checkDeprecations() {
	warnRe, err := regexp.Compile(e.config.Deprecation.WarningPattern)
	if err != nil {
		e.fail(checkNameDeprecations, CategoryDeprecation, "config",
			"invalid deprecation warning pattern %q: %v", e.config.Deprecation.WarningPattern, err)
		return
	}

	removed := make(map[string]bool)
	for _, name := range e.config.Deprecation.RemovedNames {
		removed[name] = true
	}

	checked := make(map[string]bool)
	for _, mod := range e.lib.Modules {
		for _, m := range mod.SortedMembers() {
			if m.Class != nil {
				if !e.lib.InPackage(m.Class.Module) {
					continue
				}
				for _, fn := range m.Class.SortedMethods() {
					e.checkDeprecatedCallable(mod.Prefix+m.Name+".", fn, warnRe, removed, checked)
				}
				continue
			}

			fn := m.Function
			if !e.lib.InPackage(fn.Module) {
				continue
			}
			if mod.Prefix != "" && fn.Module != mod.Name {
				continue
			}
			e.checkDeprecatedCallable(mod.Prefix, fn, warnRe, removed, checked)
		}
	}
}

func (e *Engine) checkDeprecatedCallable(
	prefix string, fn *manifest.Callable,
	warnRe *regexp.Regexp, removed, checked map[string]bool,
) {
	qualname := prefix + fn.Name

	if removed[fn.Name] {
		e.fail(checkNameDeprecations, CategoryDeprecation, qualname,
			"legacy name '%s' still present", fn.Name)
		return
	}

	if strings.HasPrefix(fn.Name, "_") {
		return
	}
	id := fn.Module + "." + fn.Name
	if checked[id] {
		return
	}
	checked[id] = true

	if fn.Doc == "" {
		e.warn(checkNameDeprecations, CategoryDeprecation, qualname, "missing docstring")
		return
	}

	if docstring.HasFormalDeprecation(fn.Doc) {
		if !warnRe.MatchString(fn.Source) {
			e.fail(checkNameDeprecations, CategoryDeprecation, qualname,
				"deprecated but does not issue %s", e.config.Deprecation.WarningPattern)
		}
		return
	}

	if docstring.MentionsDeprecated(fn.Doc, fn.Name) || docstring.MentionsDeprecated(fn.Source, fn.Name) {
		e.fail(checkNameDeprecations, CategoryDeprecation, qualname,
			"deprecated but with non-standard docs/warnings")
	}
}
