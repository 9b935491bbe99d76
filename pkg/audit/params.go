package audit

import (
	"sort"
	"strings"

	"github.com/ctlsys/docaudit/pkg/docstring"
	"github.com/ctlsys/docaudit/pkg/manifest"
)

const checkNameParams = "parameter-docs"

// checkParameterDocs walks every module, validating each discovered callable's
// signature against its docstring. A callable reachable under multiple
// aliases is validated once per run.
func (e *Engine) checkParameterDocs() {
	e.checked = make(map[string]bool)

	for _, mod := range e.lib.Modules {
		e.tracef(0, "checking module %s", mod.Name)
		e.walkParams(mod)
	}
}

func (e *Engine) walkParams(mod *manifest.Module) {
	for _, m := range mod.SortedMembers() {
		e.tracef(4, "checking object %s", m.Name)

		if m.Class != nil {
			if !e.lib.InPackage(m.Class.Module) {
				continue
			}
			e.tracef(1, "checking class %s", m.Name)
			e.walkClassParams(m.Class, mod.Prefix+m.Name+".")
			continue
		}

		fn := m.Function
		if !e.lib.InPackage(fn.Module) {
			continue
		}
		// Functions re-exported into a non-root module without a Parameters
		// section have nothing checkable here.
		if mod.Prefix != "" && fn.Module != mod.Name && !docstring.HasParametersSection(fn.Doc) {
			e.tracef(2, "skipping %s%s", mod.Prefix, fn.Name)
			continue
		}
		e.checkCallable(mod.Prefix, fn)
	}
}

func (e *Engine) walkClassParams(cls *manifest.Class, prefix string) {
	for _, fn := range cls.SortedMethods() {
		if !e.lib.InPackage(fn.Module) {
			continue
		}
		// Methods without a Parameters section are documented inline or not
		// at all; only structured docstrings are checkable.
		if !docstring.HasParametersSection(fn.Doc) {
			e.tracef(2, "skipping %s%s", prefix, fn.Name)
			continue
		}
		e.checkCallable(prefix, fn)
	}
}

// checkCallable validates a single callable. A fatal finding aborts the
// remaining validation of this callable only; the traversal continues.
func (e *Engine) checkCallable(prefix string, fn *manifest.Callable) {
	qualname := prefix + fn.Name

	if strings.HasPrefix(fn.Name, "_") || e.config.SkippedFunction(qualname) {
		return
	}
	id := fn.Module + "." + fn.Name
	if e.checked[id] {
		return
	}
	e.checked[id] = true

	e.tracef(2, "checking function %s", fn.Name)
	if fn.Doc == "" {
		e.warn(checkNameParams, CategoryParameters, qualname, "missing docstring")
		return
	}
	doc, source := fn.Doc, fn.Source

	// Deprecated callables are handled by the deprecation pass.
	if docstring.HasFormalDeprecation(doc) {
		e.tracef(2, "  [deprecated]")
		return
	}
	if docstring.MentionsDeprecated(doc, fn.Name) || strings.Contains(doc, "function is deprecated") {
		e.tracef(2, "  [deprecated, non-conformant notice]")
		e.warn(checkNameParams, CategoryDeprecation, qualname,
			"deprecated, but docstring notice is not in conformant style")
		return
	}
	if docstring.MentionsDeprecated(source, fn.Name) {
		e.warn(checkNameParams, CategoryDeprecation, qualname,
			"deprecated in source, but not documented as deprecated")
		return
	}

	e.report.Summary.CallablesChecked++

	for _, par := range fn.Params {
		if par.Name == "self" || strings.HasPrefix(par.Name, "_") ||
			e.config.SkippedKeyword(qualname, par.Name) {
			continue
		}

		switch par.Kind {
		case manifest.KindVarPositional:
			if want, ok := e.config.DocstringHashes[qualname]; ok {
				got := contentHash(doc, source)
				if want != got {
					e.fail("docstring-checksum", CategoryChecksum, qualname,
						"source/docstring modified; recheck docstring and update registered hash to %s", got)
					return
				}
				continue
			}
			// Variadic positional documentation is too free-form to verify;
			// require at least the literal marker.
			if !strings.Contains(doc, "*"+par.Name) {
				e.warn(checkNameParams, CategoryParameters, qualname,
					"'%s' takes variadic positional arguments; docstring not checked", par.Name)
			}

		case manifest.KindVarKeyword:
			for _, kw := range e.recoverKeywords(fn, par.Name) {
				if e.config.SkippedKeyword(qualname, kw) {
					continue
				}
				e.tracef(3, "checking keyword argument %s", kw)
				if _, fatal := e.checkParamEntry(checkNameParams, qualname, kw, doc, true); fatal {
					return
				}
			}

		default:
			e.tracef(3, "    checking argument %s", par.Name)
			if _, fatal := e.checkParamEntry(checkNameParams, qualname, par.Name, doc, true); fatal {
				return
			}
		}
	}

	// Documented return values written as "name: type" parse as a bare type
	// with the name embedded in it.
	for _, entry := range docstring.ReturnEntries(doc) {
		if name := entry.EmbeddedName(); name != "" {
			e.warn(checkNameParams, CategoryStyle, qualname,
				"return value '%s' docstring missing space", name)
		}
	}
}

// recoverKeywords unions the keyword names scraped from the callable's source
// text with the names it declares explicitly.
func (e *Engine) recoverKeywords(fn *manifest.Callable, argname string) []string {
	set := make(map[string]bool)
	for _, kw := range ScanKeywords(argname, fn.Source) {
		e.tracef(2, "found keyword argument %s", kw)
		set[kw] = true
	}
	for _, kw := range fn.ExtraKeywords {
		set[kw] = true
	}

	names := make([]string, 0, len(set))
	for kw := range set {
		names = append(names, kw)
	}
	sort.Strings(names)
	return names
}
