package audit

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ctlsys/docaudit/pkg/docstring"
	"github.com/ctlsys/docaudit/pkg/manifest"
)

// checkClassDocs runs the registry-driven class and factory function
// documentation consistency checks.
func (e *Engine) checkClassDocs() {
	for _, entry := range e.config.Classes.Primary {
		e.checkPrimaryClass(entry)
		e.checkAttributeList(entry)
	}
	for _, name := range e.config.Classes.Containers {
		e.checkContainerClass(name)
	}
	for _, ic := range e.config.Classes.Intermediate {
		e.checkIntermediateClass(ic)
	}

	factories := make([]string, 0, len(e.config.Classes.FactoryArgs))
	for name := range e.config.Classes.FactoryArgs {
		factories = append(factories, name)
	}
	sort.Strings(factories)
	for _, name := range factories {
		e.checkFactoryFunction(name)
	}
}

// factoryRefRe matches the phrase a primary class docstring must use to
// reference its factory function, e.g. "created with the
// :func:`~control.ss` factory function".
func factoryRefRe(name string) *regexp.Regexp {
	return regexp.MustCompile(
		`(?s)created.*(with|by|using).*the\s*` +
			":func:`~[\\w.]*" + regexp.QuoteMeta(name) + "`" +
			`\s+factory\s+function`)
}

// funcRefRe matches a bare cross-reference to a function.
func funcRefRe(name string) *regexp.Regexp {
	return regexp.MustCompile(":func:`~[\\w.]*" + regexp.QuoteMeta(name) + "`")
}

// colonEntryRe matches a Parameters-style entry for a name anywhere in a
// docstring, used to detect documentation that belongs elsewhere.
func colonEntryRe(name string) *regexp.Regexp {
	return regexp.MustCompile(`\s+` + regexp.QuoteMeta(name) + `(, .*)*\s*:`)
}

// checkPrimaryClass verifies that a primary class docstring documents its
// minimal constructor arguments and attributes, references its factory
// function, and does not document factory-only arguments.
func (e *Engine) checkPrimaryClass(entry PrimaryClass) {
	const check = "primary-class-docs"

	cls, ok := e.lib.Class(entry.Class)
	if !ok {
		e.fail(check, CategoryClasses, entry.Class, "registered class not found in manifest")
		return
	}

	var names []string
	names = append(names, entry.Args...)
	names = append(names, e.config.Classes.StdAttributes...)
	names = append(names, entry.Attributes...)
	for _, name := range names {
		if _, fatal := e.checkParamEntry(check, entry.Class, name, cls.Doc, true); fatal {
			return
		}
	}

	if !factoryRefRe(entry.Factory).MatchString(cls.Doc) {
		e.fail(check, CategoryClasses, entry.Class,
			"does not reference factory function %s", entry.Factory)
		return
	}

	for _, arg := range e.config.Classes.FactoryArgs[entry.Factory] {
		if colonEntryRe(arg).MatchString(cls.Doc) {
			e.fail(check, CategoryClasses, entry.Class,
				"references factory function parameter '%s'", arg)
			return
		}
	}
}

// checkAttributeList verifies that every runtime-discovered attribute of a
// primary class is documented on the class or on an ancestor. Attributes
// found only on an ancestor outside the commonly-inherited allowlist get a
// warning.
func (e *Engine) checkAttributeList(entry PrimaryClass) {
	const check = "class-attributes"

	cls, ok := e.lib.Class(entry.Class)
	if !ok {
		return // already reported by checkPrimaryClass
	}

	allowed := make(map[string]bool)
	for _, name := range e.config.Classes.ParentAttributes {
		allowed[name] = true
	}
	for _, name := range e.config.Classes.FactoryArgs[entry.Factory] {
		allowed[name] = true
	}
	ignored := make(map[string]bool)
	for _, name := range entry.IgnoreAttributes {
		ignored[name] = true
	}

	ancestors := e.lib.Ancestors(cls)
	for _, attr := range cls.InstanceAttrs {
		if strings.HasPrefix(attr, "_") || ignored[attr] {
			continue
		}
		e.tracef(1, "checking attribute %s", attr)

		if e.docs.CheckParam(cls.Doc, attr).Documented() {
			continue
		}

		found := false
		for _, parent := range ancestors {
			if e.docs.CheckParam(parent.Doc, attr).Documented() {
				if !allowed[attr] {
					e.warn(check, CategoryClasses, entry.Class,
						"attribute '%s' only documented in parent class %s", attr, parent.Name)
				}
				found = true
				break
			}
		}
		if !found {
			e.fail(check, CategoryClasses, entry.Class, "attribute '%s' not documented", attr)
			return
		}
	}
}

// checkContainerClass verifies that a container base class documents every
// runtime-discovered attribute somewhere in its ancestor chain.
func (e *Engine) checkContainerClass(name string) {
	const check = "container-class-docs"

	cls, ok := e.lib.Class(name)
	if !ok {
		e.fail(check, CategoryClasses, name, "registered class not found in manifest")
		return
	}

	chain := append([]*manifest.Class{cls}, e.lib.Ancestors(cls)...)
	for _, attr := range cls.InstanceAttrs {
		if strings.HasPrefix(attr, "_") {
			continue
		}
		e.tracef(1, "checking attribute %s", attr)

		found := false
		for _, c := range chain {
			if e.docs.CheckParam(c.Doc, attr).Documented() {
				found = true
				break
			}
		}
		if !found {
			e.fail(check, CategoryClasses, name, "attribute '%s' not documented", attr)
			return
		}
	}
}

// checkIntermediateClass verifies that a composed-system wrapper class has no
// Parameters section (it is never constructed directly) and references its
// factory function.
func (e *Engine) checkIntermediateClass(ic IntermediateClass) {
	const check = "intermediate-class-docs"

	cls, ok := e.lib.Class(ic.Class)
	if !ok {
		e.fail(check, CategoryClasses, ic.Class, "registered class not found in manifest")
		return
	}

	if docstring.HasParametersSection(cls.Doc) {
		e.fail(check, CategoryClasses, ic.Class,
			"intermediate class docstring contains Parameters section")
		return
	}

	if !funcRefRe(ic.Factory).MatchString(cls.Doc) {
		e.fail(check, CategoryClasses, ic.Class,
			"does not reference factory function %s", ic.Factory)
	}
}

// checkFactoryFunction verifies that a factory function documents the union
// of its class's minimal arguments, the standard factory arguments, and its
// own arguments, and does not document class-only attributes.
func (e *Engine) checkFactoryFunction(name string) {
	const check = "factory-function-docs"

	fn, ok := e.lib.Function(name)
	if !ok {
		e.fail(check, CategoryClasses, name, "registered factory function not found in manifest")
		return
	}
	entry, ok := e.primaryFor(name)
	if !ok {
		e.fail(check, CategoryClasses, name, "no primary class registered for factory function")
		return
	}

	var names []string
	names = append(names, entry.Args...)
	names = append(names, e.config.Classes.StdFactoryArgs...)
	names = append(names, e.config.Classes.FactoryArgs[name]...)
	for _, arg := range names {
		if _, fatal := e.checkParamEntry(check, name, arg, fn.Doc, true); fatal {
			return
		}
	}

	stdFactory := make(map[string]bool)
	for _, arg := range e.config.Classes.StdFactoryArgs {
		stdFactory[arg] = true
	}

	var attrs []string
	attrs = append(attrs, e.config.Classes.StdAttributes...)
	attrs = append(attrs, entry.Attributes...)
	for _, attr := range attrs {
		if stdFactory[attr] {
			continue
		}
		if colonEntryRe(attr).MatchString(fn.Doc) {
			e.fail(check, CategoryClasses, name, "references class attribute '%s'", attr)
			return
		}
	}
}

// primaryFor finds the first primary class registered with the given factory
// function.
func (e *Engine) primaryFor(factory string) (PrimaryClass, bool) {
	for _, entry := range e.config.Classes.Primary {
		if entry.Factory == factory {
			return entry, true
		}
	}
	return PrimaryClass{}, false
}
