package manifest

import (
	"fmt"
	"sort"
	"strings"
)

// ParamKind classifies a formal parameter of a callable.
type ParamKind string

const (
	KindPositional    ParamKind = "positional"
	KindKeyword       ParamKind = "keyword"
	KindVarPositional ParamKind = "var-positional"
	KindVarKeyword    ParamKind = "var-keyword"
)

// Param is a single formal parameter in a callable's signature.
type Param struct {
	Name string    `yaml:"name" json:"name"`
	Kind ParamKind `yaml:"kind" json:"kind"`
}

// Callable describes a function or method discovered in the audited library:
// its signature, its docstring, and the source text it was defined with.
type Callable struct {
	Name string `yaml:"name" json:"name"`
	// Module is the defining module path (e.g. "control.statesp"), which may
	// differ from the module the callable is exported from.
	Module string  `yaml:"module" json:"module"`
	Doc    string  `yaml:"doc" json:"doc"`
	Source string  `yaml:"source" json:"source"`
	Params []Param `yaml:"params" json:"params"`
	// ExtraKeywords declares keyword names consumed dynamically at runtime,
	// for callables whose source text cannot be scanned for keyword access
	// idioms. Names listed here are validated against the docstring the same
	// way scanned names are.
	ExtraKeywords []string `yaml:"extra_keywords,omitempty" json:"extra_keywords,omitempty"`
}

// Class describes a class in the audited library, including the ancestor
// chain used for attribute documentation lookups.
type Class struct {
	Name   string `yaml:"name" json:"name"`
	Module string `yaml:"module" json:"module"`
	Doc    string `yaml:"doc" json:"doc"`
	// Bases lists ancestor class names in method-resolution order, nearest
	// ancestor first. Each name must resolve to another class in the library.
	Bases []string `yaml:"bases,omitempty" json:"bases,omitempty"`
	// InstanceAttrs lists the attribute names discovered by inspecting a live
	// constructed instance of the class.
	InstanceAttrs []string    `yaml:"instance_attributes,omitempty" json:"instance_attributes,omitempty"`
	Methods       []*Callable `yaml:"methods,omitempty" json:"methods,omitempty"`
}

// Module is one auditable namespace of the library.
type Module struct {
	Name string `yaml:"name" json:"name"`
	// Prefix is prepended to member names when reporting (e.g. "optimal.").
	// The root module uses an empty prefix.
	Prefix    string      `yaml:"prefix" json:"prefix"`
	Functions []*Callable `yaml:"functions,omitempty" json:"functions,omitempty"`
	Classes   []*Class    `yaml:"classes,omitempty" json:"classes,omitempty"`
}

// Library is the full manifest of the audited library: a static registry of
// every public module, class, and function, standing in for runtime namespace
// introspection.
type Library struct {
	// Package is the root package name; members defined outside it are
	// skipped during traversal.
	Package string    `yaml:"package" json:"package"`
	Modules []*Module `yaml:"modules" json:"modules"`
}

// Validate checks internal consistency of the manifest: member names must be
// unique within a module, parameter kinds must be known, and every base class
// reference must resolve.
func (l *Library) Validate() error {
	if l.Package == "" {
		return fmt.Errorf("manifest: package name is required")
	}
	classes := l.classIndex()
	for _, mod := range l.Modules {
		seen := make(map[string]bool)
		for _, fn := range mod.Functions {
			if seen[fn.Name] {
				return fmt.Errorf("manifest: module %s: duplicate member %s", mod.Name, fn.Name)
			}
			seen[fn.Name] = true
			if err := validateParams(mod.Name, fn); err != nil {
				return err
			}
		}
		for _, cls := range mod.Classes {
			if seen[cls.Name] {
				return fmt.Errorf("manifest: module %s: duplicate member %s", mod.Name, cls.Name)
			}
			seen[cls.Name] = true
			for _, base := range cls.Bases {
				if _, ok := classes[base]; !ok {
					return fmt.Errorf("manifest: class %s: unknown base class %s", cls.Name, base)
				}
			}
			for _, m := range cls.Methods {
				if err := validateParams(mod.Name+"."+cls.Name, m); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func validateParams(scope string, fn *Callable) error {
	for _, p := range fn.Params {
		switch p.Kind {
		case KindPositional, KindKeyword, KindVarPositional, KindVarKeyword, "":
		default:
			return fmt.Errorf("manifest: %s.%s: unknown parameter kind %q for %q",
				scope, fn.Name, p.Kind, p.Name)
		}
	}
	return nil
}

// Class finds a class by name anywhere in the library.
func (l *Library) Class(name string) (*Class, bool) {
	cls, ok := l.classIndex()[name]
	return cls, ok
}

// Function finds a module-level function by name anywhere in the library.
func (l *Library) Function(name string) (*Callable, bool) {
	for _, mod := range l.Modules {
		for _, fn := range mod.Functions {
			if fn.Name == name {
				return fn, true
			}
		}
	}
	return nil, false
}

// Ancestors resolves a class's base-class names to class records, preserving
// method-resolution order. Unresolvable names are skipped; Validate reports
// them up front.
func (l *Library) Ancestors(cls *Class) []*Class {
	index := l.classIndex()
	chain := make([]*Class, 0, len(cls.Bases))
	for _, name := range cls.Bases {
		if base, ok := index[name]; ok {
			chain = append(chain, base)
		}
	}
	return chain
}

// InPackage reports whether a defining module path belongs to the audited
// package.
func (l *Library) InPackage(module string) bool {
	return module == l.Package || strings.HasPrefix(module, l.Package+".")
}

func (l *Library) classIndex() map[string]*Class {
	index := make(map[string]*Class)
	for _, mod := range l.Modules {
		for _, cls := range mod.Classes {
			index[cls.Name] = cls
		}
	}
	return index
}

// Member is a single entry in a module's sorted member listing.
type Member struct {
	Name     string
	Function *Callable
	Class    *Class
}

// SortedMembers returns a module's functions and classes merged into a single
// list ordered by name, the order namespace enumeration reports members in.
func (m *Module) SortedMembers() []Member {
	members := make([]Member, 0, len(m.Functions)+len(m.Classes))
	for _, fn := range m.Functions {
		members = append(members, Member{Name: fn.Name, Function: fn})
	}
	for _, cls := range m.Classes {
		members = append(members, Member{Name: cls.Name, Class: cls})
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return members
}

// SortedMethods returns a class's methods ordered by name.
func (c *Class) SortedMethods() []*Callable {
	methods := make([]*Callable, len(c.Methods))
	copy(methods, c.Methods)
	sort.Slice(methods, func(i, j int) bool { return methods[i].Name < methods[j].Name })
	return methods
}
