package gosource

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/doc"
	"go/parser"
	"go/printer"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/ctlsys/docaudit/pkg/manifest"
)

// Load builds a library manifest from a Go source tree. The root directory
// becomes the library's root module and every subdirectory containing Go
// files becomes a submodule with a dotted prefix. Only exported declarations
// are recorded; doc comments stand in for docstrings and the printed
// declaration stands in for source text.
func Load(root, pkgName string) (*manifest.Library, error) {
	if pkgName == "" {
		pkgName = filepath.Base(root)
	}

	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
			name == "vendor" || name == "testdata") {
			return filepath.SkipDir
		}
		if hasGoFiles(path) {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	sort.Strings(dirs)

	lib := &manifest.Library{Package: pkgName}
	for _, dir := range dirs {
		mod, err := loadDir(dir, root, pkgName)
		if err != nil {
			return nil, err
		}
		if mod != nil {
			lib.Modules = append(lib.Modules, mod)
		}
	}
	if err := lib.Validate(); err != nil {
		return nil, err
	}
	return lib, nil
}

func hasGoFiles(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go") {
			return true
		}
	}
	return false
}

func loadDir(dir, root, pkgName string) (*manifest.Module, error) {
	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, dir, func(fi os.FileInfo) bool {
		return !strings.HasSuffix(fi.Name(), "_test.go")
	}, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", dir, err)
	}

	modName, prefix := moduleName(dir, root, pkgName)

	for name, astPkg := range pkgs {
		if strings.HasSuffix(name, "_test") {
			continue
		}
		docPkg := doc.New(astPkg, modName, 0)
		mod := &manifest.Module{Name: modName, Prefix: prefix}

		for _, fn := range docPkg.Funcs {
			if !exported(fn.Name) {
				continue
			}
			mod.Functions = append(mod.Functions, callableFrom(fset, modName, fn))
		}
		for _, t := range docPkg.Types {
			if !exported(t.Name) {
				continue
			}
			cls := &manifest.Class{
				Name:   t.Name,
				Module: modName,
				Doc:    strings.TrimSpace(t.Doc),
			}
			fillTypeInfo(cls, t)
			for _, m := range t.Methods {
				if !exported(m.Name) {
					continue
				}
				cls.Methods = append(cls.Methods, callableFrom(fset, modName, m))
			}
			// Constructors are grouped under their type by go/doc but remain
			// module-level callables for auditing.
			for _, fn := range t.Funcs {
				if !exported(fn.Name) {
					continue
				}
				mod.Functions = append(mod.Functions, callableFrom(fset, modName, fn))
			}
			mod.Classes = append(mod.Classes, cls)
		}

		if len(mod.Functions) == 0 && len(mod.Classes) == 0 {
			return nil, nil
		}
		return mod, nil
	}
	return nil, nil
}

func moduleName(dir, root, pkgName string) (name, prefix string) {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		return pkgName, ""
	}
	dotted := strings.ReplaceAll(filepath.ToSlash(rel), "/", ".")
	return pkgName + "." + dotted, dotted + "."
}

func exported(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}

func callableFrom(fset *token.FileSet, modName string, fn *doc.Func) *manifest.Callable {
	c := &manifest.Callable{
		Name:   fn.Name,
		Module: modName,
		Doc:    strings.TrimSpace(fn.Doc),
		Source: render(fset, fn.Decl),
	}
	if fn.Decl.Type.Params != nil {
		for _, field := range fn.Decl.Type.Params.List {
			kind := manifest.KindPositional
			if _, variadic := field.Type.(*ast.Ellipsis); variadic {
				kind = manifest.KindVarPositional
			}
			if len(field.Names) == 0 {
				continue
			}
			for _, name := range field.Names {
				if name.Name == "_" {
					continue
				}
				c.Params = append(c.Params, manifest.Param{Name: name.Name, Kind: kind})
			}
		}
	}
	return c
}

func fillTypeInfo(cls *manifest.Class, t *doc.Type) {
	for _, spec := range t.Decl.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		st, ok := ts.Type.(*ast.StructType)
		if !ok || st.Fields == nil {
			continue
		}
		for _, field := range st.Fields.List {
			if len(field.Names) == 0 {
				// Embedded type: an ancestor in the attribute lookup chain.
				if name := embeddedName(field.Type); name != "" && exported(name) {
					cls.Bases = append(cls.Bases, name)
				}
				continue
			}
			for _, name := range field.Names {
				if exported(name.Name) {
					cls.InstanceAttrs = append(cls.InstanceAttrs, name.Name)
				}
			}
		}
	}
}

func embeddedName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return embeddedName(t.X)
	case *ast.SelectorExpr:
		// Embedded type from another package; outside the audited library.
		return ""
	}
	return ""
}

func render(fset *token.FileSet, node interface{}) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, node); err != nil {
		return ""
	}
	return buf.String()
}
