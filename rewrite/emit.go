package rewrite

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/printer"
	"go/token"
	"reflect"
	"strconv"
	"strings"

	"github.com/wippyai/loom/errors"
)

// emit assembles the generated sibling file: header, pruned imports, and per
// procedure the identity constant, registration helper and transformed body.
func emit(fset *token.FileSet, f *ast.File, markerPath string, procs []*procedure) ([]byte, error) {
	used := usedPackages(procs)

	type importLine struct {
		alias string
		path  string
	}
	var imports []importLine
	seen := map[string]bool{}

	for _, imp := range f.Imports {
		p, _ := strconv.Unquote(imp.Path.Value)
		if p == markerPath {
			// The marker import exists only to be rewritten away.
			continue
		}
		alias := ""
		local := pathLocalName(p)
		if imp.Name != nil {
			if imp.Name.Name == "_" || imp.Name.Name == "." {
				continue
			}
			alias = imp.Name.Name
			local = alias
		}
		if !used[local] || seen[p] {
			continue
		}
		seen[p] = true
		imports = append(imports, importLine{alias: alias, path: p})
	}
	for _, p := range []string{markerPath + "/sched", markerPath + "/task"} {
		if !seen[p] {
			seen[p] = true
			imports = append(imports, importLine{path: p})
		}
	}

	var buf bytes.Buffer
	buf.WriteString("// Code generated by loomgen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", f.Name.Name)

	buf.WriteString("import (\n")
	for _, imp := range imports {
		if imp.alias != "" {
			fmt.Fprintf(&buf, "\t%s %q\n", imp.alias, imp.path)
		} else {
			fmt.Fprintf(&buf, "\t%q\n", imp.path)
		}
	}
	buf.WriteString(")\n\n")

	for _, p := range procs {
		idConst, register, bodyName := p.helperNames()
		scrubPositions(p.generated)

		fmt.Fprintf(&buf, "// %s is the task identity of %s.\nconst %s = %q\n\n",
			idConst, p.name, idConst, p.identity)
		fmt.Fprintf(&buf, "// %s registers %s with a registry.\nfunc %s(r *sched.Registry) {\n\tr.Register(%s, %s)\n}\n\n",
			register, p.name, register, idConst, bodyName)

		if err := printer.Fprint(&buf, fset, p.generated); err != nil {
			return nil, errors.Wrap(errors.PhaseTransform, errors.KindInvalidInput, err, "print "+p.name)
		}
		buf.WriteString("\n\n")
	}

	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.Wrap(errors.PhaseTransform, errors.KindInvalidInput, err, "format output")
	}
	return out, nil
}

// usedPackages collects every identifier used as a selector base in the
// generated declarations. Imports whose local name never appears are pruned;
// sched and task are always needed by the generated helpers.
func usedPackages(procs []*procedure) map[string]bool {
	used := map[string]bool{"sched": true, "task": true}
	for _, p := range procs {
		ast.Inspect(p.generated, func(n ast.Node) bool {
			if sel, ok := n.(*ast.SelectorExpr); ok {
				if id, ok := sel.X.(*ast.Ident); ok {
					used[id.Name] = true
				}
			}
			return true
		})
	}
	return used
}

var posType = reflect.TypeOf(token.NoPos)

// scrubPositions zeroes every token.Pos reachable from node. Statements
// lifted out of the parsed file keep their original offsets, and printing a
// tree that mixes real and zero positions produces erratic line breaks;
// with all positions cleared the printer falls back to canonical layout.
func scrubPositions(node ast.Node) {
	scrubValue(reflect.ValueOf(node))
}

func scrubValue(v reflect.Value) {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if !v.IsNil() {
			scrubValue(v.Elem())
		}
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			scrubValue(v.Index(i))
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			f := v.Field(i)
			if f.Type() == posType {
				f.SetInt(0)
				continue
			}
			scrubValue(f)
		}
	}
}

// pathLocalName guesses the package name an unaliased import is referred to
// by: the last path element, minus a major-version element and any dotted
// suffix ("gopkg.in/yaml.v3" is yaml, "example.com/mod/v2" is mod).
func pathLocalName(importPath string) string {
	parts := strings.Split(importPath, "/")
	base := parts[len(parts)-1]
	if len(parts) > 1 && isVersionElement(base) {
		base = parts[len(parts)-2]
	}
	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base
}

func isVersionElement(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, c := range s[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
