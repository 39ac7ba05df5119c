package rewrite

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"

	"go.uber.org/multierr"

	"github.com/wippyai/loom/errors"
)

// param is one procedure parameter: a named view into the external context.
type param struct {
	typ  ast.Expr
	name string
}

// procedure is one marked function declaration and, after transform, its
// generated artifacts.
type procedure struct {
	decl        *ast.FuncDecl
	generated   *ast.FuncDecl
	name        string
	identity    string
	params      []param
	suspensions int
}

// collectProcs finds every directive-marked function in the file and
// validates its signature. All rejections in the file are reported together.
func collectProcs(fset *token.FileSet, f *ast.File) ([]*procedure, error) {
	var procs []*procedure
	var errs error

	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || !hasDirective(fn) {
			continue
		}
		p, err := newProcedure(fset, fn)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		procs = append(procs, p)
	}
	return procs, errs
}

func hasDirective(fn *ast.FuncDecl) bool {
	if fn.Doc == nil {
		return false
	}
	for _, c := range fn.Doc.List {
		if c.Text == Directive || strings.HasPrefix(c.Text, Directive+" ") {
			return true
		}
	}
	return false
}

func newProcedure(fset *token.FileSet, fn *ast.FuncDecl) (*procedure, error) {
	name := fn.Name.Name
	reject := func(format string, args ...any) error {
		detail := fmt.Sprintf(format, args...)
		return errors.InvalidProc(name, fmt.Sprintf("%s: %s", fset.Position(fn.Pos()), detail))
	}

	if fn.Recv != nil {
		return nil, reject("procedures cannot have a receiver")
	}
	if fn.Type.Results != nil && len(fn.Type.Results.List) > 0 {
		return nil, reject("procedures cannot return values")
	}
	if fn.Type.TypeParams != nil {
		return nil, reject("procedures cannot be generic")
	}
	if fn.Body == nil {
		return nil, reject("procedure has no body")
	}

	p := &procedure{decl: fn, name: name}
	if fn.Type.Params != nil {
		for _, field := range fn.Type.Params.List {
			if _, variadic := field.Type.(*ast.Ellipsis); variadic {
				return nil, reject("procedures cannot be variadic")
			}
			if len(field.Names) == 0 {
				return nil, reject("parameters must be named")
			}
			for _, ident := range field.Names {
				if ident.Name == "_" {
					return nil, reject("parameters must be simple name bindings")
				}
				p.params = append(p.params, param{name: ident.Name, typ: field.Type})
			}
		}
	}
	return p, nil
}

// helperNames derives the generated identifier names from the procedure
// name, preserving its exportedness.
func (p *procedure) helperNames() (idConst, register, body string) {
	title := strings.ToUpper(p.name[:1]) + p.name[1:]
	idConst = p.name + "ID"
	body = p.name + "LoomBody"
	if ast.IsExported(p.name) {
		register = "Register" + title
	} else {
		register = "register" + title
	}
	return idConst, register, body
}
