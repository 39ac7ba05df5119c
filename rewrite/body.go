package rewrite

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"

	"github.com/wippyai/loom/errors"
)

// Generated identifier names. Double underscores keep them out of the way of
// user bindings, mirroring what the procedure body could not legally declare
// anyway.
const (
	inName    = "__in"
	yieldName = "__y"
)

// transform rewrites the procedure body into a coroutine body function:
// a prologue deriving one view per parameter, then the original statements
// with every suspension expression spliced into a yield/resume boundary
// followed by view rebinds.
func (p *procedure) transform(fset *token.FileSet, marker, namespace string) error {
	p.identity = namespace + "::" + p.name

	t := &transformer{fset: fset, marker: marker, proc: p}
	stmts, err := t.stmts(p.decl.Body.List)
	if err != nil {
		return err
	}

	_, _, bodyName := p.helperNames()
	p.generated = &ast.FuncDecl{
		Name: ast.NewIdent(bodyName),
		Type: &ast.FuncType{
			Params: &ast.FieldList{List: []*ast.Field{
				{
					Names: []*ast.Ident{ast.NewIdent(yieldName)},
					Type:  &ast.StarExpr{X: taskSel("Yielder")},
				},
				{
					Names: []*ast.Ident{ast.NewIdent(inName)},
					Type:  taskSel("Input"),
				},
			}},
		},
		Body: &ast.BlockStmt{List: append(p.prologue(), stmts...)},
	}
	p.suspensions = t.count
	return nil
}

type transformer struct {
	fset   *token.FileSet
	proc   *procedure
	marker string
	count  int
}

func (t *transformer) stmts(list []ast.Stmt) ([]ast.Stmt, error) {
	out := make([]ast.Stmt, 0, len(list))
	for _, s := range list {
		repl, err := t.stmt(s)
		if err != nil {
			return nil, err
		}
		out = append(out, repl...)
	}
	return out, nil
}

// stmt rewrites a single statement, returning its replacement sequence.
// Compound statements keep their own headers and recurse into nested
// statement lists; only statement-position suspensions become boundaries.
func (t *transformer) stmt(s ast.Stmt) ([]ast.Stmt, error) {
	switch s := s.(type) {
	case *ast.ExprStmt:
		if arg, ok := t.suspendCall(s.X); ok {
			return t.boundary(arg, nil, token.ILLEGAL, nil), nil
		}

	case *ast.AssignStmt:
		if len(s.Lhs) == 1 && len(s.Rhs) == 1 {
			switch rhs := s.Rhs[0].(type) {
			case *ast.TypeAssertExpr:
				if arg, ok := t.suspendCall(rhs.X); ok {
					if rhs.Type == nil {
						return nil, t.reject(s.Pos(), "suspension result cannot be bound with .(type)")
					}
					return t.boundary(arg, s.Lhs[0], s.Tok, rhs.Type), nil
				}
			case *ast.CallExpr:
				if arg, ok := t.suspendCall(rhs); ok {
					return t.boundary(arg, s.Lhs[0], s.Tok, nil), nil
				}
			}
		}

	case *ast.BlockStmt:
		inner, err := t.stmts(s.List)
		if err != nil {
			return nil, err
		}
		s.List = inner
		return []ast.Stmt{s}, nil

	case *ast.IfStmt:
		if err := t.noSuspendIn(s.Init, s.Cond); err != nil {
			return nil, err
		}
		inner, err := t.stmts(s.Body.List)
		if err != nil {
			return nil, err
		}
		s.Body.List = inner
		if s.Else != nil {
			repl, err := t.stmt(s.Else)
			if err != nil {
				return nil, err
			}
			// Else arms are a block or another if; both rewrite in place.
			s.Else = repl[0]
		}
		return []ast.Stmt{s}, nil

	case *ast.ForStmt:
		if err := t.noSuspendIn(s.Init, s.Cond, s.Post); err != nil {
			return nil, err
		}
		inner, err := t.stmts(s.Body.List)
		if err != nil {
			return nil, err
		}
		s.Body.List = inner
		return []ast.Stmt{s}, nil

	case *ast.RangeStmt:
		if err := t.noSuspendIn(s.X); err != nil {
			return nil, err
		}
		inner, err := t.stmts(s.Body.List)
		if err != nil {
			return nil, err
		}
		s.Body.List = inner
		return []ast.Stmt{s}, nil

	case *ast.SwitchStmt:
		if err := t.noSuspendIn(s.Init, s.Tag); err != nil {
			return nil, err
		}
		if err := t.caseClauses(s.Body); err != nil {
			return nil, err
		}
		return []ast.Stmt{s}, nil

	case *ast.TypeSwitchStmt:
		if err := t.noSuspendIn(s.Init, s.Assign); err != nil {
			return nil, err
		}
		if err := t.caseClauses(s.Body); err != nil {
			return nil, err
		}
		return []ast.Stmt{s}, nil

	case *ast.SelectStmt:
		for _, clause := range s.Body.List {
			comm := clause.(*ast.CommClause)
			if err := t.noSuspendIn(comm.Comm); err != nil {
				return nil, err
			}
			inner, err := t.stmts(comm.Body)
			if err != nil {
				return nil, err
			}
			comm.Body = inner
		}
		return []ast.Stmt{s}, nil

	case *ast.LabeledStmt:
		repl, err := t.stmt(s.Stmt)
		if err != nil {
			return nil, err
		}
		if len(repl) != 1 {
			return nil, t.reject(s.Pos(), "suspension expression cannot carry a label")
		}
		s.Stmt = repl[0]
		return []ast.Stmt{s}, nil
	}

	// Anything else passes through unchanged, but may not hide a
	// suspension in a position the rewrite cannot reach.
	if err := t.noSuspendIn(s); err != nil {
		return nil, err
	}
	return []ast.Stmt{s}, nil
}

func (t *transformer) caseClauses(body *ast.BlockStmt) error {
	for _, clause := range body.List {
		cc := clause.(*ast.CaseClause)
		for _, e := range cc.List {
			if err := t.noSuspendIn(e); err != nil {
				return err
			}
		}
		inner, err := t.stmts(cc.Body)
		if err != nil {
			return err
		}
		cc.Body = inner
	}
	return nil
}

// boundary splices one suspension into yield, optional result binding, and
// view rebinds. lhs is nil for a bare suspension; assertType is nil when the
// binding carries no type assertion, in which case the result is extracted
// as any.
func (t *transformer) boundary(arg, lhs ast.Expr, tok token.Token, assertType ast.Expr) []ast.Stmt {
	t.count++

	stmts := []ast.Stmt{
		&ast.AssignStmt{
			Lhs: []ast.Expr{ast.NewIdent(inName)},
			Tok: token.ASSIGN,
			Rhs: []ast.Expr{&ast.CallExpr{
				Fun:  &ast.SelectorExpr{X: ast.NewIdent(yieldName), Sel: ast.NewIdent("Yield")},
				Args: []ast.Expr{arg},
			}},
		},
	}
	if lhs != nil {
		typ := assertType
		if typ == nil {
			typ = ast.NewIdent("any")
		}
		stmts = append(stmts, &ast.AssignStmt{
			Lhs: []ast.Expr{lhs},
			Tok: tok,
			Rhs: []ast.Expr{&ast.CallExpr{
				Fun:  &ast.IndexExpr{X: taskSel("Result"), Index: typ},
				Args: []ast.Expr{ast.NewIdent(inName)},
			}},
		})
	}
	return append(stmts, t.proc.rebinds()...)
}

// suspendCall matches a marker call in expression position: loom.Suspend(E)
// under whatever local name the marker package is imported as.
func (t *transformer) suspendCall(e ast.Expr) (ast.Expr, bool) {
	if t.marker == "" {
		return nil, false
	}
	call, ok := e.(*ast.CallExpr)
	if !ok || len(call.Args) != 1 {
		return nil, false
	}
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "Suspend" {
		return nil, false
	}
	pkg, ok := sel.X.(*ast.Ident)
	if !ok || pkg.Name != t.marker {
		return nil, false
	}
	return call.Args[0], true
}

// noSuspendIn rejects marker calls anywhere inside the given nodes:
// suspensions are only legal in statement position.
func (t *transformer) noSuspendIn(nodes ...ast.Node) error {
	var err error
	for _, n := range nodes {
		if n == nil || err != nil {
			continue
		}
		ast.Inspect(n, func(child ast.Node) bool {
			if err != nil {
				return false
			}
			if e, ok := child.(ast.Expr); ok {
				if _, found := t.suspendCall(e); found {
					err = t.reject(child.Pos(), "suspension expression must be a statement or a simple binding")
					return false
				}
			}
			return true
		})
	}
	return err
}

func (t *transformer) reject(pos token.Pos, detail string) error {
	return errors.InvalidProc(t.proc.name, fmt.Sprintf("%s: %s", t.fset.Position(pos), detail))
}

// prologue derives one named view per parameter from the first-resume input.
// The blank assignments keep a parameter that the body only reads after a
// later rebind from tripping the unused-variable check.
func (p *procedure) prologue() []ast.Stmt {
	stmts := make([]ast.Stmt, 0, len(p.params)*2)
	for _, prm := range p.params {
		stmts = append(stmts, prm.bind(token.DEFINE))
	}
	for _, prm := range p.params {
		stmts = append(stmts, &ast.AssignStmt{
			Lhs: []ast.Expr{ast.NewIdent("_")},
			Tok: token.ASSIGN,
			Rhs: []ast.Expr{ast.NewIdent(prm.name)},
		})
	}
	return stmts
}

// rebinds re-derives every parameter view after a resume point. Views taken
// from the previous tick's context are stale once the procedure has
// suspended, so every boundary refreshes all of them.
func (p *procedure) rebinds() []ast.Stmt {
	stmts := make([]ast.Stmt, 0, len(p.params))
	for _, prm := range p.params {
		stmts = append(stmts, prm.bind(token.ASSIGN))
	}
	return stmts
}

func (prm param) bind(tok token.Token) ast.Stmt {
	return &ast.AssignStmt{
		Lhs: []ast.Expr{ast.NewIdent(prm.name)},
		Tok: tok,
		Rhs: []ast.Expr{&ast.CallExpr{
			Fun: &ast.IndexExpr{X: taskSel("View"), Index: prm.typ},
			Args: []ast.Expr{
				ast.NewIdent(inName),
				&ast.BasicLit{Kind: token.STRING, Value: strconv.Quote(prm.name)},
			},
		}},
	}
}

func taskSel(name string) *ast.SelectorExpr {
	return &ast.SelectorExpr{X: ast.NewIdent("task"), Sel: ast.NewIdent(name)}
}
