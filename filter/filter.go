// Package filter evaluates boolean CEL expressions against match records.
//
// The variables path, line, start, end and preview hold the record's fields,
// for example:
//
//	path.endsWith(".go") && !preview.contains("generated")
package filter

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/qgrepcode/qgrepcode"
)

// ErrNotBool is returned for expressions that do not evaluate to a bool.
var ErrNotBool = errors.New("filter expression must evaluate to a bool")

// Filter is a compiled expression. It is safe for concurrent use.
type Filter struct {
	expr string
	prg  cel.Program
}

func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("path", cel.StringType),
		cel.Variable("line", cel.IntType),
		cel.Variable("start", cel.IntType),
		cel.Variable("end", cel.IntType),
		cel.Variable("preview", cel.StringType),
	)
}

// Compile parses and type checks expr.
func Compile(expr string) (*Filter, error) {
	env, err := newEnv()
	if err != nil {
		return nil, err
	}
	ast, iss := env.Compile(expr)
	if iss.Err() != nil {
		return nil, fmt.Errorf("filter %q: %w", expr, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("filter %q: %w, got %s", expr, ErrNotBool, ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("filter %q: %w", expr, err)
	}
	return &Filter{expr: expr, prg: prg}, nil
}

// Match reports whether r satisfies the expression.
func (f *Filter) Match(r qgrepcode.MatchRecord) (bool, error) {
	out, _, err := f.prg.Eval(map[string]any{
		"path":    r.FilePath,
		"line":    r.LineNumber,
		"start":   r.StartColumn,
		"end":     r.EndColumn,
		"preview": r.PreviewText,
	})
	if err != nil {
		return false, fmt.Errorf("filter %q: %w", f.expr, err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("filter %q: %w", f.expr, ErrNotBool)
	}
	return b, nil
}

func (f *Filter) String() string { return f.expr }
