package exec

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	celext "github.com/google/cel-go/ext"
	exprpb "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// CELExecutor evaluates commands as CEL expressions over snapshots of the
// live values. Only the identifiers a command references are snapshotted.
type CELExecutor struct {
	values Values
	base   *cel.Env
	opt    options
}

// NewCEL returns a read-only CEL executor over values.
func NewCEL(values Values, opts ...Option) (*CELExecutor, error) {
	base, err := cel.NewEnv(
		celext.Strings(),
		celext.Encoders(),
		celext.Lists(),
		celext.Math(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &CELExecutor{values: values, base: base, opt: buildOptions(opts)}, nil
}

// Execute runs command. Assignments fail with ErrReadOnly.
func (c *CELExecutor) Execute(ctx context.Context, command string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	cmd := strings.TrimSpace(command)
	if cmd == "" {
		return Result{}, nil
	}
	if _, _, ok := SplitAssignment(cmd); ok {
		return Result{}, ErrReadOnly
	}

	parsed, issues := c.base.Parse(cmd)
	if issues != nil && issues.Err() != nil {
		return Result{}, fmt.Errorf("parse error: %w", issues.Err())
	}
	names, err := Identifiers(parsed)
	if err != nil {
		return Result{}, err
	}

	vars := c.values.Env()
	decls := make([]cel.EnvOption, 0, len(names))
	activation := make(map[string]any, len(names))
	for _, name := range names {
		v, ok := vars[name]
		if !ok {
			continue
		}
		decls = append(decls, cel.Variable(name, cel.DynType))
		activation[name] = Snapshot(v)
	}
	env, err := c.base.Extend(decls...)
	if err != nil {
		return Result{}, fmt.Errorf("failed to extend CEL environment: %w", err)
	}

	ast, issues := env.Compile(cmd)
	if issues != nil && issues.Err() != nil {
		return Result{}, fmt.Errorf("compilation error: %w", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return Result{}, fmt.Errorf("program error: %w", err)
	}
	out, _, err := prg.ContextEval(ctx, activation)
	if err != nil {
		return Result{}, fmt.Errorf("eval error: %w", err)
	}
	c.opt.log.V(1).Info("evaluated CEL command", "identifiers", names)
	return Result{Value: ToGo(out)}, nil
}

// Identifiers returns the sorted root identifiers referenced by a parsed
// expression.
func Identifiers(ast *cel.Ast) ([]string, error) {
	parsed, err := cel.AstToParsedExpr(ast)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var walk func(*exprpb.Expr)
	walk = func(e *exprpb.Expr) {
		if e == nil {
			return
		}
		switch k := e.ExprKind.(type) {
		case *exprpb.Expr_IdentExpr:
			seen[k.IdentExpr.GetName()] = true
		case *exprpb.Expr_SelectExpr:
			walk(k.SelectExpr.GetOperand())
		case *exprpb.Expr_CallExpr:
			walk(k.CallExpr.GetTarget())
			for _, a := range k.CallExpr.GetArgs() {
				walk(a)
			}
		case *exprpb.Expr_ListExpr:
			for _, el := range k.ListExpr.GetElements() {
				walk(el)
			}
		case *exprpb.Expr_StructExpr:
			for _, entry := range k.StructExpr.GetEntries() {
				walk(entry.GetMapKey())
				walk(entry.GetValue())
			}
		case *exprpb.Expr_ComprehensionExpr:
			comp := k.ComprehensionExpr
			walk(comp.GetIterRange())
			walk(comp.GetAccuInit())
			walk(comp.GetLoopCondition())
			walk(comp.GetLoopStep())
			walk(comp.GetResult())
		}
	}
	walk(parsed.GetExpr())

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// ToGo converts CEL values to Go native types recursively.
func ToGo(val ref.Val) any {
	if val == nil {
		return nil
	}

	switch v := val.(type) {
	case types.Bool:
		return bool(v)
	case types.Int:
		return int64(v)
	case types.Uint:
		return uint64(v)
	case types.Double:
		return float64(v)
	case types.String:
		return string(v)
	case types.Bytes:
		return []byte(v)
	case types.Null:
		return nil
	}

	if valuer, ok := val.(interface{ Value() any }); ok {
		return fromNative(valuer.Value())
	}
	return val
}

func fromNative(inner any) any {
	switch v := inner.(type) {
	case ref.Val:
		return ToGo(v)
	case []ref.Val:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = ToGo(elem)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = fromNative(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, elem := range v {
			out[k] = fromNative(elem)
		}
		return out
	case map[ref.Val]ref.Val:
		out := make(map[string]any, len(v))
		for k, elem := range v {
			out[fmt.Sprint(ToGo(k))] = ToGo(elem)
		}
		return out
	default:
		return inner
	}
}
