package exec

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/expr-lang/expr"
)

// ExprExecutor evaluates commands with expr-lang. Top-level assignments go
// through Env.Assign; member assignments set struct fields or map entries on
// the live values.
type ExprExecutor struct {
	env Env
	opt options
}

// NewExpr returns an expr-lang executor over env.
func NewExpr(env Env, opts ...Option) *ExprExecutor {
	return &ExprExecutor{env: env, opt: buildOptions(opts)}
}

// Execute runs command.
func (e *ExprExecutor) Execute(ctx context.Context, command string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	cmd := strings.TrimSpace(command)
	if cmd == "" {
		return Result{}, nil
	}
	vars := e.env.Env()

	target, code, isAssign := SplitAssignment(cmd)
	if !isAssign {
		v, err := e.eval(cmd, vars)
		if err != nil {
			return Result{}, err
		}
		return Result{Value: v}, nil
	}

	v, err := e.eval(code, vars)
	if err != nil {
		return Result{}, err
	}
	dot := strings.LastIndexByte(target, '.')
	if dot < 0 {
		if err := e.env.Assign(target, v); err != nil {
			return Result{}, fmt.Errorf("assign %s: %w", target, err)
		}
		e.opt.log.V(1).Info("assigned variable", "name", target)
		return Result{Value: v, Assigned: target}, nil
	}

	owner, err := e.eval(target[:dot], vars)
	if err != nil {
		return Result{}, err
	}
	if err := setMember(owner, target[dot+1:], v); err != nil {
		return Result{}, fmt.Errorf("assign %s: %w", target, err)
	}
	e.opt.log.V(1).Info("assigned member", "target", target)
	return Result{Value: v}, nil
}

func (e *ExprExecutor) eval(code string, vars map[string]any) (any, error) {
	program, err := expr.Compile(code, expr.Env(vars))
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	out, err := expr.Run(program, vars)
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	return out, nil
}

func setMember(owner any, name string, v any) error {
	rv := reflect.ValueOf(owner)
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return fmt.Errorf("nil owner: %w", ErrNotAssignable)
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return fmt.Errorf("nil owner: %w", ErrNotAssignable)
	}

	switch rv.Kind() {
	case reflect.Struct:
		f := rv.FieldByName(name)
		if !f.IsValid() {
			return fmt.Errorf("no field %q on %s", name, rv.Type())
		}
		if !f.CanSet() {
			return fmt.Errorf("field %q: %w", name, ErrNotAssignable)
		}
		val, err := convertTo(v, f.Type())
		if err != nil {
			return err
		}
		f.Set(val)
		return nil
	case reflect.Map:
		if rv.IsNil() || rv.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("map %s: %w", rv.Type(), ErrNotAssignable)
		}
		val, err := convertTo(v, rv.Type().Elem())
		if err != nil {
			return err
		}
		rv.SetMapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()), val)
		return nil
	default:
		return fmt.Errorf("%s: %w", rv.Type(), ErrNotAssignable)
	}
}

func convertTo(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		default:
			return reflect.Value{}, fmt.Errorf("cannot assign nil to %s", t)
		}
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	if t.Kind() == reflect.String && rv.Kind() != reflect.String {
		return reflect.Value{}, fmt.Errorf("cannot assign %s to %s", rv.Type(), t)
	}
	if rv.Type().ConvertibleTo(t) {
		return rv.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot assign %s to %s", rv.Type(), t)
}
