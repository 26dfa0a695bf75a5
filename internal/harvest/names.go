package harvest

import (
	"fmt"
	"path"
	"reflect"
)

// TypeName returns the catalog name for a Go type. Pointers are transparent,
// named types use their bare name, and composite types are spelled the way Go
// spells them with element names substituted.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "any"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	switch t.Kind() {
	case reflect.Slice:
		return "[]" + TypeName(t.Elem())
	case reflect.Array:
		return fmt.Sprintf("[%d]%s", t.Len(), TypeName(t.Elem()))
	case reflect.Map:
		return "map[" + TypeName(t.Key()) + "]" + TypeName(t.Elem())
	case reflect.Chan:
		return "chan " + TypeName(t.Elem())
	case reflect.Func:
		return "func"
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return "any"
		}
		return "interface"
	case reflect.Struct:
		return "struct"
	default:
		return t.Kind().String()
	}
}

// typeName names t for the catalog. A named type takes its bare name unless a
// different type already holds it, in which case the package qualifies it
// (bytes.Reader next to strings' Reader). Composite names follow the names
// their element types were registered under.
func (h *Harvester) typeName(t reflect.Type) string {
	if t.Name() == "" {
		switch t.Kind() {
		case reflect.Slice:
			return "[]" + h.Register(t.Elem())
		case reflect.Array:
			return fmt.Sprintf("[%d]%s", t.Len(), h.Register(t.Elem()))
		case reflect.Map:
			return "map[" + h.Register(t.Key()) + "]" + h.Register(t.Elem())
		case reflect.Chan:
			return "chan " + h.Register(t.Elem())
		default:
			return TypeName(t)
		}
	}
	candidates := []string{t.Name()}
	if t.PkgPath() != "" {
		candidates = append(candidates, path.Base(t.PkgPath())+"."+t.Name(), t.PkgPath()+"."+t.Name())
	}
	for _, name := range candidates {
		if owner, taken := h.owners[name]; !taken || owner == t {
			h.owners[name] = t
			return name
		}
	}
	return t.String()
}

// VoidType is the declared type of methods without results.
const VoidType = "void"

func returnTypeName(ft reflect.Type) reflect.Type {
	if ft.NumOut() == 0 {
		return nil
	}
	return ft.Out(0)
}

func isBasicKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	default:
		return false
	}
}
