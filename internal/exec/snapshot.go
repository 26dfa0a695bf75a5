package exec

import (
	"fmt"
	"reflect"
)

const maxSnapshotDepth = 16

// Snapshot copies a Go value into plain maps, slices and scalars that CEL can
// consume. Struct values become maps of their exported fields, named integer
// types with a String method become their string form, and funcs and channels
// are dropped.
func Snapshot(v any) any {
	return snapshot(reflect.ValueOf(v), 0)
}

func snapshot(rv reflect.Value, depth int) any {
	if !rv.IsValid() || depth > maxSnapshotDepth {
		return nil
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return snapshot(rv.Elem(), depth+1)
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if s, ok := stringer(rv); ok {
			return s
		}
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if s, ok := stringer(rv); ok {
			return s
		}
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return append([]byte(nil), rv.Bytes()...)
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = snapshot(rv.Index(i), depth+1)
		}
		return out
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = snapshot(iter.Value(), depth+1)
		}
		return out
	case reflect.Struct:
		out := make(map[string]any, rv.NumField())
		for _, f := range reflect.VisibleFields(rv.Type()) {
			if !f.IsExported() || f.Anonymous {
				continue
			}
			fv, err := rv.FieldByIndexErr(f.Index)
			if err != nil {
				continue
			}
			if k := fv.Kind(); k == reflect.Func || k == reflect.Chan || k == reflect.UnsafePointer {
				continue
			}
			out[f.Name] = snapshot(fv, depth+1)
		}
		return out
	default:
		return nil
	}
}

func stringer(rv reflect.Value) (string, bool) {
	if rv.Type().PkgPath() == "" || !rv.CanInterface() {
		return "", false
	}
	if s, ok := rv.Interface().(fmt.Stringer); ok {
		return s.String(), true
	}
	return "", false
}
