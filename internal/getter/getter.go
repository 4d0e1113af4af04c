// Package getter resolves dotted paths into nested records. It is the
// nested-value collaborator of the search engine: field resolution over
// maps, structs, pointers and slices, with slice-valued intermediates
// fanning out over their elements.
//
// Missing segments are absences, never errors; a record that lacks a field
// simply contributes nothing to a search.
package getter

import (
	"reflect"
	"strconv"
	"strings"
)

// Value is one string leaf reached by a path. ArrayIndex is the element
// position when the leaf was inside a slice, -1 for scalar leaves.
type Value struct {
	Text       string
	ArrayIndex int
}

// Get returns the value at a dotted path, reporting absence via ok.
// Numeric segments index into slices ("authors.0.name").
func Get(record any, path string) (any, bool) {
	cur := record
	for _, seg := range strings.Split(path, ".") {
		next, ok := step(cur, seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Strings resolves a path and flattens the result into string leaves.
// Slice leaves fan out one Value per element, attributed by element index;
// non-string leaves are skipped silently.
func Strings(record any, path string) []Value {
	v, ok := Get(record, path)
	if !ok {
		return nil
	}
	return flatten(v)
}

func flatten(v any) []Value {
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return nil
	}

	switch rv.Kind() {
	case reflect.String:
		return []Value{{Text: rv.String(), ArrayIndex: -1}}
	case reflect.Slice, reflect.Array:
		var out []Value
		for i := 0; i < rv.Len(); i++ {
			ev := indirect(rv.Index(i))
			if !ev.IsValid() || ev.Kind() != reflect.String {
				continue
			}
			out = append(out, Value{Text: ev.String(), ArrayIndex: i})
		}
		return out
	default:
		return nil
	}
}

// step resolves one path segment against the current value.
func step(cur any, seg string) (any, bool) {
	rv := indirect(reflect.ValueOf(cur))
	if !rv.IsValid() {
		return nil, false
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := rv.MapIndex(reflect.ValueOf(seg))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true

	case reflect.Struct:
		return structField(rv, seg)

	case reflect.Slice, reflect.Array:
		if i, err := strconv.Atoi(seg); err == nil {
			if i < 0 || i >= rv.Len() {
				return nil, false
			}
			return rv.Index(i).Interface(), true
		}
		// Fan the segment out over the elements, flattening the hits.
		var out []any
		for i := 0; i < rv.Len(); i++ {
			if v, ok := step(rv.Index(i).Interface(), seg); ok {
				if vs, isSlice := v.([]any); isSlice {
					out = append(out, vs...)
				} else {
					out = append(out, v)
				}
			}
		}
		if len(out) == 0 {
			return nil, false
		}
		return out, true

	default:
		return nil, false
	}
}

// structField matches a segment against exported field names and json tags.
func structField(rv reflect.Value, seg string) (any, bool) {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			if tagName, _, _ := strings.Cut(tag, ","); tagName != "" && tagName != "-" {
				name = tagName
			}
		}
		if name == seg || strings.EqualFold(f.Name, seg) {
			return rv.Field(i).Interface(), true
		}
	}
	return nil, false
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}
