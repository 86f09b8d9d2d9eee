package document

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FromGo converts plain Go values (map[string]any, map[any]any, []any, Go
// numbers) into document values. Map keys are sorted, since Go maps carry no
// order; callers who care about member order should build Objects directly or
// decode from text.
func FromGo(v any) any {
	switch t := v.(type) {
	case *Object:
		return t
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		o := NewObject()
		for _, k := range keys {
			o.Set(k, FromGo(t[k]))
		}
		return o
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				ks = fmt.Sprint(k)
			}
			m[ks] = vv
		}
		return FromGo(m)
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = FromGo(t[i])
		}
		return arr
	case []string:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = t[i]
		}
		return arr
	case int:
		return Number(strconv.Itoa(t))
	case int64:
		return Number(strconv.FormatInt(t, 10))
	case float64:
		return Number(strconv.FormatFloat(t, 'g', -1, 64))
	default:
		return v
	}
}

// ToGo converts document values back into map[string]any / []any trees.
func ToGo(v any) any {
	switch t := v.(type) {
	case *Object:
		if t == nil {
			return nil
		}
		m := make(map[string]any, t.Len())
		for k, vv := range t.All() {
			m[k] = ToGo(vv)
		}
		return m
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = ToGo(t[i])
		}
		return arr
	default:
		return v
	}
}

// escape applies RFC 6901 escaping to a pointer segment.
func escape(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}
