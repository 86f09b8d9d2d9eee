// Package pointer implements the JSON Pointer (RFC 6901) handling shared by the
// builders: node identifiers are normalized pointers such as
// "#/properties/id", and $ref values are normalized into the same form so a
// reference target and the node built at that location share one identifier.
package pointer

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/reoring/schematree/document"
)

// Root is the identifier of the document root.
const Root = "#"

// RefKey is the keyword that marks a reference fragment.
const RefKey = "$ref"

// Escape escapes '~' -> '~0', '/' -> '~1' per RFC6901.
func Escape(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}

// Unescape reverses Escape.
func Unescape(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
}

// Join appends escaped segments to a normalized pointer.
func Join(base string, segs ...string) string {
	if len(segs) == 0 {
		return base
	}
	var b strings.Builder
	b.WriteString(base)
	for _, s := range segs {
		b.WriteByte('/')
		b.WriteString(Escape(s))
	}
	return b.String()
}

// JoinIndex appends an array index segment.
func JoinIndex(base string, i int) string {
	return base + "/" + strconv.Itoa(i)
}

// Normalize turns a $ref value into the absolute identifier form:
//
//	""                     -> "#"
//	"#"                    -> "#"
//	"#/definitions/A"      -> "#/definitions/A"
//	"#definitions/A"       -> "#/definitions/A"
//	"#/%24defs/A"          -> "#/$defs/A"
//	"common.json#/defs/A"  -> "common.json#/defs/A"
//	"common.json"          -> "common.json#"
func Normalize(ref string) string {
	doc, frag, _ := strings.Cut(ref, "#")
	if u, err := url.PathUnescape(frag); err == nil {
		frag = u
	}
	frag = strings.TrimSuffix(frag, "/")
	if frag != "" && !strings.HasPrefix(frag, "/") {
		frag = "/" + frag
	}
	return doc + Root + frag
}

// Split separates a normalized pointer into its document part ("" for the
// local document) and its unescaped segments.
func Split(ptr string) (doc string, segs []string) {
	doc, frag, _ := strings.Cut(ptr, "#")
	frag = strings.TrimPrefix(frag, "/")
	if frag == "" {
		return doc, nil
	}
	parts := strings.Split(frag, "/")
	for i := range parts {
		parts[i] = Unescape(parts[i])
	}
	return doc, parts
}

// IsLocal reports whether the pointer addresses the current document.
func IsLocal(ptr string) bool {
	return strings.HasPrefix(ptr, Root)
}

// Resolve walks the segments of a normalized local pointer through doc.
func Resolve(doc any, ptr string) (any, bool) {
	_, segs := Split(ptr)
	cur := doc
	for _, s := range segs {
		switch t := cur.(type) {
		case *document.Object:
			v, ok := t.Get(s)
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(s)
			if err != nil || i < 0 || i >= len(t) {
				return nil, false
			}
			cur = t[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// IsRef reports whether the fragment carries a string $ref.
func IsRef(frag *document.Object) bool {
	_, ok := RefOf(frag)
	return ok
}

// RefOf returns the raw $ref value of a fragment.
func RefOf(frag *document.Object) (string, bool) {
	v, ok := frag.Get(RefKey)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
