package schematree

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// Fatal: abort the whole build.
	CodeInvalidType       = "invalid_type"
	CodeInvalidFragment   = "invalid_fragment"
	CodeAmbiguousRef      = "ambiguous_ref"
	CodeDuplicateNode     = "duplicate_node"
	CodeDuplicateKey      = "duplicate_key"
	CodeParseError        = "parse_error"
	CodeInvalidAnnotation = "invalid_annotation"
	// Non-fatal: reported through Diag, part of a successful build.
	CodeUnresolvedRef = "unresolved_ref"
	CodeCyclicRef     = "cyclic_ref"
)

// Issue represents a single construction problem.
type Issue struct {
	Path    string // Node identifier or document pointer (for example: #/properties/id).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
	// Params carries structured parameters (e.g., {"type": "foo"}) for i18n.
	Params map[string]any
}

// Issues is a collection of construction errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at #/properties/x
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Message != "" {
			fmt.Fprintf(b, ": %s", it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the causes so errors.Is/As can see through Issues.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// Has reports whether any issue carries the given code.
func (iss Issues) Has(code string) bool {
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// IssueAt creates a single-issue error at the given node identifier.
func IssueAt(path, code, msg string, params map[string]any) Issues {
	return Issues{{Path: path, Code: code, Message: msg, Params: params}}
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
