package schematree

import "fmt"

// Diag carries non-fatal conditions produced during a build (unresolved and
// cyclic references).
type Diag interface {
	HasWarnings() bool
	Warnings() []string
	Issues() Issues
}

// Collector is the default Diag implementation. The zero value is ready to use.
type Collector struct {
	iss Issues
}

func (c *Collector) HasWarnings() bool { return len(c.iss) > 0 }

func (c *Collector) Warnings() []string {
	out := make([]string, 0, len(c.iss))
	for _, it := range c.iss {
		out = append(out, fmt.Sprintf("%s at %s: %s", it.Code, it.Path, it.Message))
	}
	return out
}

func (c *Collector) Issues() Issues { return append(Issues(nil), c.iss...) }

// Warnf records a non-fatal issue.
func (c *Collector) Warnf(path, code, f string, a ...any) {
	c.iss = AppendIssues(c.iss, Issue{Path: path, Code: code, Message: fmt.Sprintf(f, a...)})
}

// Count returns the number of recorded issues with the given code.
func (c *Collector) Count(code string) int {
	n := 0
	for _, it := range c.iss {
		if it.Code == code {
			n++
		}
	}
	return n
}
