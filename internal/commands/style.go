package commands

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// palette colors text output. Each renderer detects the color profile of its
// own writer, so pipes and buffers get plain text.
type palette struct {
	added   lipgloss.Style
	removed lipgloss.Style
	changed lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
}

func newPalette(w, errw io.Writer) palette {
	out := lipgloss.NewRenderer(w)
	errOut := lipgloss.NewRenderer(errw)
	return palette{
		added:   out.NewStyle().Foreground(lipgloss.Color("2")),
		removed: out.NewStyle().Foreground(lipgloss.Color("1")),
		changed: out.NewStyle().Foreground(lipgloss.Color("3")),
		warning: errOut.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		failure: errOut.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}

// colorize copies printed tree lines to w, coloring the ones that carry a
// node-level change marker.
func (p palette) colorize(w io.Writer, printed []byte) error {
	sc := bufio.NewScanner(bytes.NewReader(printed))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		body := strings.TrimLeft(line, " ")
		indent := line[:len(line)-len(body)]
		switch {
		case strings.HasPrefix(body, "+ "):
			body = p.added.Render(body)
		case strings.HasPrefix(body, "- "):
			body = p.removed.Render(body)
		case strings.HasPrefix(body, "~ "):
			body = p.changed.Render(body)
		}
		if _, err := fmt.Fprintln(w, indent+body); err != nil {
			return err
		}
	}
	return sc.Err()
}
