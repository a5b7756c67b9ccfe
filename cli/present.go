package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/ka2n/cloudapp/api"
	"github.com/mattn/go-isatty"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	trashStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// presenter formats drops as text. Styles are applied only when writing to
// a terminal.
type presenter struct {
	w      io.Writer
	styled bool
}

func newPresenter(w io.Writer) *presenter {
	f, ok := w.(*os.File)
	return &presenter{
		w:      w,
		styled: ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())),
	}
}

func (p *presenter) render(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return style.Render(s)
}

// Drop renders the details of a single drop.
func (p *presenter) Drop(d api.Drop) string {
	var b strings.Builder
	row := func(label, value string) {
		fmt.Fprintf(&b, "\n  %s %s", p.render(labelStyle, fmt.Sprintf("%-9s", label+":")), value)
	}

	b.WriteString(p.render(headingStyle, "Details"))
	row("Name", d.Name)
	row("Views", fmt.Sprint(d.Views))
	if !d.CreatedAt.IsZero() {
		row("Created", d.CreatedAt.Local().Format(time.DateTime))
	}
	row("Privacy", privacyLabel(d.Private))
	if d.Trashed {
		row("Status", p.render(trashStyle, "Trashed"))
	}

	b.WriteString("\n\n")
	b.WriteString(p.render(headingStyle, "Links"))
	row("Share", d.ShareURL)
	row("Embed", d.EmbedURL)
	row("Download", d.DownloadURL)
	row("Href", d.Href)
	return b.String()
}

// List renders one line per drop: id, name and share URL.
func (p *presenter) List(drops []api.Drop) string {
	if len(drops) == 0 {
		return "No drops"
	}
	idWidth := 0
	for _, d := range drops {
		idWidth = max(idWidth, len(d.ID))
	}

	lines := make([]string, 0, len(drops))
	for _, d := range drops {
		name := d.Name
		if d.Trashed {
			name = p.render(trashStyle, name+" (trashed)")
		}
		lines = append(lines, fmt.Sprintf("%s  %s  %s",
			p.render(labelStyle, fmt.Sprintf("%-*s", idWidth, d.ID)), name, d.ShareURL))
	}
	return strings.Join(lines, "\n")
}

func (p *presenter) print(s string) {
	fmt.Fprintln(p.w, s)
}

func privacyLabel(private bool) string {
	if private {
		return "Private"
	}
	return "Not Private"
}
