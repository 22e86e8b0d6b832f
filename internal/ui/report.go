package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		secs := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", mins, secs)
	}
	hrs := int(d.Hours())
	mins := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", hrs, mins)
}

// FormatDuration formats a duration the way summaries show it.
func FormatDuration(d time.Duration) string {
	return formatDuration(d)
}

// formatRowCount formats a row count with K/M suffix.
func formatRowCount(rows int64) string {
	if rows >= 1_000_000 {
		return fmt.Sprintf("%.1fM", float64(rows)/1_000_000)
	}
	if rows >= 1_000 {
		return fmt.Sprintf("%.1fK", float64(rows)/1_000)
	}
	return fmt.Sprintf("%d", rows)
}

// PrintTableLoadResult prints one line per sheet loaded into the database.
func (u *UI) PrintTableLoadResult(name string, rows int64, duration time.Duration, err error) {
	out := u.Out()

	if !u.shouldStyle() {
		if err != nil {
			fmt.Fprintf(out, "  %-15s FAILED\n", name+":")
			fmt.Fprintf(out, "    Error: %v\n", err)
		} else {
			fmt.Fprintf(out, "  %-15s %s rows in %s\n", name+":", formatRowCount(rows), formatDuration(duration))
		}
		return
	}

	nameStyle := lipgloss.NewStyle().Width(15)
	if err != nil {
		fmt.Fprintf(out, "  %s %s %s\n",
			StyleError.Render(SymbolError),
			nameStyle.Render(name),
			StyleError.Render("FAILED"),
		)
		fmt.Fprintf(out, "    %s\n", StyleError.Render(err.Error()))
		return
	}

	fmt.Fprintf(out, "  %s %s %s\n",
		StyleSuccess.Render(SymbolSuccess),
		nameStyle.Render(name),
		fmt.Sprintf("%s rows in %s", formatRowCount(rows), formatDuration(duration)),
	)
}

// PrintSheet prints a saved sheet with its row count.
func (u *UI) PrintSheet(name string, rows int) {
	u.Println(u.TableRow(name, formatRowCount(int64(rows))+" rows", StatusSuccess))
}

// Section prints a section header.
func (u *UI) Section(title string) {
	if !u.shouldStyle() {
		fmt.Fprintf(u.Out(), "\n%s\n", title)
		return
	}

	fmt.Fprintf(u.Out(), "\n%s\n", lipgloss.NewStyle().Bold(true).Render(title))
}

// PrintSkipped prints a skipped message.
func (u *UI) PrintSkipped(name string, reason string) {
	if !u.shouldStyle() {
		fmt.Fprintf(u.Out(), "  %-15s SKIPPED (%s)\n", name+":", reason)
		return
	}

	nameStyle := lipgloss.NewStyle().Width(15)
	fmt.Fprintf(u.Out(), "  %s %s %s\n",
		StyleWarning.Render(SymbolWarning),
		nameStyle.Render(name),
		u.Muted("skipped: "+reason),
	)
}
