package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBar shows how many of a known number of steps are done. It is safe
// to update from several goroutines.
type ProgressBar struct {
	ui      *UI
	bar     progress.Model
	label   string
	total   int
	current int
	start   time.Time
	mu      sync.Mutex
	labeled bool
}

// NewProgressBar creates a new progress bar.
func (u *UI) NewProgressBar(label string, total int) *ProgressBar {
	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)

	return &ProgressBar{
		ui:    u,
		bar:   bar,
		label: label,
		total: total,
		start: time.Now(),
	}
}

// Update sets the current progress value. Its signature matches the
// generator's progress callback so it can be passed directly.
func (p *ProgressBar) Update(current, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = current
	if total > 0 {
		p.total = total
	}
	p.render()
}

// render draws the bar; callers hold p.mu.
func (p *ProgressBar) render() {
	out := p.ui.Out()

	if !p.ui.shouldStyle() {
		if !p.labeled {
			fmt.Fprintf(out, "%s: ", p.label)
			p.labeled = true
		}
		return
	}

	pct := 1.0
	if p.total > 0 {
		pct = float64(p.current) / float64(p.total)
	}
	if pct > 1 {
		pct = 1
	}

	labelStyle := lipgloss.NewStyle().Width(18)
	countStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	fmt.Fprintf(out, "\r\033[K  %s %s %s",
		labelStyle.Render(p.label),
		p.bar.ViewAs(pct),
		countStyle.Render(fmt.Sprintf("%d/%d", p.current, p.total)),
	)
}

// Complete finishes the progress bar with a success indicator.
func (p *ProgressBar) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := p.ui.Out()
	elapsed := formatDuration(time.Since(p.start))

	if !p.ui.shouldStyle() {
		if !p.labeled {
			fmt.Fprintf(out, "%s: ", p.label)
		}
		fmt.Fprintf(out, "%d/%d done in %s\n", p.current, p.total, elapsed)
		return
	}

	labelStyle := lipgloss.NewStyle().Width(18)

	fmt.Fprintf(out, "\r\033[K  %s %s %s %s\n",
		StyleSuccess.Render(SymbolSuccess),
		labelStyle.Render(p.label),
		StyleSuccess.Render(fmt.Sprintf("%d/%d complete", p.total, p.total)),
		StyleMuted.Render(elapsed),
	)
}

// Fail finishes the progress bar with an error indicator.
func (p *ProgressBar) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := p.ui.Out()

	if !p.ui.shouldStyle() {
		if !p.labeled {
			fmt.Fprintf(out, "%s: ", p.label)
		}
		fmt.Fprintf(out, "FAILED: %v\n", err)
		return
	}

	labelStyle := lipgloss.NewStyle().Width(18)

	fmt.Fprintf(out, "\r\033[K  %s %s %s\n",
		StyleError.Render(SymbolError),
		labelStyle.Render(p.label),
		StyleError.Render(err.Error()),
	)
}
