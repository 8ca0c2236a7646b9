package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/pransh15/rss-action/internal/history"
	"github.com/pransh15/rss-action/internal/run"
)

var (
	colorGreen = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"}
	colorDim   = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}

	okStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorGreen)

	dimStyle = lipgloss.NewStyle().
		Foreground(colorDim)
)

func printSummary(out run.Outcome) {
	if !out.Changed {
		fmt.Println(dimStyle.Render("No new links."))
		return
	}
	fmt.Println(okStyle.Render(run.Summary(out.Added, out.Evicted)))
	if out.PRURL != "" {
		fmt.Println(dimStyle.Render(out.PRURL))
	}
}

func historyLine(r history.Run) string {
	line := fmt.Sprintf("%s  +%d", r.StartedAt.Local().Format("2006-01-02 15:04"), r.Added)
	if r.Evicted > 0 {
		line += fmt.Sprintf(" -%d", r.Evicted)
	}
	if r.PRURL != "" {
		line += "  " + dimStyle.Render(r.PRURL)
	}
	return line
}
