package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/baharkarakas/budgetbox/internal/models"
)

var (
	colorRed    = lipgloss.Color("#DC2626")
	colorAmber  = lipgloss.Color("#D97706")
	colorGreen  = lipgloss.Color("#059669")
	colorDim    = lipgloss.Color("#6B7280")
	colorText   = lipgloss.Color("#1F2937")
	colorAccent = lipgloss.Color("#4F46E5")

	sliceColors = []lipgloss.Color{"#0088FE", "#00C49F", "#FFBB28", "#FF8042", "#8884D8"}

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	labelStyle = lipgloss.NewStyle().Foreground(colorDim).Bold(true)
	cardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

const barWidth = 24

// View is everything Render needs.
type View struct {
	Budget models.Budget
	Status string
}

func Render(v View) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("BudgetBox") + "  " + StatusBadge(v.Status) + "\n\n")
	b.WriteString(renderFields(v.Budget) + "\n")

	burn := BurnRate(v.Budget)
	burnColor := colorText
	if n, _ := strconv.ParseFloat(burn, 64); n > 100 {
		burnColor = colorRed
	}
	savings := Savings(v.Budget)
	savingsColor := colorGreen
	if savings < 0 {
		savingsColor = colorRed
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("BURN RATE", lipgloss.NewStyle().Bold(true).Foreground(burnColor).Render(burn+"%")),
		" ",
		card("SAVINGS", lipgloss.NewStyle().Bold(true).Foreground(savingsColor).Render(money(savings))),
	)
	b.WriteString(cards + "\n\n")

	b.WriteString(labelStyle.Render("Insights") + "\n")
	for _, in := range Insights(v.Budget) {
		b.WriteString("  " + insightStyle(in.Severity).Render(in.Message) + "\n")
	}

	if slices := Breakdown(v.Budget); len(slices) > 0 {
		b.WriteString("\n" + labelStyle.Render("Spending") + "\n")
		b.WriteString(renderBreakdown(slices))
	}
	return b.String()
}

func StatusBadge(status string) string {
	color := colorDim
	switch status {
	case "Synced":
		color = colorGreen
	case "Sync Pending":
		color = colorAmber
	}
	return lipgloss.NewStyle().Foreground(color).Render("● " + status)
}

func renderFields(bud models.Budget) string {
	width := 0
	for _, f := range models.Fields {
		if n := len(f.Label()); n > width {
			width = n
		}
	}
	var b strings.Builder
	for _, f := range models.Fields {
		label := fmt.Sprintf("%-*s", width, f.Label())
		b.WriteString("  " + labelStyle.Render(label) + "  " + money(bud.Get(f)) + "\n")
	}
	return b.String()
}

func card(label, value string) string {
	return cardStyle.Render(labelStyle.Render(label) + "\n" + value)
}

func insightStyle(s Severity) lipgloss.Style {
	switch s {
	case SeverityAlert:
		return lipgloss.NewStyle().Foreground(colorRed)
	case SeverityWarn:
		return lipgloss.NewStyle().Foreground(colorAmber)
	}
	return lipgloss.NewStyle().Foreground(colorDim)
}

func renderBreakdown(slices []Slice) string {
	var total float64
	nameW := 0
	for _, s := range slices {
		total += s.Value
		if len(s.Name) > nameW {
			nameW = len(s.Name)
		}
	}
	dim := lipgloss.NewStyle().Foreground(colorDim)

	var b strings.Builder
	for i, s := range slices {
		share := s.Value / total
		filled := int(share * barWidth)
		bar := lipgloss.NewStyle().Foreground(sliceColors[i%len(sliceColors)]).Render(strings.Repeat("█", filled)) +
			dim.Render(strings.Repeat("░", barWidth-filled))
		fmt.Fprintf(&b, "  %-*s %s %5.1f%%  %s\n", nameW, s.Name, bar, share*100, money(s.Value))
	}
	return b.String()
}

func money(v float64) string {
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	return sign + "$" + strconv.FormatFloat(v, 'f', -1, 64)
}
