package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"cwrapped/internal/model"
	"cwrapped/internal/stats"
)

// Theme colors (Flexoki Dark)
var (
	ColorBg        = lipgloss.Color("#100F0F")
	ColorSurface   = lipgloss.Color("#1C1B1A")
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorBlue      = lipgloss.Color("#4385BE")
	ColorPurple    = lipgloss.Color("#8B7EC8")
	ColorYellow    = lipgloss.Color("#D0A215")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	costStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	barStyle = lipgloss.NewStyle().
			Foreground(ColorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// PeriodLabel names the reporting period for titles and messages.
func PeriodLabel(year *int) string {
	if year == nil {
		return "All Time"
	}
	return fmt.Sprintf("%d", *year)
}

// RenderReport renders the full static wrapped report.
func RenderReport(s *model.WrappedStats) string {
	var b strings.Builder

	b.WriteString(RenderTitle("✨ Claude Code Wrapped — " + PeriodLabel(s.Year) + " ✨"))
	b.WriteString("\n\n")

	b.WriteString(renderHeadline(s))
	b.WriteString("\n")
	b.WriteString(renderStreaks(s))
	b.WriteString("\n")
	if g := RenderContributionGraph(s); g != "" {
		b.WriteString(g)
		b.WriteString("\n")
	}
	b.WriteString(renderHourly(s))
	b.WriteString("\n")
	b.WriteString(renderWeekdays(s))
	b.WriteString("\n")

	if t := renderRanking("Top Tools", s.TopTools, 5); t != "" {
		b.WriteString(t)
		b.WriteString("\n")
	}
	if t := renderRanking("Top MCP Servers", s.TopMCPs, 5); t != "" {
		b.WriteString(t)
		b.WriteString("\n")
	}
	if t := renderRanking("Top Projects", s.TopProjects, 5); t != "" {
		b.WriteString(t)
		b.WriteString("\n")
	}
	if t := renderModels(s); t != "" {
		b.WriteString(t)
		b.WriteString("\n")
	}

	b.WriteString(renderPersonality(s))
	b.WriteString(renderFunFacts(s))

	return b.String()
}

func renderHeadline(s *model.WrappedStats) string {
	cost := "n/a"
	if s.EstimatedCost != nil {
		cost = FormatCost(*s.EstimatedCost)
	}

	rows := [][]string{
		{"Messages", FormatNumber(int64(s.TotalMessages))},
		{"Sessions", FormatNumber(int64(s.TotalSessions))},
		{"Projects", FormatNumber(int64(s.TotalProjects))},
		{"Active days", FormatNumber(int64(s.ActiveDays))},
		{"Tokens", FormatTokens(s.TotalTokens)},
		{"Estimated cost", cost},
	}
	return RenderTable(Table{Title: "The Year in Numbers", Rows: rows})
}

func renderStreaks(s *model.WrappedStats) string {
	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(headerStyle.Render("Streaks"))
	b.WriteString("\n")

	longest := fmt.Sprintf("  🔥 Longest streak: %d days", s.StreakLongest)
	if s.StreakLongestStart != nil && s.StreakLongestEnd != nil && s.StreakLongest > 1 {
		longest += mutedStyle.Render(fmt.Sprintf("  (%s – %s)",
			s.StreakLongestStart.Format("Jan 2"), s.StreakLongestEnd.Format("Jan 2")))
	}
	b.WriteString(valueStyle.Render(longest))
	b.WriteString("\n")
	b.WriteString(valueStyle.Render(fmt.Sprintf("  ⚡ Current streak: %d days", s.StreakCurrent)))
	b.WriteString("\n")
	if s.LateNightDays > 0 {
		b.WriteString(valueStyle.Render(fmt.Sprintf("  🌙 Late-night days: %d", s.LateNightDays)))
		b.WriteString("\n")
	}
	return b.String()
}

func renderHourly(s *model.WrappedStats) string {
	values := make([]float64, len(s.HourlyDistribution))
	for i, n := range s.HourlyDistribution {
		values[i] = float64(n)
	}

	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(headerStyle.Render("Activity by Hour"))
	b.WriteString("\n  ")
	b.WriteString(barStyle.Render(RenderSparkline(values)))
	b.WriteString("\n  ")
	b.WriteString(dimStyle.Render("12am      6am       12pm      6pm    11pm"))
	b.WriteString("\n")
	if s.MostActiveHour != nil {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  Peak hour: %s", FormatHour(*s.MostActiveHour))))
		b.WriteString("\n")
	}
	return b.String()
}

func renderWeekdays(s *model.WrappedStats) string {
	maxCount := 0
	for _, n := range s.WeekdayDistribution {
		if n > maxCount {
			maxCount = n
		}
	}

	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(headerStyle.Render("Activity by Weekday"))
	b.WriteString("\n")
	for i, n := range s.WeekdayDistribution {
		bar := RenderHorizontalBar(float64(n), float64(maxCount), 30)
		b.WriteString(fmt.Sprintf("  %s %s %s\n",
			mutedStyle.Render(FormatWeekday(i)),
			barStyle.Render(bar),
			dimStyle.Render(FormatNumber(int64(n)))))
	}
	return b.String()
}

func renderRanking(title string, table model.RankingTable, n int) string {
	if len(table) == 0 {
		return ""
	}
	rows := make([][]string, 0, n)
	for _, e := range table.Top(n) {
		rows = append(rows, []string{e.Label, FormatNumber(int64(e.Count))})
	}
	return RenderTable(Table{Title: title, Headers: []string{"", "Uses"}, Rows: rows})
}

func renderModels(s *model.WrappedStats) string {
	if len(s.ModelsUsed) == 0 {
		return ""
	}
	rows := make([][]string, 0, len(s.ModelsUsed))
	for _, e := range s.ModelsUsed {
		cost := "n/a"
		if c, ok := s.CostByModel[e.Label]; ok {
			cost = FormatCost(c)
		}
		rows = append(rows, []string{e.Label, FormatNumber(int64(e.Count)), cost})
	}
	return RenderTable(Table{Title: "Models", Headers: []string{"", "Messages", "Cost"}, Rows: rows})
}

func renderPersonality(s *model.WrappedStats) string {
	p := stats.DeterminePersonality(s)

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorAccent).
		Padding(0, 2)

	content := fmt.Sprintf("%s  %s\n%s",
		p.Emoji,
		headerStyle.Render(p.Title),
		mutedStyle.Render(p.Description))

	return card.Render(content) + "\n"
}

func renderFunFacts(s *model.WrappedStats) string {
	facts := stats.FunFacts(s)
	if len(facts) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(headerStyle.Render("Fun Facts"))
	b.WriteString("\n")
	for _, f := range facts {
		b.WriteString(valueStyle.Render(fmt.Sprintf("  %s %s", f.Emoji, f.Text)))
		b.WriteString("\n")
	}
	return b.String()
}

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			if len(h) > widths[i] {
				widths[i] = len(h)
			}
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols && len(cell) > widths[i] {
					widths[i] = len(cell)
				}
			}
		}
	}

	var b strings.Builder

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	// Top border
	b.WriteString(dimStyle.Render("╭"))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < numCols-1 {
			b.WriteString(dimStyle.Render("┬"))
		}
	}
	b.WriteString(dimStyle.Render("╮"))
	b.WriteString("\n")

	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			w := widths[i]
			padded := fmt.Sprintf(" %-*s ", w, h)
			b.WriteString(headerStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")

		b.WriteString(dimStyle.Render("├"))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("┼"))
			}
		}
		b.WriteString(dimStyle.Render("┤"))
		b.WriteString("\n")
	}

	for _, row := range t.Rows {
		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			w := widths[i]
			cell := ""
			if i < len(row) {
				cell = row[i]
			}

			// Right-align numeric columns (all except first)
			var padded string
			if i == 0 {
				padded = fmt.Sprintf(" %-*s ", w, cell)
			} else {
				padded = fmt.Sprintf(" %*s ", w, cell)
			}
			b.WriteString(valueStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render("╰"))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < numCols-1 {
			b.WriteString(dimStyle.Render("┴"))
		}
	}
	b.WriteString(dimStyle.Render("╯"))
	b.WriteString("\n")

	return b.String()
}

// RenderProgressBar renders a simple text progress bar.
func RenderProgressBar(current, total int, width int) string {
	if total <= 0 {
		return ""
	}

	pct := float64(current) / float64(total)
	if pct > 1 {
		pct = 1
	}

	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s/%s",
		mutedStyle.Render(bar),
		FormatNumber(int64(current)),
		FormatNumber(int64(total)),
	)
}

// RenderSparkline generates a unicode block sparkline from a series of values.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		max = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(v / max * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(blocks[idx])
	}

	return b.String()
}

// RenderHorizontalBar renders a proportional bar scaled to maxWidth.
func RenderHorizontalBar(value, maxValue float64, maxWidth int) string {
	if maxValue <= 0 {
		return ""
	}
	barLen := int(value / maxValue * float64(maxWidth))
	if barLen < 0 {
		barLen = 0
	}
	return strings.Repeat("█", barLen)
}
