// Package tui plays the animated wrapped slide show.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cwrapped/internal/cli"
	"cwrapped/internal/model"
	"cwrapped/internal/stats"
)

const (
	tickInterval  = 30 * time.Millisecond
	revealFrames  = 40 // ~1.2s count-up per slide
	defaultWidth  = 72
	defaultHeight = 24
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type slide struct {
	title  string
	render func(s *Show) string
}

// Show is the Bubble Tea model for the slide deck.
type Show struct {
	stats  *model.WrappedStats
	slides []slide

	idx    int
	frame  int
	width  int
	height int

	animate  bool
	progress progress.Model
}

// New builds the slide show for a computed report.
func New(s *model.WrappedStats, animate bool) Show {
	p := progress.New(progress.WithSolidFill("#3AA99F"), progress.WithoutPercentage())
	return Show{
		stats:    s,
		slides:   buildSlides(s),
		width:    defaultWidth,
		height:   defaultHeight,
		animate:  animate,
		progress: p,
	}
}

// Run plays the show until the user quits or it finishes.
func Run(s *model.WrappedStats, animate bool) error {
	_, err := tea.NewProgram(New(s, animate), tea.WithAltScreen()).Run()
	return err
}

func (s Show) Init() tea.Cmd {
	if s.animate {
		return tick()
	}
	return nil
}

func (s Show) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.progress.Width = min(msg.Width-8, 40)
		return s, nil

	case tickMsg:
		if !s.animate {
			return s, nil
		}
		if s.frame < revealFrames {
			s.frame++
		}
		return s, tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return s, tea.Quit
		case " ", "enter", "right", "l", "n":
			if s.frame < revealFrames && s.animate {
				// First press completes the reveal, second advances.
				s.frame = revealFrames
				return s, nil
			}
			if s.idx >= len(s.slides)-1 {
				return s, tea.Quit
			}
			s.idx++
			s.frame = 0
			if !s.animate {
				s.frame = revealFrames
			}
			return s, nil
		case "left", "h", "p":
			if s.idx > 0 {
				s.idx--
				s.frame = revealFrames
			}
			return s, nil
		}
	}
	return s, nil
}

// reveal is the eased 0..1 animation fraction for the current slide.
func (s *Show) reveal() float64 {
	if !s.animate || s.frame >= revealFrames {
		return 1
	}
	t := float64(s.frame) / revealFrames
	return 1 - math.Pow(1-t, 3)
}

// countUp scales a value by the current reveal fraction.
func (s *Show) countUp(n int64) string {
	return cli.FormatNumber(int64(math.Round(float64(n) * s.reveal())))
}

func (s Show) View() string {
	sl := s.slides[s.idx]

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.ColorAccent).
		Render(sl.title)

	body := sl.render(&s)

	footer := fmt.Sprintf("%s  %s",
		s.progress.ViewAs(float64(s.idx+1)/float64(len(s.slides))),
		lipgloss.NewStyle().Foreground(cli.ColorTextDim).
			Render(fmt.Sprintf("%d/%d · space next · q quit", s.idx+1, len(s.slides))))

	content := lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", footer)

	return lipgloss.Place(s.width, s.height, lipgloss.Center, lipgloss.Center, content)
}

func buildSlides(ws *model.WrappedStats) []slide {
	slides := []slide{
		{
			title: "✨ Claude Code Wrapped",
			render: func(s *Show) string {
				sub := lipgloss.NewStyle().Foreground(cli.ColorTextMuted)
				return lipgloss.JoinVertical(lipgloss.Center,
					lipgloss.NewStyle().Bold(true).Foreground(cli.ColorYellow).
						Render(cli.PeriodLabel(s.stats.Year)),
					"",
					sub.Render("Your year with Claude Code, in numbers."),
					sub.Render("Press space to begin."),
				)
			},
		},
		{
			title: "The Numbers",
			render: func(s *Show) string {
				return statGrid(
					statCell("Messages", s.countUp(int64(s.stats.TotalMessages))),
					statCell("Sessions", s.countUp(int64(s.stats.TotalSessions))),
					statCell("Projects", s.countUp(int64(s.stats.TotalProjects))),
					statCell("Active days", s.countUp(int64(s.stats.ActiveDays))),
					statCell("Tokens", cli.FormatTokens(int64(math.Round(float64(s.stats.TotalTokens)*s.reveal())))),
					statCell("Est. cost", costLabel(s)),
				)
			},
		},
		{
			title: "Streaks",
			render: func(s *Show) string {
				lines := []string{
					fmt.Sprintf("🔥 Longest streak: %s days", s.countUp(int64(s.stats.StreakLongest))),
					fmt.Sprintf("⚡ Current streak: %s days", s.countUp(int64(s.stats.StreakCurrent))),
				}
				if s.stats.LateNightDays > 0 {
					lines = append(lines, fmt.Sprintf("🌙 Late nights: %s days", s.countUp(int64(s.stats.LateNightDays))))
				}
				return strings.Join(lines, "\n")
			},
		},
		{
			title: "When You Code",
			render: func(s *Show) string {
				values := make([]float64, 24)
				r := s.reveal()
				for i, n := range s.stats.HourlyDistribution {
					values[i] = float64(n) * r
				}
				spark := lipgloss.NewStyle().Foreground(cli.ColorBlue).
					Render(cli.RenderSparkline(values))

				peak := ""
				if s.stats.MostActiveHour != nil {
					peak = lipgloss.NewStyle().Foreground(cli.ColorTextMuted).
						Render("Peak hour: " + cli.FormatHour(*s.stats.MostActiveHour))
				}
				return lipgloss.JoinVertical(lipgloss.Left,
					spark,
					lipgloss.NewStyle().Foreground(cli.ColorTextDim).
						Render("12am      6am       12pm      6pm    11pm"),
					"",
					peak,
				)
			},
		},
		{
			title: "Favorite Tools",
			render: func(s *Show) string {
				return rankingLines(s.stats.TopTools, s.reveal())
			},
		},
		{
			title: "Your Projects",
			render: func(s *Show) string {
				return rankingLines(s.stats.TopProjects, s.reveal())
			},
		},
		{
			title: "Your Personality",
			render: func(s *Show) string {
				p := stats.DeterminePersonality(s.stats)
				card := lipgloss.NewStyle().
					Border(lipgloss.RoundedBorder()).
					BorderForeground(cli.ColorAccent).
					Padding(1, 3).
					Align(lipgloss.Center)
				return card.Render(lipgloss.JoinVertical(lipgloss.Center,
					p.Emoji,
					lipgloss.NewStyle().Bold(true).Foreground(cli.ColorAccent).Render(p.Title),
					lipgloss.NewStyle().Foreground(cli.ColorTextMuted).Render(p.Description),
				))
			},
		},
		{
			title: "Fun Facts",
			render: func(s *Show) string {
				facts := stats.FunFacts(s.stats)
				if len(facts) == 0 {
					return lipgloss.NewStyle().Foreground(cli.ColorTextMuted).
						Render("A quiet year. Next one's yours.")
				}
				lines := make([]string, 0, len(facts))
				for _, f := range facts {
					lines = append(lines, fmt.Sprintf("%s %s", f.Emoji, f.Text))
				}
				return strings.Join(lines, "\n")
			},
		},
		{
			title: "That's a Wrap",
			render: func(s *Show) string {
				sub := lipgloss.NewStyle().Foreground(cli.ColorTextMuted)
				return lipgloss.JoinVertical(lipgloss.Center,
					sub.Render("See you next year."),
					"",
					sub.Render("q to exit"),
				)
			},
		},
	}
	return slides
}

func costLabel(s *Show) string {
	if s.stats.EstimatedCost == nil {
		return "n/a"
	}
	return cli.FormatCost(*s.stats.EstimatedCost * s.reveal())
}

func statCell(label, value string) string {
	cell := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cli.ColorBorder).
		Padding(0, 2).
		Width(18).
		Align(lipgloss.Center)
	return cell.Render(lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Bold(true).Foreground(cli.ColorYellow).Render(value),
		lipgloss.NewStyle().Foreground(cli.ColorTextMuted).Render(label),
	))
}

func statGrid(cells ...string) string {
	rows := make([]string, 0, (len(cells)+2)/3)
	for i := 0; i < len(cells); i += 3 {
		end := min(i+3, len(cells))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Center, rows...)
}

func rankingLines(table model.RankingTable, reveal float64) string {
	top := table.Top(5)
	if len(top) == 0 {
		return lipgloss.NewStyle().Foreground(cli.ColorTextMuted).Render("Nothing recorded here.")
	}
	maxCount := top[0].Count

	lines := make([]string, 0, len(top))
	for _, e := range top {
		n := float64(e.Count) * reveal
		bar := cli.RenderHorizontalBar(n, float64(maxCount), 24)
		lines = append(lines, fmt.Sprintf("%-18s %s %s",
			e.Label,
			lipgloss.NewStyle().Foreground(cli.ColorBlue).Render(bar),
			lipgloss.NewStyle().Foreground(cli.ColorTextDim).
				Render(cli.FormatNumber(int64(math.Round(n))))))
	}
	return strings.Join(lines, "\n")
}
