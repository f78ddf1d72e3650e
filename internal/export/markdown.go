package export

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/template"

	"cwrapped/internal/cli"
	"cwrapped/internal/model"
	"cwrapped/internal/stats"
)

const markdownTemplate = `# ✨ Claude Code Wrapped — {{.Period}}

## The Year in Numbers

| | |
|---|---|
| Messages | {{.Messages}} |
| Sessions | {{.Sessions}} |
| Projects | {{.Projects}} |
| Active days | {{.ActiveDays}} |
| Tokens | {{.Tokens}} |
| Estimated cost | {{.Cost}} |

## Streaks

- 🔥 Longest streak: **{{.StreakLongest}} days**{{if .StreakRange}} ({{.StreakRange}}){{end}}
- ⚡ Current streak: **{{.StreakCurrent}} days**
{{- if .LateNightDays}}
- 🌙 Late-night days: **{{.LateNightDays}}**
{{- end}}
{{if .Tools}}
## Top Tools

| Tool | Uses |
|---|---|
{{- range .Tools}}
| {{.Label}} | {{.Count}} |
{{- end}}
{{end}}
{{- if .Projects_}}
## Top Projects

| Project | Messages |
|---|---|
{{- range .Projects_}}
| {{.Label}} | {{.Count}} |
{{- end}}
{{end}}
{{- if .Models}}
## Models

| Model | Messages | Cost |
|---|---|---|
{{- range .Models}}
| {{.Label}} | {{.Count}} | {{.Cost}} |
{{- end}}
{{end}}
{{- if .MonthlyCosts}}
## Monthly Costs

| Month | Cost |
|---|---|
{{- range .MonthlyCosts}}
| {{.Month}} | {{.Cost}} |
{{- end}}
{{end}}
## Personality

{{.PersonalityEmoji}} **{{.PersonalityTitle}}** — {{.PersonalityDesc}}
{{if .Facts}}
## Fun Facts
{{range .Facts}}
- {{.Emoji}} {{.Text}}
{{- end}}
{{end}}`

type rankedRow struct {
	Label string
	Count string
}

type modelRow struct {
	Label string
	Count string
	Cost  string
}

type monthRow struct {
	Month string
	Cost  string
}

type markdownView struct {
	Period        string
	Messages      string
	Sessions      string
	Projects      string
	ActiveDays    string
	Tokens        string
	Cost          string
	StreakLongest int
	StreakRange   string
	StreakCurrent int
	LateNightDays int
	Tools         []rankedRow
	Projects_     []rankedRow
	Models        []modelRow
	MonthlyCosts  []monthRow

	PersonalityEmoji string
	PersonalityTitle string
	PersonalityDesc  string
	Facts            []stats.FunFact
}

func buildMarkdownView(s *model.WrappedStats) markdownView {
	cost := "n/a"
	if s.EstimatedCost != nil {
		cost = cli.FormatCost(*s.EstimatedCost)
	}

	v := markdownView{
		Period:        cli.PeriodLabel(s.Year),
		Messages:      cli.FormatNumber(int64(s.TotalMessages)),
		Sessions:      cli.FormatNumber(int64(s.TotalSessions)),
		Projects:      cli.FormatNumber(int64(s.TotalProjects)),
		ActiveDays:    cli.FormatNumber(int64(s.ActiveDays)),
		Tokens:        cli.FormatTokens(s.TotalTokens),
		Cost:          cost,
		StreakLongest: s.StreakLongest,
		StreakCurrent: s.StreakCurrent,
		LateNightDays: s.LateNightDays,
		Facts:         stats.FunFacts(s),
	}

	if s.StreakLongestStart != nil && s.StreakLongestEnd != nil && s.StreakLongest > 1 {
		v.StreakRange = fmt.Sprintf("%s – %s",
			s.StreakLongestStart.Format("Jan 2"), s.StreakLongestEnd.Format("Jan 2"))
	}

	for _, e := range s.TopTools.Top(5) {
		v.Tools = append(v.Tools, rankedRow{e.Label, cli.FormatNumber(int64(e.Count))})
	}
	for _, e := range s.TopProjects.Top(5) {
		v.Projects_ = append(v.Projects_, rankedRow{e.Label, cli.FormatNumber(int64(e.Count))})
	}
	for _, e := range s.ModelsUsed {
		mc := "n/a"
		if c, ok := s.CostByModel[e.Label]; ok {
			mc = cli.FormatCost(c)
		}
		v.Models = append(v.Models, modelRow{e.Label, cli.FormatNumber(int64(e.Count)), mc})
	}

	months := make([]string, 0, len(s.MonthlyCosts))
	for m := range s.MonthlyCosts {
		months = append(months, m)
	}
	sort.Strings(months)
	for _, m := range months {
		v.MonthlyCosts = append(v.MonthlyCosts, monthRow{m, cli.FormatCost(s.MonthlyCosts[m])})
	}

	p := stats.DeterminePersonality(s)
	v.PersonalityEmoji = p.Emoji
	v.PersonalityTitle = p.Title
	v.PersonalityDesc = p.Description

	return v
}

// Markdown renders the shareable Markdown report.
func Markdown(s *model.WrappedStats) ([]byte, error) {
	tmpl, err := template.New("markdown").Parse(markdownTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing markdown template: %w", err)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, buildMarkdownView(s)); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return []byte(b.String()), nil
}

// WriteMarkdown writes the Markdown export to path.
func WriteMarkdown(s *model.WrappedStats, path string) error {
	data, err := Markdown(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
