package export

import (
	"fmt"
	"html/template"
	"os"
	"strings"

	"cwrapped/internal/cli"
	"cwrapped/internal/model"
)

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Claude Code Wrapped — {{.Period}}</title>
<style>
  body { background: #100F0F; color: #FFFCF0; font-family: ui-monospace, monospace;
         max-width: 720px; margin: 0 auto; padding: 2rem 1rem; }
  h1 { text-align: center; color: #3AA99F; }
  h2 { color: #3AA99F; border-bottom: 1px solid #282726; padding-bottom: .3rem; }
  .grid { display: grid; grid-template-columns: repeat(3, 1fr); gap: .8rem; }
  .stat { background: #1C1B1A; border: 1px solid #282726; border-radius: 8px;
          padding: 1rem; text-align: center; }
  .stat .value { font-size: 1.5rem; font-weight: bold; color: #D0A215; }
  .stat .label { color: #6F6E69; font-size: .8rem; }
  .bar-row { display: flex; align-items: center; gap: .5rem; margin: .2rem 0; }
  .bar-row .name { width: 9rem; color: #6F6E69; overflow: hidden;
                   text-overflow: ellipsis; white-space: nowrap; }
  .bar-row .bar { height: .9rem; background: #4385BE; border-radius: 3px; }
  .bar-row .count { color: #575653; font-size: .8rem; }
  .hours { display: flex; align-items: flex-end; gap: 2px; height: 80px; }
  .hours .h { flex: 1; background: #3AA99F; border-radius: 2px 2px 0 0; }
  .contrib { display: flex; gap: 2px; overflow-x: auto; }
  .contrib .week { display: flex; flex-direction: column; gap: 2px; }
  .contrib .d { width: 10px; height: 10px; border-radius: 2px; }
  .c0 { background: #282726; } .c1 { background: #2F4F3A; }
  .c2 { background: #4F7942; } .c3 { background: #879A39; }
  .c4 { background: #B8D64A; } .cx { visibility: hidden; }
  .personality { background: #1C1B1A; border: 1px solid #3AA99F; border-radius: 8px;
                 padding: 1rem; text-align: center; margin: 1rem 0; }
  .footer { color: #575653; text-align: center; margin-top: 2rem; font-size: .8rem; }
</style>
</head>
<body>
<h1>✨ Claude Code Wrapped — {{.Period}} ✨</h1>

<div class="grid">
  <div class="stat"><div class="value">{{.Messages}}</div><div class="label">Messages</div></div>
  <div class="stat"><div class="value">{{.Sessions}}</div><div class="label">Sessions</div></div>
  <div class="stat"><div class="value">{{.Projects}}</div><div class="label">Projects</div></div>
  <div class="stat"><div class="value">{{.Tokens}}</div><div class="label">Tokens</div></div>
  <div class="stat"><div class="value">{{.ActiveDays}}</div><div class="label">Active days</div></div>
  <div class="stat"><div class="value">{{.Cost}}</div><div class="label">Estimated cost</div></div>
</div>

<h2>Streaks</h2>
<p>🔥 Longest streak: <strong>{{.StreakLongest}} days</strong>{{if .StreakRange}} ({{.StreakRange}}){{end}}<br>
⚡ Current streak: <strong>{{.StreakCurrent}} days</strong>{{if .LateNightDays}}<br>
🌙 Late-night days: <strong>{{.LateNightDays}}</strong>{{end}}</p>

{{if .ContribWeeks}}
<h2>Activity</h2>
<div class="contrib">
{{- range .ContribWeeks}}
  <div class="week">
  {{- range .}}
    <div class="d {{levelClass .}}"></div>
  {{- end}}
  </div>
{{- end}}
</div>
{{end}}
<h2>Activity by Hour</h2>
<div class="hours">
{{- range .Hours}}
  <div class="h" style="height: {{.Pct}}%" title="{{.Title}}"></div>
{{- end}}
</div>

<h2>Activity by Weekday</h2>
{{- range .Weekdays}}
<div class="bar-row"><span class="name">{{.Label}}</span><span class="bar" style="width: {{.Pct}}%"></span><span class="count">{{.Count}}</span></div>
{{- end}}
{{if .Tools}}
<h2>Top Tools</h2>
{{- range .Tools}}
<div class="bar-row"><span class="name">{{.Label}}</span><span class="bar" style="width: {{.Pct}}%"></span><span class="count">{{.Count}}</span></div>
{{- end}}
{{end}}
{{- if .ProjectRows}}
<h2>Top Projects</h2>
{{- range .ProjectRows}}
<div class="bar-row"><span class="name">{{.Label}}</span><span class="bar" style="width: {{.Pct}}%"></span><span class="count">{{.Count}}</span></div>
{{- end}}
{{end}}
<div class="personality">
  <div style="font-size: 2rem">{{.PersonalityEmoji}}</div>
  <div style="font-size: 1.2rem; color: #3AA99F"><strong>{{.PersonalityTitle}}</strong></div>
  <div style="color: #6F6E69">{{.PersonalityDesc}}</div>
</div>
{{if .Facts}}
<h2>Fun Facts</h2>
<ul>
{{- range .Facts}}
  <li>{{.Emoji}} {{.Text}}</li>
{{- end}}
</ul>
{{end}}
<div class="footer">Generated by cwrapped</div>
</body>
</html>
`

type htmlBar struct {
	Label string
	Count string
	Pct   int
}

type htmlHour struct {
	Pct   int
	Title string
}

type htmlView struct {
	markdownView
	Hours        []htmlHour
	Weekdays     []htmlBar
	ProjectRows  []htmlBar
	Tools        []htmlBar
	ContribWeeks [][7]int
}

// levelClass maps a contribution intensity to its CSS class.
func levelClass(level int) string {
	if level < 0 {
		return "cx"
	}
	return fmt.Sprintf("c%d", level)
}

func buildHTMLView(s *model.WrappedStats) htmlView {
	v := htmlView{markdownView: buildMarkdownView(s)}

	maxHour := 0
	for _, n := range s.HourlyDistribution {
		if n > maxHour {
			maxHour = n
		}
	}
	for h, n := range s.HourlyDistribution {
		v.Hours = append(v.Hours, htmlHour{
			Pct:   pct(n, maxHour),
			Title: fmt.Sprintf("%s: %d", cli.FormatHour(h), n),
		})
	}

	maxDay := 0
	for _, n := range s.WeekdayDistribution {
		if n > maxDay {
			maxDay = n
		}
	}
	for i, n := range s.WeekdayDistribution {
		v.Weekdays = append(v.Weekdays, htmlBar{
			Label: cli.FormatWeekday(i),
			Count: cli.FormatNumber(int64(n)),
			Pct:   pct(n, maxDay),
		})
	}

	v.Tools = rankingBars(s.TopTools, 5)
	v.ProjectRows = rankingBars(s.TopProjects, 5)
	v.ContribWeeks = cli.ContributionLevels(s)

	return v
}

func rankingBars(table model.RankingTable, n int) []htmlBar {
	top := table.Top(n)
	if len(top) == 0 {
		return nil
	}
	maxCount := top[0].Count
	bars := make([]htmlBar, 0, len(top))
	for _, e := range top {
		bars = append(bars, htmlBar{
			Label: e.Label,
			Count: cli.FormatNumber(int64(e.Count)),
			Pct:   pct(e.Count, maxCount),
		})
	}
	return bars
}

// pct scales a count to a 2-100 range so nonzero bars stay visible.
func pct(n, max int) int {
	if max <= 0 || n <= 0 {
		return 0
	}
	p := n * 100 / max
	if p < 2 {
		p = 2
	}
	return p
}

// HTML renders the self-contained shareable HTML report.
func HTML(s *model.WrappedStats) ([]byte, error) {
	tmpl, err := template.New("html").
		Funcs(template.FuncMap{"levelClass": levelClass}).
		Parse(htmlTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing html template: %w", err)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, buildHTMLView(s)); err != nil {
		return nil, fmt.Errorf("rendering html: %w", err)
	}
	return []byte(b.String()), nil
}

// WriteHTML writes the HTML export to path.
func WriteHTML(s *model.WrappedStats, path string) error {
	data, err := HTML(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
