package tui

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// Options is what the interactive prompt resolves before a run.
type Options struct {
	Year     *int // nil = all-time
	Animate  bool
	JSON     bool
	Markdown bool
	HTML     bool
	Output   string
}

// IsInteractive reports whether both ends of the terminal are TTYs, so
// the prompt and slide show are usable.
func IsInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) &&
		(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))
}

// Prompt runs the interactive setup form and returns the chosen options.
func Prompt(defaultAnimate bool) (*Options, error) {
	now := time.Now()
	thisYear := now.Year()
	lastYear := thisYear - 1

	var (
		period  = fmt.Sprintf("%d", thisYear)
		animate = defaultAnimate
		exports []string
		output  string
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which period?").
				Options(
					huh.NewOption(fmt.Sprintf("%d (this year)", thisYear), fmt.Sprintf("%d", thisYear)),
					huh.NewOption(fmt.Sprintf("%d", lastYear), fmt.Sprintf("%d", lastYear)),
					huh.NewOption("All time", "all"),
				).
				Value(&period),
			huh.NewConfirm().
				Title("Play the animated slide show?").
				Value(&animate),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Export formats").
				Options(
					huh.NewOption("JSON", "json"),
					huh.NewOption("Markdown", "markdown"),
					huh.NewOption("HTML", "html"),
				).
				Value(&exports),
			huh.NewInput().
				Title("Output name (blank for default)").
				Placeholder("claude-wrapped-...").
				Value(&output),
		),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}

	opts := &Options{Animate: animate, Output: output}
	if period != "all" {
		var y int
		if _, err := fmt.Sscanf(period, "%d", &y); err == nil {
			opts.Year = &y
		}
	}
	for _, e := range exports {
		switch e {
		case "json":
			opts.JSON = true
		case "markdown":
			opts.Markdown = true
		case "html":
			opts.HTML = true
		}
	}
	return opts, nil
}
