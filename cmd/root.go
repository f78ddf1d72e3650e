// Package cmd wires the wrapped report generator into a cobra CLI.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"cwrapped/internal/cli"
	"cwrapped/internal/config"
	"cwrapped/internal/export"
	"cwrapped/internal/model"
	"cwrapped/internal/pipeline"
	"cwrapped/internal/stats"
	"cwrapped/internal/store"
	"cwrapped/internal/tui"
)

var (
	flagJSON        bool
	flagHTML        bool
	flagMarkdown    bool
	flagOutput      string
	flagNoAnimate   bool
	flagDataDir     string
	flagNoCache     bool
	flagQuiet       bool
	flagNoSubagents bool
)

var rootCmd = &cobra.Command{
	Use:   "cwrapped [year|all]",
	Short: "Your Claude Code year in review",
	Long: "Generate a Spotify-Wrapped-style report of your Claude Code usage:\n" +
		"messages, streaks, favorite tools, costs, and your coding personality.",
	Args: cobra.MaximumNArgs(1),
	RunE: runWrapped,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the report as JSON (or write it with --output)")
	rootCmd.Flags().BoolVar(&flagHTML, "html", false, "Export a shareable HTML report")
	rootCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Export a Markdown report")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Base name for exported files")
	rootCmd.Flags().BoolVar(&flagNoAnimate, "no-animate", false, "Skip the animated slide show")
	rootCmd.Flags().StringVarP(&flagDataDir, "data-dir", "d", "", "Claude data directory (default ~/.claude)")
	rootCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Skip SQLite cache, reparse everything")
	rootCmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.Flags().BoolVar(&flagNoSubagents, "no-subagents", false, "Exclude subagent sessions")
}

func runWrapped(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	config.ApplyPricingOverrides(cfg.Pricing.Overrides)

	opts := tui.Options{
		Animate:  cfg.Appearance.Animate && !flagNoAnimate,
		JSON:     flagJSON,
		Markdown: flagMarkdown,
		HTML:     flagHTML,
		Output:   flagOutput,
	}

	switch {
	case len(args) == 1:
		year, err := parsePeriod(args[0])
		if err != nil {
			return err
		}
		opts.Year = year
	case tui.IsInteractive() && !flagJSON && !flagHTML && !flagMarkdown:
		prompted, err := tui.Prompt(opts.Animate)
		if err != nil {
			return err
		}
		prompted.Animate = prompted.Animate && !flagNoAnimate
		if prompted.Output == "" {
			prompted.Output = flagOutput
		}
		opts = *prompted
	default:
		y := time.Now().Year()
		opts.Year = &y
	}

	dataDir := flagDataDir
	if dataDir == "" {
		dataDir = config.DefaultClaudeDir(cfg)
	}

	result, err := loadData(dataDir)
	if err != nil {
		return err
	}

	ws, err := stats.Aggregate(result.Records, opts.Year)
	if err != nil {
		if errors.Is(err, stats.ErrNoActivity) {
			fmt.Printf("No Claude Code activity found for %s.\n", cli.PeriodLabel(opts.Year))
			return nil
		}
		return err
	}

	if err := runExports(ws, opts, cfg); err != nil {
		return err
	}
	if opts.JSON && opts.Output == "" {
		// JSON went to stdout; nothing else to render.
		return nil
	}

	if opts.Animate && tui.IsInteractive() {
		if err := tui.Run(ws, true); err == nil {
			return nil
		}
		// Broken terminal for the show; static report still works.
	}

	fmt.Println(cli.RenderReport(ws))
	return nil
}

// parsePeriod resolves the positional period argument.
func parsePeriod(arg string) (*int, error) {
	if arg == "all" || arg == "all-time" {
		return nil, nil
	}
	year, err := strconv.Atoi(arg)
	if err != nil || year < 2000 || year > 2100 {
		return nil, fmt.Errorf("invalid period %q: want a year or \"all\"", arg)
	}
	return &year, nil
}

// loadData is the shared data loading path. Uses the SQLite cache when
// available for fast subsequent runs, falling back to a full parse.
func loadData(dataDir string) (*pipeline.LoadResult, error) {
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Scanning sessions...\n")
	}

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%100 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
		}
	}

	if !flagNoCache {
		cache, err := store.Open(pipeline.CachePath())
		if err != nil {
			if !flagQuiet {
				fmt.Fprintf(os.Stderr, "  Cache unavailable, doing full parse\n")
			}
		} else {
			defer func() { _ = cache.Close() }()

			cr, err := pipeline.LoadWithCache(dataDir, !flagNoSubagents, cache, progressFn)
			if err != nil {
				if !flagQuiet {
					fmt.Fprintf(os.Stderr, "\n  Cache error, falling back to full parse\n")
				}
			} else {
				if !flagQuiet && cr.TotalFiles > 0 {
					if cr.Reparsed == 0 {
						fmt.Fprintf(os.Stderr, "\r  Loaded %s messages from cache (%d projects)    \n",
							cli.FormatNumber(int64(len(cr.Records))), cr.ProjectCount)
					} else {
						fmt.Fprintf(os.Stderr, "\r  %d files cached + %d reparsed (%d projects)    \n",
							cr.CacheHits, cr.Reparsed, cr.ProjectCount)
					}
				}
				return &cr.LoadResult, nil
			}
		}
	}

	result, err := pipeline.Load(dataDir, !flagNoSubagents, progressFn)
	if err != nil {
		return nil, err
	}
	if !flagQuiet && result.TotalFiles > 0 {
		fmt.Fprintf(os.Stderr, "\r  Parsed %d files across %d projects    \n",
			result.ParsedFiles, result.ProjectCount)
	}
	return result, nil
}

// runExports writes whichever export formats were requested.
func runExports(ws *model.WrappedStats, opts tui.Options, cfg config.Config) error {
	if !opts.JSON && !opts.Markdown && !opts.HTML {
		return nil
	}

	base := opts.Output
	if base == "" {
		base = export.DefaultBaseName(ws.Year, time.Now())
	}
	outDir := cfg.General.OutputDir
	if outDir == "" {
		outDir = "."
	}

	if opts.JSON {
		if opts.Output == "" {
			data, err := export.JSON(ws)
			if err != nil {
				return err
			}
			fmt.Println(string(data))
		} else {
			path := filepath.Join(outDir, base+".json")
			if err := export.WriteJSON(ws, path); err != nil {
				return err
			}
			reportExport(path)
		}
	}
	if opts.Markdown {
		path := filepath.Join(outDir, base+".md")
		if err := export.WriteMarkdown(ws, path); err != nil {
			return err
		}
		reportExport(path)
	}
	if opts.HTML {
		path := filepath.Join(outDir, base+".html")
		if err := export.WriteHTML(ws, path); err != nil {
			return err
		}
		reportExport(path)
	}
	return nil
}

func reportExport(path string) {
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Exported %s\n", path)
	}
}
