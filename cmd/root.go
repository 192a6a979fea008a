// Package cmd implements the futureline CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theirongolddev/futureline/internal/cli"
	"github.com/theirongolddev/futureline/internal/config"
	"github.com/theirongolddev/futureline/internal/gemini"
	"github.com/theirongolddev/futureline/internal/mediacache"
	"github.com/theirongolddev/futureline/internal/model"
	"github.com/theirongolddev/futureline/internal/openai"
	"github.com/theirongolddev/futureline/internal/pipeline"
	"github.com/theirongolddev/futureline/internal/planstore"
	"github.com/theirongolddev/futureline/internal/timeline"
)

var (
	flagPlanPath string
	flagQuiet    bool
	flagVerbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "futureline",
	Short: "Family future planning CLI",
	Long:  "Plan your family's next decades: per-year timelines, savings projections, and AI-generated vision boards.",
	RunE:  runTimeline,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagPlanPath, "plan", "", "Plan file path (default: XDG data dir)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose pipeline logging")
}

// openStore builds the plan store from config and flags.
func openStore() (*planstore.Store, config.Config) {
	cfg, _ := config.Load()

	path := flagPlanPath
	if path == "" {
		path = config.PlanPath(cfg)
	}

	budget := planstore.DefaultBudget()
	if cfg.Storage.MaxPlanKB > 0 {
		budget.MaxBytes = cfg.Storage.MaxPlanKB * 1024
	}
	if cfg.Storage.MaxPhotos > 0 {
		budget.MaxPhotos = cfg.Storage.MaxPhotos
	}

	return planstore.NewFileStore(path, budget), cfg
}

// loadPlan loads the saved plan, falling back to the demo plan so read-only
// commands always have something to show.
func loadPlan(store *planstore.Store) (*model.Plan, error) {
	plan, err := store.LoadOrDemo()
	if err != nil {
		return nil, fmt.Errorf("loading plan: %w", err)
	}
	return plan, nil
}

// openCache opens the sqlite media cache; a nil cache just disables
// mirroring.
func openCache() *mediacache.Cache {
	cache, err := mediacache.Open(config.MediaCachePath())
	if err != nil {
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  media cache unavailable: %v\n", err)
		}
		return nil
	}
	return cache
}

func newLogger() *zap.Logger {
	if !flagVerbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// newPipeline wires whatever providers are configured. Missing keys leave
// the corresponding backend nil; fallback-capable steps keep working.
func newPipeline(ctx context.Context, cfg config.Config, cache *mediacache.Cache) (*pipeline.Pipeline, func()) {
	var gen pipeline.Generator
	cleanup := func() {}

	gclient, err := gemini.NewClient(ctx, cfg)
	if err == nil {
		gen = pipeline.NewGeminiGenerator(gclient)
		cleanup = func() { _ = gclient.Close() }
	} else if !flagQuiet && flagVerbose {
		fmt.Fprintf(os.Stderr, "  gemini: %v\n", err)
	}

	timeout := time.Duration(cfg.OpenAI.RequestTimeoutSec) * time.Second
	oclient := openai.NewClient(config.GetOpenAIKey(cfg), timeout)

	var completer pipeline.Completer
	if oclient != nil {
		completer = oclient
	}

	return pipeline.New(pipeline.Options{
		Generator:   gen,
		Completer:   completer,
		Cache:       cache,
		Logger:      newLogger(),
		TextModel:   cfg.OpenAI.TextModel,
		VisionModel: cfg.OpenAI.VisionModel,
	}), cleanup
}

// runTimeline renders the per-year projection table; it is both the root
// command and `futureline timeline`.
func runTimeline(_ *cobra.Command, _ []string) error {
	store, _ := openStore()
	plan, err := loadPlan(store)
	if err != nil {
		return err
	}

	years := timeline.Years(plan)
	rows := make([][]string, 0, len(years))
	savings := make([]float64, 0, len(years))
	for _, year := range years {
		sum := timeline.SummarizeYear(plan, year)
		savings = append(savings, sum.SavingsCumulative)

		ages := make([]string, 0, len(plan.People))
		for _, p := range plan.People {
			ages = append(ages, fmt.Sprintf("%s %s", p.Name, cli.FormatAge(sum.Ages[p.ID])))
		}

		notes := append(append([]string{}, sum.Milestones...), sum.Moments...)
		rows = append(rows, []string{
			fmt.Sprintf("%d", year),
			cli.FormatList(ages, 0),
			sum.City,
			cli.FormatMoney(sum.SavingsCumulative),
			cli.Truncate(cli.FormatList(notes, 2), 48),
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("FUTURELINE"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("%d-%d", plan.StartYear, plan.StartYear+plan.Horizon),
		Headers: []string{"Year", "Ages", "City", "Savings", "Milestones & Moments"},
		Rows:    rows,
	}))
	fmt.Println()
	if len(savings) > 0 {
		fmt.Printf("  Savings %s %s\n", cli.RenderSparkline(savings), cli.SavingsText(cli.FormatMoney(savings[len(savings)-1])))
		fmt.Println()
	}
	return nil
}

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Show the per-year projection table",
	RunE:  runTimeline,
}

func init() {
	rootCmd.AddCommand(timelineCmd)
}
