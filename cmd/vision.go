package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/futureline/internal/cli"
	"github.com/theirongolddev/futureline/internal/gemini"
	"github.com/theirongolddev/futureline/internal/model"
	"github.com/theirongolddev/futureline/internal/photos"
	"github.com/theirongolddev/futureline/internal/pipeline"
)

var (
	flagVisionYear int
	flagVisionDay  string
	flagVisionOut  string
)

var visionCmd = &cobra.Command{
	Use:   "vision",
	Short: "Generate a 5-image vision board for one day of a year",
	Long: "Plans five photographic moments of a single day, generates an anchor\n" +
		"image, renders each scene against it with a consistency check, and writes\n" +
		"the results to disk. Requires a Gemini API key.",
	RunE: runVision,
}

func init() {
	visionCmd.Flags().IntVar(&flagVisionYear, "year", 0, "Plan year (default: current year)")
	visionCmd.Flags().StringVar(&flagVisionDay, "day", "christmas", "Day type")
	visionCmd.Flags().StringVar(&flagVisionOut, "out", "", "Output directory (default: ./visionboard-<year>-<day>)")
	rootCmd.AddCommand(visionCmd)
}

func runVision(_ *cobra.Command, _ []string) error {
	if !model.ValidDayType(flagVisionDay) {
		return fmt.Errorf("unknown day type %q", flagVisionDay)
	}
	dt := model.DayType(flagVisionDay)

	store, cfg := openStore()
	plan, err := loadPlan(store)
	if err != nil {
		return err
	}

	year := flagVisionYear
	if year == 0 {
		year = model.ThisYear()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Minute)
	defer cancel()

	cache := openCache()
	if cache != nil {
		defer func() { _ = cache.Close() }()
	}

	pipe, cleanup := newPipeline(ctx, cfg, cache)
	defer cleanup()

	if !flagQuiet {
		fmt.Printf("  Generating %s %d vision board (this can take a few minutes)...\n", dt, year)
	}

	res, err := pipe.VisionBoard(
		ctx, year, dt,
		plan.JournalText(year, dt),
		pipeline.ContextFor(plan, year),
		plan.CharacterDescriptions,
		photos.Reference(plan),
	)
	if err != nil {
		return err
	}

	dropped, err := store.Mutate(func(p *model.Plan) error {
		if p.VisionBoards == nil {
			p.VisionBoards = make(map[string][]model.BoardImage)
		}
		p.VisionBoards[model.BoardKey(year, dt)] = res.Images
		return nil
	})
	if err != nil {
		return err
	}

	outDir := flagVisionOut
	if outDir == "" {
		outDir = fmt.Sprintf("visionboard-%d-%s", year, dt)
	}
	written, err := writeBoardImages(outDir, res.Images)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  %s %s\n", cli.RenderProgressBar(len(res.Images), 5, 20), "scenes rendered")
	for _, path := range written {
		fmt.Printf("  %s\n", path)
	}
	if len(res.FailedScenes) > 0 {
		fmt.Printf("  Skipped scenes: %v\n", res.FailedScenes)
	}
	for _, section := range dropped {
		fmt.Printf("  Note: dropped %s to stay within the plan size budget\n", section)
	}
	fmt.Println()
	return nil
}

func writeBoardImages(dir string, images []model.BoardImage) ([]string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(images))
	for _, img := range images {
		inline, err := gemini.ParseDataURL(img.ImageURL)
		if err != nil {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("scene-%d%s", img.Index+1, extForMIME(inline.MIMEType)))
		if err := os.WriteFile(path, inline.Data, 0o600); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func extForMIME(mime string) string {
	switch {
	case strings.Contains(mime, "jpeg"):
		return ".jpg"
	case strings.Contains(mime, "webp"):
		return ".webp"
	default:
		return ".png"
	}
}
