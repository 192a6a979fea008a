package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/futureline/internal/gemini"
	"github.com/theirongolddev/futureline/internal/model"
	"github.com/theirongolddev/futureline/internal/photos"
	"github.com/theirongolddev/futureline/internal/pipeline"
	"github.com/theirongolddev/futureline/internal/timeline"
)

var (
	flagRenderEvery int
	flagRenderOut   string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Generate one representative image per plan year",
	Long: "Walks the plan horizon and generates a lifestyle photo for each sampled\n" +
		"year, keeping the family's identity consistent across years via a single\n" +
		"image conversation. Requires a Gemini API key.",
	RunE: runRender,
}

func init() {
	renderCmd.Flags().IntVar(&flagRenderEvery, "every", 1, "Sample every N years")
	renderCmd.Flags().StringVar(&flagRenderOut, "out", "timeline-images", "Output directory")
	rootCmd.AddCommand(renderCmd)
}

func runRender(_ *cobra.Command, _ []string) error {
	if flagRenderEvery < 1 {
		return fmt.Errorf("--every must be at least 1")
	}

	store, cfg := openStore()
	plan, err := loadPlan(store)
	if err != nil {
		return err
	}

	var contexts []pipeline.YearContext
	for i, year := range timeline.Years(plan) {
		if i%flagRenderEvery != 0 {
			continue
		}
		contexts = append(contexts, pipeline.ContextFor(plan, year))
	}
	if len(contexts) == 0 {
		return fmt.Errorf("plan has no years to render")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	cache := openCache()
	if cache != nil {
		defer func() { _ = cache.Close() }()
	}

	pipe, cleanup := newPipeline(ctx, cfg, cache)
	defer cleanup()

	if !flagQuiet {
		fmt.Printf("  Rendering %d years (this can take a while)...\n", len(contexts))
	}

	images, err := pipe.TimelineImages(ctx, contexts, plan.CharacterDescriptions, photos.Reference(plan))
	if err != nil {
		return err
	}

	if _, err := store.Mutate(func(p *model.Plan) error {
		if p.TimelineImages == nil {
			p.TimelineImages = make(map[int]string)
		}
		for _, img := range images {
			p.TimelineImages[img.Year] = img.ImageURL
		}
		return nil
	}); err != nil {
		return err
	}

	if err := os.MkdirAll(flagRenderOut, 0o750); err != nil {
		return err
	}
	for _, img := range images {
		inline, err := gemini.ParseDataURL(img.ImageURL)
		if err != nil {
			continue
		}
		path := filepath.Join(flagRenderOut, fmt.Sprintf("%d%s", img.Year, extForMIME(inline.MIMEType)))
		if err := os.WriteFile(path, inline.Data, 0o600); err != nil {
			return err
		}
		if !flagQuiet {
			fmt.Printf("  %s\n", path)
		}
	}

	fmt.Printf("  Generated %d of %d years\n", len(images), len(contexts))
	return nil
}
