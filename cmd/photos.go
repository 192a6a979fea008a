package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/futureline/internal/cli"
	"github.com/theirongolddev/futureline/internal/model"
	"github.com/theirongolddev/futureline/internal/photos"
)

var photosCmd = &cobra.Command{
	Use:   "photos",
	Short: "Manage family reference photos",
	RunE:  runPhotosList,
}

var photosAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Attach a photo as an identity reference for image generation",
	Args:  cobra.ExactArgs(1),
	RunE:  runPhotosAdd,
}

var photosScanCmd = &cobra.Command{
	Use:   "scan <dir>",
	Short: "List image files in a directory, newest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runPhotosScan,
}

var photosAnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Extract per-person descriptions from the newest photo",
	RunE:  runPhotosAnalyze,
}

func init() {
	photosCmd.AddCommand(photosAddCmd, photosScanCmd, photosAnalyzeCmd)
	rootCmd.AddCommand(photosCmd)
}

func runPhotosList(_ *cobra.Command, _ []string) error {
	store, cfg := openStore()
	plan, err := loadPlan(store)
	if err != nil {
		return err
	}

	if len(plan.FamilyPhotos) == 0 {
		fmt.Println("  No photos attached. Use `futureline photos add <file>`.")
		return nil
	}

	maxPhotos := cfg.Storage.MaxPhotos
	fmt.Println()
	for _, p := range plan.FamilyPhotos {
		at := time.UnixMilli(p.UploadedAt).Format("2006-01-02")
		fmt.Printf("  %-14s %s  %s\n", p.ID, at, cli.MutedText(fmt.Sprintf("%d KB", len(p.DataURL)/1024)))
	}
	fmt.Println()
	fmt.Printf("  %d of %d photo slots used\n", len(plan.FamilyPhotos), maxPhotos)

	if len(plan.CharacterDescriptions) > 0 {
		fmt.Println()
		fmt.Println("  Character descriptions")
		for _, d := range plan.CharacterDescriptions {
			fmt.Printf("    %-12s %s\n", d.PersonName, cli.Truncate(d.Description, 70))
		}
	}
	fmt.Println()
	return nil
}

func runPhotosAdd(_ *cobra.Command, args []string) error {
	photo, err := photos.Load(args[0])
	if err != nil {
		return err
	}

	store, cfg := openStore()
	dropped, err := store.Mutate(func(p *model.Plan) error {
		p.FamilyPhotos = append(p.FamilyPhotos, photo)
		if max := cfg.Storage.MaxPhotos; max > 0 && len(p.FamilyPhotos) > max {
			p.FamilyPhotos = p.FamilyPhotos[len(p.FamilyPhotos)-max:]
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("  Added %s\n", photo.ID)
	for _, section := range dropped {
		fmt.Printf("  Note: dropped %s to stay within the plan size budget\n", section)
	}
	return nil
}

func runPhotosScan(_ *cobra.Command, args []string) error {
	found, err := photos.ScanDir(args[0])
	if err != nil {
		return err
	}
	if len(found) == 0 {
		fmt.Println("  No images found")
		return nil
	}
	for _, p := range found {
		fmt.Printf("  %-30s %s\n", p.Name, cli.MutedText(fmt.Sprintf("%d KB", p.Size/1024)))
	}
	return nil
}

func runPhotosAnalyze(_ *cobra.Command, _ []string) error {
	store, cfg := openStore()
	plan, err := loadPlan(store)
	if err != nil {
		return err
	}

	ref := photos.Reference(plan)
	if ref == nil {
		return fmt.Errorf("no photos attached; use `futureline photos add <file>` first")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pipe, cleanup := newPipeline(ctx, cfg, nil)
	defer cleanup()

	if !flagQuiet {
		fmt.Println("  Analyzing photo...")
	}
	descs, err := pipe.AnalyzePhoto(ctx, ref.DataURL(), plan.People)
	if err != nil {
		return err
	}

	if _, err := store.Mutate(func(p *model.Plan) error {
		p.CharacterDescriptions = descs
		return nil
	}); err != nil {
		return err
	}

	fmt.Println()
	for _, d := range descs {
		fmt.Printf("  %-12s %s\n", d.PersonName, cli.Truncate(d.Description, 90))
	}
	fmt.Println()
	return nil
}
