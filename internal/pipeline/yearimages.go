package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/theirongolddev/futureline/internal/gemini"
	"github.com/theirongolddev/futureline/internal/model"
)

// TimelineImages generates one representative image per requested year.
// For multiple years a single image chat carries identity across turns,
// seeded with an anchor turn that is never returned. Failed years are
// skipped so one bad year cannot sink the run.
func (p *Pipeline) TimelineImages(ctx context.Context, years []YearContext, descs []model.CharacterDescription, refPhoto *gemini.InlineImage) ([]model.TimelineImage, error) {
	if p.gen == nil {
		return nil, ErrImagesNotConfigured
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("pipeline: no years provided")
	}

	var chat SeriesChat
	if len(years) > 1 {
		var err error
		chat, err = p.gen.NewImageChat(ctx)
		if err != nil {
			return nil, fmt.Errorf("pipeline: opening image chat: %w", err)
		}

		setup := []gemini.Segment{gemini.TextSegment(timelineSetupPrompt(descs))}
		if refPhoto != nil {
			setup = append(setup,
				gemini.TextSegment("Reference photo (use ONLY for identity/facial features; ignore background/clothing):"),
				gemini.ImageSegment(*refPhoto),
			)
		}
		// Anchor turn: the image stays in chat history for consistency.
		if _, err := chat.Send(ctx, setup); err != nil {
			return nil, fmt.Errorf("pipeline: timeline anchor turn: %w", err)
		}
	}

	images := make([]model.TimelineImage, 0, len(years))
	for _, yc := range years {
		prompt := timelineYearPrompt(yc)

		var img *gemini.InlineImage
		var err error
		if chat != nil {
			img, err = chat.Send(ctx, []gemini.Segment{gemini.TextSegment(prompt)})
		} else {
			segments := []gemini.Segment{gemini.TextSegment(prompt)}
			if bible := characterBible(descs); bible != "" {
				segments[0] = gemini.TextSegment(fmt.Sprintf("%s\n\nCharacter bible:\n%s", prompt, bible))
			}
			if refPhoto != nil {
				segments = append(segments,
					gemini.TextSegment("Reference photo (use ONLY for identity/facial features; ignore background/clothing):"),
					gemini.ImageSegment(*refPhoto),
				)
			}
			img, err = p.gen.GenerateImage(ctx, gemini.ImageRequest{Segments: segments})
		}
		if err != nil || img == nil {
			p.log.Warn("timeline image failed", zap.Int("year", yc.Summary.Year), zap.Error(err))
			continue
		}

		ti := model.TimelineImage{Year: yc.Summary.Year, ImageURL: img.DataURL()}
		images = append(images, ti)
		if p.cache != nil {
			if err := p.cache.SaveTimelineImage(ti); err != nil {
				p.log.Warn("caching timeline image failed", zap.Int("year", ti.Year), zap.Error(err))
			}
		}
	}
	return images, nil
}
