package pipeline

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/futureline/internal/gemini"
	"github.com/theirongolddev/futureline/internal/model"
)

// Anchor generates the identity-reference image that every scene image of a
// board is judged against.
func (p *Pipeline) Anchor(ctx context.Context, year int, yc YearContext, descs []model.CharacterDescription, refPhoto *gemini.InlineImage) (*gemini.InlineImage, error) {
	if p.gen == nil {
		return nil, ErrImagesNotConfigured
	}

	segments := []gemini.Segment{gemini.TextSegment(anchorPrompt(year, yc, descs))}
	if refPhoto != nil {
		segments = append(segments,
			gemini.TextSegment("Reference photo (use ONLY for identity/facial features; ignore background/clothing):"),
			gemini.ImageSegment(*refPhoto),
		)
	}

	img, err := p.gen.GenerateImage(ctx, gemini.ImageRequest{Segments: segments})
	if err != nil {
		p.log.Warn("anchor generation failed", zap.Int("year", year), zap.Error(err))
		return nil, ErrAnchor
	}
	return img, nil
}

// SceneImageRequest carries everything needed to render one scene of a
// board.
type SceneImageRequest struct {
	Year     int
	Scene    model.SceneIdea
	Context  YearContext
	Descs    []model.CharacterDescription
	Anchor   *gemini.InlineImage
	RefPhoto *gemini.InlineImage
}

// SceneImage generates one scene image, judges it against the anchor, and
// regenerates at most once when the judge flags a fixable identity drift.
func (p *Pipeline) SceneImage(ctx context.Context, req SceneImageRequest) (model.BoardImage, error) {
	if p.gen == nil {
		return model.BoardImage{}, ErrImagesNotConfigured
	}
	if req.Anchor == nil {
		return model.BoardImage{}, ErrAnchor
	}

	prompt := sceneImagePrompt(req.Year, req.Scene, req.Context, req.Descs)
	segments := []gemini.Segment{
		gemini.TextSegment(prompt),
		gemini.TextSegment("ANCHOR IMAGE (identity reference):"),
		gemini.ImageSegment(*req.Anchor),
	}
	if req.RefPhoto != nil {
		segments = append(segments,
			gemini.TextSegment("USER REFERENCE PHOTO (identity reference):"),
			gemini.ImageSegment(*req.RefPhoto),
		)
	}

	img, err := p.gen.GenerateImage(ctx, gemini.ImageRequest{Segments: segments})
	if err != nil {
		return model.BoardImage{}, fmt.Errorf("pipeline: scene %d: %w", req.Scene.Index, err)
	}

	if verdict, ok := p.judge(ctx, req.Anchor, img); ok && verdict.needsRetry() {
		p.log.Info("regenerating scene after consistency check",
			zap.Int("scene", req.Scene.Index), zap.String("fix", verdict.FixPrompt))
		retrySegments := []gemini.Segment{
			gemini.TextSegment(fmt.Sprintf("%s\n\nIdentity fixes to apply (preserve the scene):\n%s", prompt, verdict.FixPrompt)),
			gemini.TextSegment("ANCHOR IMAGE (identity reference):"),
			gemini.ImageSegment(*req.Anchor),
			gemini.TextSegment("CURRENT IMAGE (use as base; keep composition, fix identity):"),
			gemini.ImageSegment(*img),
		}
		if req.RefPhoto != nil {
			retrySegments = append(retrySegments,
				gemini.TextSegment("USER REFERENCE PHOTO (identity reference):"),
				gemini.ImageSegment(*req.RefPhoto),
			)
		}
		if retry, err := p.gen.GenerateImage(ctx, gemini.ImageRequest{Segments: retrySegments}); err == nil && retry != nil {
			img = retry
		}
	}

	return model.BoardImage{
		Index:            req.Scene.Index,
		ImageURL:         img.DataURL(),
		SceneDescription: req.Scene.SceneDescription,
	}, nil
}

// BoardResult is the outcome of a full vision board run. FailedScenes lists
// scene indexes whose image generation failed after the per-scene retry.
type BoardResult struct {
	Scenes       []model.SceneIdea
	Images       []model.BoardImage
	FailedScenes []int
}

// VisionBoard runs the full single-day series: scene plan, anchor, then
// the five scene images with bounded parallelism. Individual scene failures
// are skipped; at least one image must succeed. Results are mirrored into
// the media cache when one is wired.
func (p *Pipeline) VisionBoard(ctx context.Context, year int, dt model.DayType, narrative string, yc YearContext, descs []model.CharacterDescription, refPhoto *gemini.InlineImage) (*BoardResult, error) {
	scenes, err := p.PlanScenes(ctx, year, dt, narrative, yc)
	if err != nil {
		return nil, err
	}

	anchor, err := p.Anchor(ctx, year, yc, descs, refPhoto)
	if err != nil {
		return nil, err
	}

	results := make([]*model.BoardImage, len(scenes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.parallel)
	for i, scene := range scenes {
		g.Go(func() error {
			img, err := p.SceneImage(gctx, SceneImageRequest{
				Year:     year,
				Scene:    scene,
				Context:  yc,
				Descs:    descs,
				Anchor:   anchor,
				RefPhoto: refPhoto,
			})
			if err != nil {
				p.log.Warn("scene image failed",
					zap.Int("year", year), zap.Int("scene", scene.Index), zap.Error(err))
				return nil
			}
			results[i] = &img
			return nil
		})
	}
	_ = g.Wait()

	res := &BoardResult{Scenes: scenes}
	for i, img := range results {
		if img == nil {
			res.FailedScenes = append(res.FailedScenes, scenes[i].Index)
			continue
		}
		res.Images = append(res.Images, *img)
	}
	if len(res.Images) == 0 {
		return nil, ErrNoImages
	}
	sort.Slice(res.Images, func(i, j int) bool { return res.Images[i].Index < res.Images[j].Index })

	if p.cache != nil {
		if err := p.cache.SaveBoard(year, dt, res.Images); err != nil {
			p.log.Warn("caching board failed", zap.Int("year", year), zap.Error(err))
		}
	}
	return res, nil
}
