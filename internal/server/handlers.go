package server

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/theirongolddev/futureline/internal/gemini"
	"github.com/theirongolddev/futureline/internal/model"
	"github.com/theirongolddev/futureline/internal/openai"
	"github.com/theirongolddev/futureline/internal/photos"
	"github.com/theirongolddev/futureline/internal/pipeline"
	"github.com/theirongolddev/futureline/internal/planstore"
	"github.com/theirongolddev/futureline/internal/timeline"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps pipeline and store errors onto HTTP statuses: missing
// configuration is the caller's problem (400), bad model output is
// unprocessable (422), everything else from upstream is a bad gateway.
func (s *Service) writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, planstore.ErrNoPlan):
		status = http.StatusNotFound
	case errors.Is(err, pipeline.ErrImagesNotConfigured),
		errors.Is(err, pipeline.ErrTextNotConfigured),
		errors.Is(err, gemini.ErrNotConfigured),
		errors.Is(err, openai.ErrNotConfigured):
		status = http.StatusBadRequest
	case errors.Is(err, pipeline.ErrScenePlan),
		errors.Is(err, pipeline.ErrNoImages),
		errors.Is(err, errValidation):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusBadGateway {
		s.log.Warn("request failed upstream", zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

var errValidation = errors.New("invalid request")

func decodeBody(r *http.Request, out any) error {
	defer func() { _ = r.Body.Close() }()
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return errValidation
	}
	return nil
}

func (s *Service) handleGetPlan(w http.ResponseWriter, _ *http.Request) {
	plan, err := s.store.Load()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Service) handlePutPlan(w http.ResponseWriter, r *http.Request) {
	var plan model.Plan
	if err := decodeBody(r, &plan); err != nil {
		s.writeError(w, err)
		return
	}
	if plan.Version == 0 {
		plan.Version = model.PlanVersion
	}

	dropped, err := s.store.Save(&plan)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.publish(Event{Type: "plan_saved", Dropped: dropped})
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "dropped": dropped})
}

func (s *Service) handleTimeline(w http.ResponseWriter, _ *http.Request) {
	plan, err := s.store.Load()
	if err != nil {
		s.writeError(w, err)
		return
	}

	years := timeline.Years(plan)
	summaries := make([]model.YearSummary, 0, len(years))
	for _, year := range years {
		summaries = append(summaries, timeline.SummarizeYear(plan, year))
	}
	writeJSON(w, http.StatusOK, map[string]any{"years": summaries})
}

type dayTextRequest struct {
	Year    int    `json:"year"`
	DayType string `json:"dayType"`
}

func (s *Service) handleDayText(w http.ResponseWriter, r *http.Request) {
	var req dayTextRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.DayType == "" {
		req.DayType = string(model.DayChristmas)
	}
	if !model.ValidDayType(req.DayType) {
		s.writeError(w, errValidation)
		return
	}

	plan, err := s.store.Load()
	if err != nil {
		s.writeError(w, err)
		return
	}

	text := s.pipe.DayText(r.Context(), req.Year, model.DayType(req.DayType), pipeline.ContextFor(plan, req.Year))
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (s *Service) handleDayTexts(w http.ResponseWriter, r *http.Request) {
	var req dayTextRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	plan, err := s.store.Load()
	if err != nil {
		s.writeError(w, err)
		return
	}

	texts := s.pipe.AllDayTexts(r.Context(), req.Year, pipeline.ContextFor(plan, req.Year))
	s.publish(Event{Type: "day_texts", Year: req.Year})
	writeJSON(w, http.StatusOK, map[string]any{"allDayTexts": texts})
}

type analyzeRequest struct {
	PhotoDataURL string `json:"photoDataUrl"`
}

func (s *Service) handleAnalyzePhoto(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.PhotoDataURL == "" {
		s.writeError(w, errValidation)
		return
	}

	plan, err := s.store.Load()
	if err != nil {
		s.writeError(w, err)
		return
	}

	descs, err := s.pipe.AnalyzePhoto(r.Context(), req.PhotoDataURL, plan.People)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if _, err := s.store.Mutate(func(p *model.Plan) error {
		p.CharacterDescriptions = descs
		return nil
	}); err != nil {
		s.writeError(w, err)
		return
	}

	s.publish(Event{Type: "photo_analyzed"})
	writeJSON(w, http.StatusOK, map[string]any{"characterDescriptions": descs})
}

type scenesRequest struct {
	Year      int    `json:"year"`
	DayType   string `json:"dayType"`
	Narrative string `json:"dayComposerText"`
}

func (s *Service) handleScenes(w http.ResponseWriter, r *http.Request) {
	var req scenesRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	plan, err := s.store.Load()
	if err != nil {
		s.writeError(w, err)
		return
	}

	narrative := req.Narrative
	if narrative == "" {
		narrative = plan.JournalText(req.Year, model.DayType(req.DayType))
	}

	scenes, err := s.pipe.PlanScenes(r.Context(), req.Year, model.DayType(req.DayType), narrative, pipeline.ContextFor(plan, req.Year))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sceneIdeas": scenes})
}

type anchorRequest struct {
	Year int `json:"year"`
}

// handleAnchor generates just the identity anchor, for clients driving the
// board steps individually.
func (s *Service) handleAnchor(w http.ResponseWriter, r *http.Request) {
	var req anchorRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	plan, err := s.store.Load()
	if err != nil {
		s.writeError(w, err)
		return
	}

	anchor, err := s.pipe.Anchor(r.Context(), req.Year, pipeline.ContextFor(plan, req.Year), plan.CharacterDescriptions, photos.Reference(plan))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.publish(Event{Type: "anchor", Year: req.Year, Images: 1})
	writeJSON(w, http.StatusOK, map[string]string{"anchorImage": anchor.DataURL()})
}

type sceneImageRequest struct {
	Year        int             `json:"year"`
	Scene       model.SceneIdea `json:"scene"`
	AnchorImage string          `json:"anchorImage"`
}

// handleSceneImage renders one scene against a previously generated anchor.
func (s *Service) handleSceneImage(w http.ResponseWriter, r *http.Request) {
	var req sceneImageRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	anchor, err := gemini.ParseDataURL(req.AnchorImage)
	if err != nil {
		s.writeError(w, errValidation)
		return
	}

	plan, err := s.store.Load()
	if err != nil {
		s.writeError(w, err)
		return
	}

	img, err := s.pipe.SceneImage(r.Context(), pipeline.SceneImageRequest{
		Year:     req.Year,
		Scene:    req.Scene,
		Context:  pipeline.ContextFor(plan, req.Year),
		Descs:    plan.CharacterDescriptions,
		Anchor:   &anchor,
		RefPhoto: photos.Reference(plan),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.publish(Event{Type: "scene_image", Year: req.Year, Images: 1})
	writeJSON(w, http.StatusOK, img)
}

func (s *Service) handleVisionBoard(w http.ResponseWriter, r *http.Request) {
	var req scenesRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if !model.ValidDayType(req.DayType) {
		s.writeError(w, errValidation)
		return
	}

	plan, err := s.store.Load()
	if err != nil {
		s.writeError(w, err)
		return
	}

	narrative := req.Narrative
	if narrative == "" {
		narrative = plan.JournalText(req.Year, model.DayType(req.DayType))
	}

	res, err := s.pipe.VisionBoard(
		r.Context(),
		req.Year,
		model.DayType(req.DayType),
		narrative,
		pipeline.ContextFor(plan, req.Year),
		plan.CharacterDescriptions,
		photos.Reference(plan),
	)
	if err != nil {
		s.writeError(w, err)
		return
	}

	dropped, err := s.store.Mutate(func(p *model.Plan) error {
		if p.VisionBoards == nil {
			p.VisionBoards = make(map[string][]model.BoardImage)
		}
		p.VisionBoards[model.BoardKey(req.Year, model.DayType(req.DayType))] = res.Images
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.publish(Event{Type: "vision_board", Year: req.Year, DayType: req.DayType, Images: len(res.Images), Dropped: dropped})
	writeJSON(w, http.StatusOK, map[string]any{
		"images":       res.Images,
		"failedScenes": res.FailedScenes,
		"dropped":      dropped,
	})
}

type timelineImagesRequest struct {
	Years []int `json:"years"`
}

func (s *Service) handleTimelineImages(w http.ResponseWriter, r *http.Request) {
	var req timelineImagesRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if len(req.Years) == 0 {
		s.writeError(w, errValidation)
		return
	}

	plan, err := s.store.Load()
	if err != nil {
		s.writeError(w, err)
		return
	}

	contexts := make([]pipeline.YearContext, 0, len(req.Years))
	for _, year := range req.Years {
		contexts = append(contexts, pipeline.ContextFor(plan, year))
	}

	images, err := s.pipe.TimelineImages(r.Context(), contexts, plan.CharacterDescriptions, photos.Reference(plan))
	if err != nil {
		s.writeError(w, err)
		return
	}

	dropped, err := s.store.Mutate(func(p *model.Plan) error {
		if p.TimelineImages == nil {
			p.TimelineImages = make(map[int]string)
		}
		for _, img := range images {
			p.TimelineImages[img.Year] = img.ImageURL
		}
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.publish(Event{Type: "timeline_images", Images: len(images), Dropped: dropped})
	writeJSON(w, http.StatusOK, map[string]any{"timelineImages": images, "dropped": dropped})
}
