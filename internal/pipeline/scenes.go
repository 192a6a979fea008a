package pipeline

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/theirongolddev/futureline/internal/gemini"
	"github.com/theirongolddev/futureline/internal/model"
)

const boardSize = 5

// sceneSchema constrains the planner to exactly five scene objects.
var sceneSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"sceneIdeas": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"index":            {Type: genai.TypeNumber},
					"sceneDescription": {Type: genai.TypeString},
					"timeOfDay":        {Type: genai.TypeString},
				},
				Required: []string{"index", "sceneDescription", "timeOfDay"},
			},
			MinItems: genai.Ptr[int64](boardSize),
			MaxItems: genai.Ptr[int64](boardSize),
		},
	},
	Required: []string{"sceneIdeas"},
}

// PlanScenes asks the text model for exactly five photographic moments of
// one day. Returning anything other than five usable scenes is a hard
// failure: a partial board is worse than no board.
func (p *Pipeline) PlanScenes(ctx context.Context, year int, dt model.DayType, narrative string, yc YearContext) ([]model.SceneIdea, error) {
	if p.gen == nil {
		return nil, ErrImagesNotConfigured
	}

	prompt := scenePlanPrompt(year, dt, narrative, yc)
	text, err := p.gen.GenerateText(ctx, gemini.TextRequest{
		Segments: []gemini.Segment{gemini.TextSegment(prompt)},
		Schema:   sceneSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: planning scenes: %w", err)
	}

	var parsed struct {
		SceneIdeas []model.SceneIdea `json:"sceneIdeas"`
	}
	if err := gemini.DecodeJSON(text, &parsed); err != nil {
		return nil, fmt.Errorf("pipeline: decoding scene plan: %w", err)
	}

	raw := parsed.SceneIdeas
	if len(raw) > boardSize {
		raw = raw[:boardSize]
	}
	scenes := make([]model.SceneIdea, 0, boardSize)
	for i, s := range raw {
		desc := strings.TrimSpace(s.SceneDescription)
		if desc == "" {
			continue
		}
		scenes = append(scenes, model.SceneIdea{
			Index:            i,
			SceneDescription: desc,
			TimeOfDay:        strings.TrimSpace(s.TimeOfDay),
		})
	}
	if len(scenes) != boardSize {
		return nil, ErrScenePlan
	}
	return scenes, nil
}
