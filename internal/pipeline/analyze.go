package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/theirongolddev/futureline/internal/gemini"
	"github.com/theirongolddev/futureline/internal/model"
	"github.com/theirongolddev/futureline/internal/openai"
)

// AnalyzePhoto extracts per-person physical descriptions from a family
// photo using the vision model. Descriptions are matched to plan people by
// case-insensitive name containment; an unparseable model answer degrades
// to a single whole-family description rather than failing.
func (p *Pipeline) AnalyzePhoto(ctx context.Context, photoDataURL string, people []model.Person) ([]model.CharacterDescription, error) {
	if p.chat == nil {
		return nil, ErrTextNotConfigured
	}
	if photoDataURL == "" {
		return nil, fmt.Errorf("pipeline: no photo provided")
	}

	raw, err := p.chat.Complete(ctx, openai.ChatRequest{
		Model: p.visionModel,
		Messages: []openai.Message{
			openai.TextMessage("system", "You are a visual analysis assistant. Always return valid JSON in the exact format requested."),
			openai.VisionMessage(analyzePrompt(people), photoDataURL),
		},
		Temperature: 0.3,
		MaxTokens:   1500,
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: analyzing photo: %w", err)
	}

	var parsed struct {
		Descriptions []struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		} `json:"descriptions"`
	}
	if err := gemini.DecodeJSON(raw, &parsed); err != nil || len(parsed.Descriptions) == 0 {
		id := "unknown"
		if len(people) > 0 {
			id = people[0].ID
		}
		return []model.CharacterDescription{
			{PersonID: id, PersonName: "Family", Description: raw},
		}, nil
	}

	descs := make([]model.CharacterDescription, 0, len(parsed.Descriptions))
	for _, d := range parsed.Descriptions {
		cd := model.CharacterDescription{
			PersonID:    "unknown",
			PersonName:  d.Name,
			Description: d.Description,
		}
		if match := matchPerson(people, d.Name); match != nil {
			cd.PersonID = match.ID
			cd.PersonName = match.Name
		}
		descs = append(descs, cd)
	}
	return descs, nil
}

func matchPerson(people []model.Person, name string) *model.Person {
	needle := strings.ToLower(name)
	for i := range people {
		have := strings.ToLower(people[i].Name)
		if strings.Contains(have, needle) || strings.Contains(needle, have) {
			return &people[i]
		}
	}
	return nil
}
