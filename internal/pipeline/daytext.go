package pipeline

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/theirongolddev/futureline/internal/model"
	"github.com/theirongolddev/futureline/internal/openai"
)

// DayText produces the vignette for one day type. It never fails: when no
// completer is wired or the upstream call errors, the canned fallback for
// the day type is returned instead.
func (p *Pipeline) DayText(ctx context.Context, year int, dt model.DayType, yc YearContext) string {
	if p.chat == nil {
		return FallbackDayText(dt, year)
	}

	system, user := dayTextPrompt(year, dt, yc)
	text, err := p.chat.Complete(ctx, openai.ChatRequest{
		Model: p.textModel,
		Messages: []openai.Message{
			openai.TextMessage("system", system),
			openai.TextMessage("user", user),
		},
		Temperature: 0.8,
		MaxTokens:   250,
	})
	if err != nil || text == "" {
		p.log.Warn("day text generation failed, using fallback",
			zap.Int("year", year), zap.String("day_type", string(dt)), zap.Error(err))
		return FallbackDayText(dt, year)
	}
	return text
}

// AllDayTexts generates vignettes for every day type concurrently. Failed
// day types fall back individually, so the map always has one entry per
// day type.
func (p *Pipeline) AllDayTexts(ctx context.Context, year int, yc YearContext) map[model.DayType]string {
	out := make(map[model.DayType]string, len(model.DayTypes))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, dt := range model.DayTypes {
		wg.Add(1)
		go func(dt model.DayType) {
			defer wg.Done()
			text := p.DayText(ctx, year, dt, yc)
			mu.Lock()
			out[dt] = text
			mu.Unlock()
		}(dt)
	}
	wg.Wait()
	return out
}
