package pipeline

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/theirongolddev/futureline/internal/gemini"
)

// severityMajor is the issue severity at which an inconsistency alone
// justifies a regeneration.
const severityMajor = 3

// ConsistencyIssue is one identity mismatch the judge found.
type ConsistencyIssue struct {
	Person   string `json:"person"`
	Issue    string `json:"issue"`
	Severity int    `json:"severity"`
}

// ConsistencyVerdict is the judge's structured answer.
type ConsistencyVerdict struct {
	Consistent bool               `json:"consistent"`
	Issues     []ConsistencyIssue `json:"issues"`
	FixPrompt  string             `json:"fixPrompt"`
}

// needsRetry reports whether the verdict warrants the single regeneration:
// inconsistent, with either a major issue or a usable fix prompt.
func (v ConsistencyVerdict) needsRetry() bool {
	if v.Consistent {
		return false
	}
	for _, issue := range v.Issues {
		if issue.Severity >= severityMajor {
			return true
		}
	}
	return strings.TrimSpace(v.FixPrompt) != ""
}

var consistencySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"consistent": {Type: genai.TypeBoolean},
		"issues": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"person":   {Type: genai.TypeString},
					"issue":    {Type: genai.TypeString},
					"severity": {Type: genai.TypeNumber},
				},
				Required: []string{"person", "issue", "severity"},
			},
		},
		"fixPrompt": {Type: genai.TypeString},
	},
	Required: []string{"consistent", "issues", "fixPrompt"},
}

// judge compares a generated image against the anchor. The check is
// advisory: any judge failure is logged and the image is kept as-is, so ok
// is false instead of returning an error.
func (p *Pipeline) judge(ctx context.Context, anchor, current *gemini.InlineImage) (ConsistencyVerdict, bool) {
	text, err := p.gen.GenerateText(ctx, gemini.TextRequest{
		Segments: []gemini.Segment{
			gemini.TextSegment(judgePrompt),
			gemini.TextSegment("ANCHOR:"),
			gemini.ImageSegment(*anchor),
			gemini.TextSegment("CURRENT:"),
			gemini.ImageSegment(*current),
		},
		Schema: consistencySchema,
	})
	if err != nil {
		p.log.Debug("consistency judge failed", zap.Error(err))
		return ConsistencyVerdict{}, false
	}

	var verdict ConsistencyVerdict
	if err := gemini.DecodeJSON(text, &verdict); err != nil {
		p.log.Debug("consistency verdict unparseable", zap.Error(err))
		return ConsistencyVerdict{}, false
	}
	return verdict, true
}
