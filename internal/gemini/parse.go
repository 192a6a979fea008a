package gemini

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	json "github.com/goccy/go-json"
	"google.golang.org/genai"
)

// InlineImage is a raw image payload with its mime type.
type InlineImage struct {
	MIMEType string
	Data     []byte
}

// DataURL renders the image as a base64 data URL, the form stored in the
// plan and served to clients.
func (img InlineImage) DataURL() string {
	return "data:" + img.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

var dataURLRe = regexp.MustCompile(`^data:([^;]+);base64,(.+)$`)

// ParseDataURL decodes a base64 data URL into an InlineImage.
func ParseDataURL(dataURL string) (InlineImage, error) {
	m := dataURLRe.FindStringSubmatch(dataURL)
	if m == nil {
		return InlineImage{}, fmt.Errorf("gemini: invalid data URL; expected base64 data URL")
	}
	data, err := base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		return InlineImage{}, fmt.Errorf("gemini: decoding data URL: %w", err)
	}
	return InlineImage{MIMEType: m[1], Data: data}, nil
}

// ResponseText concatenates the text parts of a response, skipping thought
// parts.
func ResponseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}

// FirstInlineImage returns the first inline image of a response, or nil.
// A missing mime type defaults to image/png.
func FirstInlineImage(resp *genai.GenerateContentResponse) *InlineImage {
	if resp == nil {
		return nil
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mime := part.InlineData.MIMEType
			if mime == "" {
				mime = "image/png"
			}
			return &InlineImage{MIMEType: mime, Data: part.InlineData.Data}
		}
	}
	return nil
}

var (
	fencedJSONRe = regexp.MustCompile("(?is)```json\\s*(.*?)\\s*```")
	fencedAnyRe  = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
)

// StripFences removes a surrounding markdown code fence, if any. Models
// sometimes wrap JSON output in one even when asked not to.
func StripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if m := fencedJSONRe.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := fencedAnyRe.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	return trimmed
}

// DecodeJSON strips fences and unmarshals into out.
func DecodeJSON(text string, out any) error {
	if err := json.Unmarshal([]byte(StripFences(text)), out); err != nil {
		return fmt.Errorf("gemini: malformed JSON payload: %w", err)
	}
	return nil
}
