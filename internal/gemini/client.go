// Package gemini adapts the Google GenAI SDK for futureline's generation
// pipeline: structured text, reference-seeded image generation, and
// multi-turn image chats. All provider response quirks are handled here so
// callers see typed results or errors.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/theirongolddev/futureline/internal/config"
)

// ErrNotConfigured indicates no Gemini API key is available. Image
// generation has no offline fallback, so callers surface this to the user.
var ErrNotConfigured = errors.New("gemini: GEMINI_API_KEY not configured")

// ErrNoImage indicates the model returned no inline image.
var ErrNoImage = errors.New("gemini: response contained no image")

// Segment is one piece of a request: either text or an inline image.
type Segment struct {
	Text  string
	Image *InlineImage
}

// TextSegment builds a text segment.
func TextSegment(text string) Segment { return Segment{Text: text} }

// ImageSegment builds an image segment.
func ImageSegment(img InlineImage) Segment { return Segment{Image: &img} }

// TextRequest asks for text, optionally constrained to a JSON schema.
type TextRequest struct {
	Segments []Segment
	Schema   *genai.Schema // non-nil forces application/json output
}

// ImageRequest asks for a single image.
type ImageRequest struct {
	Segments []Segment
}

// Client wraps the GenAI SDK with futureline's model and image defaults.
type Client struct {
	genai       *genai.Client
	textModel   string
	imageModel  string
	imageSize   string
	aspectRatio string
	timeout     time.Duration
}

// NewClient creates a client from config. Returns ErrNotConfigured when no
// API key is set in the environment or config file.
func NewClient(ctx context.Context, cfg config.Config) (*Client, error) {
	key := config.GetGeminiKey(cfg)
	if key == "" {
		return nil, ErrNotConfigured
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: key})
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}

	timeout := time.Duration(cfg.Gemini.RequestTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 240 * time.Second
	}

	return &Client{
		genai:       client,
		textModel:   cfg.Gemini.TextModel,
		imageModel:  cfg.Gemini.ImageModel,
		imageSize:   cfg.Gemini.ImageSize,
		aspectRatio: cfg.Gemini.AspectRatio,
		timeout:     timeout,
	}, nil
}

// GenerateText runs one text-model request and returns the concatenated
// response text, with thought parts skipped.
func (c *Client) GenerateText(ctx context.Context, req TextRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = req.Schema
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.textModel, contents(req.Segments), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini: text request: %w", err)
	}

	text := ResponseText(resp)
	if text == "" {
		return "", fmt.Errorf("gemini: empty text response")
	}
	return text, nil
}

// GenerateImage runs one image-model request and returns the first inline
// image of the response.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (*InlineImage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.genai.Models.GenerateContent(ctx, c.imageModel, contents(req.Segments), c.imageConfig())
	if err != nil {
		return nil, fmt.Errorf("gemini: image request: %w", err)
	}

	img := FirstInlineImage(resp)
	if img == nil {
		return nil, ErrNoImage
	}
	return img, nil
}

// ImageChat is a multi-turn image conversation. Earlier turns stay in the
// model's context, which keeps faces consistent across a series.
type ImageChat struct {
	chat    *genai.Chat
	timeout time.Duration
}

// NewImageChat opens an image-model chat carrying identity context across
// turns.
func (c *Client) NewImageChat(ctx context.Context) (*ImageChat, error) {
	chat, err := c.genai.Chats.Create(ctx, c.imageModel, c.imageConfig(), nil)
	if err != nil {
		return nil, fmt.Errorf("gemini: creating image chat: %w", err)
	}
	return &ImageChat{chat: chat, timeout: c.timeout}, nil
}

// Send sends one turn. The returned image may be nil for setup turns that
// only prime the chat context.
func (ic *ImageChat) Send(ctx context.Context, segments []Segment) (*InlineImage, error) {
	ctx, cancel := context.WithTimeout(ctx, ic.timeout)
	defer cancel()

	parts := make([]genai.Part, 0, len(segments))
	for _, p := range toParts(segments) {
		parts = append(parts, *p)
	}

	resp, err := ic.chat.SendMessage(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini: chat turn: %w", err)
	}
	return FirstInlineImage(resp), nil
}

// Close releases the underlying SDK client. The google.golang.org/genai
// client holds no resources that need explicit release.
func (c *Client) Close() error {
	return nil
}

func (c *Client) imageConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
		ImageConfig: &genai.ImageConfig{
			AspectRatio: c.aspectRatio,
			ImageSize:   c.imageSize,
		},
	}
}

func toParts(segments []Segment) []*genai.Part {
	parts := make([]*genai.Part, 0, len(segments))
	for _, s := range segments {
		if s.Image != nil {
			parts = append(parts, &genai.Part{
				InlineData: &genai.Blob{MIMEType: s.Image.MIMEType, Data: s.Image.Data},
			})
			continue
		}
		if s.Text != "" {
			parts = append(parts, &genai.Part{Text: s.Text})
		}
	}
	return parts
}

func contents(segments []Segment) []*genai.Content {
	return []*genai.Content{{Role: genai.RoleUser, Parts: toParts(segments)}}
}
