// Package pipeline orchestrates the generation steps that turn a plan year
// into narrative day texts and image series: scene planning, anchor and
// scene images with a consistency judge, multi-year timeline images, and
// photo analysis for the character bible.
package pipeline

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/theirongolddev/futureline/internal/gemini"
	"github.com/theirongolddev/futureline/internal/mediacache"
	"github.com/theirongolddev/futureline/internal/model"
	"github.com/theirongolddev/futureline/internal/openai"
	"github.com/theirongolddev/futureline/internal/timeline"
)

var (
	// ErrImagesNotConfigured indicates no Gemini backend is wired, so no
	// image step can run. Day texts still work via fallbacks.
	ErrImagesNotConfigured = errors.New("pipeline: image generation not configured")

	// ErrTextNotConfigured indicates no OpenAI client is wired for the
	// steps that have no offline fallback (photo analysis).
	ErrTextNotConfigured = errors.New("pipeline: text generation not configured")

	// ErrScenePlan indicates the scene planner did not come back with
	// exactly five usable scenes.
	ErrScenePlan = errors.New("pipeline: failed to generate 5 scene ideas")

	// ErrAnchor indicates the anchor image could not be generated, which
	// aborts the whole board.
	ErrAnchor = errors.New("pipeline: failed to generate anchor image")

	// ErrNoImages indicates every scene image in a batch failed.
	ErrNoImages = errors.New("pipeline: no images generated")
)

// SeriesChat is one multi-turn image conversation. Implemented by
// gemini.ImageChat.
type SeriesChat interface {
	Send(ctx context.Context, segments []gemini.Segment) (*gemini.InlineImage, error)
}

// Generator is the image-capable backend. Implemented by gemini.Client via
// NewGeminiGenerator; tests substitute fakes.
type Generator interface {
	GenerateText(ctx context.Context, req gemini.TextRequest) (string, error)
	GenerateImage(ctx context.Context, req gemini.ImageRequest) (*gemini.InlineImage, error)
	NewImageChat(ctx context.Context) (SeriesChat, error)
}

// Completer is the chat-completion backend for day texts and photo
// analysis. Implemented by openai.Client.
type Completer interface {
	Complete(ctx context.Context, req openai.ChatRequest) (string, error)
}

type geminiGenerator struct{ c *gemini.Client }

func (g geminiGenerator) GenerateText(ctx context.Context, req gemini.TextRequest) (string, error) {
	return g.c.GenerateText(ctx, req)
}

func (g geminiGenerator) GenerateImage(ctx context.Context, req gemini.ImageRequest) (*gemini.InlineImage, error) {
	return g.c.GenerateImage(ctx, req)
}

func (g geminiGenerator) NewImageChat(ctx context.Context) (SeriesChat, error) {
	return g.c.NewImageChat(ctx)
}

// NewGeminiGenerator adapts a gemini.Client to the Generator interface.
func NewGeminiGenerator(c *gemini.Client) Generator {
	if c == nil {
		return nil
	}
	return geminiGenerator{c: c}
}

// Pipeline runs generation steps against whatever backends are wired.
// Either backend may be nil; steps that need a missing one return the
// corresponding not-configured error unless they have a fallback.
type Pipeline struct {
	gen         Generator
	chat        Completer
	cache       *mediacache.Cache
	log         *zap.Logger
	textModel   string
	visionModel string
	parallel    int
}

// Options configures a Pipeline.
type Options struct {
	Generator   Generator
	Completer   Completer
	Cache       *mediacache.Cache // optional; generated images are mirrored here
	Logger      *zap.Logger
	TextModel   string // OpenAI chat model for day texts
	VisionModel string // OpenAI model for photo analysis
	Parallel    int    // max concurrent scene-image generations
}

// New builds a Pipeline. Nil backends are allowed.
func New(opts Options) *Pipeline {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	parallel := opts.Parallel
	if parallel <= 0 {
		parallel = 3
	}
	textModel := opts.TextModel
	if textModel == "" {
		textModel = "gpt-4o-mini"
	}
	visionModel := opts.VisionModel
	if visionModel == "" {
		visionModel = "gpt-4o"
	}
	return &Pipeline{
		gen:         opts.Generator,
		chat:        opts.Completer,
		cache:       opts.Cache,
		log:         log,
		textModel:   textModel,
		visionModel: visionModel,
		parallel:    parallel,
	}
}

// YearContext carries the computed facts for one year that generation
// prompts are built from.
type YearContext struct {
	Summary model.YearSummary
	People  []model.Person
}

// ContextFor computes the YearContext for a plan year.
func ContextFor(plan *model.Plan, year int) YearContext {
	return YearContext{
		Summary: timeline.SummarizeYear(plan, year),
		People:  plan.People,
	}
}
