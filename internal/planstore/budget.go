package planstore

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/theirongolddev/futureline/internal/model"
)

// Budget bounds the serialized plan size. Sections are dropped in a fixed
// priority order until the blob fits: vision boards first, then timeline
// images, then family photos beyond the cap, then all photos.
type Budget struct {
	MaxBytes  int // 0 = unlimited
	MaxPhotos int // photo cap applied before dropping photos entirely
}

// DefaultBudget mirrors the storage defaults.
func DefaultBudget() Budget {
	return Budget{MaxBytes: 4096 * 1024, MaxPhotos: 3}
}

// Section names reported by Fit.
const (
	SectionVisionBoards   = "visionBoardImages"
	SectionTimelineImages = "timelineImages"
	SectionPhotoCap       = "familyPhotos(capped)"
	SectionPhotos         = "familyPhotos"
)

// Fit serializes the plan, degrading a copy step by step until it fits the
// byte budget. The original plan is left untouched.
func (b Budget) Fit(plan *model.Plan) ([]byte, []string, error) {
	blob, err := json.Marshal(plan)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding plan: %w", err)
	}
	if b.MaxBytes <= 0 || len(blob) <= b.MaxBytes {
		return blob, nil, nil
	}

	trimmed := *plan
	var dropped []string

	steps := []struct {
		name  string
		apply func(*model.Plan) bool // returns false if the step was a no-op
	}{
		{SectionVisionBoards, func(p *model.Plan) bool {
			if len(p.VisionBoards) == 0 {
				return false
			}
			p.VisionBoards = nil
			return true
		}},
		{SectionTimelineImages, func(p *model.Plan) bool {
			if len(p.TimelineImages) == 0 {
				return false
			}
			p.TimelineImages = nil
			return true
		}},
		{SectionPhotoCap, func(p *model.Plan) bool {
			if b.MaxPhotos <= 0 || len(p.FamilyPhotos) <= b.MaxPhotos {
				return false
			}
			p.FamilyPhotos = p.FamilyPhotos[:b.MaxPhotos]
			return true
		}},
		{SectionPhotos, func(p *model.Plan) bool {
			if len(p.FamilyPhotos) == 0 {
				return false
			}
			p.FamilyPhotos = nil
			return true
		}},
	}

	for _, step := range steps {
		if !step.apply(&trimmed) {
			continue
		}
		dropped = append(dropped, step.name)
		blob, err = json.Marshal(&trimmed)
		if err != nil {
			return nil, dropped, fmt.Errorf("encoding plan: %w", err)
		}
		if len(blob) <= b.MaxBytes {
			return blob, dropped, nil
		}
	}

	// Nothing droppable remains; the core plan is written as-is.
	return blob, dropped, nil
}
