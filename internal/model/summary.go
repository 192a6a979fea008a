package model

// YearSummary is the derived per-year projection. It is recomputed from the
// Plan on every request and never stored.
type YearSummary struct {
	Year              int            `json:"year"`
	Ages              map[string]int `json:"ages"` // personID -> age
	City              string         `json:"city,omitempty"`
	SavingsCumulative float64        `json:"savingsCumulative"`
	Milestones        []string       `json:"milestones"`
	Moments           []string       `json:"moments"`
}

// SceneIdea is one planned moment of a vision board day, produced by the
// scene-planning step.
type SceneIdea struct {
	Index            int    `json:"index"`
	SceneDescription string `json:"sceneDescription"`
	TimeOfDay        string `json:"timeOfDay"`
}

// BoardImage is one generated vision board entry.
type BoardImage struct {
	Index            int    `json:"index"`
	ImageURL         string `json:"imageUrl"` // base64 data URL
	SceneDescription string `json:"sceneDescription"`
}

// TimelineImage is the single representative image generated for one year.
type TimelineImage struct {
	Year     int    `json:"year"`
	ImageURL string `json:"imageUrl"`
}
