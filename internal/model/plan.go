// Package model defines the futureline domain types: the Plan aggregate and
// everything derived from it.
package model

import "strconv"

// PlanVersion is the serialization schema version written into saved plans.
const PlanVersion = 1

// Role classifies a person within the plan.
type Role string

const (
	RoleSelf     Role = "self"
	RolePartner  Role = "partner"
	RoleChild    Role = "child"
	RoleRelative Role = "relative"
)

// DefaultSchoolStartAge is used when a child has no explicit school start age.
const DefaultSchoolStartAge = 5

// Person is one family member. BirthYear may be in the future for planned
// children; ages for such years are negative and mean "not yet born".
type Person struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	BirthYear      int    `json:"birthYear"`
	Role           Role   `json:"role"`
	SchoolStartAge int    `json:"schoolStartAge,omitempty"`
}

// CityRange assigns a city to an inclusive year range. YearTo == 0 means
// open-ended. Overlapping ranges resolve last-listed-wins.
type CityRange struct {
	YearFrom int    `json:"yearFrom"`
	YearTo   int    `json:"yearTo,omitempty"`
	City     string `json:"city"`
}

// OneOff is a one-time signed financial delta; negative amounts are costs.
type OneOff struct {
	ID     string  `json:"id"`
	Year   int     `json:"year"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// FinancePlan describes recurring savings plus one-off deltas.
type FinancePlan struct {
	StartCumulative float64  `json:"startCumulative,omitempty"`
	AnnualSavings   float64  `json:"annualSavings"`
	GrowthPct       float64  `json:"growthPct,omitempty"`
	OneOffs         []OneOff `json:"oneOffs"`
}

// Experience kinds.
const (
	ExperienceFixed     = "fixed"
	ExperienceRecurring = "recurring"
)

// Experience is a life moment: a fixed one fires in exactly Year, a
// recurring one fires every EveryNYears from StartYear onward.
type Experience struct {
	Kind        string `json:"kind"`
	Label       string `json:"label"`
	Year        int    `json:"year,omitempty"`
	EveryNYears int    `json:"everyNYears,omitempty"`
	StartYear   int    `json:"startYear,omitempty"`
}

// FocusMix is a per-decade attention split, in percent.
type FocusMix struct {
	DecadeStart int `json:"decadeStart"`
	Work        int `json:"work"`
	Family      int `json:"family"`
	Health      int `json:"health"`
	Friends     int `json:"friends"`
}

// DayType is one of the themed occasions content can be generated for.
type DayType string

const (
	DayChristmas    DayType = "christmas"
	DayThanksgiving DayType = "thanksgiving"
	DaySummer       DayType = "summer"
	DaySpring       DayType = "spring"
	DayBirthday     DayType = "birthday"
)

// DayTypes lists all day types in display order.
var DayTypes = []DayType{DayChristmas, DayThanksgiving, DaySummer, DaySpring, DayBirthday}

// ValidDayType reports whether s names a known day type.
func ValidDayType(s string) bool {
	for _, dt := range DayTypes {
		if string(dt) == s {
			return true
		}
	}
	return false
}

// DayJournals holds the free-text narratives for one year, keyed by day type.
type DayJournals map[DayType]string

// FamilyPhoto is a user-uploaded identity reference, stored as a base64
// data URL.
type FamilyPhoto struct {
	ID         string `json:"id"`
	DataURL    string `json:"dataUrl"`
	UploadedAt int64  `json:"uploadedAt"`
}

// CharacterDescription is an AI-extracted physical description of one
// person, cached so image generation stays visually consistent.
type CharacterDescription struct {
	PersonID    string `json:"personId"`
	PersonName  string `json:"personName"`
	Description string `json:"description"`
}

// Plan is the root aggregate: one per user, persisted as a single blob.
type Plan struct {
	Version               int                     `json:"version"`
	StartYear             int                     `json:"startYear"`
	Horizon               int                     `json:"horizon"`
	People                []Person                `json:"people"`
	CityPlan              []CityRange             `json:"cityPlan"`
	Finance               FinancePlan             `json:"finance"`
	Experiences           []Experience            `json:"experiences"`
	Focus                 []FocusMix              `json:"focus,omitempty"`
	Journal               map[int]DayJournals     `json:"journal"`
	FamilyPhotos          []FamilyPhoto           `json:"familyPhotos,omitempty"`
	CharacterDescriptions []CharacterDescription  `json:"characterDescriptions,omitempty"`

	// Generated-image caches. Large; the plan store may drop them from the
	// persisted blob when the size budget is exceeded. The media cache keeps
	// its own copy.
	TimelineImages map[int]string          `json:"timelineImages,omitempty"`
	VisionBoards   map[string][]BoardImage `json:"visionBoardImages,omitempty"`
}

// BoardKey is the composite cache key for a vision board.
func BoardKey(year int, dt DayType) string {
	return strconv.Itoa(year) + "/" + string(dt)
}

// PersonByID returns the person with the given id, or nil.
func (p *Plan) PersonByID(id string) *Person {
	for i := range p.People {
		if p.People[i].ID == id {
			return &p.People[i]
		}
	}
	return nil
}

// JournalText returns the saved narrative for (year, dayType), if any.
func (p *Plan) JournalText(year int, dt DayType) string {
	if p.Journal == nil {
		return ""
	}
	return p.Journal[year][dt]
}

// SetJournalText stores a narrative for (year, dayType), allocating maps as
// needed.
func (p *Plan) SetJournalText(year int, dt DayType, text string) {
	if p.Journal == nil {
		p.Journal = make(map[int]DayJournals)
	}
	if p.Journal[year] == nil {
		p.Journal[year] = make(DayJournals)
	}
	p.Journal[year][dt] = text
}
