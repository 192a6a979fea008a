package pipeline

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/futureline/internal/model"
)

// dayTypePrompts names each day type the way the vignette prompt phrases it.
var dayTypePrompts = map[model.DayType]string{
	model.DayChristmas:    "Christmas morning",
	model.DayThanksgiving: "Thanksgiving Day",
	model.DaySummer:       "a beautiful summer day",
	model.DaySpring:       "a spring day",
	model.DayBirthday:     "a birthday celebration",
}

// FallbackDayText returns the canned vignette for a day type. Used whenever
// no API key is configured or the upstream call fails, so day text is always
// available.
func FallbackDayText(dt model.DayType, year int) string {
	switch dt {
	case model.DayThanksgiving:
		return fmt.Sprintf("It is Thanksgiving %d. The table is set, the turkey is golden, and family gathers from near and far. Gratitude is spoken, laughter echoes through the rooms, and the day ends with full hearts and leftovers for days.", year)
	case model.DaySummer:
		return fmt.Sprintf("It is a summer day in %d. The sun is warm, the afternoons stretch long, and adventure calls. You spend the day at the beach, in the garden, or exploring somewhere new, savoring the freedom and light.", year)
	case model.DaySpring:
		return fmt.Sprintf("It is a spring day in %d. Flowers bloom, the air is fresh, and renewal is in the air. You spend the day outside, feeling the gentle warmth, watching things grow, and planning what's to come.", year)
	case model.DayBirthday:
		return fmt.Sprintf("It is a birthday in %d. Candles are lit, wishes are made, and celebration fills the air. Family and friends gather, memories are made, and another year is welcomed with joy.", year)
	default:
		return fmt.Sprintf("It is Christmas morning in %d. The tree glows softly in the corner, gifts are unwrapped with squeals of delight, and the smell of cinnamon rolls fills the house. Family gathers, stories are shared, and the day unfolds with warmth and gratitude.", year)
	}
}

// ageDescriptions renders one "Name: N years old (stage)" line per person
// with a known age. Children get a lifecycle stage, adults their age.
func ageDescriptions(yc YearContext) string {
	lines := make([]string, 0, len(yc.People))
	for _, p := range yc.People {
		age, ok := yc.Summary.Ages[p.ID]
		if !ok {
			continue
		}
		var stage string
		if p.Role == model.RoleChild {
			switch {
			case age < 2:
				stage = "infant"
			case age < 5:
				stage = "toddler"
			case age < 13:
				stage = "child"
			case age < 18:
				stage = "teenager"
			default:
				stage = "young adult"
			}
		} else {
			stage = fmt.Sprintf("%d-year-old adult", age)
		}
		lines = append(lines, fmt.Sprintf("%s: %d years old (%s)", p.Name, age, stage))
	}
	return strings.Join(lines, "\n")
}

func peopleNames(people []model.Person) string {
	names := make([]string, 0, len(people))
	for _, p := range people {
		if p.Name != "" {
			names = append(names, p.Name)
		}
	}
	return strings.Join(names, ", ")
}

func cityOrDefault(yc YearContext) string {
	if yc.Summary.City != "" {
		return yc.Summary.City
	}
	return "a beautiful location"
}

// characterBible joins character descriptions into the block the image
// prompts attach so identity stays stable across images.
func characterBible(descs []model.CharacterDescription) string {
	blocks := make([]string, 0, len(descs))
	for _, d := range descs {
		blocks = append(blocks, fmt.Sprintf("%s: %s", d.PersonName, d.Description))
	}
	return strings.Join(blocks, "\n\n")
}

func dayTextPrompt(year int, dt model.DayType, yc YearContext) (system, user string) {
	dayPrompt, ok := dayTypePrompts[dt]
	if !ok {
		dayPrompt = "a day"
	}
	facts := contextFacts(yc)
	system = "You write concise, warm, concrete day-in-the-life vignettes for families planning the future."
	user = fmt.Sprintf("Write a vivid single-paragraph day-in-the-life set on %s in %d. Use these facts as soft context: %s. Keep it grounded (no fantasy). Capture the specific feeling and traditions of this particular day.", dayPrompt, year, facts)
	return system, user
}

// contextFacts flattens the year context into a compact factual string for
// the vignette prompt.
func contextFacts(yc YearContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "year %d", yc.Summary.Year)
	if yc.Summary.City != "" {
		fmt.Fprintf(&b, "; city %s", yc.Summary.City)
	}
	if ages := ageDescriptions(yc); ages != "" {
		fmt.Fprintf(&b, "; people: %s", strings.ReplaceAll(ages, "\n", ", "))
	}
	if len(yc.Summary.Milestones) > 0 {
		fmt.Fprintf(&b, "; milestones: %s", strings.Join(yc.Summary.Milestones, ", "))
	}
	if len(yc.Summary.Moments) > 0 {
		fmt.Fprintf(&b, "; planned moments: %s", strings.Join(yc.Summary.Moments, ", "))
	}
	return b.String()
}

func scenePlanPrompt(year int, dt model.DayType, narrative string, yc YearContext) string {
	dayType := "unknown"
	if dt != "" {
		dayType = string(dt)
	}
	names := peopleNames(yc.People)
	if names == "" {
		names = "family"
	}

	var b strings.Builder
	b.WriteString(`You are a creative director turning a single day-in-the-life into a coherent 5-photo series.

Goal: Produce 5 distinct photographic moments from ONE day, covering different times of day and activities.

Constraints:
- Each scene MUST include the named people (best-effort) and fit their ages.
- Do not introduce new people.
- Each scene should be 2-3 sentences, describing the visual moment like a photo caption.
- Avoid repetition: different setting/activity/lighting per scene.

`)
	fmt.Fprintf(&b, "Year: %d\n", year)
	fmt.Fprintf(&b, "Day type (if provided): %s\n", dayType)
	fmt.Fprintf(&b, "Location: %s\n", cityOrDefault(yc))
	fmt.Fprintf(&b, "People: %s\n", names)
	if ages := ageDescriptions(yc); ages != "" {
		fmt.Fprintf(&b, "Ages:\n%s\n", ages)
	}
	b.WriteString("\nDay description (if any):\n")
	if strings.TrimSpace(narrative) != "" {
		fmt.Fprintf(&b, "%q\n", narrative)
	} else {
		b.WriteString("(none)\n")
	}
	b.WriteString("\nReturn JSON only.")
	return b.String()
}

// seriesSetup is the shared preamble for single-day image series.
func seriesSetup(year int, yc YearContext, descs []model.CharacterDescription) string {
	var b strings.Builder
	b.WriteString(`You are generating a photorealistic lifestyle photo series of the SAME FAMILY on the SAME DAY.

Hard requirements:
- The same exact individuals across all images (identical facial features, hair, skin tone, body proportions).
- Correct ages for the year.
- Photorealistic, professional photography; no text overlays.
- Candid, natural moments; no staged posing.

`)
	fmt.Fprintf(&b, "Location: %s\n", cityOrDefault(yc))
	fmt.Fprintf(&b, "Year: %d\n\n", year)
	if ages := ageDescriptions(yc); ages != "" {
		fmt.Fprintf(&b, "Ages in this year:\n%s\n", ages)
	}
	if bible := characterBible(descs); bible != "" {
		fmt.Fprintf(&b, "Character bible (must match across all images):\n%s\n", bible)
	}
	return b.String()
}

func anchorPrompt(year int, yc YearContext, descs []model.CharacterDescription) string {
	return seriesSetup(year, yc, descs) + "\nGenerate an ANCHOR photo: a clear, well-lit family moment with all faces visible and unobstructed. Keep it natural, not posed."
}

func sceneImagePrompt(year int, scene model.SceneIdea, yc YearContext, descs []model.CharacterDescription) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a photorealistic, aspirational lifestyle photograph for this scene:\n\n%s\n\n", scene.SceneDescription)
	fmt.Fprintf(&b, `CRITICAL - CHARACTER CONSISTENCY (Image %d of 5):
- This is part of a series showing the SAME FAMILY throughout ONE DAY.
- The CURRENT image must match the ANCHOR image's identities exactly (faces/hair/skin tone/distinctive features).
- Correct ages for the year.

`, scene.Index+1)
	fmt.Fprintf(&b, "Location: %s\n", cityOrDefault(yc))
	fmt.Fprintf(&b, "Year: %d\n", year)
	if scene.TimeOfDay != "" {
		fmt.Fprintf(&b, "Time of day: %s\n", scene.TimeOfDay)
	}
	b.WriteString("\n")
	if ages := ageDescriptions(yc); ages != "" {
		fmt.Fprintf(&b, "Ages:\n%s\n", ages)
	}
	if bible := characterBible(descs); bible != "" {
		fmt.Fprintf(&b, "Character bible:\n%s\n", bible)
	}
	b.WriteString(`
Style:
- High-end, natural lifestyle photography
- Candid, authentic moment
- No text overlays`)
	return b.String()
}

const judgePrompt = `You are checking character consistency across a photo series.

Compare the ANCHOR image and the CURRENT image. Determine if the people are the same individuals.
Focus on facial structure, hair, skin tone, and distinctive features. Ignore clothing changes.

Return JSON only.
If inconsistent, produce a short "fixPrompt" that can be used to regenerate the current image while keeping the scene intact.`

func timelineSetupPrompt(descs []model.CharacterDescription) string {
	var b strings.Builder
	b.WriteString(`You are generating a timeline of photorealistic family lifestyle photos across multiple years.

Hard requirements:
- The same exact individuals across years (identical facial identity).
- Ages should change appropriately by year.
- Photorealistic, professional photography; no text overlays.

`)
	if bible := characterBible(descs); bible != "" {
		fmt.Fprintf(&b, "Character bible (must match across all years):\n%s\n\n", bible)
	}
	b.WriteString("First, generate an ANCHOR family photo with clear, well-lit faces (natural candid moment).")
	return b.String()
}

func timelineYearPrompt(yc YearContext) string {
	city := cityOrDefault(yc)
	year := yc.Summary.Year

	var b strings.Builder
	fmt.Fprintf(&b, "Create a photorealistic, aspirational lifestyle photograph representing a typical day in %d.\n\n", year)
	fmt.Fprintf(&b, "Location: %s\nYear: %d\n\n", city, year)
	if ages := ageDescriptions(yc); ages != "" {
		fmt.Fprintf(&b, "CHARACTER AGES IN THIS YEAR:\n%s\n\nShow each person at their correct age and life stage.\n\n", ages)
	}
	b.WriteString(`Style: High-end nature photography aesthetic inspired by Patagonia catalogs, Pinterest lifestyle boards, and National Geographic.
- Warm, natural lighting (golden hour preferred)
- Authentic, candid family moment
- Connection to nature and place
- Aspirational but achievable lifestyle
- Rich colors, professional composition
- Focus on human connection and everyday beauty

`)
	fmt.Fprintf(&b, "Show the family together in %s, capturing the essence of their life in this year. Photorealistic quality, professional photography, no text overlays.", city)
	return b.String()
}

func analyzePrompt(people []model.Person) string {
	names := peopleNames(people)
	if names == "" {
		names = "family members"
	}
	return fmt.Sprintf(`Analyze this family photo and provide detailed physical descriptions of each person for use in AI image generation.

The photo should include these people: %s

For EACH person, provide a detailed physical description including:
- Build and body type
- Hair color, style, and length
- Eye color (if visible)
- Skin tone
- Distinctive facial features (nose shape, facial structure, etc.)
- Typical clothing style shown
- Any other notable physical characteristics

IMPORTANT: Return ONLY a valid JSON object in this exact format:
{
  "descriptions": [
    {
      "name": "Person Name",
      "description": "Detailed physical description..."
    }
  ]
}

Be specific and detailed enough that an AI image generator can maintain visual consistency across multiple images. Focus on permanent physical features, not temporary styling.`, names)
}
