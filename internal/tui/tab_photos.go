package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/futureline/internal/tui/components"
	"github.com/theirongolddev/futureline/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderPhotosTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	if a.plan == nil {
		return components.ContentCard("Photos", labelStyle.Render("No plan loaded"), cw)
	}

	var b strings.Builder

	// Family photos card
	var photoBody strings.Builder
	if len(a.plan.FamilyPhotos) == 0 {
		photoBody.WriteString(labelStyle.Render("No reference photos yet."))
		photoBody.WriteString("\n\n")
		photoBody.WriteString(dimStyle.Render("Add one with `futureline photos add <file>` to keep"))
		photoBody.WriteString("\n")
		photoBody.WriteString(dimStyle.Render("generated faces consistent across images."))
	} else {
		for _, p := range a.plan.FamilyPhotos {
			when := ""
			if p.UploadedAt > 0 {
				when = time.UnixMilli(p.UploadedAt).Format("Jan 02 2006")
			}
			size := len(p.DataURL) * 3 / 4 / 1024 // rough decoded KB
			fmt.Fprintf(&photoBody, "%s %s %s\n",
				valueStyle.Render(fmt.Sprintf("%-16s", truncStr(p.ID, 16))),
				labelStyle.Render(fmt.Sprintf("%-12s", when)),
				dimStyle.Render(fmt.Sprintf("%d KB", size)))
		}
	}
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Family Photos (%d)", len(a.plan.FamilyPhotos)),
		photoBody.String(), cw))
	b.WriteString("\n")

	// Character descriptions card
	innerW := components.CardInnerWidth(cw)
	var charBody strings.Builder
	if len(a.plan.CharacterDescriptions) == 0 {
		charBody.WriteString(labelStyle.Render("No character descriptions yet."))
		charBody.WriteString("\n\n")
		charBody.WriteString(dimStyle.Render("Run `futureline photos analyze` to extract them from"))
		charBody.WriteString("\n")
		charBody.WriteString(dimStyle.Render("the newest reference photo."))
	} else {
		for _, cd := range a.plan.CharacterDescriptions {
			name := cd.PersonName
			if p := a.plan.PersonByID(cd.PersonID); p != nil {
				name = p.Name
			}
			charBody.WriteString(valueStyle.Render(name))
			charBody.WriteString("\n")
			for _, line := range wrapText(cd.Description, innerW-2) {
				charBody.WriteString(labelStyle.Render("  " + line))
				charBody.WriteString("\n")
			}
		}
	}
	b.WriteString(components.ContentCard("Character Descriptions", charBody.String(), cw))
	b.WriteString("\n")

	// Generated media card
	var genBody strings.Builder
	genBody.WriteString(labelStyle.Render("Timeline images:  ") +
		valueStyle.Render(fmt.Sprintf("%d years", len(a.plan.TimelineImages))))
	genBody.WriteString("\n")
	genBody.WriteString(labelStyle.Render("Vision boards:    ") +
		valueStyle.Render(fmt.Sprintf("%d", len(a.plan.VisionBoards))))
	b.WriteString(components.ContentCard("Generated Media", genBody.String(), cw))

	return b.String()
}
