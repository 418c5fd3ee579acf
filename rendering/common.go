package rendering

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nathanieltooley/pokeduel/duel"
	"github.com/nathanieltooley/pokeduel/global"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	HighlightedColor = lipgloss.Color("33")
	BlackTextColor   = lipgloss.Color("0")
	CritColor        = lipgloss.Color("#E3350D")
	FadedColor       = lipgloss.Color("244")

	ButtonStyle      = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true).Width(30).Padding(1, 3).Align(lipgloss.Center)
	PanelStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).Padding(0, 1).Align(lipgloss.Center)
	WinnerPanelStyle = PanelStyle.BorderForeground(HighlightedColor)
	TitleStyle       = lipgloss.NewStyle().Bold(true).Foreground(HighlightedColor)
	FadedStyle       = lipgloss.NewStyle().Foreground(FadedColor)
	CritStyle        = lipgloss.NewStyle().Bold(true).Foreground(CritColor)
	HelpStyle        = lipgloss.NewStyle().Foreground(FadedColor).PaddingTop(1)

	TYPE_COLORS = map[string]lipgloss.Color{
		duel.TYPENAME_NORMAL:   lipgloss.Color("#A8A77A"),
		duel.TYPENAME_FIRE:     lipgloss.Color("#EE8130"),
		duel.TYPENAME_WATER:    lipgloss.Color("#6390F0"),
		duel.TYPENAME_ELECTRIC: lipgloss.Color("#F7D02C"),
		duel.TYPENAME_GRASS:    lipgloss.Color("#7AC74C"),
		duel.TYPENAME_ICE:      lipgloss.Color("#96D9D6"),
		duel.TYPENAME_FIGHTING: lipgloss.Color("#C22E28"),
		duel.TYPENAME_POISON:   lipgloss.Color("#A33EA1"),
		duel.TYPENAME_GROUND:   lipgloss.Color("#E2BF65"),
		duel.TYPENAME_FLYING:   lipgloss.Color("#A98FF3"),
		duel.TYPENAME_PSYCHIC:  lipgloss.Color("#F95587"),
		duel.TYPENAME_BUG:      lipgloss.Color("#A6B91A"),
		duel.TYPENAME_ROCK:     lipgloss.Color("#B6A136"),
		duel.TYPENAME_GHOST:    lipgloss.Color("#735797"),
		duel.TYPENAME_DRAGON:   lipgloss.Color("#6F35FC"),
		duel.TYPENAME_DARK:     lipgloss.Color("#705746"),
		duel.TYPENAME_STEEL:    lipgloss.Color("#B7B7CE"),
		duel.TYPENAME_FAIRY:    lipgloss.Color("#D685AD"),
	}

	titleCaser = cases.Title(language.English)
)

func Center(width int, height int, text string) string {
	return lipgloss.PlaceVertical(height, lipgloss.Center, lipgloss.PlaceHorizontal(width, lipgloss.Center, text))
}

func GlobalCenter(text string) string {
	return Center(global.TERM_WIDTH, global.TERM_HEIGHT, text)
}

func BestTextColor(backgroundColor lipgloss.Color) lipgloss.Color {
	// thanks https://andrisignorell.github.io/DescTools/reference/TextContrastColor.html
	rgb, err := strconv.ParseUint(strings.TrimPrefix(string(backgroundColor), "#"), 16, 32)
	if err != nil || !strings.HasPrefix(string(backgroundColor), "#") {
		return lipgloss.Color("#FFFFFF")
	}

	r, g, b := rgb>>16&0xFF, rgb>>8&0xFF, rgb&0xFF
	mean := (r + g + b) / 3

	if mean < 127 {
		return lipgloss.Color("#FFFFFF")
	}

	return lipgloss.Color("#000000")
}

// DisplayName turns roster names like "mr-mime" into "Mr Mime"
func DisplayName(name string) string {
	return titleCaser.String(strings.ReplaceAll(name, "-", " "))
}

func TypeBadge(typeName string) string {
	color, ok := TYPE_COLORS[typeName]
	if !ok {
		color = FadedColor
	}

	return lipgloss.NewStyle().
		Background(color).
		Foreground(BestTextColor(color)).
		Padding(0, 1).
		Render(strings.ToUpper(typeName))
}

func TypeBadges(types []string) string {
	badges := make([]string, 0, len(types))
	for _, typeName := range types {
		badges = append(badges, TypeBadge(typeName))
	}

	return strings.Join(badges, " ")
}
