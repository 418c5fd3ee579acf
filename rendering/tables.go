package rendering

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/nathanieltooley/pokeduel/compare"
	"github.com/nathanieltooley/pokeduel/duel"
	"github.com/nathanieltooley/pokeduel/storage"
	"github.com/samber/lo"
)

const statBarCells = 20

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(HighlightedColor).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(FadedStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// StatBar draws a bar for a 0-100 width as returned by compare.StatBarWidth
func StatBar(width float64) string {
	filled := int(width / 100 * statBarCells)
	filled = max(0, min(statBarCells, filled))

	return strings.Repeat("█", filled) + FadedStyle.Render(strings.Repeat("░", statBarCells-filled))
}

func ComparisonTable(c compare.Comparison) string {
	first := c.Combatant1
	second := c.Combatant2

	statTable := newTable("Stat", DisplayName(first.Name), "", DisplayName(second.Name), "")

	for _, statName := range duel.STAT_NAMES {
		a := first.Stats[statName]
		b := second.Stats[statName]

		statTable.Row(
			compare.STAT_LABELS[statName],
			strconv.Itoa(a),
			StatBar(compare.StatBarWidth(a, b)),
			strconv.Itoa(b),
			StatBar(compare.StatBarWidth(b, a)),
		)
	}

	statTable.Row("Total", strconv.Itoa(first.TotalPower), "", strconv.Itoa(second.TotalPower), "")
	statTable.Row("Offense", fmt.Sprintf("%d%%", first.OffensiveRating), "", fmt.Sprintf("%d%%", second.OffensiveRating), "")
	statTable.Row("Defense", fmt.Sprintf("%d%%", first.DefensiveRating), "", fmt.Sprintf("%d%%", second.DefensiveRating), "")

	return lipgloss.JoinVertical(lipgloss.Left,
		statTable.Render(),
		TitleStyle.Render(c.PredictionText),
		c.PredictionDetails,
	)
}

func RosterTable(combatants []duel.Combatant) string {
	rosterTable := newTable("#", "Name", "Types", "Total", "Level", "Max HP")

	for _, c := range combatants {
		rosterTable.Row(
			strconv.Itoa(c.ID),
			DisplayName(c.Name),
			TypeBadges(c.Types),
			strconv.Itoa(c.TotalStats()),
			strconv.Itoa(c.Level()),
			strconv.Itoa(c.MaxHealth()),
		)
	}

	return rosterTable.Render()
}

func HistoryTable(records []*storage.BattleRecord) string {
	historyTable := newTable("When", "Matchup", "Winner", "Rounds", "Damage", "Seed")

	rows := lo.Map(records, func(r *storage.BattleRecord, _ int) []string {
		return []string{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%s vs %s", DisplayName(r.Combatant1Name), DisplayName(r.Combatant2Name)),
			DisplayName(r.WinnerName),
			strconv.Itoa(r.RoundCount),
			strconv.Itoa(r.TotalDamage),
			strconv.FormatInt(r.Seed, 10),
		}
	})

	return historyTable.Rows(rows...).Render()
}

func TeamTable(name string, team []duel.Combatant) string {
	teamTable := newTable("#", "Name", "Types", "Max HP")

	for _, c := range team {
		teamTable.Row(strconv.Itoa(c.ID), DisplayName(c.Name), TypeBadges(c.Types), strconv.Itoa(c.MaxHealth()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, TitleStyle.Render(DisplayName(name)), teamTable.Render())
}
