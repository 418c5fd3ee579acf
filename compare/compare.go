// Package compare sizes up two combatants on paper, without running a battle
package compare

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/nathanieltooley/pokeduel/duel"
	"github.com/samber/lo"
)

const (
	PREDICTION_FIRST  = "combatant1"
	PREDICTION_SECOND = "combatant2"
	PREDICTION_TIE    = "tie"
)

// TIE_THRESHOLD is how close two stat totals have to be for a matchup to be called even
const TIE_THRESHOLD = 20

// RATING_SCALE is the stat total (three stats at 150) that counts as a rating of 100
const RATING_SCALE = 450.0

type Side struct {
	ID              int            `json:"id"`
	Name            string         `json:"name"`
	TotalPower      int            `json:"totalPower"`
	OffensiveRating int            `json:"offensiveRating"`
	DefensiveRating int            `json:"defensiveRating"`
	Stats           duel.BaseStats `json:"stats"`
}

type Comparison struct {
	Combatant1        Side      `json:"combatant1"`
	Combatant2        Side      `json:"combatant2"`
	Prediction        string    `json:"prediction"`
	PredictionText    string    `json:"predictionText"`
	PredictionDetails string    `json:"predictionDetails"`
	ComparisonDate    time.Time `json:"comparisonDate"`
}

// TotalPower is the plain sum of base stats. Unlike in battle, missing stats count as 0 here.
func TotalPower(c duel.Combatant) int {
	return lo.Sum(lo.Values(c.BaseStats))
}

func OffensiveRating(c duel.Combatant) int {
	return rating(c, duel.STAT_ATTACK, duel.STAT_SPATTACK, duel.STAT_SPEED)
}

func DefensiveRating(c duel.Combatant) int {
	return rating(c, duel.STAT_DEFENSE, duel.STAT_SPDEF, duel.STAT_HP)
}

func rating(c duel.Combatant, stats ...string) int {
	sum := lo.SumBy(stats, func(name string) int {
		return c.RawStat(name)
	})

	return int(math.Round(float64(sum) / RATING_SCALE * 100))
}

// Predict calls the matchup on stat totals alone
func Predict(a duel.Combatant, b duel.Combatant) string {
	powerA := TotalPower(a)
	powerB := TotalPower(b)

	if absDiff(powerA, powerB) < TIE_THRESHOLD {
		return PREDICTION_TIE
	}

	if powerA > powerB {
		return PREDICTION_FIRST
	}

	return PREDICTION_SECOND
}

func PredictionText(a duel.Combatant, b duel.Combatant) string {
	switch Predict(a, b) {
	case PREDICTION_FIRST:
		return fmt.Sprintf("%s has the advantage", a.Name)
	case PREDICTION_SECOND:
		return fmt.Sprintf("%s has the advantage", b.Name)
	default:
		return "A very even battle"
	}
}

func Details(a duel.Combatant, b duel.Combatant) string {
	powerA := TotalPower(a)
	powerB := TotalPower(b)
	difference := absDiff(powerA, powerB)

	if difference < TIE_THRESHOLD {
		return "The stats are very similar. Victory will come down to strategy and luck."
	}

	stronger := b.Name
	if powerA > powerB {
		stronger = a.Name
	}

	return fmt.Sprintf("%s has a significant statistical advantage with %d points of difference.", stronger, difference)
}

// StatBarWidth is how full (0-100) a bar for current should be when drawn next to compareTo
func StatBarWidth(current int, compareTo int) float64 {
	maxStat := max(current, compareTo)
	if maxStat <= 0 {
		return 0
	}

	return float64(current) / float64(maxStat) * 100
}

func NewSide(c duel.Combatant) Side {
	return Side{
		ID:              c.ID,
		Name:            c.Name,
		TotalPower:      TotalPower(c),
		OffensiveRating: OffensiveRating(c),
		DefensiveRating: DefensiveRating(c),
		Stats:           c.Clone().BaseStats,
	}
}

func Compare(a duel.Combatant, b duel.Combatant, now time.Time) Comparison {
	return Comparison{
		Combatant1:        NewSide(a),
		Combatant2:        NewSide(b),
		Prediction:        Predict(a, b),
		PredictionText:    PredictionText(a, b),
		PredictionDetails: Details(a, b),
		ComparisonDate:    now.UTC(),
	}
}

// Export writes the comparison as indented json
func Export(w io.Writer, c Comparison) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("exporting comparison: %w", err)
	}

	return nil
}

func ExportFileName(c Comparison) string {
	return fmt.Sprintf("comparison-%s-vs-%s.json", c.Combatant1.Name, c.Combatant2.Name)
}

// ExportPath is target itself, unless target is a directory. Then the export goes in it under ExportFileName.
func ExportPath(target string, c Comparison) string {
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return filepath.Join(target, ExportFileName(c))
	}

	return target
}

func absDiff(a int, b int) int {
	if a > b {
		return a - b
	}

	return b - a
}
