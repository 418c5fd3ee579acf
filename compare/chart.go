package compare

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/nathanieltooley/pokeduel/duel"
	"github.com/samber/lo"
)

// MAX_BASE_STAT is the outer ring of the radar chart
const MAX_BASE_STAT = 255

var STAT_LABELS = map[string]string{
	duel.STAT_HP:       "HP",
	duel.STAT_ATTACK:   "Attack",
	duel.STAT_DEFENSE:  "Defense",
	duel.STAT_SPATTACK: "Sp. Atk",
	duel.STAT_SPDEF:    "Sp. Def",
	duel.STAT_SPEED:    "Speed",
}

// NewRadar builds a radar chart with both combatants' base stats laid over each other
func NewRadar(a duel.Combatant, b duel.Combatant) *charts.Radar {
	radar := charts.NewRadar()

	indicators := lo.Map(duel.STAT_NAMES, func(name string, _ int) *opts.Indicator {
		return &opts.Indicator{Name: STAT_LABELS[name], Max: MAX_BASE_STAT}
	})

	radar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s vs %s", a.Name, b.Name),
			Subtitle: Details(a, b),
		}),
		charts.WithRadarComponentOpts(opts.RadarComponent{
			Indicator: indicators,
			Shape:     "polygon",
		}),
	)

	for _, c := range []duel.Combatant{a, b} {
		radar.AddSeries(c.Name, []opts.RadarData{radarData(c)})
	}

	return radar
}

func radarData(c duel.Combatant) opts.RadarData {
	values := lo.Map(duel.STAT_NAMES, func(name string, _ int) float32 {
		return float32(c.RawStat(name))
	})

	return opts.RadarData{Name: c.Name, Value: values}
}

// RenderRadar writes a standalone html page containing the radar chart
func RenderRadar(w io.Writer, a duel.Combatant, b duel.Combatant) error {
	if err := NewRadar(a, b).Render(w); err != nil {
		return fmt.Errorf("rendering radar chart: %w", err)
	}

	return nil
}
