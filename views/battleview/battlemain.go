package battleview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nathanieltooley/pokeduel/duel"
	"github.com/nathanieltooley/pokeduel/global"
	"github.com/nathanieltooley/pokeduel/rendering"
	"github.com/rs/zerolog/log"
)

const sidePanelWidth = 30

type BattleModel struct {
	battle *duel.Battle
	seed   int64
	delay  time.Duration

	// onFinish runs with the result the first time the battle ends. Replays don't call it again.
	onFinish func(duel.BattleResult) error
	reported bool

	log         []string
	lastOutcome *duel.RoundOutcome
	healthBars  [2]progress.Model

	// bumped on every restart so ticks from a previous playthrough are dropped
	generation int
	skipping   bool
	err        error
}

type roundTickMsg struct {
	generation int
}

type finishErrMsg struct {
	err error
}

func NewBattleModel(battle *duel.Battle, seed int64, delay time.Duration, onFinish func(duel.BattleResult) error) BattleModel {
	var bars [2]progress.Model
	for i := range bars {
		bar := progress.New(progress.WithDefaultGradient())
		bar.Width = sidePanelWidth - 4
		bar.ShowPercentage = false
		bars[i] = bar
	}

	return BattleModel{
		battle:     battle,
		seed:       seed,
		delay:      delay,
		onFinish:   onFinish,
		log:        make([]string, 0, duel.MAX_LOG_LINES),
		healthBars: bars,
	}
}

func (m BattleModel) tick() tea.Cmd {
	generation := m.generation
	delay := m.delay
	if m.skipping {
		delay = 0
	}

	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return roundTickMsg{generation: generation}
	})
}

func (m BattleModel) Init() tea.Cmd {
	return m.tick()
}

func (m BattleModel) Log() []string {
	return m.log
}

func (m BattleModel) restart() (BattleModel, tea.Cmd) {
	m.battle.Reset()
	m.generation++
	m.skipping = false
	m.log = make([]string, 0, duel.MAX_LOG_LINES)
	m.lastOutcome = nil
	m.err = nil

	log.Info().Int64("seed", m.seed).Msg("Replaying battle")

	return m, m.tick()
}

func (m BattleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, global.QuitKey):
			return m, tea.Quit
		case key.Matches(msg, global.SkipKey):
			if !m.skipping && !m.battle.Done() {
				m.skipping = true
				m.generation++
				return m, m.tick()
			}
		case key.Matches(msg, global.RestartKey):
			if m.battle.Done() {
				return m.restart()
			}
		}
	case roundTickMsg:
		if msg.generation != m.generation {
			return m, nil
		}

		outcome, ok := m.battle.Next()
		if !ok {
			return m, nil
		}

		m.lastOutcome = &outcome
		m.log = duel.PushLog(m.log, duel.LogLine(outcome))

		if m.battle.Done() {
			result, _ := m.battle.Result()
			log.Info().Str("winner", result.WinnerName).Int("rounds", len(result.Rounds)).Msg("Battle finished")

			if m.onFinish != nil && !m.reported {
				m.reported = true
				onFinish := m.onFinish
				return m, func() tea.Msg {
					return finishErrMsg{err: onFinish(result)}
				}
			}

			return m, nil
		}

		return m, m.tick()
	case finishErrMsg:
		if msg.err != nil {
			log.Err(msg.err).Msg("couldn't save battle")
		}
		m.err = msg.err
	case progress.FrameMsg:
		for i, bar := range m.healthBars {
			barModel, _ := bar.Update(msg)
			m.healthBars[i] = barModel.(progress.Model)
		}
	}

	return m, nil
}

func (m BattleModel) sidePanel(state duel.BattleState, side int) string {
	status := state.Status()[side]
	fighter := state.Fighters[side]

	info := fmt.Sprintf("%s  Lv. %d\n%s\nHP: %d/%d",
		rendering.DisplayName(status.Name),
		fighter.Level,
		rendering.TypeBadges(fighter.Combatant.Types),
		status.CurrentHP,
		status.MaxHP,
	)

	style := rendering.PanelStyle
	if state.Winner() == side {
		style = rendering.WinnerPanelStyle
	}

	return style.Width(sidePanelWidth).Render(lipgloss.JoinVertical(lipgloss.Center, info, m.healthBars[side].ViewAs(float64(status.Percentage)/100)))
}

func (m BattleModel) currentMessage() string {
	if m.lastOutcome == nil {
		return "The battle is about to begin!"
	}

	message := duel.Describe(*m.lastOutcome)
	if m.lastOutcome.Critical {
		return rendering.CritStyle.Render(message)
	}

	return message
}

func (m BattleModel) View() string {
	state := m.battle.State()

	logLines := make([]string, 0, len(m.log))
	for i, line := range m.log {
		if i == 0 {
			logLines = append(logLines, line)
		} else {
			logLines = append(logLines, rendering.FadedStyle.Render(line))
		}
	}

	help := "enter: skip ahead • q: quit"
	header := fmt.Sprintf("Round %d", len(state.RoundLog))
	if m.battle.Done() {
		result, _ := m.battle.Result()
		header = rendering.TitleStyle.Render(fmt.Sprintf("%s wins after %d rounds! (%d total damage)", rendering.DisplayName(result.WinnerName), len(result.Rounds), result.TotalDamage))
		help = "r: replay • q: quit"
	}

	if m.err != nil {
		help = rendering.CritStyle.Render("couldn't save battle: "+m.err.Error()) + "\n" + help
	}

	return rendering.GlobalCenter(
		lipgloss.JoinVertical(
			lipgloss.Center,
			header,
			rendering.ButtonStyle.Width(sidePanelWidth*2).Render(m.currentMessage()),
			lipgloss.JoinHorizontal(
				lipgloss.Center,
				m.sidePanel(state, duel.SIDE_ONE),
				"  vs  ",
				m.sidePanel(state, duel.SIDE_TWO),
			),
			rendering.PanelStyle.Width(sidePanelWidth*2+6).Align(lipgloss.Left).Render(strings.Join(logLines, "\n")),
			rendering.HelpStyle.Render(fmt.Sprintf("seed %d • %s", m.seed, help)),
		),
	)
}
