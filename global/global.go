package global

import (
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/go-logr/zerologr"
	"github.com/nathanieltooley/pokeduel/duel"
	"github.com/nathanieltooley/pokeduel/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

var (
	TERM_WIDTH, TERM_HEIGHT, _ = term.GetSize(int(os.Stdout.Fd()))

	QuitKey = key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	)
	SkipKey = key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "skip ahead"),
	)
	RestartKey = key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "replay"),
	)

	Opt = GlobalConfig{
		ListenAddr:     DEFAULT_LISTEN_ADDR,
		RoundDelayMs:   DEFAULT_ROUND_DELAY_MS,
		DatabaseDriver: storage.DRIVER_SQLITE,
	}

	DATA duel.GameData

	initLogger zerolog.Logger
)

// GlobalInit loads config, sets up logging and loads roster and move data. Anything that goes wrong here is fatal.
func GlobalInit(files fs.FS, shouldLog bool) {
	configDir := DefaultConfigDir()

	// Basic logging for config debugging
	initLogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !shouldLog {
		initLogger = zerolog.Nop()
	}

	config, err := LoadConfig(DefaultConfigLocation())
	if err != nil {
		initLogger.Err(err).Msg("error occurred while reading config, using defaults")
		config = applyEnv(populateConfig(GlobalConfig{}, configDir))
	}
	Opt = config

	// Main global logger
	log.Logger = createLogger(configDir, logLevel(Opt.Debug))
	if Opt.Debug {
		zerologr.SetMaxV(2)
	}
	duel.SetInternalLogger(zerologr.New(&log.Logger))

	data, errs := duel.DefaultLoader(files)
	for _, err := range errs {
		initLogger.Err(err).Msg("error loading game data")
	}
	if len(errs) > 0 {
		log.Fatal().Errs("errors", errs).Msg("Couldn't load game data")
	}

	if Opt.MoveCatalogLocation != "" {
		catalog, err := duel.LoadMoveCatalogFile(Opt.MoveCatalogLocation)
		if err != nil {
			log.Fatal().Err(err).Str("path", Opt.MoveCatalogLocation).Msg("Couldn't load move catalog override")
		}

		data.Catalog = catalog
	}

	DATA = data

	initLogger.Info().Int("combatants", len(DATA.Roster.Combatants)).Int("moves", DATA.Catalog.Len()).Msg("Game data loaded")
}

// logLevel is trace in debug mode, since zerologr logs V(2) and up at trace level
func logLevel(debug bool) zerolog.Level {
	if debug {
		return zerolog.TraceLevel
	}

	return zerolog.InfoLevel
}

func createLogger(configDir string, level zerolog.Level) zerolog.Logger {
	rollingWriter := NewRollingFileWriter(filepath.Join(configDir, "logs"), "pokeduel")
	return zerolog.New(rollingWriter).With().Timestamp().Caller().Logger().Level(level)
}

// UseConsoleLogging sends the global logger to stderr instead of the log files, used by the server
func UseConsoleLogging() {
	log.Logger = log.Logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime})
	duel.SetInternalLogger(zerologr.New(&log.Logger))
}

func StopLogging() {
	log.Logger = zerolog.Nop()
	duel.SetInternalLogger(zerologr.New(&log.Logger))
}

func RoundDelay() time.Duration {
	return time.Duration(Opt.RoundDelayMs) * time.Millisecond
}

// NewSeed picks a seed for a battle that wasn't given one
func NewSeed() int64 {
	return rand.Int64()
}
