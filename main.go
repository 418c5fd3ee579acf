package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nathanieltooley/pokeduel/compare"
	"github.com/nathanieltooley/pokeduel/duel"
	"github.com/nathanieltooley/pokeduel/global"
	"github.com/nathanieltooley/pokeduel/rendering"
	"github.com/nathanieltooley/pokeduel/server"
	"github.com/nathanieltooley/pokeduel/shared/collectionfs"
	"github.com/nathanieltooley/pokeduel/storage"
	"github.com/nathanieltooley/pokeduel/views/battleview"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

//go:embed data
var dataFiles embed.FS

const usage = `usage: pokeduel <command> [flags]

commands:
  battle   -a <id|name> -b <id|name> [-team name] [-seed N] [-plain]
  compare  -a <id|name> -b <id|name> [-team name] [-chart out.html] [-export out.json|dir]
  serve    [-addr :8080]
  history  [-limit N]
  team     save <name> <id|name>... | list | show <name> | delete <name>
  roster   [-type fire]
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	global.GlobalInit(dataFiles, false)

	command, args := os.Args[1], os.Args[2:]
	log.Info().Str("command", command).Strs("args", args).Msg("Starting pokeduel")

	var err error
	switch command {
	case "battle":
		err = battleCmd(args)
	case "compare":
		err = compareCmd(args)
	case "serve":
		err = serveCmd(args)
	case "history":
		err = historyCmd(args)
	case "team":
		err = teamCmd(args)
	case "roster":
		err = rosterCmd(args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		log.Err(err).Str("command", command).Msg("command failed")
		fmt.Fprintf(os.Stderr, "pokeduel %s: %s\n", command, err)
		os.Exit(1)
	}
}

func openRepository() (*storage.Repository, error) {
	if global.Opt.DatabaseDriver == storage.DRIVER_SQLITE {
		if err := os.MkdirAll(filepath.Dir(global.Opt.DatabaseDSN), 0750); err != nil {
			return nil, err
		}
	}

	db, err := storage.Open(global.Opt.DatabaseDriver, global.Opt.DatabaseDSN, global.Opt.Debug)
	if err != nil {
		return nil, err
	}

	return storage.NewRepository(db), nil
}

func lookupPair(a string, b string) (duel.Combatant, duel.Combatant, error) {
	if a == "" || b == "" {
		return duel.Combatant{}, duel.Combatant{}, errors.New("both -a and -b are required")
	}

	c1, err := global.DATA.Roster.Lookup(a)
	if err != nil {
		return duel.Combatant{}, duel.Combatant{}, err
	}

	c2, err := global.DATA.Roster.Lookup(b)
	if err != nil {
		return duel.Combatant{}, duel.Combatant{}, err
	}

	return c1, c2, duel.ValidatePair(c1, c2)
}

// pickPair looks fighters up in a saved team when one is named, otherwise in the whole roster
func pickPair(team string, a string, b string) (duel.Combatant, duel.Combatant, error) {
	if team == "" {
		return lookupPair(a, b)
	}

	c1, c2, err := collectionfs.TeamPair(global.Opt.CollectionLocation, team, a, b)
	if err != nil {
		return duel.Combatant{}, duel.Combatant{}, err
	}

	return c1, c2, duel.ValidatePair(c1, c2)
}

func battleCmd(args []string) error {
	flags := flag.NewFlagSet("battle", flag.ExitOnError)
	a := flags.String("a", "", "first combatant (pokedex number or name)")
	b := flags.String("b", "", "second combatant (pokedex number or name)")
	team := flags.String("team", "", "pick fighters from this saved team, the first two members by default")
	seed := flags.Int64("seed", 0, "seed for the battle, random when 0")
	plain := flags.Bool("plain", false, "print the battle log instead of showing it in the terminal ui")
	flags.Parse(args)

	c1, c2, err := pickPair(*team, *a, *b)
	if err != nil {
		return err
	}

	if *seed == 0 {
		*seed = global.NewSeed()
	}

	repo, err := openRepository()
	if err != nil {
		return err
	}

	save := func(result duel.BattleResult) error {
		record, err := storage.NewBattleRecord(c1, c2, result, *seed)
		if err != nil {
			return err
		}

		if err := repo.Save(context.Background(), record); err != nil {
			return err
		}

		log.Info().Str("battle", record.ID.String()).Str("winner", result.WinnerName).Msg("Saved battle")
		return nil
	}

	battle := duel.NewEngine(global.DATA.Catalog).NewBattle(c1, c2, duel.SeedFromInt(uint64(*seed)))

	if *plain {
		for outcome := range battle.Rounds() {
			fmt.Printf("%3d. %s\n", outcome.Round, duel.LogLine(outcome))
		}

		result, _ := battle.Result()
		fmt.Printf("\n%s wins after %d rounds! (seed %d)\n", rendering.DisplayName(result.WinnerName), len(result.Rounds), *seed)

		return save(result)
	}

	model := battleview.NewBattleModel(battle, *seed, global.RoundDelay(), save)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running battle view: %w", err)
	}

	return nil
}

func compareCmd(args []string) error {
	flags := flag.NewFlagSet("compare", flag.ExitOnError)
	a := flags.String("a", "", "first combatant (pokedex number or name)")
	b := flags.String("b", "", "second combatant (pokedex number or name)")
	team := flags.String("team", "", "pick combatants from this saved team, the first two members by default")
	chartPath := flags.String("chart", "", "write a radar chart of both stat blocks to this html file")
	exportPath := flags.String("export", "", "write the comparison to this json file, or to a default file name inside this directory")
	flags.Parse(args)

	c1, c2, err := pickPair(*team, *a, *b)
	if err != nil {
		return err
	}

	comparison := compare.Compare(c1, c2, time.Now())
	fmt.Println(rendering.ComparisonTable(comparison))

	if *chartPath != "" {
		if err := writeFile(*chartPath, func(f *os.File) error {
			return compare.RenderRadar(f, c1, c2)
		}); err != nil {
			return err
		}
		fmt.Printf("Chart written to %s\n", *chartPath)
	}

	if *exportPath != "" {
		path := compare.ExportPath(*exportPath, comparison)
		if err := writeFile(path, func(f *os.File) error {
			return compare.Export(f, comparison)
		}); err != nil {
			return err
		}
		fmt.Printf("Comparison exported to %s\n", path)
	}

	return nil
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := write(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func serveCmd(args []string) error {
	flags := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := flags.String("addr", global.Opt.ListenAddr, "address to listen on")
	flags.Parse(args)

	global.UseConsoleLogging()

	repo, err := openRepository()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(global.DATA, repo, global.RoundDelay()).ListenAndServe(ctx, *addr)
}

func historyCmd(args []string) error {
	flags := flag.NewFlagSet("history", flag.ExitOnError)
	limit := flags.Int("limit", storage.DEFAULT_LIST_LIMIT, "how many battles to show")
	flags.Parse(args)

	repo, err := openRepository()
	if err != nil {
		return err
	}

	records, err := repo.ListRecent(context.Background(), *limit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No battles yet")
		return nil
	}

	fmt.Println(rendering.HistoryTable(records))
	return nil
}

func teamCmd(args []string) error {
	if len(args) < 1 {
		return errors.New("expected one of: save, list, show, delete")
	}

	collection := global.Opt.CollectionLocation

	switch args[0] {
	case "save":
		if len(args) < 3 {
			return errors.New("usage: team save <name> <id|name>...")
		}

		members := make([]duel.Combatant, 0, len(args)-2)
		for _, key := range args[2:] {
			member, err := global.DATA.Roster.Lookup(key)
			if err != nil {
				return err
			}
			members = append(members, member)
		}

		if err := collectionfs.SaveTeam(collection, args[1], members); err != nil {
			return err
		}
		fmt.Printf("Saved team %s\n", args[1])
	case "list":
		names, err := collectionfs.TeamNames(collection)
		if err != nil {
			return err
		}

		if len(names) == 0 {
			fmt.Println("No saved teams")
		}
		for _, name := range names {
			fmt.Println(name)
		}
	case "show":
		if len(args) < 2 {
			return errors.New("usage: team show <name>")
		}

		team, err := collectionfs.LoadTeam(collection, args[1])
		if err != nil {
			return err
		}
		fmt.Println(rendering.TeamTable(args[1], team))
	case "delete":
		if len(args) < 2 {
			return errors.New("usage: team delete <name>")
		}

		if err := collectionfs.DeleteTeam(collection, args[1]); err != nil {
			return err
		}
		fmt.Printf("Deleted team %s\n", args[1])
	default:
		return fmt.Errorf("unknown team command %q", args[0])
	}

	return nil
}

func rosterCmd(args []string) error {
	flags := flag.NewFlagSet("roster", flag.ExitOnError)
	typeName := flags.String("type", "", "only show combatants of this type")
	flags.Parse(args)

	combatants := global.DATA.Roster.Combatants
	if *typeName != "" {
		combatants = lo.Filter(combatants, func(c duel.Combatant, _ int) bool {
			return c.HasType(strings.ToLower(*typeName))
		})
	}

	fmt.Println(rendering.RosterTable(combatants))
	return nil
}
