package duel

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v2"
)

var ErrUnknownCombatant = errors.New("no such combatant in roster")

const (
	FORMAT_JSON = "json"
	FORMAT_YAML = "yaml"
)

// Roster is every combatant available to battle with
type Roster struct {
	Combatants []Combatant
}

func (r Roster) GetByID(id int) *Combatant {
	for _, c := range r.Combatants {
		if c.ID == id {
			return &c
		}
	}

	return nil
}

func (r Roster) GetByName(name string) *Combatant {
	for _, c := range r.Combatants {
		if strings.EqualFold(c.Name, name) {
			return &c
		}
	}

	return nil
}

// Lookup finds a combatant by pokedex number if key is numeric, otherwise by name
func (r Roster) Lookup(key string) (Combatant, error) {
	var found *Combatant

	if id, err := strconv.Atoi(key); err == nil {
		found = r.GetByID(id)
	} else {
		found = r.GetByName(key)
	}

	if found == nil {
		return Combatant{}, fmt.Errorf("%w: %s", ErrUnknownCombatant, key)
	}

	return found.Clone(), nil
}

// LoadRoster takes in the bytes of a csv file with the following columns:
// PokedexNumber, Name, Type1, Type2, HP, Attack, Defense, SpecialAttack, SpecialDefense, Speed
// in that order. The first row is a header and is skipped. Type2 may be empty.
func LoadRoster(fileBytes []byte) ([]Combatant, error) {
	csvReader := csv.NewReader(bytes.NewBuffer(fileBytes))
	if _, err := csvReader.Read(); err != nil {
		return nil, fmt.Errorf("reading roster header: %w", err)
	}

	rows, err := csvReader.ReadAll()
	if err != nil {
		internalLogger.Error(err, "invalid csv data")
		return nil, err
	}

	combatants := make([]Combatant, 0, len(rows))

	internalLogger.Info("Loading Roster Data")

	for _, row := range rows {
		if len(row) < 10 {
			return nil, fmt.Errorf("roster row has %d columns, expected 10: %v", len(row), row)
		}

		pokedexNumber, err := strconv.Atoi(row[0])
		if err != nil {
			internalLogger.WithName("roster_parsing").Error(err, "invalid pokedex number")
			return nil, err
		}

		stats := make(BaseStats, len(STAT_NAMES))
		for i, statName := range STAT_NAMES {
			value, err := strconv.Atoi(row[4+i])
			if err != nil {
				internalLogger.WithName("roster_parsing").Error(err, "invalid stat", "stat", statName, "pokedex", pokedexNumber)
				return nil, err
			}

			stats[statName] = value
		}

		types := []string{strings.ToLower(row[2])}
		if row[3] != "" {
			types = append(types, strings.ToLower(row[3]))
		}

		combatant := Combatant{
			ID:        pokedexNumber,
			Name:      row[1],
			Types:     types,
			BaseStats: stats,
		}

		internalLogger.WithName("load_roster").V(1).Info("loaded combatant", "pokedex", pokedexNumber, "name", combatant.Name, "types", types)

		combatants = append(combatants, combatant)
	}

	internalLogger.Info("Loaded roster", "count", len(combatants))

	return combatants, nil
}

// LoadMoveCatalog takes in a list of moves, either as json or yaml
func LoadMoveCatalog(moveBytes []byte, format string) (MoveCatalog, error) {
	internalLogger.Info("Loading Move Data", "format", format)

	parsedMoves := make([]Move, 0, 64)

	switch format {
	case FORMAT_JSON:
		if err := json.Unmarshal(moveBytes, &parsedMoves); err != nil {
			internalLogger.Error(err, "Couldn't unmarshal move data")
			return MoveCatalog{}, err
		}
	case FORMAT_YAML:
		if err := yaml.Unmarshal(moveBytes, &parsedMoves); err != nil {
			internalLogger.Error(err, "Couldn't unmarshal move data")
			return MoveCatalog{}, err
		}
	default:
		return MoveCatalog{}, fmt.Errorf("unknown move catalog format: %q", format)
	}

	for i, move := range parsedMoves {
		parsedMoves[i].Type = strings.ToLower(move.Type)
		if move.Category == "" {
			parsedMoves[i].Category = CATEGORY_PHYSICAL
		}
	}

	catalog := NewMoveCatalog(parsedMoves)

	internalLogger.Info("Loaded moves", "count", catalog.Len(), "type_count", len(catalog.MovesByType))

	return catalog, nil
}

// LoadMoveCatalogFile loads a catalog from disk, using the file extension to pick the format
func LoadMoveCatalogFile(path string) (MoveCatalog, error) {
	moveBytes, err := os.ReadFile(path)
	if err != nil {
		return MoveCatalog{}, err
	}

	format := FORMAT_JSON
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FORMAT_YAML
	}

	return LoadMoveCatalog(moveBytes, format)
}

// GameData is everything loaded at startup
type GameData struct {
	Roster  Roster
	Catalog MoveCatalog
}

// DefaultLoader loads roster and move data from their locations in this repo's data directory.
func DefaultLoader(files fs.FS) (GameData, []error) {
	var data GameData

	// Load concurrently
	var wg sync.WaitGroup
	wg.Add(2)
	errChan := make(chan error, 2)

	go func() {
		defer wg.Done()

		rosterBytes, err := fs.ReadFile(files, "data/roster.csv")
		if err != nil {
			errChan <- err
			return
		}

		combatants, err := LoadRoster(rosterBytes)
		if err != nil {
			errChan <- err
			return
		}

		data.Roster = Roster{Combatants: combatants}
	}()
	go func() {
		defer wg.Done()

		moveBytes, err := fs.ReadFile(files, "data/moves.json")
		if err != nil {
			errChan <- err
			return
		}

		catalog, err := LoadMoveCatalog(moveBytes, FORMAT_JSON)
		if err != nil {
			errChan <- err
			return
		}

		data.Catalog = catalog
	}()

	wg.Wait()
	close(errChan)

	errs := make([]error, 0)
	for err := range errChan {
		errs = append(errs, err)
	}

	return data, errs
}
