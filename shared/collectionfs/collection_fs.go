// Package collectionfs stores named teams of combatants in a single json file
package collectionfs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/nathanieltooley/pokeduel/duel"
	"github.com/samber/lo"
)

var (
	ErrNoSuchTeam   = errors.New("no such team exists")
	ErrTeamTooLarge = errors.New("team has too many members")
	ErrTeamTooSmall = errors.New("team needs at least two members to battle")
	ErrBadTeamsFile = errors.New("teams file is not valid json")
)

const MAX_TEAM_SIZE = 6

var TeamsFileName string = "teams.json"

type SavedTeams map[string][]duel.Combatant

func SaveTeam(filePath string, name string, members []duel.Combatant) error {
	members = lo.Filter(members, func(c duel.Combatant, _ int) bool {
		return !c.IsNil()
	})

	if len(members) > MAX_TEAM_SIZE {
		return fmt.Errorf("%w: %d members, max is %d", ErrTeamTooLarge, len(members), MAX_TEAM_SIZE)
	}

	teams, err := LoadTeamMap(filePath)
	if err != nil {
		return err
	}

	teams[name] = lo.Map(members, func(c duel.Combatant, _ int) duel.Combatant {
		return c.Clone()
	})

	return writeTeams(filePath, teams)
}

func LoadTeam(filePath string, name string) ([]duel.Combatant, error) {
	teams, err := LoadTeamMap(filePath)
	if err != nil {
		return nil, err
	}

	team, ok := teams[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchTeam, name)
	}

	// only happens if someone edits the file by hand
	if len(team) > MAX_TEAM_SIZE {
		team = team[:MAX_TEAM_SIZE]
	}

	return team, nil
}

func DeleteTeam(filePath string, name string) error {
	teams, err := LoadTeamMap(filePath)
	if err != nil {
		return err
	}

	if _, ok := teams[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchTeam, name)
	}

	delete(teams, name)

	return writeTeams(filePath, teams)
}

// TeamNames lists saved teams in alphabetical order
func TeamNames(filePath string) ([]string, error) {
	teams, err := LoadTeamMap(filePath)
	if err != nil {
		return nil, err
	}

	names := lo.Keys(teams)
	slices.Sort(names)

	return names, nil
}

// LoadTeamMap reads every saved team, creating an empty file if there isn't one yet
func LoadTeamMap(filePath string) (SavedTeams, error) {
	teamFile, err := os.Open(filePath)
	// If there is an error, assume the file doesn't exist
	if err != nil {
		if err := os.MkdirAll(filepath.Dir(filePath), 0777); err != nil {
			return nil, err
		}

		teamFile, err = os.Create(filePath)
		if err != nil {
			return nil, err
		}
	}
	defer teamFile.Close()

	teamFileBytes, err := io.ReadAll(teamFile)
	if err != nil {
		return nil, err
	}

	teams := make(SavedTeams)
	if len(bytes.TrimSpace(teamFileBytes)) == 0 {
		return teams, nil
	}

	// anything other than an empty file has to parse
	if err := json.Unmarshal(teamFileBytes, &teams); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBadTeamsFile, filePath, err)
	}

	return teams, nil
}

// TeamRoster turns a saved team into a roster, so members can be looked up by id or name
func TeamRoster(filePath string, name string) (duel.Roster, error) {
	team, err := LoadTeam(filePath, name)
	if err != nil {
		return duel.Roster{}, err
	}

	return duel.Roster{Combatants: team}, nil
}

// TeamPair picks two fighters from a saved team. An empty key picks the first member
// that isn't already the other fighter.
func TeamPair(filePath string, name string, a string, b string) (duel.Combatant, duel.Combatant, error) {
	roster, err := TeamRoster(filePath, name)
	if err != nil {
		return duel.Combatant{}, duel.Combatant{}, err
	}

	if len(roster.Combatants) < 2 {
		return duel.Combatant{}, duel.Combatant{}, fmt.Errorf("%w: %s has %d", ErrTeamTooSmall, name, len(roster.Combatants))
	}

	var c1, c2 duel.Combatant
	if a != "" {
		if c1, err = roster.Lookup(a); err != nil {
			return duel.Combatant{}, duel.Combatant{}, err
		}
	}
	if b != "" {
		if c2, err = roster.Lookup(b); err != nil {
			return duel.Combatant{}, duel.Combatant{}, err
		}
	}

	if a == "" {
		c1 = firstOther(roster, c2)
	}
	if b == "" {
		c2 = firstOther(roster, c1)
	}

	return c1, c2, nil
}

func firstOther(roster duel.Roster, taken duel.Combatant) duel.Combatant {
	member, _ := lo.Find(roster.Combatants, func(c duel.Combatant) bool {
		return c.ID != taken.ID
	})

	return member.Clone()
}

func writeTeams(filePath string, teams SavedTeams) error {
	teamsJson, err := json.MarshalIndent(teams, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filePath, teamsJson, 0666)
}
