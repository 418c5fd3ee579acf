package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nathanieltooley/pokeduel/compare"
	"github.com/nathanieltooley/pokeduel/duel"
	"github.com/nathanieltooley/pokeduel/storage"
	"github.com/samber/lo"
)

type CombatantsResponse struct {
	Combatants []duel.Combatant `json:"combatants"`
}

type CombatantResponse struct {
	Combatant duel.Combatant          `json:"combatant"`
	Level     int                     `json:"level"`
	MaxHealth int                     `json:"maxHealth"`
	Record    storage.CombatantRecord `json:"record"`
}

type CreateBattleRequest struct {
	Combatant1ID int    `json:"combatant1Id"`
	Combatant2ID int    `json:"combatant2Id"`
	Seed         *int64 `json:"seed,omitempty"`
}

type BattleResponse struct {
	ID     uuid.UUID         `json:"id"`
	Seed   int64             `json:"seed"`
	Result duel.BattleResult `json:"result"`
}

type BattlesResponse struct {
	Battles []*storage.BattleRecord `json:"battles"`
}

func (s *Server) listCombatants(w http.ResponseWriter, r *http.Request) {
	combatants := s.data.Roster.Combatants

	if typeName := strings.ToLower(r.URL.Query().Get("type")); typeName != "" {
		combatants = lo.Filter(combatants, func(c duel.Combatant, _ int) bool {
			return c.HasType(typeName)
		})
	}

	writeJSON(w, http.StatusOK, CombatantsResponse{Combatants: combatants})
}

func (s *Server) getCombatant(w http.ResponseWriter, r *http.Request) {
	combatant, err := s.data.Roster.Lookup(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	record, err := s.repo.Record(r.Context(), combatant.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, CombatantResponse{
		Combatant: combatant,
		Level:     combatant.Level(),
		MaxHealth: combatant.MaxHealth(),
		Record:    record,
	})
}

// lookupPair finds both combatants and makes sure they're allowed to fight
func (s *Server) lookupPair(a string, b string) (duel.Combatant, duel.Combatant, error) {
	if a == "" || b == "" {
		return duel.Combatant{}, duel.Combatant{}, fmt.Errorf("%w: two combatants are required", ErrBadRequest)
	}

	c1, err := s.data.Roster.Lookup(a)
	if err != nil {
		return duel.Combatant{}, duel.Combatant{}, err
	}

	c2, err := s.data.Roster.Lookup(b)
	if err != nil {
		return duel.Combatant{}, duel.Combatant{}, err
	}

	if err := duel.ValidatePair(c1, c2); err != nil {
		return duel.Combatant{}, duel.Combatant{}, err
	}

	return c1, c2, nil
}

func (s *Server) createBattle(w http.ResponseWriter, r *http.Request) {
	var req CreateBattleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: %s", ErrBadRequest, err))
		return
	}

	if req.Combatant1ID == 0 || req.Combatant2ID == 0 {
		writeError(w, r, fmt.Errorf("%w: two combatants are required", ErrBadRequest))
		return
	}

	c1, c2, err := s.lookupPair(strconv.Itoa(req.Combatant1ID), strconv.Itoa(req.Combatant2ID))
	if err != nil {
		writeError(w, r, err)
		return
	}

	seed := s.NewSeed()
	if req.Seed != nil {
		seed = *req.Seed
	}

	result := s.engine.NewBattle(c1, c2, duel.SeedFromInt(uint64(seed))).Finish()

	record, err := s.save(r, c1, c2, result, seed)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, BattleResponse{ID: record.ID, Seed: seed, Result: result})
}

func (s *Server) save(r *http.Request, c1 duel.Combatant, c2 duel.Combatant, result duel.BattleResult, seed int64) (*storage.BattleRecord, error) {
	record, err := storage.NewBattleRecord(c1, c2, result, seed)
	if err != nil {
		return nil, err
	}
	record.CreatedAt = s.Now()

	if err := s.repo.Save(r.Context(), record); err != nil {
		return nil, err
	}

	requestLogger(r).Info().Str("battle", record.ID.String()).Str("winner", result.WinnerName).Int64("seed", seed).Msg("Saved battle")

	return record, nil
}

func (s *Server) listBattles(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 0 {
			writeError(w, r, fmt.Errorf("%w: invalid limit %q", ErrBadRequest, rawLimit))
			return
		}
		limit = parsed
	}

	records, err := s.repo.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, BattlesResponse{Battles: records})
}

func (s *Server) getBattle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid battle id", ErrBadRequest))
		return
	}

	record, err := s.repo.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func (s *Server) compare(w http.ResponseWriter, r *http.Request) {
	c1, c2, err := s.lookupPair(r.URL.Query().Get("a"), r.URL.Query().Get("b"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, compare.Compare(c1, c2, s.Now()))
}

func (s *Server) compareChart(w http.ResponseWriter, r *http.Request) {
	c1, c2, err := s.lookupPair(r.URL.Query().Get("a"), r.URL.Query().Get("b"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := compare.RenderRadar(w, c1, c2); err != nil {
		requestLogger(r).Err(err).Msg("couldn't render chart")
	}
}
