package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nathanieltooley/pokeduel/duel"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BattleRecord is a finished battle. Rounds holds the full round log as json.
type BattleRecord struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Combatant1ID   int            `json:"combatant1Id" gorm:"column:combatant1_id;index;not null"`
	Combatant1Name string         `json:"combatant1Name" gorm:"column:combatant1_name;not null"`
	Combatant2ID   int            `json:"combatant2Id" gorm:"column:combatant2_id;index;not null"`
	Combatant2Name string         `json:"combatant2Name" gorm:"column:combatant2_name;not null"`
	WinnerID       int            `json:"winnerId" gorm:"index;not null"`
	WinnerName     string         `json:"winnerName" gorm:"not null"`
	LoserID        int            `json:"loserId" gorm:"not null"`
	TotalDamage    int            `json:"totalDamage"`
	RoundCount     int            `json:"roundCount"`
	Seed           int64          `json:"seed"`
	Rounds         datatypes.JSON `json:"rounds"`
	CreatedAt      time.Time      `json:"createdAt" gorm:"index"`
}

func (r *BattleRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}

	return nil
}

// NewBattleRecord turns a battle result into something that can be saved
func NewBattleRecord(c1 duel.Combatant, c2 duel.Combatant, result duel.BattleResult, seed int64) (*BattleRecord, error) {
	rounds, err := json.Marshal(result.Rounds)
	if err != nil {
		return nil, fmt.Errorf("encoding rounds: %w", err)
	}

	return &BattleRecord{
		Combatant1ID:   c1.ID,
		Combatant1Name: c1.Name,
		Combatant2ID:   c2.ID,
		Combatant2Name: c2.Name,
		WinnerID:       result.WinnerID,
		WinnerName:     result.WinnerName,
		LoserID:        result.LoserID,
		TotalDamage:    result.TotalDamage,
		RoundCount:     len(result.Rounds),
		Seed:           seed,
		Rounds:         datatypes.JSON(rounds),
	}, nil
}

func (r *BattleRecord) DecodeRounds() ([]duel.RoundOutcome, error) {
	rounds := make([]duel.RoundOutcome, 0, r.RoundCount)
	if len(r.Rounds) == 0 {
		return rounds, nil
	}

	if err := json.Unmarshal(r.Rounds, &rounds); err != nil {
		return nil, fmt.Errorf("decoding rounds of battle %s: %w", r.ID, err)
	}

	return rounds, nil
}
