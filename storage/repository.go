// Package storage keeps a history of finished battles
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("battle not found")

const DEFAULT_LIST_LIMIT = 20

// CombatantRecord is how a single combatant has done across every saved battle
type CombatantRecord struct {
	CombatantID int `json:"combatantId"`
	Battles     int `json:"battles"`
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Save(ctx context.Context, record *BattleRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("saving battle: %w", err)
	}

	return nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*BattleRecord, error) {
	var record BattleRecord
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}

	return &record, nil
}

// ListRecent returns the newest battles first. A limit of 0 or less uses DEFAULT_LIST_LIMIT.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]*BattleRecord, error) {
	if limit <= 0 {
		limit = DEFAULT_LIST_LIMIT
	}

	var records []*BattleRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *Repository) Record(ctx context.Context, combatantID int) (CombatantRecord, error) {
	var battles, wins int64

	err := r.db.WithContext(ctx).Model(&BattleRecord{}).
		Where("combatant1_id = ? OR combatant2_id = ?", combatantID, combatantID).
		Count(&battles).Error
	if err != nil {
		return CombatantRecord{}, err
	}

	err = r.db.WithContext(ctx).Model(&BattleRecord{}).
		Where("winner_id = ?", combatantID).
		Count(&wins).Error
	if err != nil {
		return CombatantRecord{}, err
	}

	return CombatantRecord{
		CombatantID: combatantID,
		Battles:     int(battles),
		Wins:        int(wins),
		Losses:      int(battles - wins),
	}, nil
}
