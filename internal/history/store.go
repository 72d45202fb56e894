// Package history keeps a log of asked questions and the answers shown.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const maxRecent = 200

var ErrNotFound = errors.New("history: interaction not found")

// Store persists interactions. A nil *Store discards writes and reads back
// nothing, so callers never need to check whether history is enabled.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	if db == nil {
		return nil
	}
	return &Store{db: db}
}

// Candidates encodes an n-best list for Interaction.Candidates.
func Candidates(answers []string) datatypes.JSON {
	if answers == nil {
		answers = []string{}
	}
	b, _ := json.Marshal(answers)
	return datatypes.JSON(b)
}

// Record stores it, assigning a RequestID when missing.
func (s *Store) Record(ctx context.Context, it *Interaction) error {
	if s == nil {
		return nil
	}
	if it.RequestID == "" {
		it.RequestID = uuid.New().String()
	}
	if it.Candidates == nil {
		it.Candidates = Candidates(nil)
	}
	if err := s.db.WithContext(ctx).Create(it).Error; err != nil {
		return fmt.Errorf("history: record: %w", err)
	}
	return nil
}

// Recent returns the newest interactions first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Interaction, error) {
	if s == nil {
		return []Interaction{}, nil
	}
	if limit <= 0 || limit > maxRecent {
		limit = maxRecent
	}
	var out []Interaction
	if err := s.db.WithContext(ctx).Order("created_at desc, id desc").Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("history: recent: %w", err)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, requestID string) (*Interaction, error) {
	if s == nil {
		return nil, ErrNotFound
	}
	var it Interaction
	err := s.db.WithContext(ctx).Where("request_id = ?", requestID).First(&it).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("history: get: %w", err)
	}
	return &it, nil
}
