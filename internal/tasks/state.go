package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vocx/internal/services"
	"github.com/desertthunder/vocx/internal/words"
)

// wordColumn is the target column holding the word of each record.
const wordColumn = 1

// StateReader reads the set of words already present in a target store.
type StateReader struct {
	target services.TargetStore
	logger *log.Logger
}

// NewStateReader creates a StateReader for target.
func NewStateReader(target services.TargetStore, logger *log.Logger) *StateReader {
	return &StateReader{target: target, logger: logger}
}

// Existing returns the normalized words in the first column, header excluded.
//
// A read failure is logged and yields an empty set.
func (s *StateReader) Existing(ctx context.Context) map[string]struct{} {
	col, err := s.target.ReadColumn(ctx, wordColumn)
	if err != nil {
		s.logger.Warn("could not fetch existing words", "error", err)
		return map[string]struct{}{}
	}

	if len(col) > 0 {
		col = col[1:]
	}
	return words.Set(col)
}
