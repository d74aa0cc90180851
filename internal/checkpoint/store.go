// Package checkpoint persists the index of the next URL to process so a run
// can resume after a restart.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Position is the persisted progress of a run. Records counts the contacts in
// the output file when Index was saved; 0 means none were carried over.
type Position struct {
	Index   int `json:"index"`
	Records int `json:"records,omitempty"`
}

// Store reads and writes a single {"index": n, "records": m} JSON file.
type Store struct {
	path   string
	logger *zap.Logger
}

// New returns a Store backed by path.
func New(path string, logger *zap.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("checkpoint path is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}, nil
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns the saved index, or 0 when the file is missing, unreadable,
// or does not hold a valid non-negative index.
func (s *Store) Load() int {
	return s.LoadPosition().Index
}

// LoadPosition returns the saved position. A missing or unreadable file, or a
// negative index, yields the zero Position.
func (s *Store) LoadPosition() Position {
	// #nosec G304 -- checkpoint path comes from operator configuration.
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Info("no checkpoint found; starting from 0", zap.String("path", s.path))
		return Position{}
	}
	var pos Position
	if err := json.Unmarshal(data, &pos); err != nil {
		s.logger.Warn("checkpoint unreadable; starting from 0", zap.String("path", s.path), zap.Error(err))
		return Position{}
	}
	if pos.Index < 0 {
		s.logger.Warn("negative checkpoint ignored", zap.Int("index", pos.Index))
		return Position{}
	}
	if pos.Records < 0 {
		pos.Records = 0
	}
	s.logger.Info("loaded checkpoint", zap.Int("index", pos.Index), zap.Int("records", pos.Records))
	return pos
}

// Save overwrites the checkpoint file with index and no record count.
func (s *Store) Save(index int) error {
	return s.SavePosition(Position{Index: index})
}

// SavePosition overwrites the checkpoint file with pos. The write is not atomic.
func (s *Store) SavePosition(pos Position) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create checkpoint dir: %w", err)
	}
	payload, err := json.Marshal(pos)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o600); err != nil {
		return fmt.Errorf("write checkpoint %s: %w", s.path, err)
	}
	s.logger.Info("last processed index saved", zap.Int("index", pos.Index), zap.Int("records", pos.Records))
	return nil
}
