package channel

import (
	"encoding/json"

	"go.uber.org/zap"
)

// Store holds the most recent payload per channel and the set of channels
// observed since the connection opened. Bits are only ever set.
//
// A Store belongs to exactly one session and is not safe for concurrent use.
type Store struct {
	logger    *zap.Logger
	observed  Mask
	snapshots map[Label]json.RawMessage
}

// NewStore returns an empty Store. A nil logger is replaced with a no-op logger.
func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		logger:    logger,
		snapshots: make(map[Label]json.RawMessage),
	}
}

// Observe records payload as the latest value for label and sets the label's
// bit. It returns false for labels the store does not track.
func (s *Store) Observe(label Label, payload json.RawMessage) bool {
	bit, ok := label.Bit()
	if !ok && label != Connect {
		s.logger.Debug("Ignoring unknown channel", zap.String("channel", string(label)))
		return false
	}

	s.snapshots[label] = append(json.RawMessage(nil), payload...)
	if ok && s.observed&bit == 0 {
		s.observed |= bit
		s.logger.Debug("Channel observed", zap.String("channel", string(label)))
	}

	return true
}

// Snapshot returns the latest payload seen for label.
func (s *Store) Snapshot(label Label) (json.RawMessage, bool) {
	payload, ok := s.snapshots[label]
	return payload, ok
}

// HasAll reports whether every channel in required has been observed.
func (s *Store) HasAll(required Mask) bool {
	return s.observed.Contains(required)
}

// Observed returns the set of channels seen so far.
func (s *Store) Observed() Mask {
	return s.observed
}
