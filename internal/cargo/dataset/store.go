package dataset

import (
	"sync/atomic"

	"github.com/rs/zerolog"

	"tankfill-service/internal/cargo/model"
)

// Store owns the current dataset snapshot. Reads are lock-free: the snapshot
// is immutable and reloads swap the whole pointer, so a request never
// observes a half-updated table.
type Store struct {
	path      string
	headerRow int
	logger    zerolog.Logger
	snap      atomic.Pointer[model.Dataset]
}

func NewStore(path string, headerRow int, logger zerolog.Logger) *Store {
	s := &Store{path: path, headerRow: headerRow, logger: logger}
	s.snap.Store(&model.Dataset{Source: path})
	return s
}

// Reload loads a fresh snapshot and swaps it in. On failure the previous
// snapshot stays active and the error is returned normalized by the caller
// to a DatasetUnavailable outcome.
func (s *Store) Reload() error {
	ds, err := Load(s.path, s.headerRow)
	if err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("reference table load failed")
		return err
	}
	s.snap.Store(ds)
	s.logger.Info().Str("path", s.path).Int("records", len(ds.Records)).Msg("reference table loaded")
	return nil
}

// Snapshot returns the current dataset. Empty until the first successful
// Reload; lookups against an empty snapshot report DatasetUnavailable.
func (s *Store) Snapshot() *model.Dataset { return s.snap.Load() }
