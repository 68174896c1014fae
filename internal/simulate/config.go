package simulate

import (
	"errors"
	"fmt"

	"github.com/okian/sectorscore/internal/adapters/repository"
)

// Generation defaults.
const (
	DefaultCompetitors   = 60
	DefaultWorkers       = 8
	DefaultPendingRate   = 0.15
	DefaultDuplicateRate = 0.05
	DefaultLegacyRate    = 0.4
	DefaultMissingRate   = 0.1
)

// ErrInvalidConfig reports an unusable simulation config.
var ErrInvalidConfig = errors.New("invalid simulation config")

// Config controls tournament generation.
type Config struct {
	// Competitors is the registry size; they are spread round-robin over the sectors.
	Competitors int
	// Seed makes a run reproducible.
	Seed uint64
	// Workers bounds concurrent seed writes.
	Workers int

	// PendingRate is the share of entries left pending.
	PendingRate float64
	// DuplicateRate is the share of entries that get a second countable copy.
	DuplicateRate float64
	// LegacyRate is the share of big catches stored under the old field only.
	LegacyRate float64
	// MissingRate is the share of hours with no submission at all.
	MissingRate float64
	// QuietSector, when set, receives only pending entries so its coefficient
	// must be zero for every competitor.
	QuietSector string

	Collections repository.Collections
}

// DefaultConfig returns a medium-sized tournament with sector F kept quiet.
func DefaultConfig() Config {
	return Config{
		Competitors:   DefaultCompetitors,
		Seed:          1,
		Workers:       DefaultWorkers,
		PendingRate:   DefaultPendingRate,
		DuplicateRate: DefaultDuplicateRate,
		LegacyRate:    DefaultLegacyRate,
		MissingRate:   DefaultMissingRate,
		QuietSector:   "F",
		Collections:   repository.DefaultCollections(),
	}
}

func (c Config) validate() error {
	switch {
	case c.Competitors < 1:
		return fmt.Errorf("%w: competitors must be positive", ErrInvalidConfig)
	case !rate(c.PendingRate), !rate(c.DuplicateRate), !rate(c.LegacyRate), !rate(c.MissingRate):
		return fmt.Errorf("%w: rates must be within [0,1]", ErrInvalidConfig)
	}
	return nil
}

func rate(r float64) bool { return r >= 0 && r <= 1 }
