package service

import (
	"context"
	"fmt"

	"github.com/okian/sectorscore/internal/domain/model"
	"github.com/okian/sectorscore/internal/domain/scoring"
	"github.com/okian/sectorscore/internal/domain/types"
	"github.com/okian/sectorscore/pkg/logger"
)

// Standings computes live rankings from a fresh snapshot without writing
// anything. An empty sector returns the general ranking and every sector; a
// known sector returns only that sector's ranking.
func (s *Service) Standings(ctx context.Context, sector string) (types.Standings, error) {
	if sector != "" {
		sector = model.NormalizeSector(sector)
		if !model.IsKnownSector(sector) {
			return types.Standings{}, fmt.Errorf("%q: %w", sector, scoring.ErrUnknownSector)
		}
	}

	snap, err := s.readSnapshot(ctx)
	if err != nil {
		return types.Standings{}, err
	}

	log := s.logger.Named("standings")
	for _, c := range snap.Competitors {
		if !model.IsKnownSector(c.Sector) {
			log.Warn(ctx, "competitor outside known sectors, omitted from sector rankings",
				logger.String("competitor_id", c.ID),
				logger.String("sector", c.Sector))
		}
	}

	st := scoring.Rank(snap.Competitors, scoring.Compute(snap))
	st.ComputedAt = s.now().UTC()
	if sector != "" {
		st = types.Standings{
			ComputedAt: st.ComputedAt,
			Sectors:    map[string][]types.Entry{sector: st.Sectors[sector]},
		}
	}
	return st, nil
}
