package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/Yathushan/coldsweat/internal/application/dto"
	"github.com/Yathushan/coldsweat/internal/application/port"
	"github.com/Yathushan/coldsweat/internal/domain/repository"
	"github.com/Yathushan/coldsweat/pkg/logger"
)

// StatsCacheKey is where GetStatsUseCase caches the counters.
const StatsCacheKey = "coldsweat:stats"

// GetStatsUseCase returns instance counters, through the cache when one is
// configured
type GetStatsUseCase struct {
	system repository.SystemRepository
	cache  port.Cache
	logger *logger.Logger
}

func NewGetStatsUseCase(system repository.SystemRepository, cache port.Cache, logger *logger.Logger) *GetStatsUseCase {
	return &GetStatsUseCase{
		system: system,
		cache:  cache,
		logger: logger,
	}
}

func (uc *GetStatsUseCase) Execute(ctx context.Context) (*dto.StatsDTO, error) {
	if uc.cache == nil {
		return uc.load(ctx)
	}

	var cached dto.StatsDTO
	err := uc.cache.Get(ctx, StatsCacheKey, &cached)
	if err == nil {
		uc.logger.Debug("Cache hit for stats")
		return &cached, nil
	}
	if !errors.Is(err, port.ErrCacheMiss) {
		uc.logger.Warn("Stats cache unavailable", "error", err.Error())
	}

	stats, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}

	// Synchronous: a CGI process exits right after the response.
	if err := uc.cache.Set(ctx, StatsCacheKey, stats); err != nil {
		uc.logger.Warn("Failed to cache stats", "error", err.Error())
	}

	return stats, nil
}

func (uc *GetStatsUseCase) load(ctx context.Context) (*dto.StatsDTO, error) {
	stats, err := uc.system.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	return dto.StatsFromEntity(stats), nil
}

// invalidateStats drops the cached stats after a change to the counted data.
func invalidateStats(ctx context.Context, cache port.Cache, log *logger.Logger) {
	if cache == nil {
		return
	}
	if err := cache.Delete(ctx, StatsCacheKey); err != nil {
		log.Warn("Failed to invalidate stats cache", "error", err.Error())
	}
}
