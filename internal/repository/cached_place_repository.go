package repository

import (
	"context"
	"errors"
	"time"

	"explorer-be/internal/cache"
	"explorer-be/internal/entities"
	"explorer-be/internal/logging"
)

const (
	placeCachePrefix = "place:"
	placeCacheTTL    = 10 * time.Minute
)

// cachedPlaceRepository keeps place-by-id lookups in the cache and drops the
// entry on every write to that place. Cache failures are logged and ignored.
type cachedPlaceRepository struct {
	PlaceRepository
	cache cache.Cache
}

// NewCachedPlaceRepository wraps repo with a read-through cache. A nil cache
// returns repo unchanged.
func NewCachedPlaceRepository(repo PlaceRepository, c cache.Cache) PlaceRepository {
	if c == nil {
		return repo
	}
	return &cachedPlaceRepository{PlaceRepository: repo, cache: c}
}

func placeKey(id string) string { return placeCachePrefix + id }

func (r *cachedPlaceRepository) invalidate(ctx context.Context, id string) {
	if err := r.cache.Delete(ctx, placeKey(id)); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("place_id", id).Msg("failed to invalidate cached place")
	}
}

func (r *cachedPlaceRepository) FindByID(ctx context.Context, id string) (*entities.Place, error) {
	var cached entities.Place
	err := r.cache.GetJSON(ctx, placeKey(id), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		logging.Ctx(ctx).Warn().Err(err).Str("place_id", id).Msg("place cache read failed")
	}

	place, err := r.PlaceRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.cache.SetJSON(ctx, placeKey(id), place, placeCacheTTL); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("place_id", id).Msg("place cache write failed")
	}
	return place, nil
}

func (r *cachedPlaceRepository) Delete(ctx context.Context, id string) (*entities.Place, error) {
	defer r.invalidate(ctx, id)
	return r.PlaceRepository.Delete(ctx, id)
}

func (r *cachedPlaceRepository) DeleteAll(ctx context.Context, filter PlaceFilter) error {
	err := r.PlaceRepository.DeleteAll(ctx, filter)
	if cacheErr := r.cache.DeleteByPrefix(ctx, placeCachePrefix); cacheErr != nil {
		logging.Ctx(ctx).Warn().Err(cacheErr).Msg("failed to invalidate cached places")
	}
	return err
}

func (r *cachedPlaceRepository) AppendImages(ctx context.Context, id string, urls []string) ([]string, error) {
	defer r.invalidate(ctx, id)
	return r.PlaceRepository.AppendImages(ctx, id, urls)
}

func (r *cachedPlaceRepository) RemoveImages(ctx context.Context, id string, fragment string) ([]string, error) {
	defer r.invalidate(ctx, id)
	return r.PlaceRepository.RemoveImages(ctx, id, fragment)
}
