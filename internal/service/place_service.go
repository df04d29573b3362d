package service

import (
	"context"
	"errors"
	"fmt"

	"explorer-be/internal/entities"
	"explorer-be/internal/logging"
	"explorer-be/internal/models"
	"explorer-be/internal/repository"
)

// PlaceService defines the interface for place business logic. Mutations are
// not restricted to the place's owner.
type PlaceService interface {
	Create(ctx context.Context, ownerID string, req *models.CreatePlaceRequest) (*entities.Place, error)
	Get(ctx context.Context, id string) (*entities.Place, error)
	List(ctx context.Context, filter repository.PlaceFilter) ([]*entities.Place, error)
	Delete(ctx context.Context, id string) (*entities.Place, error)
	DeleteAll(ctx context.Context, filter repository.PlaceFilter) error
	Stats(ctx context.Context) ([]entities.CategoryCount, error)
}

type placeService struct {
	places repository.PlaceRepository
	users  repository.UserRepository
}

func NewPlaceService(places repository.PlaceRepository, users repository.UserRepository) PlaceService {
	return &placeService{places: places, users: users}
}

// Create persists a validated request on behalf of ownerID
func (s *placeService) Create(ctx context.Context, ownerID string, req *models.CreatePlaceRequest) (*entities.Place, error) {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, fmt.Errorf("failed to find owner: %w", err)
	}

	place, err := req.ToPlace(ownerID)
	if err != nil {
		return nil, err
	}

	created, err := s.places.Create(ctx, place)
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("place_id", created.ID).
		Str("category", string(created.Category)).
		Str("created_by", ownerID).
		Msg("place created")
	return created, nil
}

func (s *placeService) Get(ctx context.Context, id string) (*entities.Place, error) {
	return s.places.FindByID(ctx, id)
}

func (s *placeService) List(ctx context.Context, filter repository.PlaceFilter) ([]*entities.Place, error) {
	return s.places.FindAll(ctx, filter)
}

func (s *placeService) Delete(ctx context.Context, id string) (*entities.Place, error) {
	return s.places.Delete(ctx, id)
}

func (s *placeService) DeleteAll(ctx context.Context, filter repository.PlaceFilter) error {
	return s.places.DeleteAll(ctx, filter)
}

func (s *placeService) Stats(ctx context.Context) ([]entities.CategoryCount, error) {
	return s.places.CountByCategory(ctx)
}
