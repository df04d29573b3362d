package service

import (
	"context"
	"fmt"

	"explorer-be/internal/entities"
	"explorer-be/internal/repository"
)

// UserService covers account lookup and favourites
type UserService interface {
	Get(ctx context.Context, id string) (*entities.User, error)
	List(ctx context.Context) ([]*entities.User, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	// ToggleFavourite flips placeID in the user's favourites. The place is
	// not required to exist.
	ToggleFavourite(ctx context.Context, userID, placeID string) ([]string, error)
	// Favourites returns the user's favourite places, skipping deleted ones.
	Favourites(ctx context.Context, userID string) ([]*entities.Place, error)
}

type userService struct {
	users  repository.UserRepository
	places repository.PlaceRepository
}

func NewUserService(users repository.UserRepository, places repository.PlaceRepository) UserService {
	return &userService{users: users, places: places}
}

func (s *userService) Get(ctx context.Context, id string) (*entities.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *userService) List(ctx context.Context) ([]*entities.User, error) {
	return s.users.FindAll(ctx)
}

func (s *userService) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}

func (s *userService) DeleteAll(ctx context.Context) error {
	return s.users.DeleteAll(ctx)
}

func (s *userService) ToggleFavourite(ctx context.Context, userID, placeID string) ([]string, error) {
	return s.users.ToggleFavourite(ctx, userID, placeID)
}

func (s *userService) Favourites(ctx context.Context, userID string) ([]*entities.Place, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	places, err := s.places.FindByIDs(ctx, user.Favourites)
	if err != nil {
		return nil, fmt.Errorf("failed to load favourites: %w", err)
	}
	return places, nil
}
