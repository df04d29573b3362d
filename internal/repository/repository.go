package repository

import (
	"context"
	"errors"

	"explorer-be/internal/entities"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	// Malformed ids are reported the same way.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("user with this email already exists")
)

// UserRepository defines the interface for user storage operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	FindByID(ctx context.Context, id string) (*entities.User, error)
	FindAll(ctx context.Context) ([]*entities.User, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	// ToggleFavourite atomically removes placeID from the user's favourites
	// when present and appends it otherwise, returning the resulting list.
	ToggleFavourite(ctx context.Context, userID, placeID string) ([]string, error)
}

// PlaceFilter narrows place listings. Empty fields match everything.
type PlaceFilter struct {
	Category  entities.Category
	CreatedBy string
}

// PlaceRepository defines the interface for place storage operations
type PlaceRepository interface {
	Create(ctx context.Context, place *entities.Place) (*entities.Place, error)
	FindByID(ctx context.Context, id string) (*entities.Place, error)
	// FindByIDs returns the places in ids order, skipping ids that resolve to nothing.
	FindByIDs(ctx context.Context, ids []string) ([]*entities.Place, error)
	FindAll(ctx context.Context, filter PlaceFilter) ([]*entities.Place, error)
	// Delete removes the place and returns the removed record.
	Delete(ctx context.Context, id string) (*entities.Place, error)
	DeleteAll(ctx context.Context, filter PlaceFilter) error
	// AppendImages atomically appends urls and returns the resulting list.
	AppendImages(ctx context.Context, id string, urls []string) ([]string, error)
	// RemoveImages atomically drops every url containing fragment.
	RemoveImages(ctx context.Context, id string, fragment string) ([]string, error)
	CountByCategory(ctx context.Context) ([]entities.CategoryCount, error)
}
