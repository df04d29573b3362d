package repository

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"explorer-be/internal/entities"
)

// MemoryStore keeps users and places in process memory. It backs the
// controller and service tests and guards every mutation with one mutex, so
// the toggle and image updates are as atomic as the database variants.
type MemoryStore struct {
	mu     sync.RWMutex
	users  []*entities.User
	places []*entities.Place
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Users returns the store as a UserRepository.
func (s *MemoryStore) Users() UserRepository { return (*memoryUsers)(s) }

// Places returns the store as a PlaceRepository.
func (s *MemoryStore) Places() PlaceRepository { return (*memoryPlaces)(s) }

type memoryUsers MemoryStore

func cloneUser(u *entities.User) *entities.User {
	c := *u
	c.Favourites = slices.Clone(u.Favourites)
	if c.Favourites == nil {
		c.Favourites = []string{}
	}
	return &c
}

func (r *memoryUsers) Create(_ context.Context, user *entities.User) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, ErrDuplicateEmail
		}
	}
	stored := cloneUser(user)
	stored.ID = uuid.NewString()
	r.users = append(r.users, stored)
	return cloneUser(stored), nil
}

func (r *memoryUsers) find(match func(*entities.User) bool) (*entities.User, int) {
	for i, u := range r.users {
		if match(u) {
			return u, i
		}
	}
	return nil, -1
}

func (r *memoryUsers) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, _ := r.find(func(u *entities.User) bool { return strings.EqualFold(u.Email, email) })
	if u == nil {
		return nil, ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *memoryUsers) FindByID(_ context.Context, id string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, _ := r.find(func(u *entities.User) bool { return u.ID == id })
	if u == nil {
		return nil, ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *memoryUsers) FindAll(_ context.Context) ([]*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *memoryUsers) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, i := r.find(func(u *entities.User) bool { return u.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	r.users = slices.Delete(r.users, i, i+1)
	return nil
}

func (r *memoryUsers) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = nil
	return nil
}

func (r *memoryUsers) ToggleFavourite(_ context.Context, userID, placeID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, _ := r.find(func(u *entities.User) bool { return u.ID == userID })
	if u == nil {
		return nil, ErrNotFound
	}
	u.Favourites = entities.ToggleFavourite(u.Favourites, placeID)
	return slices.Clone(u.Favourites), nil
}

type memoryPlaces MemoryStore

func clonePlace(p *entities.Place) *entities.Place {
	c := *p
	c.Images = slices.Clone(p.Images)
	if c.Images == nil {
		c.Images = []string{}
	}
	return &c
}

func matches(p *entities.Place, filter PlaceFilter) bool {
	if filter.Category != "" && p.Category != filter.Category {
		return false
	}
	if filter.CreatedBy != "" && p.CreatedBy != filter.CreatedBy {
		return false
	}
	return true
}

func (r *memoryPlaces) index(id string) int {
	return slices.IndexFunc(r.places, func(p *entities.Place) bool { return p.ID == id })
}

func (r *memoryPlaces) Create(_ context.Context, place *entities.Place) (*entities.Place, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := clonePlace(place)
	stored.ID = uuid.NewString()
	r.places = append(r.places, stored)
	return clonePlace(stored), nil
}

func (r *memoryPlaces) FindByID(_ context.Context, id string) (*entities.Place, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.index(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	return clonePlace(r.places[i]), nil
}

func (r *memoryPlaces) FindByIDs(_ context.Context, ids []string) ([]*entities.Place, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Place, 0, len(ids))
	for _, id := range ids {
		if i := r.index(id); i >= 0 {
			out = append(out, clonePlace(r.places[i]))
		}
	}
	return out, nil
}

func (r *memoryPlaces) FindAll(_ context.Context, filter PlaceFilter) ([]*entities.Place, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Place, 0, len(r.places))
	for _, p := range r.places {
		if matches(p, filter) {
			out = append(out, clonePlace(p))
		}
	}
	return out, nil
}

func (r *memoryPlaces) Delete(_ context.Context, id string) (*entities.Place, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	removed := r.places[i]
	r.places = slices.Delete(r.places, i, i+1)
	return removed, nil
}

func (r *memoryPlaces) DeleteAll(_ context.Context, filter PlaceFilter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.places = slices.DeleteFunc(r.places, func(p *entities.Place) bool { return matches(p, filter) })
	return nil
}

func (r *memoryPlaces) AppendImages(_ context.Context, id string, urls []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	r.places[i].Images = append(r.places[i].Images, urls...)
	return slices.Clone(r.places[i].Images), nil
}

func (r *memoryPlaces) RemoveImages(_ context.Context, id string, fragment string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	r.places[i].Images = entities.WithoutImagesMatching(r.places[i].Images, fragment)
	return slices.Clone(r.places[i].Images), nil
}

func (r *memoryPlaces) CountByCategory(_ context.Context) ([]entities.CategoryCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[entities.Category]int)
	for _, p := range r.places {
		counts[p.Category]++
	}
	return orderedCounts(counts), nil
}

// orderedCounts lists non-empty categories in entities.Categories order.
func orderedCounts(counts map[entities.Category]int) []entities.CategoryCount {
	out := make([]entities.CategoryCount, 0, len(counts))
	for _, c := range entities.Categories {
		if n := counts[c]; n > 0 {
			out = append(out, entities.CategoryCount{Category: c, Count: n})
		}
	}
	return out
}
