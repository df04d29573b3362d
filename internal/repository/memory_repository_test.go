package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"explorer-be/internal/entities"
)

func newPlace(name string, category entities.Category, owner string) *entities.Place {
	return &entities.Place{
		Name:      name,
		Category:  category,
		VisitDate: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		Latitude:  48.8584,
		Longitude: 2.2945,
		CreatedBy: owner,
	}
}

func TestMemoryUsers_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryStore().Users()

	created, err := users.Create(ctx, &entities.User{FirstName: "Ludmila", LastName: "Bulat", Email: "a@example.com", PasswordHash: "h"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, []string{}, created.Favourites)

	_, err = users.Create(ctx, &entities.User{Email: "a@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	byEmail, err := users.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = users.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := users.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, users.Delete(ctx, created.ID))
	assert.ErrorIs(t, users.Delete(ctx, created.ID), ErrNotFound)
}

func TestMemoryUsers_ToggleFavourite(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryStore().Users()
	u, err := users.Create(ctx, &entities.User{Email: "a@example.com"})
	require.NoError(t, err)

	favs, err := users.ToggleFavourite(ctx, u.ID, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, favs)

	favs, err = users.ToggleFavourite(ctx, u.ID, "p1")
	require.NoError(t, err)
	assert.Empty(t, favs)

	_, err = users.ToggleFavourite(ctx, "nobody", "p1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUsers_ConcurrentTogglesDoNotLoseUpdates(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryStore().Users()
	u, err := users.Create(ctx, &entities.User{Email: "a@example.com"})
	require.NoError(t, err)

	ids := []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8"}
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := users.ToggleFavourite(ctx, u.ID, id)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	got, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, ids, got.Favourites)
}

func TestMemoryPlaces_CRUD(t *testing.T) {
	ctx := context.Background()
	places := NewMemoryStore().Places()

	created, err := places.Create(ctx, newPlace("Eiffel Tower", entities.CategoryCities, "u1"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, []string{}, created.Images)

	got, err := places.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = places.Create(ctx, newPlace("Glendalough", entities.CategoryParks, "u2"))
	require.NoError(t, err)

	cities, err := places.FindAll(ctx, PlaceFilter{Category: entities.CategoryCities})
	require.NoError(t, err)
	assert.Len(t, cities, 1)

	mine, err := places.FindAll(ctx, PlaceFilter{CreatedBy: "u2"})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Glendalough", mine[0].Name)

	removed, err := places.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.CategoryCities, removed.Category)

	_, err = places.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, places.DeleteAll(ctx, PlaceFilter{}))
	all, err := places.FindAll(ctx, PlaceFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMemoryPlaces_FindByIDsSkipsDangling(t *testing.T) {
	ctx := context.Background()
	places := NewMemoryStore().Places()
	a, _ := places.Create(ctx, newPlace("A", entities.CategoryCaves, "u1"))
	b, _ := places.Create(ctx, newPlace("B", entities.CategoryCaves, "u1"))

	got, err := places.FindByIDs(ctx, []string{b.ID, "gone", a.ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Name)
	assert.Equal(t, "A", got[1].Name)
}

func TestMemoryPlaces_Images(t *testing.T) {
	ctx := context.Background()
	places := NewMemoryStore().Places()
	p, _ := places.Create(ctx, newPlace("A", entities.CategoryBeaches, "u1"))

	images, err := places.AppendImages(ctx, p.ID, []string{"https://cdn/x/1-sand.jpg", "https://cdn/x/2-sea.jpg"})
	require.NoError(t, err)
	assert.Len(t, images, 2)

	images, err = places.RemoveImages(ctx, p.ID, "1-sand")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn/x/2-sea.jpg"}, images)

	_, err = places.AppendImages(ctx, "missing", []string{"u"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryPlaces_CountByCategory(t *testing.T) {
	ctx := context.Background()
	places := NewMemoryStore().Places()
	_, _ = places.Create(ctx, newPlace("A", entities.CategoryCities, "u1"))
	_, _ = places.Create(ctx, newPlace("B", entities.CategoryCaves, "u1"))
	_, _ = places.Create(ctx, newPlace("C", entities.CategoryCities, "u1"))

	counts, err := places.CountByCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entities.CategoryCount{
		{Category: entities.CategoryCaves, Count: 1},
		{Category: entities.CategoryCities, Count: 2},
	}, counts)
}
