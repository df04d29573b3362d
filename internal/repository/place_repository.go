package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"explorer-be/internal/entities"
)

type placeRepository struct {
	db *sql.DB
}

// NewPlaceRepository creates a Postgres-backed place repository
func NewPlaceRepository(db *sql.DB) PlaceRepository {
	return &placeRepository{db: db}
}

const placeColumns = `id, name, category, visit_date, latitude, longitude, images, created_by`

func scanPlace(row scanner) (*entities.Place, error) {
	var place entities.Place
	var images pq.StringArray
	err := row.Scan(
		&place.ID,
		&place.Name,
		&place.Category,
		&place.VisitDate,
		&place.Latitude,
		&place.Longitude,
		&images,
		&place.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	place.VisitDate = place.VisitDate.UTC()
	place.Images = []string(images)
	if place.Images == nil {
		place.Images = []string{}
	}
	return &place, nil
}

func (r *placeRepository) queryPlaces(ctx context.Context, query string, args ...any) ([]*entities.Place, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query places: %w", err)
	}
	defer rows.Close()

	places := make([]*entities.Place, 0)
	for rows.Next() {
		place, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		places = append(places, place)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query places: %w", err)
	}
	return places, nil
}

// whereClause builds the WHERE part for filter, numbering args from 1.
func whereClause(filter PlaceFilter) (string, []any) {
	var conds []string
	var args []any
	if filter.Category != "" {
		args = append(args, string(filter.Category))
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.CreatedBy != "" {
		args = append(args, filter.CreatedBy)
		conds = append(conds, fmt.Sprintf("created_by = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Create inserts a new place into the database
func (r *placeRepository) Create(ctx context.Context, place *entities.Place) (*entities.Place, error) {
	query := `
		INSERT INTO places (name, category, visit_date, latitude, longitude, images, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + placeColumns

	images := place.Images
	if images == nil {
		images = []string{}
	}

	created, err := scanPlace(r.db.QueryRowContext(ctx, query,
		place.Name,
		string(place.Category),
		place.VisitDate.UTC(),
		place.Latitude,
		place.Longitude,
		pq.Array(images),
		place.CreatedBy,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create place: %w", err)
	}

	return created, nil
}

func (r *placeRepository) FindByID(ctx context.Context, id string) (*entities.Place, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrNotFound
	}

	place, err := scanPlace(r.db.QueryRowContext(ctx, `SELECT `+placeColumns+` FROM places WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find place: %w", err)
	}

	return place, nil
}

func (r *placeRepository) FindByIDs(ctx context.Context, ids []string) ([]*entities.Place, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if uuid.Validate(id) == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return []*entities.Place{}, nil
	}

	found, err := r.queryPlaces(ctx, `SELECT `+placeColumns+` FROM places WHERE id = ANY($1::uuid[])`, pq.Array(valid))
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*entities.Place, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	ordered := make([]*entities.Place, 0, len(found))
	for _, id := range valid {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

func (r *placeRepository) FindAll(ctx context.Context, filter PlaceFilter) ([]*entities.Place, error) {
	where, args := whereClause(filter)
	return r.queryPlaces(ctx, `SELECT `+placeColumns+` FROM places`+where+` ORDER BY created_at`, args...)
}

func (r *placeRepository) Delete(ctx context.Context, id string) (*entities.Place, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrNotFound
	}

	place, err := scanPlace(r.db.QueryRowContext(ctx, `DELETE FROM places WHERE id = $1 RETURNING `+placeColumns, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete place: %w", err)
	}

	return place, nil
}

func (r *placeRepository) DeleteAll(ctx context.Context, filter PlaceFilter) error {
	where, args := whereClause(filter)
	if _, err := r.db.ExecContext(ctx, `DELETE FROM places`+where, args...); err != nil {
		return fmt.Errorf("failed to delete places: %w", err)
	}
	return nil
}

func (r *placeRepository) updateImages(ctx context.Context, query string, args ...any) ([]string, error) {
	var images pq.StringArray
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&images)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update images: %w", err)
	}
	if images == nil {
		return []string{}, nil
	}
	return []string(images), nil
}

func (r *placeRepository) AppendImages(ctx context.Context, id string, urls []string) ([]string, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrNotFound
	}
	return r.updateImages(ctx,
		`UPDATE places SET images = images || $2::text[] WHERE id = $1 RETURNING images`,
		id, pq.Array(urls))
}

func (r *placeRepository) RemoveImages(ctx context.Context, id string, fragment string) ([]string, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrNotFound
	}
	return r.updateImages(ctx, `
		UPDATE places
		SET images = ARRAY(
			SELECT img FROM unnest(images) WITH ORDINALITY AS t(img, ord)
			WHERE strpos(img, $2) = 0
			ORDER BY ord
		)
		WHERE id = $1
		RETURNING images`,
		id, fragment)
}

func (r *placeRepository) CountByCategory(ctx context.Context) ([]entities.CategoryCount, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT category, COUNT(*) FROM places GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to count places: %w", err)
	}
	defer rows.Close()

	counts := make(map[entities.Category]int)
	for rows.Next() {
		var category entities.Category
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[category] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to count places: %w", err)
	}

	return orderedCounts(counts), nil
}
