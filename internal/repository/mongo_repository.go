package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"explorer-be/internal/entities"
)

const (
	usersCollection  = "users"
	placesCollection = "pois"
)

type userDocument struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty"`
	FirstName  string               `bson:"firstName"`
	LastName   string               `bson:"lastName"`
	Email      string               `bson:"email"`
	Password   string               `bson:"password"`
	Favourites []primitive.ObjectID `bson:"favourites"`
}

func (d *userDocument) entity() *entities.User {
	favourites := make([]string, len(d.Favourites))
	for i, id := range d.Favourites {
		favourites[i] = id.Hex()
	}
	return &entities.User{
		ID:           d.ID.Hex(),
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		PasswordHash: d.Password,
		Favourites:   favourites,
	}
}

type placeDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Category  string             `bson:"category"`
	VisitDate time.Time          `bson:"visitDate"`
	Latitude  float64            `bson:"latitude"`
	Longitude float64            `bson:"longitude"`
	Images    []string           `bson:"images"`
	CreatedBy primitive.ObjectID `bson:"createdBy"`
}

func (d *placeDocument) entity() *entities.Place {
	images := d.Images
	if images == nil {
		images = []string{}
	}
	return &entities.Place{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Category:  entities.Category(d.Category),
		VisitDate: d.VisitDate.UTC(),
		Latitude:  d.Latitude,
		Longitude: d.Longitude,
		Images:    images,
		CreatedBy: d.CreatedBy.Hex(),
	}
}

// EnsureMongoIndexes creates the unique email index the user store relies on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %w", err)
	}
	_, err = db.Collection(placesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "category", Value: 1}, {Key: "createdBy", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create place index: %w", err)
	}
	return nil
}

type mongoUserRepository struct {
	users *mongo.Collection
}

// NewMongoUserRepository creates a MongoDB-backed user repository
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{users: db.Collection(usersCollection)}
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*entities.User, error) {
	var doc userDocument
	err := r.users.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return doc.entity(), nil
}

func (r *mongoUserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	doc := userDocument{
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Email:      user.Email,
		Password:   user.PasswordHash,
		Favourites: []primitive.ObjectID{},
	}

	result, err := r.users.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	doc.ID = result.InsertedID.(primitive.ObjectID)
	return doc.entity(), nil
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *mongoUserRepository) FindAll(ctx context.Context) ([]*entities.User, error) {
	cursor, err := r.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	users := make([]*entities.User, len(docs))
	for i := range docs {
		users[i] = docs[i].entity()
	}
	return users, nil
}

func (r *mongoUserRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	result, err := r.users.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoUserRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.users.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to delete users: %w", err)
	}
	return nil
}

// ToggleFavourite runs as a single pipeline update so the membership test
// and the write happen on the server in one step.
func (r *mongoUserRepository) ToggleFavourite(ctx context.Context, userID, placeID string) ([]string, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	pid, err := primitive.ObjectIDFromHex(placeID)
	if err != nil {
		return nil, ErrNotFound
	}

	current := bson.M{"$ifNull": bson.A{"$favourites", bson.A{}}}
	update := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.M{
			"favourites": bson.M{"$cond": bson.M{
				"if": bson.M{"$in": bson.A{pid, current}},
				"then": bson.M{"$filter": bson.M{
					"input": current,
					"cond":  bson.M{"$ne": bson.A{"$$this", pid}},
				}},
				"else": bson.M{"$concatArrays": bson.A{current, bson.A{pid}}},
			}},
		}}},
	}

	var doc userDocument
	err = r.users.FindOneAndUpdate(ctx, bson.M{"_id": uid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to toggle favourite: %w", err)
	}

	return doc.entity().Favourites, nil
}

type mongoPlaceRepository struct {
	places *mongo.Collection
}

// NewMongoPlaceRepository creates a MongoDB-backed place repository
func NewMongoPlaceRepository(db *mongo.Database) PlaceRepository {
	return &mongoPlaceRepository{places: db.Collection(placesCollection)}
}

func placeFilter(filter PlaceFilter) (bson.M, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = string(filter.Category)
	}
	if filter.CreatedBy != "" {
		owner, err := primitive.ObjectIDFromHex(filter.CreatedBy)
		if err != nil {
			return nil, ErrNotFound
		}
		query["createdBy"] = owner
	}
	return query, nil
}

func (r *mongoPlaceRepository) find(ctx context.Context, query bson.M) ([]*entities.Place, error) {
	cursor, err := r.places.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query places: %w", err)
	}
	var docs []placeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode places: %w", err)
	}

	places := make([]*entities.Place, len(docs))
	for i := range docs {
		places[i] = docs[i].entity()
	}
	return places, nil
}

func (r *mongoPlaceRepository) Create(ctx context.Context, place *entities.Place) (*entities.Place, error) {
	owner, err := primitive.ObjectIDFromHex(place.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("invalid owner id %q: %w", place.CreatedBy, ErrNotFound)
	}
	images := place.Images
	if images == nil {
		images = []string{}
	}

	doc := placeDocument{
		Name:      place.Name,
		Category:  string(place.Category),
		VisitDate: place.VisitDate.UTC(),
		Latitude:  place.Latitude,
		Longitude: place.Longitude,
		Images:    images,
		CreatedBy: owner,
	}

	result, err := r.places.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to create place: %w", err)
	}

	doc.ID = result.InsertedID.(primitive.ObjectID)
	return doc.entity(), nil
}

func (r *mongoPlaceRepository) FindByID(ctx context.Context, id string) (*entities.Place, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc placeDocument
	err = r.places.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find place: %w", err)
	}
	return doc.entity(), nil
}

func (r *mongoPlaceRepository) FindByIDs(ctx context.Context, ids []string) ([]*entities.Place, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []*entities.Place{}, nil
	}

	found, err := r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*entities.Place, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	ordered := make([]*entities.Place, 0, len(found))
	for _, oid := range oids {
		if p, ok := byID[oid.Hex()]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

func (r *mongoPlaceRepository) FindAll(ctx context.Context, filter PlaceFilter) ([]*entities.Place, error) {
	query, err := placeFilter(filter)
	if errors.Is(err, ErrNotFound) {
		return []*entities.Place{}, nil
	}
	return r.find(ctx, query)
}

func (r *mongoPlaceRepository) Delete(ctx context.Context, id string) (*entities.Place, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc placeDocument
	err = r.places.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete place: %w", err)
	}
	return doc.entity(), nil
}

func (r *mongoPlaceRepository) DeleteAll(ctx context.Context, filter PlaceFilter) error {
	query, err := placeFilter(filter)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if _, err := r.places.DeleteMany(ctx, query); err != nil {
		return fmt.Errorf("failed to delete places: %w", err)
	}
	return nil
}

func (r *mongoPlaceRepository) updateImages(ctx context.Context, id string, update bson.M) ([]string, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc placeDocument
	err = r.places.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update images: %w", err)
	}
	return doc.entity().Images, nil
}

func (r *mongoPlaceRepository) AppendImages(ctx context.Context, id string, urls []string) ([]string, error) {
	return r.updateImages(ctx, id, bson.M{"$push": bson.M{"images": bson.M{"$each": urls}}})
}

func (r *mongoPlaceRepository) RemoveImages(ctx context.Context, id string, fragment string) ([]string, error) {
	pattern := regexp.QuoteMeta(fragment)
	return r.updateImages(ctx, id, bson.M{"$pull": bson.M{"images": bson.M{"$regex": pattern}}})
}

func (r *mongoPlaceRepository) CountByCategory(ctx context.Context) ([]entities.CategoryCount, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.places.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to count places: %w", err)
	}

	var rows []struct {
		Category string `bson:"_id"`
		Count    int    `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode counts: %w", err)
	}

	counts := make(map[entities.Category]int, len(rows))
	for _, row := range rows {
		counts[entities.Category(row.Category)] = row.Count
	}
	return orderedCounts(counts), nil
}
