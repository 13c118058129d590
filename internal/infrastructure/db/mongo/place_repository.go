package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/placesdir/places-api/internal/core/domain"
)

const placesCollection = "places"

type PlaceRepository struct {
	coll *mongo.Collection
}

func NewPlaceRepository(db *mongo.Database) *PlaceRepository {
	return &PlaceRepository{coll: db.Collection(placesCollection)}
}

type placeDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Image       string             `bson:"image"`
	Address     string             `bson:"address"`
	Location    domain.Coordinates `bson:"location"`
	Creator     string             `bson:"creator"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *placeDoc) toDomain() *domain.Place {
	return &domain.Place{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Image:       d.Image,
		Address:     d.Address,
		Location:    d.Location,
		Creator:     d.Creator,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// Insert persists a new place document. The generated ID is written back to
// place so the caller can link it inside the same transaction.
func (r *PlaceRepository) Insert(ctx context.Context, place *domain.Place) error {
	doc := placeDoc{
		ID:          primitive.NewObjectID(),
		Title:       place.Title,
		Description: place.Description,
		Image:       place.Image,
		Address:     place.Address,
		Location:    place.Location,
		Creator:     place.Creator,
		CreatedAt:   place.CreatedAt,
		UpdatedAt:   place.UpdatedAt,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert place: %w", err)
	}
	place.ID = doc.ID.Hex()
	return nil
}

func (r *PlaceRepository) FindByID(ctx context.Context, id string) (*domain.Place, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPlaceNotFound
	}

	var doc placeDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPlaceNotFound
		}
		return nil, fmt.Errorf("find place: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByIDs returns the places for the given IDs, preserving the order of ids.
func (r *PlaceRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Place, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find places: %w", err)
	}
	defer cur.Close(ctx)

	byID := make(map[string]*domain.Place, len(ids))
	for cur.Next(ctx) {
		var doc placeDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode place: %w", err)
		}
		p := doc.toDomain()
		byID[p.ID] = p
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("find places: %w", err)
	}

	places := make([]*domain.Place, 0, len(byID))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			places = append(places, p)
		}
	}
	return places, nil
}

// Update writes the mutable fields only; creator and image never change.
func (r *PlaceRepository) Update(ctx context.Context, place *domain.Place) error {
	oid, err := primitive.ObjectIDFromHex(place.ID)
	if err != nil {
		return domain.ErrPlaceNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{
			"title":       place.Title,
			"description": place.Description,
			"updated_at":  place.UpdatedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("update place: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPlaceNotFound
	}
	return nil
}

func (r *PlaceRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPlaceNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete place: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPlaceNotFound
	}
	return nil
}

func (r *PlaceRepository) ImagePaths(ctx context.Context) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "image", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("place image paths: %w", err)
	}

	paths := make([]string, 0, len(values))
	for _, v := range values {
		if p, ok := v.(string); ok && p != "" {
			paths = append(paths, p)
		}
	}
	return paths, nil
}

// EnsureIndexes creates the creator index used by the sweeper and any future
// creator-scoped queries.
func (r *PlaceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "creator", Value: 1}},
	})
	return err
}
