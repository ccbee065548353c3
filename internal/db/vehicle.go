package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/rentit-app/rentit-backend/internal/errors"
	"github.com/rentit-app/rentit-backend/internal/models"
)

// VehicleCollection defines the interface for vehicle data operations. The
// bid service only reads from it (the snapshot provider); the vehicle
// handlers use the full CRUD surface.
type VehicleCollection interface {
	InsertVehicle(ctx context.Context, vehicle models.Vehicle) (*models.Vehicle, error)
	FindVehicles(ctx context.Context, filter bson.M) ([]models.Vehicle, error)
	FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error)
	UpdateVehicle(ctx context.Context, id string, vehicle models.Vehicle) error
	DeleteVehicle(ctx context.Context, id string) error
}

// MongoVehicleCollection implements VehicleCollection for MongoDB.
type MongoVehicleCollection struct {
	Collection *mongo.Collection
}

// InsertVehicle inserts a vehicle record into the collection.
func (c *MongoVehicleCollection) InsertVehicle(ctx context.Context, vehicle models.Vehicle) (*models.Vehicle, error) {
	if c.Collection == nil {
		return nil, apperrors.Persistence(nil, "mongo collection is nil")
	}
	now := time.Now().UTC()
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now
	if vehicle.Status == "" {
		vehicle.Status = "active"
	}
	res, err := c.Collection.InsertOne(ctx, vehicle)
	if err != nil {
		return nil, apperrors.Persistence(err, "insert vehicle")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		vehicle.ID = oid
	}
	return &vehicle, nil
}

// FindVehicles queries vehicle records from the collection.
func (c *MongoVehicleCollection) FindVehicles(ctx context.Context, filter bson.M) ([]models.Vehicle, error) {
	if c.Collection == nil {
		return nil, apperrors.Persistence(nil, "mongo collection is nil")
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := c.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperrors.Persistence(err, "find vehicles")
	}
	defer cursor.Close(ctx)

	var vehicles []models.Vehicle
	if err := cursor.All(ctx, &vehicles); err != nil {
		return nil, apperrors.Persistence(err, "decode vehicles")
	}
	return vehicles, nil
}

// FindVehicleByID finds a vehicle by its id.
func (c *MongoVehicleCollection) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("vehicle %s not found", id)
	}
	var vehicle models.Vehicle
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&vehicle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("vehicle %s not found", id)
		}
		return nil, apperrors.Persistence(err, "find vehicle")
	}
	return &vehicle, nil
}

// UpdateVehicle updates a vehicle by its id.
func (c *MongoVehicleCollection) UpdateVehicle(ctx context.Context, id string, vehicle models.Vehicle) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.NotFound("vehicle %s not found", id)
	}
	vehicle.ID = objectID
	vehicle.UpdatedAt = time.Now().UTC()
	res, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": objectID}, vehicle)
	if err != nil {
		return apperrors.Persistence(err, "update vehicle")
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("vehicle %s not found", id)
	}
	return nil
}

// DeleteVehicle deletes a vehicle by its id.
func (c *MongoVehicleCollection) DeleteVehicle(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.NotFound("vehicle %s not found", id)
	}
	res, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return apperrors.Persistence(err, "delete vehicle")
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("vehicle %s not found", id)
	}
	return nil
}
