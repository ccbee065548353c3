package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "github.com/rentit-app/rentit-backend/internal/errors"
	"github.com/rentit-app/rentit-backend/internal/models"
)

// InvoiceCollection defines the interface for invoice database operations.
type InvoiceCollection interface {
	InsertInvoice(ctx context.Context, invoice models.Invoice) (*models.Invoice, error)
	FindInvoiceByID(ctx context.Context, id string) (*models.Invoice, error)
}

// MongoInvoiceCollection implements InvoiceCollection for MongoDB.
type MongoInvoiceCollection struct {
	Collection *mongo.Collection
}

// InsertInvoice inserts a settled invoice and returns it with its assigned id.
func (c *MongoInvoiceCollection) InsertInvoice(ctx context.Context, invoice models.Invoice) (*models.Invoice, error) {
	if c.Collection == nil {
		return nil, apperrors.Persistence(nil, "mongo collection is nil")
	}
	invoice.CreatedAt = time.Now().UTC()
	res, err := c.Collection.InsertOne(ctx, invoice)
	if err != nil {
		return nil, apperrors.Persistence(err, "insert invoice")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		invoice.ID = oid
	}
	return &invoice, nil
}

// FindInvoiceByID finds an invoice by its id.
func (c *MongoInvoiceCollection) FindInvoiceByID(ctx context.Context, id string) (*models.Invoice, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("invoice %s not found", id)
	}
	var invoice models.Invoice
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&invoice)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("invoice %s not found", id)
		}
		return nil, apperrors.Persistence(err, "find invoice")
	}
	return &invoice, nil
}
