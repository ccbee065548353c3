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

// BidCollection defines the interface for bid database operations.
type BidCollection interface {
	InsertBid(ctx context.Context, bid models.Bid) (*models.Bid, error)
	FindBidByID(ctx context.Context, id string) (*models.Bid, error)
	FindBidsByRenter(ctx context.Context, renterID string, status models.BidStatus) ([]models.Bid, error)
	FindBidsByOwner(ctx context.Context, ownerID string, status models.BidStatus) ([]models.Bid, error)
	FindOverlapping(ctx context.Context, vehicleID string, start, end time.Time, status models.BidStatus, excludeID string) ([]models.Bid, error)
	ApproveAndRejectOverlapping(ctx context.Context, id string) (*models.Bid, []models.Bid, error)
	UpdateBidStatus(ctx context.Context, id string, status models.BidStatus) (*models.Bid, error)
	SetStartOdometer(ctx context.Context, id string, reading int64) error
	SetFinalOdometer(ctx context.Context, id string, reading int64) error
	MarkTripCompleted(ctx context.Context, id string, invoiceID primitive.ObjectID, totalAmount int64) error
	BookedDates(ctx context.Context, vehicleID string) ([]models.DateRange, error)
	ExpirePendingBefore(ctx context.Context, cutoff time.Time) ([]models.Bid, error)
}

// MongoBidCollection implements BidCollection for MongoDB. Client is required
// for the transactional approval sweep; all other operations use Collection
// directly.
type MongoBidCollection struct {
	Client     *mongo.Client
	Collection *mongo.Collection
}

// InsertBid inserts a new pending bid and returns it with its assigned id.
func (c *MongoBidCollection) InsertBid(ctx context.Context, bid models.Bid) (*models.Bid, error) {
	if c.Collection == nil {
		return nil, apperrors.Persistence(nil, "mongo collection is nil")
	}
	now := time.Now().UTC()
	bid.Status = models.BidStatusPending
	bid.TripCompleted = false
	bid.CreatedAt = now
	bid.UpdatedAt = now

	res, err := c.Collection.InsertOne(ctx, bid)
	if err != nil {
		return nil, apperrors.Persistence(err, "insert bid")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		bid.ID = oid
	}
	return &bid, nil
}

// FindBidByID finds a bid by its id.
func (c *MongoBidCollection) FindBidByID(ctx context.Context, id string) (*models.Bid, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("bid %s not found", id)
	}
	var bid models.Bid
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&bid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("bid %s not found", id)
		}
		return nil, apperrors.Persistence(err, "find bid")
	}
	return &bid, nil
}

// FindBidsByRenter returns bids placed by the given renter, newest first.
// Passing an empty status returns bids in every state.
func (c *MongoBidCollection) FindBidsByRenter(ctx context.Context, renterID string, status models.BidStatus) ([]models.Bid, error) {
	objectID, err := primitive.ObjectIDFromHex(renterID)
	if err != nil {
		return nil, apperrors.NotFound("user %s not found", renterID)
	}
	filter := bson.M{"user._id": objectID}
	if status != "" {
		filter["status"] = status
	}
	return c.findBids(ctx, filter)
}

// FindBidsByOwner returns bids on vehicles owned by the given user, newest first.
func (c *MongoBidCollection) FindBidsByOwner(ctx context.Context, ownerID string, status models.BidStatus) ([]models.Bid, error) {
	objectID, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, apperrors.NotFound("user %s not found", ownerID)
	}
	filter := bson.M{"vehicle.owner._id": objectID}
	if status != "" {
		filter["status"] = status
	}
	return c.findBids(ctx, filter)
}

func (c *MongoBidCollection) findBids(ctx context.Context, filter bson.M) ([]models.Bid, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := c.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperrors.Persistence(err, "find bids")
	}
	defer cursor.Close(ctx)

	var bids []models.Bid
	if err := cursor.All(ctx, &bids); err != nil {
		return nil, apperrors.Persistence(err, "decode bids")
	}
	return bids, nil
}

// FindOverlapping returns bids for the vehicle whose closed window [start, end]
// intersects the given window, optionally filtered by status and excluding one
// bid by id.
func (c *MongoBidCollection) FindOverlapping(ctx context.Context, vehicleID string, start, end time.Time, status models.BidStatus, excludeID string) ([]models.Bid, error) {
	vehicleObjectID, err := primitive.ObjectIDFromHex(vehicleID)
	if err != nil {
		return nil, apperrors.NotFound("vehicle %s not found", vehicleID)
	}
	filter := overlapFilter(vehicleObjectID, start, end, status)
	if excludeID != "" {
		excludeObjectID, err := primitive.ObjectIDFromHex(excludeID)
		if err != nil {
			return nil, apperrors.NotFound("bid %s not found", excludeID)
		}
		filter["_id"] = bson.M{"$ne": excludeObjectID}
	}
	return c.findBids(ctx, filter)
}

// overlapFilter builds the closed-interval overlap query:
// other.start <= end AND other.end >= start.
func overlapFilter(vehicleID primitive.ObjectID, start, end time.Time, status models.BidStatus) bson.M {
	filter := bson.M{
		"vehicle._id": vehicleID,
		"start_date":  bson.M{"$lte": end},
		"end_date":    bson.M{"$gte": start},
	}
	if status != "" {
		filter["status"] = status
	}
	return filter
}

// ApproveAndRejectOverlapping approves the bid and, in the same transaction,
// rejects every other pending bid on the same vehicle whose window overlaps
// the approved window. Already-approved bids are never touched: their windows
// were cleared when they were approved. If the transaction aborts for any
// reason the original statuses remain visible to every reader.
func (c *MongoBidCollection) ApproveAndRejectOverlapping(ctx context.Context, id string) (*models.Bid, []models.Bid, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil, apperrors.NotFound("bid %s not found", id)
	}

	var approved models.Bid
	var rejected []models.Bid

	txErr := RunInTransaction(ctx, c.Client, func(sc mongo.SessionContext) error {
		rejected = nil

		var bid models.Bid
		if err := c.Collection.FindOne(sc, bson.M{"_id": objectID}).Decode(&bid); err != nil {
			if err == mongo.ErrNoDocuments {
				return apperrors.NotFound("bid %s not found", id)
			}
			return err
		}
		if bid.Status != models.BidStatusPending {
			return apperrors.Conflict("bid %s is %s, only pending bids can be approved", id, bid.Status)
		}

		now := time.Now().UTC()
		res, err := c.Collection.UpdateOne(sc,
			bson.M{"_id": objectID, "status": models.BidStatusPending},
			bson.M{"$set": bson.M{"status": models.BidStatusApproved, "updated_at": now}},
		)
		if err != nil {
			return err
		}
		if res.ModifiedCount == 0 {
			// Status changed between the read and the write; a concurrent
			// approval or rejection won.
			return apperrors.Conflict("bid %s was modified concurrently", id)
		}

		// Sweep is restricted to pending siblings and excludes the target by
		// id, otherwise the newly approved bid would reject itself.
		filter := overlapFilter(bid.Vehicle.ID, bid.StartDate, bid.EndDate, models.BidStatusPending)
		filter["_id"] = bson.M{"$ne": objectID}

		cursor, err := c.Collection.Find(sc, filter)
		if err != nil {
			return err
		}
		if err := cursor.All(sc, &rejected); err != nil {
			return err
		}

		if len(rejected) > 0 {
			ids := make([]primitive.ObjectID, 0, len(rejected))
			for i := range rejected {
				ids = append(ids, rejected[i].ID)
			}
			_, err = c.Collection.UpdateMany(sc,
				bson.M{"_id": bson.M{"$in": ids}},
				bson.M{"$set": bson.M{"status": models.BidStatusRejected, "updated_at": now}},
			)
			if err != nil {
				return err
			}
			for i := range rejected {
				rejected[i].Status = models.BidStatusRejected
				rejected[i].UpdatedAt = now
			}
		}

		bid.Status = models.BidStatusApproved
		bid.UpdatedAt = now
		approved = bid
		return nil
	})

	if txErr != nil {
		if apperrors.KindOf(txErr) != "" {
			return nil, nil, txErr
		}
		return nil, nil, apperrors.Persistence(txErr, "approve bid %s", id)
	}
	return &approved, rejected, nil
}

// UpdateBidStatus moves a pending bid to the given status and returns the
// updated record. The pending filter mirrors the approve path's guard: a
// concurrent approval between the caller's read and this write must surface
// as a conflict, never be overwritten.
func (c *MongoBidCollection) UpdateBidStatus(ctx context.Context, id string, status models.BidStatus) (*models.Bid, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("bid %s not found", id)
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var bid models.Bid
	err = c.Collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objectID, "status": models.BidStatusPending},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
		opts,
	).Decode(&bid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// Missing id and a lost status race both land here; look the bid
			// up to tell them apart.
			if _, findErr := c.FindBidByID(ctx, id); findErr != nil {
				return nil, findErr
			}
			return nil, apperrors.Conflict("bid %s was modified concurrently", id)
		}
		return nil, apperrors.Persistence(err, "update bid status")
	}
	return &bid, nil
}

// SetStartOdometer records the reading taken when the trip begins.
func (c *MongoBidCollection) SetStartOdometer(ctx context.Context, id string, reading int64) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.NotFound("bid %s not found", id)
	}
	res, err := c.Collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"start_odometer": reading, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return apperrors.Persistence(err, "set start odometer")
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("bid %s not found", id)
	}
	return nil
}

// SetFinalOdometer records the reading taken when the trip ends. The
// final-greater-than-start invariant is enforced here, at the persistence
// layer, the way the document model's validation hook did.
func (c *MongoBidCollection) SetFinalOdometer(ctx context.Context, id string, reading int64) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.NotFound("bid %s not found", id)
	}
	var bid models.Bid
	if err := c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&bid); err != nil {
		if err == mongo.ErrNoDocuments {
			return apperrors.NotFound("bid %s not found", id)
		}
		return apperrors.Persistence(err, "find bid")
	}
	if bid.StartOdometer == nil {
		return apperrors.Validation("start odometer must be set before the final odometer")
	}
	if reading <= *bid.StartOdometer {
		return apperrors.Validation("final odometer %d must be greater than start odometer %d", reading, *bid.StartOdometer)
	}
	_, err = c.Collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"final_odometer": reading, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return apperrors.Persistence(err, "set final odometer")
	}
	return nil
}

// MarkTripCompleted stores the invoice reference and settled total and flips
// trip_completed. The filter guards against a second settlement racing in.
func (c *MongoBidCollection) MarkTripCompleted(ctx context.Context, id string, invoiceID primitive.ObjectID, totalAmount int64) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.NotFound("bid %s not found", id)
	}
	res, err := c.Collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "trip_completed": false},
		bson.M{"$set": bson.M{
			"trip_completed": true,
			"invoice_id":     invoiceID,
			"total_amount":   totalAmount,
			"updated_at":     time.Now().UTC(),
		}},
	)
	if err != nil {
		return apperrors.Persistence(err, "mark trip completed")
	}
	if res.MatchedCount == 0 {
		return apperrors.Conflict("trip for bid %s is already completed", id)
	}
	return nil
}

// BookedDates returns the date windows of all approved bids for the vehicle.
func (c *MongoBidCollection) BookedDates(ctx context.Context, vehicleID string) ([]models.DateRange, error) {
	vehicleObjectID, err := primitive.ObjectIDFromHex(vehicleID)
	if err != nil {
		return nil, apperrors.NotFound("vehicle %s not found", vehicleID)
	}
	cursor, err := c.Collection.Find(ctx, bson.M{
		"vehicle._id": vehicleObjectID,
		"status":      models.BidStatusApproved,
	})
	if err != nil {
		return nil, apperrors.Persistence(err, "find booked dates")
	}
	defer cursor.Close(ctx)

	var bids []models.Bid
	if err := cursor.All(ctx, &bids); err != nil {
		return nil, apperrors.Persistence(err, "decode booked dates")
	}
	dates := make([]models.DateRange, 0, len(bids))
	for _, b := range bids {
		dates = append(dates, models.DateRange{StartDate: b.StartDate, EndDate: b.EndDate})
	}
	return dates, nil
}

// ExpirePendingBefore rejects pending bids whose window already started and
// returns them so the caller can notify each renter.
func (c *MongoBidCollection) ExpirePendingBefore(ctx context.Context, cutoff time.Time) ([]models.Bid, error) {
	filter := bson.M{
		"status":     models.BidStatusPending,
		"start_date": bson.M{"$lt": cutoff},
	}
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, apperrors.Persistence(err, "find expired pending bids")
	}
	defer cursor.Close(ctx)

	var expired []models.Bid
	if err := cursor.All(ctx, &expired); err != nil {
		return nil, apperrors.Persistence(err, "decode expired pending bids")
	}
	if len(expired) == 0 {
		return nil, nil
	}

	ids := make([]primitive.ObjectID, 0, len(expired))
	for i := range expired {
		ids = append(ids, expired[i].ID)
	}
	now := time.Now().UTC()
	_, err = c.Collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}, "status": models.BidStatusPending},
		bson.M{"$set": bson.M{"status": models.BidStatusRejected, "updated_at": now}},
	)
	if err != nil {
		return nil, apperrors.Persistence(err, "expire pending bids")
	}
	for i := range expired {
		expired[i].Status = models.BidStatusRejected
		expired[i].UpdatedAt = now
	}
	return expired, nil
}
