package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbilling "adboard/internal/domain/billboard"
	domainbooking "adboard/internal/domain/booking"
	"adboard/internal/domain/shared/daterange"
	"adboard/internal/domain/shared/money"
	domainuser "adboard/internal/domain/user"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

var holdingStatuses = bson.A{
	string(domainbooking.StatusPending),
	string(domainbooking.StatusApproved),
}

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("booking_requests")}
}

func (r *BookingRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "billboard_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "advertiser_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.ID) (*domainbooking.Request, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

// Save uses an optimistic version check; a lost update surfaces as
// ErrConcurrentUpdate instead of silently clobbering a decision.
func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Request) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) ActiveByBillboard(ctx context.Context, id domainbilling.ID) ([]*domainbooking.Request, error) {
	filter := bson.M{
		"billboard_id": string(id),
		"status":       bson.M{"$in": holdingStatuses},
	}
	return r.findAll(ctx, filter, nil)
}

func (r *BookingRepository) ListByAdvertiser(ctx context.Context, id domainuser.ID, params domainbooking.ListParams) ([]*domainbooking.Request, int, error) {
	return r.page(ctx, bson.M{"advertiser_id": string(id)}, params)
}

func (r *BookingRepository) ListByBillboards(ctx context.Context, ids []domainbilling.ID, params domainbooking.ListParams) ([]*domainbooking.Request, int, error) {
	raw := make(bson.A, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, string(id))
	}
	return r.page(ctx, bson.M{"billboard_id": bson.M{"$in": raw}}, params)
}

func (r *BookingRepository) ListDisputed(ctx context.Context, params domainbooking.ListParams) ([]*domainbooking.Request, int, error) {
	return r.page(ctx, bson.M{"has_dispute": true}, params)
}

func (r *BookingRepository) Count(ctx context.Context) (int, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{})
	return int(total), err
}

func (r *BookingRepository) CountByStatus(ctx context.Context, status domainbooking.Status) (int, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{"status": string(status)})
	return int(total), err
}

func (r *BookingRepository) CountOpenDisputes(ctx context.Context) (int, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{
		"has_dispute":    true,
		"dispute_status": string(domainbooking.DisputeOpen),
	})
	return int(total), err
}

func (r *BookingRepository) Latest(ctx context.Context, n int) ([]*domainbooking.Request, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(n))
	return r.findAll(ctx, bson.M{}, opts)
}

func (r *BookingRepository) page(ctx context.Context, filter bson.M, params domainbooking.ListParams) ([]*domainbooking.Request, int, error) {
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if params.Limit > 0 {
		opts.SetLimit(int64(params.Limit)).SetSkip(int64(params.Offset))
	}
	items, err := r.findAll(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, int(total), nil
}

func (r *BookingRepository) findAll(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domainbooking.Request, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.col.Find(ctx, filter, opts)
	} else {
		cursor, err = r.col.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []*domainbooking.Request
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		requests = append(requests, doc.toAggregate())
	}
	return requests, cursor.Err()
}

type bookingDocument struct {
	ID            string `bson:"_id"`
	BillboardID   string `bson:"billboard_id"`
	AdvertiserID  string `bson:"advertiser_id"`
	StartDate     int64  `bson:"start_date"`
	EndDate       int64  `bson:"end_date"`
	TotalAmount   int64  `bson:"total_amount"`
	Currency      string `bson:"currency"`
	Status        string `bson:"status"`
	Message       string `bson:"message,omitempty"`
	Response      string `bson:"response,omitempty"`
	HasDispute    bool   `bson:"has_dispute"`
	DisputeReason string `bson:"dispute_reason,omitempty"`
	DisputeStatus string `bson:"dispute_status,omitempty"`
	DisputeBy     string `bson:"dispute_by,omitempty"`
	CreatedAt     int64  `bson:"created_at"`
	UpdatedAt     int64  `bson:"updated_at"`
	Version       int64  `bson:"version"`
}

func newBookingDocument(b *domainbooking.Request) bookingDocument {
	return bookingDocument{
		ID:            string(b.ID),
		BillboardID:   string(b.BillboardID),
		AdvertiserID:  string(b.AdvertiserID),
		StartDate:     b.Range.Start.UnixMilli(),
		EndDate:       b.Range.End.UnixMilli(),
		TotalAmount:   b.TotalAmount.Amount,
		Currency:      b.TotalAmount.Currency,
		Status:        string(b.Status),
		Message:       b.Message,
		Response:      b.Response,
		HasDispute:    b.HasDispute,
		DisputeReason: b.DisputeReason,
		DisputeStatus: string(b.DisputeStatus),
		DisputeBy:     string(b.DisputeBy),
		CreatedAt:     b.CreatedAt.UnixMilli(),
		UpdatedAt:     b.UpdatedAt.UnixMilli(),
		Version:       b.Version,
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Request {
	return &domainbooking.Request{
		ID:            domainbooking.ID(d.ID),
		BillboardID:   domainbilling.ID(d.BillboardID),
		AdvertiserID:  domainuser.ID(d.AdvertiserID),
		Range:         daterange.DateRange{Start: timestampToTime(d.StartDate), End: timestampToTime(d.EndDate)},
		TotalAmount:   money.Money{Amount: d.TotalAmount, Currency: d.Currency},
		Status:        domainbooking.Status(d.Status),
		Message:       d.Message,
		Response:      d.Response,
		HasDispute:    d.HasDispute,
		DisputeReason: d.DisputeReason,
		DisputeStatus: domainbooking.DisputeStatus(d.DisputeStatus),
		DisputeBy:     domainuser.ID(d.DisputeBy),
		CreatedAt:     timestampToTime(d.CreatedAt),
		UpdatedAt:     timestampToTime(d.UpdatedAt),
		Version:       d.Version,
	}
}
