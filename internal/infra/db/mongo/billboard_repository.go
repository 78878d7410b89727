package mongo

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbilling "adboard/internal/domain/billboard"
	"adboard/internal/domain/shared/money"
	domainuser "adboard/internal/domain/user"
)

type BillboardRepository struct {
	col *mongo.Collection
}

func NewBillboardRepository(db *mongo.Database) *BillboardRepository {
	return &BillboardRepository{col: db.Collection("billboards")}
}

func (r *BillboardRepository) ByID(ctx context.Context, id domainbilling.ID) (*domainbilling.Billboard, error) {
	var doc billboardDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbilling.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BillboardRepository) Save(ctx context.Context, b *domainbilling.Billboard) error {
	doc := newBillboardDocument(b)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *BillboardRepository) Delete(ctx context.Context, id domainbilling.ID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainbilling.ErrNotFound
	}
	return nil
}

func (r *BillboardRepository) Search(ctx context.Context, params domainbilling.SearchParams) (domainbilling.SearchResult, error) {
	filter := bson.M{}
	if params.BookableOnly {
		filter["available"] = true
		filter["approved"] = true
	}
	if params.OwnerID != "" {
		filter["owner_id"] = string(params.OwnerID)
	}
	if params.Query != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(params.Query), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"location": pattern},
			bson.M{"description": pattern},
		}
	}
	if params.Size != "" {
		filter["size"] = primitive.Regex{Pattern: regexp.QuoteMeta(params.Size), Options: "i"}
	}
	price := bson.M{}
	if params.PriceMin > 0 {
		price["$gte"] = params.PriceMin
	}
	if params.PriceMax > 0 {
		price["$lte"] = params.PriceMax
	}
	if len(price) > 0 {
		filter["price_per_day"] = price
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return domainbilling.SearchResult{}, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if params.Limit > 0 {
		opts.SetLimit(int64(params.Limit)).SetSkip(int64(params.Offset))
	}
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return domainbilling.SearchResult{}, err
	}
	defer cursor.Close(ctx)

	result := domainbilling.SearchResult{Total: int(total)}
	for cursor.Next(ctx) {
		var doc billboardDocument
		if err := cursor.Decode(&doc); err != nil {
			return domainbilling.SearchResult{}, err
		}
		result.Items = append(result.Items, doc.toAggregate())
	}
	return result, cursor.Err()
}

func (r *BillboardRepository) Count(ctx context.Context) (int, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{})
	return int(total), err
}

func (r *BillboardRepository) CountByStatus(ctx context.Context, status domainbilling.Status) (int, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{"status": string(status)})
	return int(total), err
}

type billboardDocument struct {
	ID              string `bson:"_id"`
	OwnerID         string `bson:"owner_id"`
	Name            string `bson:"name"`
	Location        string `bson:"location"`
	Size            string `bson:"size,omitempty"`
	PricePerDay     int64  `bson:"price_per_day"`
	Currency        string `bson:"currency"`
	Description     string `bson:"description,omitempty"`
	ContactPhone    string `bson:"contact_phone,omitempty"`
	ContactEmail    string `bson:"contact_email,omitempty"`
	ImageURL        string `bson:"image_url,omitempty"`
	Available       bool   `bson:"available"`
	Approved        bool   `bson:"approved"`
	Status          string `bson:"status"`
	RejectionReason string `bson:"rejection_reason,omitempty"`
	CreatedAt       int64  `bson:"created_at"`
	UpdatedAt       int64  `bson:"updated_at"`
}

func newBillboardDocument(b *domainbilling.Billboard) billboardDocument {
	return billboardDocument{
		ID:              string(b.ID),
		OwnerID:         string(b.OwnerID),
		Name:            b.Name,
		Location:        b.Location,
		Size:            b.Size,
		PricePerDay:     b.PricePerDay.Amount,
		Currency:        b.PricePerDay.Currency,
		Description:     b.Description,
		ContactPhone:    b.ContactPhone,
		ContactEmail:    b.ContactEmail,
		ImageURL:        b.ImageURL,
		Available:       b.Available,
		Approved:        b.Approved,
		Status:          string(b.Status),
		RejectionReason: b.RejectionReason,
		CreatedAt:       b.CreatedAt.UnixMilli(),
		UpdatedAt:       b.UpdatedAt.UnixMilli(),
	}
}

func (d billboardDocument) toAggregate() *domainbilling.Billboard {
	return &domainbilling.Billboard{
		ID:              domainbilling.ID(d.ID),
		OwnerID:         domainuser.ID(d.OwnerID),
		Name:            d.Name,
		Location:        d.Location,
		Size:            d.Size,
		PricePerDay:     money.Money{Amount: d.PricePerDay, Currency: d.Currency},
		Description:     d.Description,
		ContactPhone:    d.ContactPhone,
		ContactEmail:    d.ContactEmail,
		ImageURL:        d.ImageURL,
		Available:       d.Available,
		Approved:        d.Approved,
		Status:          domainbilling.Status(d.Status),
		RejectionReason: d.RejectionReason,
		CreatedAt:       timestampToTime(d.CreatedAt),
		UpdatedAt:       timestampToTime(d.UpdatedAt),
	}
}
