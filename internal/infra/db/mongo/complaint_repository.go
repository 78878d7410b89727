package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaincomplaint "adboard/internal/domain/complaint"
	domainuser "adboard/internal/domain/user"
)

type ComplaintRepository struct {
	col *mongo.Collection
}

func NewComplaintRepository(db *mongo.Database) *ComplaintRepository {
	return &ComplaintRepository{col: db.Collection("complaints")}
}

func (r *ComplaintRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

func (r *ComplaintRepository) ByID(ctx context.Context, id domaincomplaint.ID) (*domaincomplaint.Complaint, error) {
	var doc complaintDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domaincomplaint.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ComplaintRepository) Save(ctx context.Context, c *domaincomplaint.Complaint) error {
	doc := newComplaintDocument(c)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *ComplaintRepository) ListByAuthor(ctx context.Context, id domainuser.ID, params domaincomplaint.ListParams) ([]*domaincomplaint.Complaint, int, error) {
	return r.page(ctx, bson.M{"author_id": string(id)}, params)
}

func (r *ComplaintRepository) ListAll(ctx context.Context, params domaincomplaint.ListParams) ([]*domaincomplaint.Complaint, int, error) {
	return r.page(ctx, bson.M{}, params)
}

func (r *ComplaintRepository) CountByStatus(ctx context.Context, status domaincomplaint.Status) (int, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{"status": string(status)})
	return int(total), err
}

func (r *ComplaintRepository) page(ctx context.Context, filter bson.M, params domaincomplaint.ListParams) ([]*domaincomplaint.Complaint, int, error) {
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if params.Limit > 0 {
		opts.SetLimit(int64(params.Limit)).SetSkip(int64(params.Offset))
	}
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var complaints []*domaincomplaint.Complaint
	for cursor.Next(ctx) {
		var doc complaintDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, err
		}
		complaints = append(complaints, doc.toAggregate())
	}
	return complaints, int(total), cursor.Err()
}

type complaintDocument struct {
	ID            string `bson:"_id"`
	AuthorID      string `bson:"author_id"`
	Subject       string `bson:"subject"`
	Description   string `bson:"description"`
	Status        string `bson:"status"`
	AdminResponse string `bson:"admin_response,omitempty"`
	CreatedAt     int64  `bson:"created_at"`
	UpdatedAt     int64  `bson:"updated_at"`
}

func newComplaintDocument(c *domaincomplaint.Complaint) complaintDocument {
	return complaintDocument{
		ID:            string(c.ID),
		AuthorID:      string(c.AuthorID),
		Subject:       c.Subject,
		Description:   c.Description,
		Status:        string(c.Status),
		AdminResponse: c.AdminResponse,
		CreatedAt:     c.CreatedAt.UnixMilli(),
		UpdatedAt:     c.UpdatedAt.UnixMilli(),
	}
}

func (d complaintDocument) toAggregate() *domaincomplaint.Complaint {
	return &domaincomplaint.Complaint{
		ID:            domaincomplaint.ID(d.ID),
		AuthorID:      domainuser.ID(d.AuthorID),
		Subject:       d.Subject,
		Description:   d.Description,
		Status:        domaincomplaint.Status(d.Status),
		AdminResponse: d.AdminResponse,
		CreatedAt:     timestampToTime(d.CreatedAt),
		UpdatedAt:     timestampToTime(d.UpdatedAt),
	}
}
