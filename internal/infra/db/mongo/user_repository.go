package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainuser "adboard/internal/domain/user"
)

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection("users")}
}

// EnsureIndexes creates the uniqueness constraints backing duplicate-contact
// checks. Phone uniqueness is sparse since the field is optional.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})
	return err
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	return r.findOne(ctx, bson.M{"_id": string(id)})
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*domainuser.User, error) {
	return r.findOne(ctx, bson.M{"email": domainuser.NormalizeEmail(email)})
}

func (r *UserRepository) ByPhone(ctx context.Context, phone string) (*domainuser.User, error) {
	return r.findOne(ctx, bson.M{"phone": phone})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domainuser.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainuser.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *UserRepository) Save(ctx context.Context, user *domainuser.User) error {
	doc := newUserDocument(user)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	if mongo.IsDuplicateKeyError(err) {
		return domainuser.ErrEmailAlreadyUsed
	}
	return err
}

func (r *UserRepository) List(ctx context.Context, params domainuser.ListParams) ([]*domainuser.User, int, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if params.Limit > 0 {
		opts.SetLimit(int64(params.Limit)).SetSkip(int64(params.Offset))
	}
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var users []*domainuser.User
	for cursor.Next(ctx) {
		var doc userDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, err
		}
		users = append(users, doc.toAggregate())
	}
	return users, int(total), cursor.Err()
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{})
	return int(total), err
}

type userDocument struct {
	ID             string `bson:"_id"`
	Email          string `bson:"email"`
	Phone          string `bson:"phone,omitempty"`
	PasswordHash   string `bson:"password_hash"`
	Verified       bool   `bson:"verified"`
	FirstName      string `bson:"first_name"`
	LastName       string `bson:"last_name"`
	Role           string `bson:"role"`
	AvatarURL      string `bson:"avatar_url,omitempty"`
	Bio            string `bson:"bio,omitempty"`
	AdminGrantedAt int64  `bson:"admin_granted_at,omitempty"`
	CreatedAt      int64  `bson:"created_at"`
	UpdatedAt      int64  `bson:"updated_at"`
}

func newUserDocument(u *domainuser.User) userDocument {
	doc := userDocument{
		ID:           string(u.ID),
		Email:        u.Email,
		Phone:        u.Phone,
		PasswordHash: u.PasswordHash,
		Verified:     u.Verified,
		FirstName:    u.Profile.FirstName,
		LastName:     u.Profile.LastName,
		Role:         string(u.Profile.Role),
		AvatarURL:    u.Profile.AvatarURL,
		Bio:          u.Profile.Bio,
		CreatedAt:    u.CreatedAt.UnixMilli(),
		UpdatedAt:    u.UpdatedAt.UnixMilli(),
	}
	if !u.AdminGrantedAt.IsZero() {
		doc.AdminGrantedAt = u.AdminGrantedAt.UnixMilli()
	}
	return doc
}

func (d userDocument) toAggregate() *domainuser.User {
	u := &domainuser.User{
		ID:           domainuser.ID(d.ID),
		Email:        d.Email,
		Phone:        d.Phone,
		PasswordHash: d.PasswordHash,
		Verified:     d.Verified,
		Profile: domainuser.Profile{
			FirstName: d.FirstName,
			LastName:  d.LastName,
			Role:      domainuser.Role(d.Role),
			AvatarURL: d.AvatarURL,
			Bio:       d.Bio,
		},
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
	}
	if d.AdminGrantedAt != 0 {
		u.AdminGrantedAt = timestampToTime(d.AdminGrantedAt)
	}
	return u
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
