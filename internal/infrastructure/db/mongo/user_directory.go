package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pagescope/user-service/internal/core/domain"
	"github.com/pagescope/user-service/internal/core/ports"
)

const collectionUsers = "users"

// publicProjection hides the fields that only the login lookup may read.
var publicProjection = bson.D{{Key: "password", Value: 0}, {Key: "role", Value: 0}}

// UserDirectory implements ports.UserDirectory on a MongoDB collection.
type UserDirectory struct {
	col *mongo.Collection
}

func NewUserDirectory(db *mongo.Database) *UserDirectory {
	return &UserDirectory{col: db.Collection(collectionUsers)}
}

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Surname   string             `bson:"surname,omitempty"`
	Nick      string             `bson:"nick"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password,omitempty"`
	Role      string             `bson:"role,omitempty"`
	Image     string             `bson:"image"`
	ImagePath string             `bson:"imagePath"`
	Page      string             `bson:"page"`
	CreatedAt time.Time          `bson:"created_at"`
}

func toDocument(u *domain.User) userDocument {
	return userDocument{
		Name:      u.Name,
		Surname:   u.Surname,
		Nick:      u.Nick,
		Email:     u.Email,
		Password:  u.Password,
		Role:      u.Role,
		Image:     u.Image,
		ImagePath: u.ImagePath,
		Page:      u.Page,
		CreatedAt: u.CreatedAt.UTC(),
	}
}

func (d userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Surname:   d.Surname,
		Nick:      d.Nick,
		Email:     d.Email,
		Password:  d.Password,
		Role:      d.Role,
		Image:     d.Image,
		ImagePath: d.ImagePath,
		Page:      d.Page,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

func (r *UserDirectory) FindByEmailOrNick(ctx context.Context, email, nick, page string) ([]*domain.User, error) {
	return r.find(ctx, emailOrNickFilter(email, nick, page), options.Find().SetProjection(publicProjection))
}

func (r *UserDirectory) FindForLogin(ctx context.Context, login, page string) ([]*domain.User, error) {
	return r.find(ctx, emailOrNickFilter(login, login, page), options.Find())
}

func (r *UserDirectory) FindDuplicate(ctx context.Context, excludeID, email, nick, page string) ([]*domain.User, error) {
	filter, ok := duplicateFilter(excludeID, email, nick, page)
	if !ok {
		return []*domain.User{}, nil
	}
	return r.find(ctx, filter, options.Find().SetProjection(publicProjection))
}

func (r *UserDirectory) FindByIDInPage(ctx context.Context, id, page string) ([]*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return []*domain.User{}, nil
	}
	return r.find(ctx, bson.M{"_id": oid, "page": page}, options.Find().SetProjection(publicProjection))
}

func (r *UserDirectory) ListPage(ctx context.Context, pageNumber, pageSize int, page string) (*domain.UserPage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if pageSize <= 0 {
		pageSize = 10
	}
	if pageNumber < 1 {
		pageNumber = 1
	}

	filter := bson.M{"page": page}
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	users, err := r.find(ctx, filter, pageOptions(pageNumber, pageSize))
	if err != nil {
		return nil, err
	}

	result := paginate(total, pageNumber, pageSize)
	result.Users = users
	return &result, nil
}

// pageOptions selects page pageNumber of size pageSize, newest first. _id
// breaks ties between users created in the same instant.
func pageOptions(pageNumber, pageSize int) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64((pageNumber - 1) * pageSize)).
		SetLimit(int64(pageSize)).
		SetProjection(publicProjection)
}

func (r *UserDirectory) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toDocument(user)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

func (r *UserDirectory) Update(ctx context.Context, id string, changes ports.UserChanges) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(publicProjection)

	var doc userDocument
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M(changes)}, opts).Decode(&doc)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, domain.ErrUserNotFound
	case mongo.IsDuplicateKeyError(err):
		return nil, domain.ErrUserExists
	case err != nil:
		return nil, fmt.Errorf("update user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserDirectory) Delete(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	var doc userDocument
	err = r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}, options.FindOneAndDelete().SetProjection(publicProjection)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("delete user: %w", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates the tenant-scoped unique indexes that back the
// service's duplicate checks, plus the listing sort index.
func (r *UserDirectory) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "page", Value: 1}, {Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("page_email_unique"),
		},
		{
			Keys:    bson.D{{Key: "page", Value: 1}, {Key: "nick", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("page_nick_unique"),
		},
		{
			Keys:    bson.D{{Key: "page", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("page_created_at"),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *UserDirectory) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toDomain())
	}
	return users, nil
}

func emailOrNickFilter(email, nick, page string) bson.M {
	return bson.M{
		"page": page,
		"$or":  bson.A{bson.M{"email": email}, bson.M{"nick": nick}},
	}
}

// duplicateFilter reports false when neither email nor nick is given.
func duplicateFilter(excludeID, email, nick, page string) (bson.M, bool) {
	var or bson.A
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	if nick != "" {
		or = append(or, bson.M{"nick": nick})
	}
	if len(or) == 0 {
		return nil, false
	}

	filter := bson.M{"page": page, "$or": or}
	if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
		filter["_id"] = bson.M{"$ne": oid}
	}
	return filter, true
}

// paginate computes the paging metadata for total documents. There is always
// at least one page, even when it is empty.
func paginate(total int64, pageNumber, pageSize int) domain.UserPage {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}

	p := domain.UserPage{
		TotalDocs:  total,
		Limit:      pageSize,
		Page:       pageNumber,
		TotalPages: totalPages,
	}
	if pageNumber > 1 {
		prev := pageNumber - 1
		p.PrevPage = &prev
	}
	if pageNumber < totalPages {
		next := pageNumber + 1
		p.NextPage = &next
	}
	return p
}
