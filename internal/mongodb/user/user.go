package user

import (
	"context"
	"errors"
	"time"

	c "ovidot/internal/core/domain/common"
	e "ovidot/internal/core/domain/errors"
	"ovidot/internal/core/domain/user"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const USER_COLLECTION = "users"

type userDocument struct {
	ID                bson.ObjectID          `bson:"_id,omitempty"`
	Email             string                 `bson:"email"`
	Password          string                 `bson:"password"`
	Reset             *string                `bson:"reset,omitempty"`
	ResetExp          *time.Time             `bson:"resetExp,omitempty"`
	NotificationsList []notificationDocument `bson:"notificationsList"`
}

type notificationDocument struct {
	Type      string    `bson:"type"`
	Message   string    `bson:"message"`
	CreatedAt time.Time `bson:"createdAt"`
}

type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoRepository ensures the unique indexes on email and on the active
// reset token exist.
func NewMongoRepository(ctx context.Context, db *mongo.Database) (*MongoUserRepository, error) {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	collection := db.Collection(USER_COLLECTION)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "reset", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"reset": bson.M{"$type": "string"}}),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, err
	}
	return &MongoUserRepository{collection: collection}, nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id user.ID) (u user.User, err error) {
	objectID, err := bson.ObjectIDFromHex(string(id))
	if err != nil {
		return u, user.ErrUserDoesNotExist
	}
	return r.findOne(ctx, bson.M{"_id": objectID}, user.ErrUserDoesNotExist)
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email c.Email) (u user.User, err error) {
	return r.findOne(ctx, bson.M{"email": string(email)}, user.ErrUserDoesNotExist)
}

func (r *MongoUserRepository) SetPasswordResetToken(ctx context.Context, input user.SetPasswordResetTokenInput) error {
	objectID, err := bson.ObjectIDFromHex(string(input.ID))
	if err != nil {
		return user.ErrUserDoesNotExist
	}
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"reset": string(input.Token), "resetExp": input.ExpiresAt}},
	)
	if mongo.IsDuplicateKeyError(err) {
		return user.ErrPasswordResetTokenCollision
	}
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

func (r *MongoUserRepository) GetByPasswordResetToken(
	ctx context.Context,
	token user.PasswordResetToken,
	now time.Time,
) (u user.User, err error) {
	return r.findOne(ctx, activeTokenFilter(token, now), user.ErrInvalidPasswordResetToken)
}

func (r *MongoUserRepository) ResetPassword(ctx context.Context, input user.ResetPasswordInput) (u user.User, err error) {
	result := r.collection.FindOneAndUpdate(
		ctx,
		activeTokenFilter(input.Token, input.At),
		bson.M{
			"$set":   bson.M{"password": string(input.PasswordHash)},
			"$unset": bson.M{"reset": "", "resetExp": ""},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	return decodeResult(result, user.ErrInvalidPasswordResetToken)
}

func (r *MongoUserRepository) ChangePassword(ctx context.Context, input user.ChangePasswordInput) error {
	objectID, err := bson.ObjectIDFromHex(string(input.ID))
	if err != nil {
		return user.ErrUserDoesNotExist
	}
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID, "password": string(input.CurrentPasswordHash)},
		bson.M{"$set": bson.M{
			"password":          string(input.NewPasswordHash),
			"notificationsList": encodeNotifications(input.Notifications),
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount > 0 {
		return nil
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if count == 0 {
		return user.ErrUserDoesNotExist
	}
	return user.ErrCurrentPasswordIncorrect
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M, notFound error) (user.User, error) {
	return decodeResult(r.collection.FindOne(ctx, filter), notFound)
}

func activeTokenFilter(token user.PasswordResetToken, now time.Time) bson.M {
	return bson.M{"reset": string(token), "resetExp": bson.M{"$gt": now}}
}

func decodeResult(result *mongo.SingleResult, notFound error) (u user.User, err error) {
	if errors.Is(result.Err(), mongo.ErrNoDocuments) {
		return u, notFound
	}
	if result.Err() != nil {
		return u, result.Err()
	}
	var doc userDocument
	if err := result.Decode(&doc); err != nil {
		return u, err
	}
	u = decodeUser(doc)
	if err := u.Validate(); err != nil {
		return u, err
	}
	return u, nil
}

func decodeUser(doc userDocument) user.User {
	u := user.User{
		ID:           user.ID(doc.ID.Hex()),
		Email:        c.Email(doc.Email),
		PasswordHash: user.PasswordHash(doc.Password),
	}
	if doc.Reset != nil {
		u.PasswordResetToken = c.NewOptional(user.PasswordResetToken(*doc.Reset), true)
	}
	if doc.ResetExp != nil {
		u.PasswordResetExpiresAt = c.NewOptional(doc.ResetExp.UTC(), true)
	}
	for _, n := range doc.NotificationsList {
		u.Notifications = append(u.Notifications, user.Notification{
			Type:      user.NotificationType(n.Type),
			Message:   n.Message,
			CreatedAt: n.CreatedAt.UTC(),
		})
	}
	return u
}

func encodeNotifications(list []user.Notification) []notificationDocument {
	docs := make([]notificationDocument, 0, len(list))
	for _, n := range list {
		docs = append(docs, notificationDocument{
			Type:      string(n.Type),
			Message:   n.Message,
			CreatedAt: n.CreatedAt,
		})
	}
	return docs
}
