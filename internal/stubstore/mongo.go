package stubstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/DawnFalls/getSuitedV1/internal/models"
)

// MongoRepo implements Repository on MongoDB so the stub backend can keep
// its data across restarts. Used when MONGODB_URI is configured.
type MongoRepo struct {
	users *mongo.Collection
	evals *mongo.Collection
}

// ConnectMongo opens a connection, pings it and returns a repository bound
// to the given database. Caller should call client.Disconnect(ctx).
func ConnectMongo(ctx context.Context, uri, database string, timeout time.Duration) (*mongo.Client, *MongoRepo, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}
	db := client.Database(database)
	return client, &MongoRepo{
		users: db.Collection("users"),
		evals: db.Collection("evaluations"),
	}, nil
}

func (r *MongoRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *MongoRepo) Upsert(ctx context.Context, u *models.User) (*models.User, error) {
	now := time.Now().UTC()
	filter := bson.M{"email": u.Email}
	update := bson.M{
		"$set": bson.M{"name": u.Name, "updatedAt": now},
		// string ids throughout, matching what the client and memory repo use
		"$setOnInsert": bson.M{"_id": uuid.NewString(), "email": u.Email, "score": u.Score, "createdAt": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var updated models.User
	if err := r.users.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *MongoRepo) SetName(ctx context.Context, id, name string) (*models.User, error) {
	return r.patch(ctx, id, bson.M{"name": name})
}

func (r *MongoRepo) SetPicture(ctx context.Context, id, url string) (*models.User, error) {
	return r.patch(ctx, id, bson.M{"profilePicture": url})
}

func (r *MongoRepo) patch(ctx context.Context, id string, fields bson.M) (*models.User, error) {
	fields["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.User
	err := r.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (r *MongoRepo) Evaluations(ctx context.Context, email string) ([]models.Evaluation, error) {
	cur, err := r.evals.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Evaluation
	for cur.Next(ctx) {
		var doc struct {
			FileName *string `bson:"fileName,omitempty"`
			FileURL  string  `bson:"fileUrl"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, models.Evaluation{FileName: doc.FileName, FileURL: doc.FileURL})
	}
	return out, cur.Err()
}

func (r *MongoRepo) AddEvaluation(ctx context.Context, email string, e models.Evaluation) error {
	_, err := r.evals.InsertOne(ctx, bson.M{"email": email, "fileName": e.FileName, "fileUrl": e.FileURL})
	return err
}
