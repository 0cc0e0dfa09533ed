package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDatabase adapts a MongoDB database handle to Database.
type MongoDatabase struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoDatabase wraps an already connected client.
func NewMongoDatabase(client *mongo.Client, name string) *MongoDatabase {
	return &MongoDatabase{client: client, db: client.Database(name)}
}

func (d *MongoDatabase) Collection(name string) Collection {
	return &mongoCollection{coll: d.db.Collection(name)}
}

func (d *MongoDatabase) Backend() string { return "mongo" }

// Close disconnects the underlying client.
func (d *MongoDatabase) Close(ctx context.Context) error {
	if err := d.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	return nil
}

type mongoCollection struct {
	coll *mongo.Collection
}

func (c *mongoCollection) Find(ctx context.Context, filter Filter, opts FindOptions) ([]Document, error) {
	findOpts := options.Find()
	if opts.Sort != nil {
		findOpts.SetSort(bson.D{{Key: opts.Sort.Field, Value: int(opts.Sort.Direction)}})
	} else {
		findOpts.SetSort(bson.D{{Key: "$natural", Value: -1}})
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cur, err := c.coll.Find(ctx, toBSON(filter), findOpts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.coll.Name(), err)
	}
	defer cur.Close(ctx)

	var docs []Document
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", c.coll.Name(), err)
		}
		docs = append(docs, Document(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", c.coll.Name(), err)
	}
	return docs, nil
}

func (c *mongoCollection) FindOne(ctx context.Context, filter Filter) (Document, error) {
	var doc bson.M
	if err := c.coll.FindOne(ctx, toBSON(filter)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find one %s: %w", c.coll.Name(), err)
	}
	return Document(doc), nil
}

func (c *mongoCollection) Insert(ctx context.Context, doc Document) (Document, error) {
	if _, err := c.coll.InsertOne(ctx, bson.M(doc)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("insert %s: %w", c.coll.Name(), ErrConflict)
		}
		return nil, fmt.Errorf("insert %s: %w", c.coll.Name(), err)
	}
	return doc, nil
}

func (c *mongoCollection) Update(ctx context.Context, filter Filter, set Document) (int64, error) {
	res, err := c.coll.UpdateOne(ctx, toBSON(filter), bson.M{"$set": withoutID(set)})
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", c.coll.Name(), err)
	}
	return res.MatchedCount, nil
}

func (c *mongoCollection) Increment(ctx context.Context, filter Filter, field string, delta int64) (Document, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc bson.M
	err := c.coll.FindOneAndUpdate(ctx, toBSON(filter), bson.M{"$inc": bson.M{field: delta}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("increment %s.%s: %w", c.coll.Name(), field, err)
	}
	return Document(doc), nil
}

func (c *mongoCollection) Upsert(ctx context.Context, filter Filter, set Document) error {
	opts := options.Update().SetUpsert(true)
	if _, err := c.coll.UpdateOne(ctx, toBSON(filter), bson.M{"$set": withoutID(set)}, opts); err != nil {
		return fmt.Errorf("upsert %s: %w", c.coll.Name(), err)
	}
	return nil
}

func (c *mongoCollection) Delete(ctx context.Context, filter Filter) (int64, error) {
	res, err := c.coll.DeleteOne(ctx, toBSON(filter))
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", c.coll.Name(), err)
	}
	return res.DeletedCount, nil
}

func (c *mongoCollection) Count(ctx context.Context, filter Filter) (int64, error) {
	n, err := c.coll.CountDocuments(ctx, toBSON(filter))
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", c.coll.Name(), err)
	}
	return n, nil
}

func toBSON(filter Filter) bson.M {
	if filter == nil {
		return bson.M{}
	}
	return bson.M(filter)
}

// withoutID drops _id from a $set payload; MongoDB rejects changes to it.
func withoutID(set Document) bson.M {
	out := bson.M{}
	for k, v := range set {
		if k == IDField {
			continue
		}
		out[k] = v
	}
	return out
}
