package db

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"kuic/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository implements Repository on one Mongo collection.
type MongoRepository[T any] struct {
	coll *mongo.Collection
}

func NewMongoRepository[T any](coll *mongo.Collection) *MongoRepository[T] {
	return &MongoRepository[T]{coll: coll}
}

func (r *MongoRepository[T]) Find(ctx context.Context, q Query) ([]T, error) {
	filter, err := q.Filter.bson()
	if err != nil {
		return nil, err
	}
	opts := options.Find()
	if len(q.Sort) > 0 {
		opts.SetSort(sortBSON(q.Sort))
	}
	if len(q.Omit) > 0 {
		opts.SetProjection(omitBSON(q.Omit))
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", r.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	docs := []T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.coll.Name(), err)
	}
	return docs, nil
}

func (r *MongoRepository[T]) FindOne(ctx context.Context, q Query) (*T, error) {
	filter, err := q.Filter.bson()
	if err != nil {
		return nil, err
	}
	opts := options.FindOne()
	if len(q.Sort) > 0 {
		opts.SetSort(sortBSON(q.Sort))
	}
	if len(q.Omit) > 0 {
		opts.SetProjection(omitBSON(q.Omit))
	}
	return r.decodeOne(r.coll.FindOne(ctx, filter, opts))
}

func (r *MongoRepository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return r.decodeOne(r.coll.FindOne(ctx, bson.M{"_id": oid}))
}

func (r *MongoRepository[T]) Insert(ctx context.Context, doc *T) error {
	meta := any(doc).(models.Document).Meta()
	now := time.Now().UTC()
	meta.ID = primitive.NewObjectID()
	meta.CreatedAt = now
	meta.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return r.wrap("insert into", err)
	}
	return nil
}

func (r *MongoRepository[T]) Replace(ctx context.Context, id string, doc *T) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}
	meta := any(doc).(models.Document).Meta()
	meta.ID = oid
	meta.UpdatedAt = time.Now().UTC()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return r.wrap("replace in", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository[T]) Set(ctx context.Context, id string, fields Fields) (*T, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return r.decodeOne(r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, setBSON(fields), opts))
}

func (r *MongoRepository[T]) SetMany(ctx context.Context, f Filter, fields Fields) (int64, error) {
	filter, err := f.bson()
	if err != nil {
		return 0, err
	}
	res, err := r.coll.UpdateMany(ctx, filter, setBSON(fields))
	if err != nil {
		return 0, r.wrap("update in", err)
	}
	return res.ModifiedCount, nil
}

// Toggle flips a boolean with a pipeline update so concurrent toggles never
// read a stale value.
func (r *MongoRepository[T]) Toggle(ctx context.Context, id string, path string) (*T, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: path, Value: bson.D{{Key: "$not", Value: bson.A{"$" + path}}}},
			{Key: "updatedAt", Value: "$$NOW"},
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return r.decodeOne(r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, pipeline, opts))
}

func (r *MongoRepository[T]) Delete(ctx context.Context, id string) (*T, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return r.decodeOne(r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}))
}

func (r *MongoRepository[T]) decodeOne(res *mongo.SingleResult) (*T, error) {
	var doc T
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, r.wrap("read from", err)
	}
	return &doc, nil
}

func (r *MongoRepository[T]) wrap(op string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s %s: %v", ErrDuplicate, op, r.coll.Name(), err)
	}
	return fmt.Errorf("%s %s: %w", op, r.coll.Name(), err)
}

func (f Filter) bson() (bson.M, error) {
	filter := bson.M{}
	for path, v := range f.Equals {
		filter[path] = v
	}
	if f.NotID != "" {
		oid, err := ParseID(f.NotID)
		if err != nil {
			return nil, err
		}
		filter["_id"] = bson.M{"$ne": oid}
	}
	if f.Search != nil && f.Search.Term != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search.Term), Options: "i"}
		or := bson.A{}
		for _, path := range f.Search.Paths {
			or = append(or, bson.M{path: re})
		}
		filter["$or"] = or
	}
	return filter, nil
}

func sortBSON(fields []SortField) bson.D {
	d := bson.D{}
	for _, s := range fields {
		dir := 1
		if s.Desc {
			dir = -1
		}
		d = append(d, bson.E{Key: s.Path, Value: dir})
	}
	return d
}

func omitBSON(paths []string) bson.M {
	m := bson.M{}
	for _, p := range paths {
		m[p] = 0
	}
	return m
}

func setBSON(fields Fields) bson.M {
	set := bson.M{"updatedAt": time.Now().UTC()}
	for path, v := range fields {
		set[path] = v
	}
	return bson.M{"$set": set}
}
