package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/panaderia/registros/backend/internal/registro"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/datatypes"
)

const counterKey = "registros"

// MongoRepo implements Repository on a MongoDB collection. Integer ids come
// from a sequence document in the counters collection.
type MongoRepo struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewMongoRepo(db *mongo.Database, collection string) *MongoRepo {
	col := db.Collection(collection)
	// list ordering and date filters both hit these
	idx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "fecha", Value: 1}}},
	}
	_, _ = col.Indexes().CreateMany(context.Background(), idx)
	return &MongoRepo{col: col, counters: db.Collection("counters")}
}

func (m *MongoRepo) nextID(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var seq struct {
		Seq int64 `bson:"seq"`
	}
	err := m.counters.FindOneAndUpdate(ctx, bson.M{"_id": counterKey}, bson.M{"$inc": bson.M{"seq": int64(1)}}, opts).Decode(&seq)
	if err != nil {
		return 0, fmt.Errorf("next registro id: %w", err)
	}
	return seq.Seq, nil
}

func (m *MongoRepo) Create(ctx context.Context, r *registro.Registro) error {
	id, err := m.nextID(ctx)
	if err != nil {
		return err
	}
	r.ID = id
	// mongo keeps millisecond precision
	r.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if r.Data == nil {
		r.Data = datatypes.JSONMap{}
	}
	_, err = m.col.InsertOne(ctx, r)
	return err
}

func (m *MongoRepo) FindByID(ctx context.Context, id int64) (*registro.Registro, error) {
	var r registro.Registro
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	normalizeRegistro(&r)
	return &r, nil
}

func (m *MongoRepo) List(ctx context.Context, opts ListOptions) ([]*registro.Registro, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if opts.Take != nil {
		findOpts.SetLimit(int64(*opts.Take))
	}
	if opts.Skip != nil {
		findOpts.SetSkip(int64(*opts.Skip))
	}
	cur, err := m.col.Find(ctx, dateFilter(opts), findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*registro.Registro{}
	for cur.Next(ctx) {
		var r registro.Registro
		if err := cur.Decode(&r); err != nil {
			return nil, err
		}
		normalizeRegistro(&r)
		out = append(out, &r)
	}
	return out, cur.Err()
}

func (m *MongoRepo) Count(ctx context.Context, opts ListOptions) (int64, error) {
	return m.col.CountDocuments(ctx, dateFilter(opts))
}

func (m *MongoRepo) UpdateData(ctx context.Context, id int64, data datatypes.JSONMap) error {
	res, err := m.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"data": data}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Delete(ctx context.Context, id int64) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := m.col.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func dateFilter(opts ListOptions) bson.M {
	rng := bson.M{}
	if opts.Desde != "" {
		rng["$gte"] = opts.Desde
	}
	if opts.Hasta != "" {
		rng["$lte"] = opts.Hasta
	}
	if len(rng) == 0 {
		return bson.M{}
	}
	return bson.M{"fecha": rng}
}

func normalizeRegistro(r *registro.Registro) {
	if r.Data == nil {
		return
	}
	for k, v := range r.Data {
		r.Data[k] = normalizeBSON(v)
	}
}

// normalizeBSON turns decoded BSON containers back into the plain
// map[string]any / []any shapes that JSON decoding produces.
func normalizeBSON(v any) any {
	switch t := v.(type) {
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeBSON(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeBSON(e)
		}
		return out
	case primitive.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = normalizeBSON(e.Value)
		}
		return out
	case primitive.M:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalizeBSON(e)
		}
		return out
	case datatypes.JSONMap:
		return normalizeBSON(map[string]any(t))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalizeBSON(e)
		}
		return out
	}
	return v
}
