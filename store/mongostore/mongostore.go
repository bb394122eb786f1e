// Package mongostore exposes a MongoDB collection as a goalter.Store.
package mongostore

import (
	"context"
	"errors"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	goalter "github.com/reoring/goalter"
)

// Finder is the part of *mongo.Collection the store uses.
type Finder interface {
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
}

var _ Finder = (*mongo.Collection)(nil)

// Store looks documents up with FindOne. The criteria key "id" queries
// "_id", and a 24-character hex string is matched as an ObjectID.
type Store struct {
	coll       Finder
	projection bson.M
}

var _ goalter.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithProjection limits the returned fields.
func WithProjection(fields ...string) Option {
	return func(s *Store) {
		s.projection = bson.M{}
		for _, f := range fields {
			s.projection[f] = 1
		}
	}
}

// New wraps coll, usually a *mongo.Collection.
func New(coll Finder, opts ...Option) *Store {
	s := &Store{coll: coll}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Get returns the first matching document as a plain tree, or (nil, nil) when
// the collection holds none.
func (s *Store) Get(ctx context.Context, c goalter.Criteria) (map[string]any, error) {
	field := c.Key
	if field == "" || field == goalter.DefaultKey {
		field = "_id"
	}
	var opts []*options.FindOneOptions
	if s.projection != nil {
		opts = append(opts, options.FindOne().SetProjection(s.projection))
	}
	var raw bson.M
	err := s.coll.FindOne(ctx, bson.M{field: queryValue(field, c.Value)}, opts...).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	doc := Plain(raw).(map[string]any)
	if id, ok := doc["_id"]; ok {
		if _, taken := doc[goalter.DefaultKey]; !taken {
			doc[goalter.DefaultKey] = id
		}
	}
	return doc, nil
}

// queryValue converts a document value to what the driver should match:
// ObjectID hex for _id, and integral float64 (the JSON number) to int64.
func queryValue(field string, v any) any {
	switch t := v.(type) {
	case string:
		if field == "_id" {
			if oid, err := primitive.ObjectIDFromHex(t); err == nil {
				return oid
			}
		}
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1<<53 {
			return int64(t)
		}
	case int:
		return int64(t)
	}
	return v
}

// Plain converts a decoded BSON value into the document tree model:
// documents become map[string]any, arrays []any, ObjectIDs hex strings and
// dates RFC 3339 strings.
func Plain(v any) any {
	switch t := v.(type) {
	case bson.M:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Plain(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Plain(e)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = Plain(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Plain(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Plain(e)
		}
		return out
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC().Format(time.RFC3339Nano)
	case primitive.Decimal128:
		return t.String()
	case int32:
		return int(t)
	case int64:
		return int(t)
	default:
		return v
	}
}
