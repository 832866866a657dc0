package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ratify/ratify-web/internal/core/domain"
	"github.com/ratify/ratify-web/internal/core/ports"
)

const preferencesCollection = "preferences"

// PreferenceRepository implements ports.PreferenceRepository. Each key of a
// client is one document.
type PreferenceRepository struct {
	col *mongo.Collection
	now func() time.Time
}

var _ ports.PreferenceRepository = (*PreferenceRepository)(nil)

func NewPreferenceRepository(db *mongo.Database) *PreferenceRepository {
	return &PreferenceRepository{col: db.Collection(preferencesCollection), now: time.Now}
}

type preferenceDoc struct {
	ClientID  string    `bson:"client_id"`
	Key       string    `bson:"key"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Load returns every stored preference of clientID. A client without
// documents gets an empty map.
func (r *PreferenceRepository) Load(ctx context.Context, clientID string) (domain.Preferences, error) {
	cur, err := r.col.Find(ctx, bson.M{"client_id": clientID})
	if err != nil {
		return nil, fmt.Errorf("find preferences: %w", err)
	}
	defer cur.Close(ctx)

	var docs []preferenceDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}
	return toPreferences(docs), nil
}

// Save upserts one key.
func (r *PreferenceRepository) Save(ctx context.Context, clientID, key, value string) error {
	filter := bson.M{"client_id": clientID, "key": key}
	update := bson.M{"$set": bson.M{
		"value":      value,
		"updated_at": r.now().UTC(),
	}}
	if _, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("save preference %s: %w", key, err)
	}
	return nil
}

// EnsureIndexes creates the unique (client_id, key) index.
func (r *PreferenceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "client_id", Value: 1}, {Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func toPreferences(docs []preferenceDoc) domain.Preferences {
	out := make(domain.Preferences, len(docs))
	for _, d := range docs {
		out[d.Key] = d.Value
	}
	return out
}
