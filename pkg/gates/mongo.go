package gates

import (
	"context"
	stderrors "errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/flowplot/pkg/errors"
)

// MongoConfig configures a [MongoStore].
type MongoConfig struct {
	URI        string
	Database   string // default "flowplot"
	Collection string // default "gates"
}

// MongoStore keeps one document per gate, keyed by the gate ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects and pings the deployment.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "flowplot"
	}
	if cfg.Collection == "" {
		cfg.Collection = "gates"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongo")
	}
	return &MongoStore{client: client, coll: client.Database(cfg.Database).Collection(cfg.Collection)}, nil
}

func (m *MongoStore) StyleFor(ctx context.Context, id string) (Style, error) {
	var s Style
	err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return Style{}, notFound(id)
	}
	if err != nil {
		return Style{}, errors.Wrap(errors.ErrCodeStore, err, "get gate %q", id)
	}
	return s, nil
}

func (m *MongoStore) SetColor(ctx context.Context, id, color string) error {
	if err := errors.ValidateColor(color); err != nil {
		return err
	}
	res, err := m.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"stroke": color, "fill": color}},
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "set colour of gate %q", id)
	}
	if res.MatchedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (m *MongoStore) List(ctx context.Context) ([]Style, error) {
	cur, err := m.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list gates")
	}
	var out []Style
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode gates")
	}
	return out, nil
}

func (m *MongoStore) Put(ctx context.Context, s Style) error {
	if err := validate(s); err != nil {
		return err
	}
	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": s.ID}, s, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "put gate %q", s.ID)
	}
	return nil
}

func (m *MongoStore) Close() error {
	return m.client.Disconnect(context.Background())
}
