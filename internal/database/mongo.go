// Package database keeps the store snapshot in MongoDB or MySQL as a single record.
package database

import (
	"context"
	"errors"
	"fmt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"tourneybot/entity"
	"tourneybot/internal/config"
)

const (
	collectionState = "tournament_state"
	stateDocumentID = "state"
)

type stateDocument struct {
	ID              string `bson:"_id"`
	entity.Snapshot `bson:",inline"`
}

type MongoDB struct {
	clientOptions *options.ClientOptions
	database      string
}

func NewMongoClient(conf *config.Config) *MongoDB {
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	return &MongoDB{
		clientOptions: clientOptions,
		database:      conf.Mongo.Database,
	}
}

func (m *MongoDB) connect(ctx context.Context) (*mongo.Client, error) {
	connection, err := mongo.Connect(ctx, m.clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	return connection, nil
}

func (m *MongoDB) disconnect(ctx context.Context, connection *mongo.Client) {
	_ = connection.Disconnect(ctx)
}

// Load returns nil, nil when the state document has never been written.
func (m *MongoDB) Load(ctx context.Context) (*entity.Snapshot, error) {
	connection, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer m.disconnect(ctx, connection)

	collection := connection.Database(m.database).Collection(collectionState)
	filter := bson.D{{Key: "_id", Value: stateDocumentID}}
	var doc stateDocument
	err = collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb find: %w", err)
	}
	snapshot := doc.Snapshot
	snapshot.Normalize()
	return &snapshot, nil
}

func (m *MongoDB) Save(ctx context.Context, snapshot *entity.Snapshot) error {
	connection, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer m.disconnect(ctx, connection)

	collection := connection.Database(m.database).Collection(collectionState)
	filter := bson.D{{Key: "_id", Value: stateDocumentID}}
	doc := stateDocument{ID: stateDocumentID, Snapshot: *snapshot}
	opts := options.Replace().SetUpsert(true)
	if _, err = collection.ReplaceOne(ctx, filter, doc, opts); err != nil {
		return fmt.Errorf("mongodb replace: %w", err)
	}
	return nil
}
