package internal

import (
	"context"
	"fmt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"log"
	"wxpay/config"
	"wxpay/services"
)

const collectionLog = "payment_log"

// MongoDB stores log records of the payment client.
type MongoDB struct {
	clientOptions    *options.ClientOptions
	database         string
	logRecordsNumber int64
}

// NewMongoClient returns nil when the log database is disabled.
func NewMongoClient(conf *config.Config) (*MongoDB, error) {
	if !conf.Mongo.Enabled {
		return nil, nil
	}
	if conf.Mongo.Database == "" {
		return nil, fmt.Errorf("mongo database name is empty")
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	client := &MongoDB{
		clientOptions:    clientOptions,
		database:         conf.Mongo.Database,
		logRecordsNumber: conf.LogRecords,
	}
	return client, nil
}

func (m *MongoDB) connect(ctx context.Context) (*mongo.Client, error) {
	connection, err := mongo.Connect(ctx, m.clientOptions)
	if err != nil {
		return nil, err
	}
	return connection, nil
}

func (m *MongoDB) disconnect(ctx context.Context, connection *mongo.Client) {
	err := connection.Disconnect(ctx)
	if err != nil {
		log.Println("mongodb disconnect error", err)
	}
}

// WriteLogMessage inserts data and, when a record limit is set, drops the
// records beyond the newest logRecordsNumber.
func (m *MongoDB) WriteLogMessage(ctx context.Context, data services.Data) error {
	connection, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer m.disconnect(ctx, connection)

	collection := connection.Database(m.database).Collection(collectionLog)
	if _, err = collection.InsertOne(ctx, data); err != nil {
		return err
	}
	if m.logRecordsNumber > 0 {
		return m.trim(ctx, collection)
	}
	return nil
}

func (m *MongoDB) trim(ctx context.Context, collection *mongo.Collection) error {
	opts := options.FindOne().SetSort(bson.D{{Key: "time", Value: -1}}).SetSkip(m.logRecordsNumber)
	var oldest struct {
		Time interface{} `bson:"time"`
	}
	err := collection.FindOne(ctx, bson.D{}, opts).Decode(&oldest)
	if err == mongo.ErrNoDocuments {
		return nil
	}
	if err != nil {
		return err
	}
	filter := bson.D{{Key: "time", Value: bson.D{{Key: "$lte", Value: oldest.Time}}}}
	_, err = collection.DeleteMany(ctx, filter)
	return err
}
