package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDBConn struct {
	Client *mongo.Client

	database string
	opts     *options.ClientOptions
}

func (db *MongoDBConn) Connect() error {

	client, err := mongo.Connect(context.TODO(), db.opts)
	if err != nil {
		return err
	}

	db.Client = client

	return nil
}

func (db *MongoDBConn) Disconnect() error {
	return db.Client.Disconnect(context.TODO())
}

func (db *MongoDBConn) GetDatabase() *mongo.Database {
	return db.Client.Database(db.database)
}

func (db *MongoDBConn) GetCollection(collectionName string) *mongo.Collection {
	return db.GetDatabase().Collection(collectionName)
}

func New(uri string, database string) MongoDBConn {

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	return MongoDBConn{
		database: database,
		opts:     opts,
	}
}
