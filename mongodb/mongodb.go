package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	IdeaCollection         = "idea_submissions"
	RejectedIdeaCollection = "rejected_ideas"
)

var (
	Client *mongo.Client
	DB     *mongo.Database
	Tx     TxRunner = DirectRunner{}
)

func Connect(uri string, database string, useTransactions bool) error {
	if Client != nil {
		return nil
	}
	opts := options.Client().ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetConnectTimeout(5 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return errors.Wrap(err, "ошибка подключения к MongoDB")
	}
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return errors.Wrap(err, "MongoDB не отвечает на ping")
	}
	Client = client
	DB = client.Database(database)
	Tx = NewTxRunner(client, useTransactions)
	if err = EnsureIndexes(ctx, DB); err != nil {
		return err
	}
	log.WithField("database", database).Info("Сервис успешно подключен к MongoDB")
	return nil
}

func Disconnect(ctx context.Context) {
	if Client == nil {
		return
	}
	if err := Client.Disconnect(ctx); err != nil {
		log.WithError(err).Error("ошибка отключения от MongoDB")
	}
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(IdeaCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "employeeId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{
			Keys:    bson.D{{Key: "relocation.requestedAt", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	})
	if err != nil {
		return errors.Wrap(err, "ошибка создания индексов idea_submissions")
	}
	_, err = db.Collection(RejectedIdeaCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "employeeId", Value: 1}}},
		{Keys: bson.D{{Key: "rejectedAt", Value: -1}}},
	})
	if err != nil {
		return errors.Wrap(err, "ошибка создания индексов rejected_ideas")
	}
	return nil
}
