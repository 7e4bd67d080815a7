package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mind-mend-go/pkg/log"
)

var Mongo *mongo.Database

// InitMongo 初始化 MongoDB 连接并选择业务数据库
func InitMongo(uri, dbName string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatal("failed to connect mongodb", err)
	}

	// ping 确认连接可用
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("failed to ping mongodb", err)
	}

	Mongo = client.Database(dbName)
	log.Info("MongoDB connected successfully")
}
