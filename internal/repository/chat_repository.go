// Package repository 提供了数据访问层的实现。
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mind-mend-go/internal/model"
	"mind-mend-go/pkg/log"
)

// recordCacheTTL 与凭证有效期对齐：7 天
const recordCacheTTL = 7 * 24 * time.Hour

// ChatRepository 定义了对每用户对话文档的操作接口。
type ChatRepository interface {
	// GetRecord 获取用户的对话文档；文档不存在时返回 (nil, nil)。
	GetRecord(ctx context.Context, uid string) (*model.ConversationRecord, error)
	// AppendTurn 以 upsert 方式向用户文档追加一轮对话，文档不存在则创建。
	AppendTurn(ctx context.Context, uid string, turn model.Turn) error
	// SetProgress 覆盖最新进展快照，并向历史追加一份带服务端时间戳的副本。
	SetProgress(ctx context.Context, uid string, score model.ProgressScore) error
}

type mongoChatRepository struct {
	collection  *mongo.Collection
	redisClient *redis.Client
}

// NewChatRepository 创建一个新的 ChatRepository 实例。
// 读取经过 Redis 缓存加速，写入后使缓存失效；缓存故障只降级，不影响正确性。
func NewChatRepository(db *mongo.Database, redisClient *redis.Client) ChatRepository {
	return &mongoChatRepository{
		collection:  db.Collection("chats"),
		redisClient: redisClient,
	}
}

func cacheKey(uid string) string {
	return fmt.Sprintf("chat:%s:record", uid)
}

// GetRecord 先查缓存，未命中时回源 MongoDB 并回填缓存。
func (r *mongoChatRepository) GetRecord(ctx context.Context, uid string) (*model.ConversationRecord, error) {
	if cached, err := r.redisClient.Get(ctx, cacheKey(uid)).Result(); err == nil {
		var record model.ConversationRecord
		if err := json.Unmarshal([]byte(cached), &record); err == nil {
			return &record, nil
		}
		// 缓存内容损坏时丢弃并回源
		log.Warnf("[ChatRepository] 缓存记录反序列化失败, uid: %s", uid)
	} else if err != redis.Nil {
		log.Warnf("[ChatRepository] 读取缓存失败, uid: %s, error: %v", uid, err)
	}

	var record model.ConversationRecord
	err := r.collection.FindOne(ctx, bson.M{"uid": uid}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation record: %w", err)
	}

	r.fillCache(ctx, uid, &record)
	return &record, nil
}

// AppendTurn 用单次 $push + $setOnInsert 的 upsert 完成“不存在则创建”，
// 避免先查再写在并发首轮对话下的竞态。
func (r *mongoChatRepository) AppendTurn(ctx context.Context, uid string, turn model.Turn) error {
	update := bson.M{
		"$push":        bson.M{"chats": turn},
		"$setOnInsert": bson.M{"uid": uid},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"uid": uid}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to append turn: %w", err)
	}

	r.invalidateCache(ctx, uid)
	return nil
}

// SetProgress 在同一次文档更新中覆盖快照并追加历史，时间戳由服务端生成。
func (r *mongoChatRepository) SetProgress(ctx context.Context, uid string, score model.ProgressScore) error {
	entry := model.ProgressEntry{
		ProgressScore: score,
		Timestamp:     time.Now(),
	}
	update := bson.M{
		"$set":  bson.M{"progressData": score},
		"$push": bson.M{"progressHistory": entry},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"uid": uid}, update)
	if err != nil {
		return fmt.Errorf("failed to set progress: %w", err)
	}

	r.invalidateCache(ctx, uid)
	return nil
}

func (r *mongoChatRepository) fillCache(ctx context.Context, uid string, record *model.ConversationRecord) {
	jsonData, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := r.redisClient.Set(ctx, cacheKey(uid), jsonData, recordCacheTTL).Err(); err != nil {
		log.Warnf("[ChatRepository] 写入缓存失败, uid: %s, error: %v", uid, err)
	}
}

func (r *mongoChatRepository) invalidateCache(ctx context.Context, uid string) {
	if err := r.redisClient.Del(ctx, cacheKey(uid)).Err(); err != nil {
		log.Warnf("[ChatRepository] 删除缓存失败, uid: %s, error: %v", uid, err)
	}
}
