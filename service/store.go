package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/TIANLI0/LayerStudio/config"
	"github.com/TIANLI0/LayerStudio/model"
	"github.com/TIANLI0/LayerStudio/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const projectKeyPrefix = "project:"

// ProjectStore 项目文档的窄存取接口。引擎保持纯函数库，
// 所有状态都通过这里注入的存储进出。
type ProjectStore interface {
	// Get 按 ID 读取项目，未找到返回 (nil, nil)
	Get(ctx context.Context, id string) (*model.Project, error)
	// Put 写入（新建或覆盖）项目文档
	Put(ctx context.Context, p *model.Project) error
	// Delete 删除项目，返回是否存在
	Delete(ctx context.Context, id string) (bool, error)
	// List 列出所有项目的摘要
	List(ctx context.Context) ([]model.ProjectSummary, error)
	Close() error
}

// RedisStore 基于 Redis 的项目存储，文档整体以 JSON 存取
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(cfg *config.RedisConfig) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisStore{
		client: client,
		ttl:    cfg.TTL,
	}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (*model.Project, error) {
	data, err := s.client.Get(ctx, projectKeyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var p model.Project
	if err := json.Unmarshal(data, &p); err != nil {
		utils.Logger.Error("failed to unmarshal project",
			zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return &p, nil
}

func (s *RedisStore) Put(ctx context.Context, p *model.Project) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, projectKeyPrefix+p.ID, data, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Del(ctx, projectKeyPrefix+id).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisStore) List(ctx context.Context) ([]model.ProjectSummary, error) {
	summaries := make([]model.ProjectSummary, 0)

	iter := s.client.Scan(ctx, 0, projectKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			if err == redis.Nil {
				continue // 扫描到但已过期
			}
			return nil, err
		}
		var p model.Project
		if err := json.Unmarshal(data, &p); err != nil {
			utils.Logger.Warn("skipping corrupt project document",
				zap.String("key", iter.Val()), zap.Error(err))
			continue
		}
		summaries = append(summaries, p.Summary())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
