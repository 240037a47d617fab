package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/examhall/examhall-backend/internal/config"
	"github.com/examhall/examhall-backend/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisSessionRegistry keeps the active JTI per student under session:student:<id>.
type RedisSessionRegistry struct {
	rdb *redis.Client
}

func NewRedisSessionRegistry(rdb *redis.Client) *RedisSessionRegistry {
	return &RedisSessionRegistry{rdb: rdb}
}

func (r *RedisSessionRegistry) Register(ctx context.Context, studentID uuid.UUID, jti string, ttl time.Duration) error {
	return r.rdb.Set(ctx, config.CacheKey.StudentSessionKey(studentID.String()), jti, ttl).Err()
}

func (r *RedisSessionRegistry) Current(ctx context.Context, studentID uuid.UUID) (string, error) {
	jti, err := r.rdb.Get(ctx, config.CacheKey.StudentSessionKey(studentID.String())).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return jti, err
}

func (r *RedisSessionRegistry) Revoke(ctx context.Context, studentID uuid.UUID) error {
	return r.rdb.Del(ctx, config.CacheKey.StudentSessionKey(studentID.String())).Err()
}

// RedisPaperCache stores the redacted paper as JSON under exam:<id>:paper.
type RedisPaperCache struct {
	rdb *redis.Client
}

func NewRedisPaperCache(rdb *redis.Client) *RedisPaperCache {
	return &RedisPaperCache{rdb: rdb}
}

func (c *RedisPaperCache) Get(ctx context.Context, examID uuid.UUID) (*model.ExamPaper, bool, error) {
	raw, err := c.rdb.Get(ctx, config.CacheKey.ExamPaperKey(examID.String())).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var paper model.ExamPaper
	if err := json.Unmarshal(raw, &paper); err != nil {
		return nil, false, fmt.Errorf("decode cached paper: %w", err)
	}
	return &paper, true, nil
}

func (c *RedisPaperCache) Set(ctx context.Context, paper *model.ExamPaper, ttl time.Duration) error {
	raw, err := json.Marshal(paper)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, config.CacheKey.ExamPaperKey(paper.ExamID.String()), raw, ttl).Err()
}

func (c *RedisPaperCache) Invalidate(ctx context.Context, examID uuid.UUID) error {
	return c.rdb.Del(ctx, config.CacheKey.ExamPaperKey(examID.String())).Err()
}

// RedisMonitorPublisher publishes monitor events on exam:<id>:monitor.
type RedisMonitorPublisher struct {
	rdb *redis.Client
}

func NewRedisMonitorPublisher(rdb *redis.Client) *RedisMonitorPublisher {
	return &RedisMonitorPublisher{rdb: rdb}
}

func (p *RedisMonitorPublisher) Publish(ctx context.Context, evt model.MonitorEvent) error {
	raw, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, config.CacheKey.ExamMonitorChannel(evt.ExamID.String()), raw).Err()
}

// RedisEventQueue pushes integrity events onto the list drained by worker.EventWorker.
type RedisEventQueue struct {
	rdb *redis.Client
}

func NewRedisEventQueue(rdb *redis.Client) *RedisEventQueue {
	return &RedisEventQueue{rdb: rdb}
}

func (q *RedisEventQueue) Enqueue(ctx context.Context, evt model.AttemptEvent) error {
	raw, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return q.rdb.RPush(ctx, config.WorkerKey.PersistAttemptEventsQueue, raw).Err()
}
