// Package cache menyimpan detail course (course + roster siswa) di Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/ahmadqo/student-course-roster/internal/config"
	"github.com/ahmadqo/student-course-roster/internal/model"
)

const courseDetailPrefix = "course:detail:"

func courseDetailKey(id uuid.UUID) string {
	return courseDetailPrefix + id.String()
}

// NewRedisClient membuat client dan memastikan server bisa di-ping
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

type CourseCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCourseCache(client *redis.Client, ttl time.Duration) *CourseCache {
	return &CourseCache{client: client, ttl: ttl}
}

// GetDetail mengembalikan nil tanpa error jika key tidak ada
func (c *CourseCache) GetDetail(ctx context.Context, id uuid.UUID) (*model.CourseDetail, error) {
	data, err := c.client.Get(ctx, courseDetailKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get course detail from Redis: %w", err)
	}

	var detail model.CourseDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		// data rusak, buang saja
		log.Printf("Dropping corrupt cache entry for course %s: %v", id, err)
		c.client.Del(ctx, courseDetailKey(id))
		return nil, nil
	}
	return &detail, nil
}

func (c *CourseCache) SetDetail(ctx context.Context, detail *model.CourseDetail) error {
	data, err := json.Marshal(detail)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, courseDetailKey(detail.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store course detail in Redis: %w", err)
	}
	return nil
}

func (c *CourseCache) Invalidate(ctx context.Context, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, courseDetailKey(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate course cache: %w", err)
	}
	return nil
}
