package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tomwhitfield/journeyplanner/internal/models"
)

// RedisStore backs sessions with Redis so re-sort requests can land on any
// replica.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Host: "localhost",
		Port: "6379",
		TTL:  30 * time.Minute,
	}
}

func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{
		client: client,
		ttl:    cfg.TTL,
	}, nil
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*models.SearchOutcome, bool) {
	data, err := s.client.Get(ctx, key(sessionID)).Bytes()
	if err != nil {
		return nil, false
	}

	var outcome models.SearchOutcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		return nil, false
	}
	return &outcome, true
}

func (s *RedisStore) Put(ctx context.Context, sessionID string, outcome *models.SearchOutcome) error {
	data, err := json.Marshal(outcome)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key(sessionID), data, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, key(sessionID)).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func key(sessionID string) string {
	return "journey:session:" + sessionID
}
