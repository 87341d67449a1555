package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/felipefantin/check-list-EPI/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
)

// InterfaceRedisService defines the Redis service interface
type InterfaceRedisService interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string, dest interface{}) error
	Delete(key string) error
	BlacklistToken(token string, ttl time.Duration) error
	IsTokenBlacklisted(token string) (bool, error)
	StoreResetToken(token string, userID uint, ttl time.Duration) error
	ConsumeResetToken(token string) (uint, error)
}

// RedisService handles Redis operations: the logout token blacklist,
// password reset tokens and ad hoc caching
type RedisService struct {
	Client *redis.Client
	Ctx    context.Context
}

// NewRedisService creates a new Redis service
func NewRedisService(cfg *config.Config) InterfaceRedisService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()

	return &RedisService{
		Client: client,
		Ctx:    ctx,
	}
}

// Set sets a key-value pair in Redis with expiration
func (s *RedisService) Set(key string, value interface{}, expiration time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.Client.Set(s.Ctx, key, jsonValue, expiration).Err()
}

// Get gets a value from Redis by key
func (s *RedisService) Get(key string, dest interface{}) error {
	val, err := s.Client.Get(s.Ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(val), dest)
}

// Delete deletes a key from Redis
func (s *RedisService) Delete(key string) error {
	return s.Client.Del(s.Ctx, key).Err()
}

// BlacklistToken marks a JWT as revoked until it would expire anyway
func (s *RedisService) BlacklistToken(token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	key := "token_blacklist:" + token
	return s.Client.Set(s.Ctx, key, "1", ttl).Err()
}

// IsTokenBlacklisted reports whether a JWT was revoked by logout
func (s *RedisService) IsTokenBlacklisted(token string) (bool, error) {
	key := "token_blacklist:" + token
	_, err := s.Client.Get(s.Ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// StoreResetToken stores a password reset token for a user
func (s *RedisService) StoreResetToken(token string, userID uint, ttl time.Duration) error {
	key := "reset_token:" + token
	return s.Client.Set(s.Ctx, key, fmt.Sprintf("%d", userID), ttl).Err()
}

// ConsumeResetToken resolves and deletes a reset token, returning the user ID
func (s *RedisService) ConsumeResetToken(token string) (uint, error) {
	key := "reset_token:" + token
	val, err := s.Client.Get(s.Ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrResetTokenInvalid
		}
		return 0, err
	}

	var userID uint
	if _, err := fmt.Sscanf(val, "%d", &userID); err != nil {
		return 0, ErrResetTokenInvalid
	}

	if err := s.Client.Del(s.Ctx, key).Err(); err != nil {
		return 0, err
	}
	return userID, nil
}
