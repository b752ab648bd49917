package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/hack-community/hackmate/internal/domain/models"
)

// HackathonCache кэширует список доступных пользователю хакатонов.
// Счётчики участников в кэше могут отставать от базы не дольше TTL.
type HackathonCache interface {
	GetUnjoined(ctx context.Context, userID int64) ([]*models.HackathonWithCount, error)
	SetUnjoined(ctx context.Context, userID int64, hackathons []*models.HackathonWithCount) error
	Invalidate(ctx context.Context, userID int64) error
	InvalidateAll(ctx context.Context) error
}

type RedisHackathonCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisHackathonCache(redisURL, password string, db int, ttl time.Duration, logger *slog.Logger) (*RedisHackathonCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ошибка при подключении к Redis: %w", err)
	}

	logger.Info("Соединение с Redis успешно установлено")

	return &RedisHackathonCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

func unjoinedKey(userID int64) string {
	return fmt.Sprintf("hackathons:unjoined:%d", userID)
}

func (c *RedisHackathonCache) GetUnjoined(ctx context.Context, userID int64) ([]*models.HackathonWithCount, error) {
	data, err := c.client.Get(ctx, unjoinedKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}

		return nil, fmt.Errorf("ошибка при получении данных из Redis: %w", err)
	}

	var hackathons []*models.HackathonWithCount
	if err := json.Unmarshal(data, &hackathons); err != nil {
		return nil, fmt.Errorf("ошибка при десериализации данных из Redis: %w", err)
	}

	c.logger.Debug("Список хакатонов получен из кэша",
		"userID", userID,
		"count", len(hackathons),
	)

	return hackathons, nil
}

func (c *RedisHackathonCache) SetUnjoined(ctx context.Context, userID int64, hackathons []*models.HackathonWithCount) error {
	data, err := json.Marshal(hackathons)
	if err != nil {
		return fmt.Errorf("ошибка при сериализации данных для Redis: %w", err)
	}

	if err := c.client.Set(ctx, unjoinedKey(userID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("ошибка при записи данных в Redis: %w", err)
	}

	return nil
}

func (c *RedisHackathonCache) Invalidate(ctx context.Context, userID int64) error {
	if err := c.client.Del(ctx, unjoinedKey(userID)).Err(); err != nil {
		return fmt.Errorf("ошибка при удалении данных из Redis: %w", err)
	}

	return nil
}

// InvalidateAll сбрасывает кэш всех пользователей. Вызывается после импорта
// хакатонов, когда списки меняются для всех сразу.
func (c *RedisHackathonCache) InvalidateAll(ctx context.Context) error {
	keys, err := c.client.Keys(ctx, "hackathons:unjoined:*").Result()
	if err != nil {
		return fmt.Errorf("ошибка при поиске ключей в Redis: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("ошибка при удалении данных из Redis: %w", err)
	}

	return nil
}

func (c *RedisHackathonCache) Close() error {
	return c.client.Close()
}
