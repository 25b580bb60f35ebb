package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gamezilla/storefront/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

// GameCache is a read-through cache for single-game catalog lookups. TTLs
// carry a small jitter so a burst of writes does not expire as one.
type GameCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewGameCache(client *redis.Client) *GameCache {
	return &GameCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

func (c *GameCache) Get(ctx context.Context, gameID int64) (*domain.Game, error) {
	data, err := c.client.Get(ctx, gameKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var game domain.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, fmt.Errorf("unmarshal game failed: %w", err)
	}

	return &game, nil
}

func (c *GameCache) Set(ctx context.Context, game *domain.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("marshal game failed: %w", err)
	}

	ttl := c.baseTTL + time.Duration(rand.Intn(5))*time.Minute
	if err := c.client.Set(ctx, gameKey(game.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *GameCache) Delete(ctx context.Context, gameID int64) error {
	if err := c.client.Del(ctx, gameKey(gameID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}

	return nil
}

func gameKey(gameID int64) string {
	return fmt.Sprintf("game:%d", gameID)
}
