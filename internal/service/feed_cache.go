package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/maheshrc27/postboard/internal/models"
	"github.com/redis/go-redis/v9"
)

// FeedCache holds converted feed records per client and source.
type FeedCache interface {
	Get(ctx context.Context, key string) ([]models.Post, bool)
	Set(ctx context.Context, key string, posts []models.Post)
}

func feedCacheKey(clientID string, channel models.Channel, limit int) string {
	return fmt.Sprintf("feed:%s:%s:%d", clientID, channel, limit)
}

type redisFeedCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisFeedCache(rdb *redis.Client, ttl time.Duration) FeedCache {
	return &redisFeedCache{rdb: rdb, ttl: ttl}
}

// Get treats every redis failure as a miss.
func (c *redisFeedCache) Get(ctx context.Context, key string) ([]models.Post, bool) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("feed cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	posts, err := decodeFeed(raw)
	if err != nil {
		slog.Warn("feed cache entry corrupt", "key", key, "error", err)
		return nil, false
	}
	return posts, true
}

func (c *redisFeedCache) Set(ctx context.Context, key string, posts []models.Post) {
	raw, err := encodeFeed(posts)
	if err != nil {
		slog.Info(err.Error())
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		slog.Warn("feed cache write failed", "key", key, "error", err)
	}
}

// cachedPost keeps the fields the API representation of a post hides.
type cachedPost struct {
	models.Post
	UserID string `json:"userId"`
}

func encodeFeed(posts []models.Post) ([]byte, error) {
	entries := make([]cachedPost, len(posts))
	for i, p := range posts {
		entries[i] = cachedPost{Post: p, UserID: p.UserID}
	}
	return json.Marshal(entries)
}

func decodeFeed(raw []byte) ([]models.Post, error) {
	var entries []cachedPost
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	posts := make([]models.Post, len(entries))
	for i, e := range entries {
		posts[i] = e.Post
		posts[i].UserID = e.UserID
	}
	return posts, nil
}
