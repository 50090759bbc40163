package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/coursedesk/course-survey-mcp/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const scanCount = 200

// Client implements store.Store on top of a Redis hash per collection:
// doc:<collection> maps document id to its JSON encoding.
type Client struct {
	rdb    *redis.Client
	logger *zerolog.Logger
}

// Connect dials Redis with bounded retry and exponential backoff. The
// returned client is constructed once at process start and injected into
// every tool; there is no lazy re-connection afterwards.
func Connect(ctx context.Context, addr, password string, maxRetries int, logger *zerolog.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            addr,
		Password:        password,
		DB:              0,
		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
	})

	var err error
	for i := range maxRetries {
		if i > 0 {
			backoff := time.Duration(1<<uint(i)) * time.Second
			logger.Info().Dur("backoff", backoff).Msg("Waiting before Redis retry")
			time.Sleep(backoff)
		}

		logger.Info().Int("attempt", i+1).Int("max_retries", maxRetries).Msg("Connecting to Redis")

		err = rdb.Ping(ctx).Err()
		if err == nil {
			logger.Info().Int("attempts_needed", i+1).Msg("Redis connected")
			return &Client{rdb: rdb, logger: logger}, nil
		}

		logger.Warn().Err(err).Int("attempt", i+1).Msg("Redis ping failed")
	}

	return nil, fmt.Errorf("failed to connect to Redis after %d attempts: %w", maxRetries, err)
}

// New wraps an existing Redis client. Used by tests and the dataset CLI.
func New(rdb *redis.Client, logger *zerolog.Logger) *Client {
	return &Client{rdb: rdb, logger: logger}
}

func (c *Client) Close() error { return c.rdb.Close() }

func key(collection string) string { return "doc:" + collection }

func (c *Client) GetByID(ctx context.Context, collection, id string) (store.Document, error) {
	raw, err := c.rdb.HGet(ctx, key(collection), id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, &store.QueryError{Collection: collection, Query: "HGET " + key(collection), Err: err}
	}

	var doc store.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, &store.QueryError{Collection: collection, Query: "HGET " + key(collection), Err: err}
	}
	return doc, nil
}

// Query scans the collection hash and evaluates the conditions client-side.
// Without an OrderBy it stops as soon as Limit matches are collected; with
// one it has to see every match before sorting and capping.
func (c *Client) Query(ctx context.Context, collection string, q store.Query) ([]store.Document, error) {
	var matched []store.Document

	err := c.scan(ctx, collection, func(doc store.Document) bool {
		if !q.Matches(doc) {
			return true
		}
		matched = append(matched, doc)
		if q.OrderBy == "" && q.Limit > 0 && len(matched) >= q.Limit {
			return false
		}
		return true
	})
	if err != nil {
		return nil, &store.QueryError{Collection: collection, Query: q.String(), Err: err}
	}

	if q.OrderBy != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].Str(q.OrderBy) < matched[j].Str(q.OrderBy)
		})
		if q.Limit > 0 && len(matched) > q.Limit {
			matched = matched[:q.Limit]
		}
	}
	return matched, nil
}

func (c *Client) ListAll(ctx context.Context, collection string, maxItems int) ([]store.Document, error) {
	var docs []store.Document

	err := c.scan(ctx, collection, func(doc store.Document) bool {
		docs = append(docs, doc)
		return maxItems <= 0 || len(docs) < maxItems
	})
	if err != nil {
		return nil, &store.QueryError{Collection: collection, Query: "HSCAN " + key(collection), Err: err}
	}
	return docs, nil
}

func (c *Client) Upsert(ctx context.Context, collection string, doc store.Document) error {
	id := doc.ID()
	if id == "" {
		return fmt.Errorf("upsert into %s: document has no id", collection)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("upsert into %s: %w", collection, err)
	}
	return c.rdb.HSet(ctx, key(collection), id, raw).Err()
}

// scan walks the collection hash, calling fn per decoded document until fn
// returns false or the cursor is exhausted. Undecodable entries are logged
// and skipped rather than failing the whole read.
func (c *Client) scan(ctx context.Context, collection string, fn func(store.Document) bool) error {
	iter := c.rdb.HScan(ctx, key(collection), 0, "", scanCount).Iterator()
	for iter.Next(ctx) {
		// HSCAN alternates field and value.
		if !iter.Next(ctx) {
			break
		}
		raw := iter.Val()

		var doc store.Document
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			c.logger.Warn().Err(err).Str("collection", collection).Msg("Skipping undecodable document")
			continue
		}
		if !fn(doc) {
			return iter.Err()
		}
	}
	return iter.Err()
}
