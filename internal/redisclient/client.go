package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"voicepick-service/internal/models"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// CacheSession stores a session snapshot with TTL so dashboards can
// read live session state without hitting the machine
func (c *Client) CacheSession(ctx context.Context, session *models.PickingSession, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return c.rdb.Set(ctx, sessionKey(session.ID), data, ttl).Err()
}

// GetCachedSession retrieves a session snapshot, nil when absent
func (c *Client) GetCachedSession(ctx context.Context, sessionID string) (*models.PickingSession, error) {
	data, err := c.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session models.PickingSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// DropCachedSession removes a session snapshot
func (c *Client) DropCachedSession(ctx context.Context, sessionID string) error {
	return c.rdb.Del(ctx, sessionKey(sessionID)).Err()
}

// TrackActiveSession adds a session to the warehouse's active set
func (c *Client) TrackActiveSession(ctx context.Context, warehouseID int64, sessionID string) error {
	return c.rdb.SAdd(ctx, activeSessionsKey(warehouseID), sessionID).Err()
}

// UntrackActiveSession removes a session from the warehouse's active set
func (c *Client) UntrackActiveSession(ctx context.Context, warehouseID int64, sessionID string) error {
	return c.rdb.SRem(ctx, activeSessionsKey(warehouseID), sessionID).Err()
}

// CountActiveSessions counts live sessions in a warehouse
func (c *Client) CountActiveSessions(ctx context.Context, warehouseID int64) (int, error) {
	count, err := c.rdb.SCard(ctx, activeSessionsKey(warehouseID)).Result()
	return int(count), err
}

// IncrItemsPicked adds picked units to a worker's daily counter.
// HIncrBy is atomic, so concurrent workers never lose updates.
func (c *Client) IncrItemsPicked(ctx context.Context, warehouseID, workerID int64, quantity int) error {
	return c.rdb.HIncrBy(ctx, productivityKey(warehouseID, "items"), workerField(workerID), int64(quantity)).Err()
}

// IncrOrdersCompleted bumps a worker's completed-order counter
func (c *Client) IncrOrdersCompleted(ctx context.Context, warehouseID, workerID int64) error {
	return c.rdb.HIncrBy(ctx, productivityKey(warehouseID, "orders"), workerField(workerID), 1).Err()
}

// IncrCompletedToday bumps the warehouse-wide completion counter; the
// key expires at the end of the day it was created
func (c *Client) IncrCompletedToday(ctx context.Context, warehouseID int64) error {
	key := fmt.Sprintf("metrics:%d:completed:%s", warehouseID, time.Now().UTC().Format("2006-01-02"))
	pipe := c.rdb.Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 48*time.Hour)
	_, err := pipe.Exec(ctx)
	return err
}

// GetCompletedToday reads the warehouse-wide completion counter
func (c *Client) GetCompletedToday(ctx context.Context, warehouseID int64) (int, error) {
	key := fmt.Sprintf("metrics:%d:completed:%s", warehouseID, time.Now().UTC().Format("2006-01-02"))
	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	count, _ := strconv.Atoi(val)
	return count, nil
}

// GetWorkerProductivity reads both productivity hashes for a warehouse,
// keyed by worker ID
func (c *Client) GetWorkerProductivity(ctx context.Context, warehouseID int64) (map[int64]models.WorkerProductivity, error) {
	items, err := c.rdb.HGetAll(ctx, productivityKey(warehouseID, "items")).Result()
	if err != nil {
		return nil, err
	}
	orders, err := c.rdb.HGetAll(ctx, productivityKey(warehouseID, "orders")).Result()
	if err != nil {
		return nil, err
	}

	result := make(map[int64]models.WorkerProductivity)
	for field, val := range items {
		workerID, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		picked, _ := strconv.Atoi(val)
		p := result[workerID]
		p.WorkerID = workerID
		p.ItemsPicked = picked
		result[workerID] = p
	}
	for field, val := range orders {
		workerID, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		completed, _ := strconv.Atoi(val)
		p := result[workerID]
		p.WorkerID = workerID
		p.OrdersCompleted = completed
		result[workerID] = p
	}
	return result, nil
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func activeSessionsKey(warehouseID int64) string {
	return fmt.Sprintf("sessions:active:%d", warehouseID)
}

func productivityKey(warehouseID int64, kind string) string {
	return fmt.Sprintf("productivity:%d:%s", warehouseID, kind)
}

func workerField(workerID int64) string {
	return strconv.FormatInt(workerID, 10)
}
