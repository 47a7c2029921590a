// Package redis connects the scan idempotency store to its Redis backend.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// pingDeadline bounds the startup connectivity check so a missing Redis
// fails the boot fast instead of hanging.
const pingDeadline = 5 * time.Second

// Connect opens a client against addr/db and pings it before returning,
// so the server refuses to start with an unreachable idempotency store.
func Connect(ctx context.Context, addr string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingDeadline)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", addr, err)
	}

	return client, nil
}
