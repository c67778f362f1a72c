// Package seathold keeps short-lived Redis holds on seats while a purchaser
// fills in passenger details. Holds soften the race between two buyers
// looking at the same seat map; the database unique index remains the hard
// guarantee.
package seathold

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Manager struct {
	rdb *redis.Client
	ttl time.Duration
}

// New builds a hold manager. A nil client yields a no-op manager, so
// deployments without Redis skip holds entirely.
func New(rdb *redis.Client, ttl time.Duration) *Manager {
	return &Manager{rdb: rdb, ttl: ttl}
}

// TTL returns how long an acquired hold lives.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func seatKey(tripID int64, seat string) string {
	return fmt.Sprintf("seats:%d:%s", tripID, seat)
}

// Acquire tries to hold every seat atomically and returns the hold token.
// If any seat is already held by someone else, nothing is held and ok is
// false.
func (m *Manager) Acquire(ctx context.Context, tripID int64, seats []string) (token string, ok bool, err error) {
	if m.rdb == nil {
		return "", true, nil
	}

	token = uuid.NewString()
	pipe := m.rdb.TxPipeline()
	for _, seat := range seats {
		pipe.SetNX(ctx, seatKey(tripID, seat), token, m.ttl)
	}
	cmds, err := pipe.Exec(ctx)
	if err != nil {
		return "", false, err
	}

	for _, cmd := range cmds {
		if !cmd.(*redis.BoolCmd).Val() {
			m.Release(ctx, tripID, seats, token)
			return "", false, nil
		}
	}
	return token, true, nil
}

// Validate reports whether the token still holds every seat.
func (m *Manager) Validate(ctx context.Context, tripID int64, seats []string, token string) (bool, error) {
	if m.rdb == nil {
		return true, nil
	}

	for _, seat := range seats {
		val, err := m.rdb.Get(ctx, seatKey(tripID, seat)).Result()
		if err == redis.Nil {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if val != token {
			return false, nil
		}
	}
	return true, nil
}

// Release drops the holds owned by token. Holds owned by someone else are
// left alone.
func (m *Manager) Release(ctx context.Context, tripID int64, seats []string, token string) error {
	if m.rdb == nil {
		return nil
	}

	pipe := m.rdb.TxPipeline()
	gets := make([]*redis.StringCmd, 0, len(seats))
	for _, seat := range seats {
		gets = append(gets, pipe.Get(ctx, seatKey(tripID, seat)))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return err
	}

	delPipe := m.rdb.Pipeline()
	pending := 0
	for i, cmd := range gets {
		if val, err := cmd.Result(); err == nil && val == token {
			delPipe.Del(ctx, seatKey(tripID, seats[i]))
			pending++
		}
	}
	if pending == 0 {
		return nil
	}
	_, err := delPipe.Exec(ctx)
	return err
}
