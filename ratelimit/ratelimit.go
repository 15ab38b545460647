// Copyright (c) 2026, WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package ratelimit implements a per-organization sliding-window limiter on
// Redis sorted sets. Availability is prioritised over quota precision: when
// Redis is unreachable the limiter fails open and ingestion proceeds.
package ratelimit

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aiqa-platform/evaluation-service/middleware/logger"
)

const (
	window    = time.Hour
	keyExpiry = 2 * time.Hour
	keyPrefix = "rate_limit:span:"
)

// Status is the outcome of a quota check
type Status struct {
	Allowed   bool
	Remaining int64
	ResetAt   time.Time
}

// Limiter enforces the per-organization span-ingestion quota
type Limiter struct {
	client redis.UniversalClient
}

// New builds a limiter over an existing Redis client
func New(client redis.UniversalClient) *Limiter {
	return &Limiter{client: client}
}

// NewFromURL connects to Redis from a redis:// URL
func NewFromURL(redisURL string) (*Limiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return New(redis.NewClient(opts)), nil
}

// Close releases the underlying client
func (l *Limiter) Close() error {
	return l.client.Close()
}

func key(orgID string) string {
	return keyPrefix + orgID
}

// Check evicts window-expired entries, counts the remainder and reports
// whether one more ingestion is allowed. A nil result means the backing store
// was unreachable and the caller should proceed (fail open).
func (l *Limiter) Check(ctx context.Context, orgID string, limit int64) *Status {
	now := time.Now()
	k := key(orgID)
	cutoff := now.Add(-window)

	if err := l.client.ZRemRangeByScore(ctx, k, "0", fmt.Sprintf("%d", cutoff.UnixMilli())).Err(); err != nil {
		logger.GetLogger(ctx).Warn("ratelimit: eviction failed, failing open", "error", err)
		return nil
	}

	count, err := l.client.ZCard(ctx, k).Result()
	if err != nil {
		logger.GetLogger(ctx).Warn("ratelimit: count failed, failing open", "error", err)
		return nil
	}

	resetAt := now.Add(window)
	if count > 0 {
		oldest, err := l.client.ZRangeWithScores(ctx, k, 0, 0).Result()
		if err != nil {
			logger.GetLogger(ctx).Warn("ratelimit: oldest lookup failed, failing open", "error", err)
			return nil
		}
		if len(oldest) > 0 {
			resetAt = time.UnixMilli(int64(oldest[0].Score)).Add(window)
		}
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return &Status{
		Allowed:   count < limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}

// Record inserts n timestamped entries and refreshes the key expiry. Member
// names carry a random suffix so concurrent inserts within the same
// millisecond do not collapse into one entry.
func (l *Limiter) Record(ctx context.Context, orgID string, n int64) {
	if n <= 0 {
		return
	}
	now := time.Now().UnixMilli()
	k := key(orgID)

	members := make([]redis.Z, n)
	for i := int64(0); i < n; i++ {
		members[i] = redis.Z{
			Score:  float64(now),
			Member: fmt.Sprintf("%d-%d-%d", now, i, rand.Int63()),
		}
	}

	pipe := l.client.TxPipeline()
	pipe.ZAdd(ctx, k, members...)
	pipe.Expire(ctx, k, keyExpiry)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.GetLogger(ctx).Warn("ratelimit: record failed", "error", err)
	}
}
