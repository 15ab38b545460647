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

package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client), mr
}

func TestCheckAllowsUnderLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	status := limiter.Check(ctx, "org-1", 5)
	require.NotNil(t, status)
	assert.True(t, status.Allowed)
	assert.Equal(t, int64(5), status.Remaining)
}

func TestCheckDeniesAtLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	limiter.Record(ctx, "org-1", 4)
	status := limiter.Check(ctx, "org-1", 5)
	require.NotNil(t, status)
	assert.True(t, status.Allowed)
	assert.Equal(t, int64(1), status.Remaining)

	limiter.Record(ctx, "org-1", 1)
	status = limiter.Check(ctx, "org-1", 5)
	require.NotNil(t, status)
	assert.False(t, status.Allowed)
	assert.Equal(t, int64(0), status.Remaining)
}

func TestCheckEvictsOldEntries(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	ctx := context.Background()

	limiter.Record(ctx, "org-1", 5)
	status := limiter.Check(ctx, "org-1", 5)
	require.NotNil(t, status)
	assert.False(t, status.Allowed)

	// After the window passes the old entries no longer count
	mr.FastForward(61 * time.Minute)
	status = limiter.Check(ctx, "org-1", 5)
	require.NotNil(t, status)
	assert.True(t, status.Allowed)
	assert.Equal(t, int64(5), status.Remaining)
}

func TestCheckIsolatesOrganizations(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	limiter.Record(ctx, "org-1", 3)
	status := limiter.Check(ctx, "org-2", 3)
	require.NotNil(t, status)
	assert.True(t, status.Allowed)
	assert.Equal(t, int64(3), status.Remaining)
}

func TestRecordConcurrentInsertsAllCount(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			limiter.Record(ctx, "org-1", 1)
		}()
	}
	wg.Wait()

	status := limiter.Check(ctx, "org-1", 100)
	require.NotNil(t, status)
	assert.Equal(t, int64(80), status.Remaining)
}

func TestConcurrentCheckRecordSoundness(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	const limit = 10
	const workers = 4
	const attempts = 20

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < attempts; i++ {
				status := limiter.Check(ctx, "org-1", limit)
				if status != nil && status.Allowed {
					allowed.Add(1)
					limiter.Record(ctx, "org-1", 1)
				}
			}
		}()
	}
	wg.Wait()

	// check-then-record admits at most one extra request per concurrent worker
	assert.LessOrEqual(t, allowed.Load(), int64(limit+workers))
	assert.GreaterOrEqual(t, allowed.Load(), int64(limit))
}

func TestFailOpenWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	limiter := New(client)

	mr.Close()
	status := limiter.Check(context.Background(), "org-1", 5)
	assert.Nil(t, status)
}

func TestRecordZeroIsNoop(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	limiter.Record(ctx, "org-1", 0)
	status := limiter.Check(ctx, "org-1", 1)
	require.NotNil(t, status)
	assert.Equal(t, int64(1), status.Remaining)
}

func TestResetAtDerivedFromOldestEntry(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	before := time.Now()
	limiter.Record(ctx, "org-1", 1)
	status := limiter.Check(ctx, "org-1", 5)
	require.NotNil(t, status)

	assert.WithinDuration(t, before.Add(time.Hour), status.ResetAt, 5*time.Second)
}
