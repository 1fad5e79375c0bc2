package distributed_lock

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLock(t *testing.T) {
	ctx := context.Background()
	lock := NewLocalLock()

	ok, err := lock.TryLock(ctx, "refresh", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lock.TryLock(ctx, "refresh", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "锁已被持有")

	require.NoError(t, lock.Unlock(ctx, "refresh"))
	ok, _ = lock.TryLock(ctx, "refresh", time.Minute)
	assert.True(t, ok, "释放后可再次获取")
}

func TestLocalLock_Expiry(t *testing.T) {
	ctx := context.Background()
	lock := NewLocalLock()

	ok, _ := lock.TryLock(ctx, "refresh", time.Millisecond)
	require.True(t, ok)
	time.Sleep(5 * time.Millisecond)

	ok, _ = lock.TryLock(ctx, "refresh", time.Minute)
	assert.True(t, ok, "过期后可再次获取")
}

func TestLockExecutor(t *testing.T) {
	ctx := context.Background()
	lock := NewLocalLock()
	executor := NewLockExecutor(lock)

	calls := 0
	ran, err := executor.ExecuteWithLock(ctx, "refresh", time.Minute, func() error {
		calls++
		// 执行期间锁被持有
		nested, err := executor.ExecuteWithLock(ctx, "refresh", time.Minute, func() error {
			calls++
			return nil
		})
		assert.False(t, nested)
		return err
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 1, calls)

	boom := errors.New("boom")
	ran, err = executor.ExecuteWithLock(ctx, "refresh", time.Minute, func() error { return boom })
	assert.True(t, ran, "锁在上次执行后已释放")
	assert.ErrorIs(t, err, boom)
}

func TestRedisLock(t *testing.T) {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	client := redis.NewClient(&redis.Options{Addr: host + ":6379", Password: os.Getenv("REDIS_PASSWORD")})
	defer client.Close()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis不可用，跳过: %v", err)
	}

	key := "test-" + time.Now().Format("150405.000000")
	first, second := NewRedisLock(client), NewRedisLock(client)
	second.instanceID = "other-instance"

	ok, err := first.TryLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = second.TryLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// 非持有者释放不生效
	require.NoError(t, second.Unlock(ctx, key))
	ok, _ = second.TryLock(ctx, key, time.Minute)
	assert.False(t, ok)

	require.NoError(t, first.Unlock(ctx, key))
	ok, _ = second.TryLock(ctx, key, time.Minute)
	assert.True(t, ok)
	require.NoError(t, second.Unlock(ctx, key))
}
