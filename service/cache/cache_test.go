package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"ro5-service/service/models"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(smiles ...string) *models.CompoundTable {
	t := &models.CompoundTable{Columns: []string{"generic_name", "smiles"}}
	for i, s := range smiles {
		t.Records = append(t.Records, models.CompoundRecord{Name: string(rune('A' + i)), Smiles: s})
	}
	return t
}

func TestContentHash(t *testing.T) {
	a := ContentHash(sampleTable("CCO", "C"))
	assert.Len(t, a, 64)
	assert.Equal(t, a, ContentHash(sampleTable("CCO", "C")), "相同内容摘要一致")
	assert.NotEqual(t, a, ContentHash(sampleTable("C", "CCO")), "顺序变化摘要不同")
	assert.NotEqual(t, a, ContentHash(sampleTable("CCO", "CC")))
	assert.Equal(t, ContentHash(nil), ContentHash(&models.CompoundTable{}))

	withFields := sampleTable("CCO", "C")
	withFields.Records[0].Fields = models.JSONB{"cas": "64-17-5"}
	assert.Equal(t, a, ContentHash(withFields), "附加列不影响摘要")
}

func TestKey(t *testing.T) {
	assert.Equal(t, "ro5:augmented:abc:toolkit-v1", Key("abc", "toolkit-v1"))
}

func TestNop(t *testing.T) {
	var c Cache = Nop{}
	require.NoError(t, c.Put(context.Background(), "k", []models.AugmentedCompound{{}}))
	got, found, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
}

// setupTestRedis 连接测试 Redis，不可用时跳过
func setupTestRedis(t *testing.T) *redis.Client {
	cfg := RedisConfig{Host: "localhost", Port: "6379", Password: os.Getenv("REDIS_PASSWORD")}
	if host := os.Getenv("REDIS_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("REDIS_PORT"); port != "" {
		cfg.Port = port
	}
	client, err := NewRedisClient(cfg)
	if err != nil {
		t.Skipf("Redis不可用，跳过: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisCache_RoundTrip(t *testing.T) {
	client := setupTestRedis(t)
	c := NewRedisCache(client, time.Minute)
	ctx := context.Background()
	key := Key("test-"+time.Now().Format("150405.000000"), "toolkit-v1")
	t.Cleanup(func() { client.Del(ctx, key) })

	_, found, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	augmented := []models.AugmentedCompound{{
		CompoundRecord: models.CompoundRecord{Name: "Ethanol", Smiles: "CCO"},
		Descriptors:    models.DescriptorSet{MW: 46.041865, LogP: -0.0014, HDonors: 1, HAcceptors: 1},
	}}
	require.NoError(t, c.Put(ctx, key, augmented))

	got, found, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, augmented, got)

	ttl, err := client.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, time.Minute)
}
