/*
 * @module service/config
 * @description 服务配置，从环境变量读取并转换类型
 * @architecture 分层架构 - 服务层
 * @documentReference dev_docs/screening.md
 * @stateFlow 环境变量 -> Config
 * @rules 未设置或无法转换的取值使用默认值
 * @dependencies github.com/spf13/cast
 * @refs service/init.go
 */

package service

import (
	"os"
	"runtime"
	"time"

	"ro5-service/service/cache"
	"ro5-service/service/dataset"

	"github.com/spf13/cast"
)

// Config 服务配置
type Config struct {
	Dataset            dataset.Config
	Workers            int
	Redis              cache.RedisConfig
	RedisEnabled       bool
	CacheTTL           time.Duration
	RefreshCron        string
	RateLimitPerMinute int
}

// LoadConfig 从环境变量读取配置
func LoadConfig() Config {
	sourceType := getEnvWithDefault("DATASET_TYPE", "")
	if sourceType == "" {
		switch {
		case os.Getenv("DATASET_SQL_DSN") != "":
			sourceType = dataset.SourceTypeSQL
		case os.Getenv("DATASET_FILE") != "":
			sourceType = dataset.SourceTypeFile
		default:
			sourceType = dataset.SourceTypeHTTP
		}
	}

	return Config{
		Dataset: dataset.Config{
			Type:           sourceType,
			URL:            getEnvWithDefault("DATASET_URL", dataset.DefaultDatasetURL),
			Path:           os.Getenv("DATASET_FILE"),
			Format:         getEnvWithDefault("DATASET_FORMAT", dataset.FormatTSV),
			Charset:        os.Getenv("DATASET_CHARSET"),
			NameColumn:     os.Getenv("DATASET_NAME_COLUMN"),
			SmilesColumn:   os.Getenv("DATASET_SMILES_COLUMN"),
			DropIncomplete: cast.ToBool(getEnvWithDefault("DATASET_DROP_INCOMPLETE", "true")),
			Timeout:        envDuration("DATASET_TIMEOUT", dataset.DefaultHTTPTimeout),
			SQLDriver:      getEnvWithDefault("DATASET_SQL_DRIVER", dataset.DriverPostgres),
			SQLDSN:         os.Getenv("DATASET_SQL_DSN"),
			SQLTable:       getEnvWithDefault("DATASET_SQL_TABLE", "drugs"),
		},
		Workers: envInt("SCREENING_WORKERS", runtime.NumCPU()),
		Redis: cache.RedisConfig{
			Host:     getEnvWithDefault("REDIS_HOST", "localhost"),
			Port:     getEnvWithDefault("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envInt("REDIS_DB", 0),
		},
		RedisEnabled:       os.Getenv("REDIS_HOST") != "",
		CacheTTL:           envDuration("CACHE_TTL", cache.DefaultTTL),
		RefreshCron:        os.Getenv("DATASET_REFRESH_CRON"),
		RateLimitPerMinute: envInt("RATE_LIMIT_PER_MINUTE", 0),
	}
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envInt(key string, defaultValue int) int {
	v, err := cast.ToIntE(os.Getenv(key))
	if err != nil || os.Getenv(key) == "" {
		return defaultValue
	}
	return v
}

// envDuration 支持 "30s" 形式或秒数
func envDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	if seconds, err := cast.ToIntE(raw); err == nil {
		return time.Duration(seconds) * time.Second
	}
	d, err := cast.ToDurationE(raw)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
