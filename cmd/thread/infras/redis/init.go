package redis

import (
	"context"
	"time"

	"ThreadNest.com/config"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

func Load() {
	Client = redis.NewClient(&redis.Options{
		Addr:     config.ConfigInfo.Redis.Addr,
		Password: config.ConfigInfo.Redis.Password,
		DB:       config.ConfigInfo.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := Client.Ping(ctx).Result(); err != nil {
		hlog.Info("thread redis ping failed: ", err)
	}
}
