package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"ThreadNest.com/cmd/thread/dal"
	"ThreadNest.com/cmd/thread/dal/db"
	threadredis "ThreadNest.com/cmd/thread/infras/redis"
	"ThreadNest.com/cmd/thread/service"
	"ThreadNest.com/config"
	"ThreadNest.com/config/pprof"
	"ThreadNest.com/pkg/cache"
	"ThreadNest.com/pkg/constants"
	"ThreadNest.com/pkg/errno"
	"ThreadNest.com/pkg/mq"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/middlewares/server/recovery"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/cors"
)

func newRecordStore() service.RecordStore {
	cfg := config.ConfigInfo.Store
	if cfg.Backend == "mysql" {
		dal.Init()
		return db.NewCommentStore(db.DB, cfg.Seed)
	}

	latency := time.Duration(cfg.LatencyMs) * time.Millisecond
	return db.NewMemoryStore(latency, cfg.FailureRate, cfg.Seed)
}

func initThreadService() *service.ThreadService {
	svc := service.NewThreadService(newRecordStore())

	if timeout := config.ConfigInfo.Store.TimeoutMs; timeout > 0 {
		svc.SetStoreTimeout(time.Duration(timeout) * time.Millisecond)
	}

	// user-visible mutation failure notices
	svc.SetNotifier(func(message string) {
		hlog.Warnf("thread notice: %s", message)
	})

	if config.ConfigInfo.Redis.Enable {
		threadredis.Load()
		svc.SetCache(cache.NewThreadCacheManager(threadredis.Client))
	}

	if config.ConfigInfo.RabbitMq.Enable {
		svc.SetProducer(initMessageQueue())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := svc.Load(ctx); err != nil {
		hlog.Fatalf("Failed to load thread from record store: %v", err)
	}

	return svc
}

func initMessageQueue() *mq.Producer {
	rabbitmqURL := os.Getenv("RABBITMQ_URL")
	if rabbitmqURL == "" {
		cfg := config.ConfigInfo.RabbitMq
		rabbitmqURL = fmt.Sprintf("amqp://%s:%s@%s/", cfg.Username, cfg.Password, cfg.Addr)
	}

	producer, err := mq.NewProducer(rabbitmqURL)
	if err != nil {
		hlog.Fatalf("Failed to initialize message queue producer: %v", err)
		panic(err)
	}

	hlog.Info("Message queue producer initialized successfully")
	return producer
}

func main() {
	config.Init()
	if config.ConfigInfo.Server.EnablePprof {
		pprof.Load()
	}

	SetThreadService(initThreadService())

	addr := config.ConfigInfo.Server.Addr
	if addr == "" {
		addr = "0.0.0.0:8889"
	}

	r := server.New(
		server.WithHostPorts(addr),
		server.WithHandleMethodNotAllowed(true),
	)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:8870", "http://localhost:8889"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	r.Use(recovery.Recovery(recovery.WithRecoveryHandler(
		func(ctx context.Context, c *app.RequestContext, err interface{}, stack []byte) {
			hlog.SystemLogger().CtxErrorf(ctx, "[Recovery] err=%v\nstack=%s", err, stack)
			c.JSON(consts.StatusInternalServerError, map[string]interface{}{
				"code":    errno.ServiceErrCode,
				"message": fmt.Sprintf("[Recovery] err=%v", err),
			})
		})))

	register(r)

	hlog.Infof("%s service listening on %s", constants.ThreadServiceName, addr)
	r.Spin()
}
