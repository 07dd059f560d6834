package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ThreadNest.com/cmd/thread/service"
	"ThreadNest.com/config"
	"ThreadNest.com/pkg/mq"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

func main() {
	hlog.SetLevel(hlog.LevelInfo)
	config.Init()

	rabbitmqURL := os.Getenv("RABBITMQ_URL")
	if rabbitmqURL == "" {
		cfg := config.ConfigInfo.RabbitMq
		rabbitmqURL = fmt.Sprintf("amqp://%s:%s@%s/", cfg.Username, cfg.Password, cfg.Addr)
	}

	consumer, err := mq.NewConsumer(rabbitmqURL)
	if err != nil {
		log.Fatalf("Failed to create consumer: %v", err)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	processor := service.NewThreadEventProcessor()
	if err := consumer.ConsumeThreadEvents(ctx, processor); err != nil {
		log.Fatalf("Failed to start thread event consumer: %v", err)
	}
	hlog.Info("Thread event consumer started successfully, waiting for messages...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	hlog.Info("Shutting down thread event consumer...")

	cancel()
	time.Sleep(2 * time.Second) // let in-flight deliveries finish

	hlog.Infof("Thread event consumer stopped, totals: %v", processor.ProcessingStats())
}
