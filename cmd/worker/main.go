// 通知 worker 主程序
// 消费订单与账户事件并发送邮件通知
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/qtremors/amanzon/internal/notification"
	"github.com/qtremors/amanzon/pkg/config"
	"github.com/qtremors/amanzon/pkg/logger"
	"github.com/qtremors/amanzon/pkg/mq"
)

func main() {
	// 1. 加载配置
	configPath := "configs/config.toml"
	if p := os.Getenv("APP_CONFIG"); p != "" {
		configPath = p
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info(ctx, "Starting notification worker",
		"service", cfg.ServiceName,
		"group_id", cfg.Kafka.GroupID,
	)

	// 3. 初始化邮件派发器
	mailer := notification.NewMailer(cfg.SMTP, cfg.Store.PublicBaseURL)
	dispatcher := notification.NewDispatcher(mailer)

	// 4. 每个 topic 一个消费者
	kafkaCfg := mq.KafkaConfig{
		Brokers:      cfg.Kafka.Brokers,
		GroupID:      cfg.Kafka.GroupID,
		MaxRetries:   cfg.Kafka.MaxRetries,
		RetryBackoff: cfg.Kafka.RetryBackoff,
	}

	var wg sync.WaitGroup
	for _, topic := range []string{cfg.Kafka.OrderTopic, cfg.Kafka.AccountTopic} {
		consumer, err := mq.NewConsumer(kafkaCfg, topic)
		if err != nil {
			logger.Fatal(ctx, "Failed to create Kafka consumer", "topic", topic, "error", err)
		}
		defer consumer.Close()

		wg.Add(1)
		go func(topic string, consumer *mq.KafkaConsumer) {
			defer wg.Done()
			logger.Info(ctx, "Consuming topic", "topic", topic)
			if err := consumer.Consume(ctx, dispatcher.Handle); err != nil && ctx.Err() == nil {
				logger.Error(ctx, "Consumer stopped with error", "topic", topic, "error", err)
			}
		}(topic, consumer)
	}

	// 5. 优雅关停
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info(ctx, "Shutting down notification worker")
	cancel()
	wg.Wait()

	logger.Info(context.Background(), "Notification worker stopped")
}
