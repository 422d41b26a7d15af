package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"umazing_chat_server/internal/config"
	dao "umazing_chat_server/internal/dao/mysql"
	myredis "umazing_chat_server/internal/dao/redis"
	"umazing_chat_server/internal/handler"
	"umazing_chat_server/internal/https_server"
	"umazing_chat_server/internal/infrastructure/logger"
	mq "umazing_chat_server/internal/infrastructure/mq"
	"umazing_chat_server/internal/service"
	"umazing_chat_server/internal/service/chat"
	"umazing_chat_server/pkg/util/jwt"
	"umazing_chat_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, conf.MainConfig.Mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer zap.L().Sync()

	// 3. 工具组件
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry, conf.JWTConfig.RefreshTokenExpiry)
	snowflake.Init(conf.SnowflakeConfig.MachineID)
	if err := handler.InitTrans("zh"); err != nil {
		zap.L().Fatal("初始化校验翻译器失败", zap.Error(err))
	}

	// 4. 数据库
	repos, err := dao.Init(&conf.DatabaseConfig)
	if err != nil {
		zap.L().Fatal("数据库初始化失败", zap.Error(err))
	}

	// 5. Redis 可选，连不上时退化为单实例内存模式
	var cache myredis.AsyncCacheService
	if conf.RedisConfig.Host != "" {
		redisCache, err := myredis.Init(&conf.RedisConfig)
		if err != nil {
			zap.L().Warn("Redis 不可用，缓存与在线状态镜像关闭", zap.Error(err))
		} else {
			cache = redisCache
			defer redisCache.Close()
		}
	}

	// 6. ChatServer
	chatConf := chat.ChatServerConfig{
		Repos: repos,
		Cache: cache,
		Ws:    conf.WsConfig,
		Mode:  conf.KafkaConfig.MessageMode,
	}
	if conf.KafkaConfig.MessageMode == chat.ModeKafka {
		kafkaClient := mq.NewKafkaClient(conf.KafkaConfig)
		if err := kafkaClient.CreateTopic(1); err != nil {
			zap.L().Fatal("连接 Kafka 失败", zap.Error(err))
		}
		chatConf.Kafka = kafkaClient
	}
	chatServer, err := chat.NewChatServer(chatConf)
	if err != nil {
		zap.L().Fatal("ChatServer 初始化失败", zap.Error(err))
	}
	chatServer.Start()

	// 7. Service / Handler / HTTP
	service.InitServices(repos, cache, chatServer)
	engine := https_server.Init(handler.NewHandlers(service.Svc), conf)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler: engine,
	}
	go func() {
		zap.L().Info("服务启动", zap.String("addr", srv.Addr), zap.String("messageMode", conf.KafkaConfig.MessageMode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("HTTP 服务关闭失败", zap.Error(err))
	}
	chatServer.Close()

	zap.L().Info("服务器已关闭")
}
