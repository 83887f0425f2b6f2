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

	"nova_chat_server/internal/config"
	"nova_chat_server/internal/dao/mysql"
	myredis "nova_chat_server/internal/dao/redis"
	"nova_chat_server/internal/handler"
	"nova_chat_server/internal/https_server"
	"nova_chat_server/internal/infrastructure/logger"
	"nova_chat_server/internal/infrastructure/mq"
	"nova_chat_server/internal/service"
	"nova_chat_server/internal/service/chat"
	"nova_chat_server/pkg/constants"
	"nova_chat_server/pkg/util/jwt"
	"nova_chat_server/pkg/util/snowflake"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	// 2. 初始化日志
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		mode = gin.DebugMode
	}
	gin.SetMode(mode)
	if err := logger.Init(&conf.LogConfig, mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer func() { _ = zap.L().Sync() }()

	// 3. 初始化 JWT、MySQL、Redis
	jwt.Init(conf.MainConfig.JwtSecret, conf.MainConfig.TokenExpiry, conf.MainConfig.RefreshHour)
	repos := mysql.Init()
	myredis.Init()
	cache := myredis.GetCacheService()

	// 4. 在线目录、连接管理器与事件扇出
	presence := myredis.NewPresenceDirectory(cache)
	conns := chat.NewConnManager()
	notifier := chat.NewFanoutNotifier(presence, conns)

	// 5. 消息代理：kafka 模式用于多实例部署，默认走进程内通道
	var broker chat.MessageBroker
	var kafkaClient *mq.KafkaClient
	if conf.KafkaConfig.Enabled && conf.KafkaConfig.MessageMode == "kafka" {
		kafkaClient = mq.NewKafkaClient(&conf.KafkaConfig)
		broker = chat.NewKafkaBroker(kafkaClient, conf.KafkaConfig.Partition)
		zap.L().Info("message broker: kafka", zap.String("hostPort", conf.KafkaConfig.HostPort))
	} else {
		broker = chat.NewChannelBroker()
		zap.L().Info("message broker: in-process channel")
	}

	// 6. 雪花节点，按业务分区隔离 ID 命名空间
	channelNode, err := snowflake.NewNode(conf.SnowflakeConfig.GeneratorId, constants.PARTITION_CHANNEL)
	if err != nil {
		log.Fatalf("init channel snowflake node failed: %v", err)
	}
	messageNode, err := snowflake.NewNode(conf.SnowflakeConfig.GeneratorId, constants.PARTITION_MESSAGE)
	if err != nil {
		log.Fatalf("init message snowflake node failed: %v", err)
	}
	attachmentNode, err := snowflake.NewNode(conf.SnowflakeConfig.GeneratorId, constants.PARTITION_ATTACHMENT)
	if err != nil {
		log.Fatalf("init attachment snowflake node failed: %v", err)
	}

	// 7. 业务服务与 WebSocket 网关
	services := service.NewServices(repos, cache, presence, notifier, channelNode, messageNode, attachmentNode)
	gateway := chat.NewWSGateway(
		presence,
		conns,
		notifier,
		broker,
		services.User,
		services.Friend,
		services.Channel,
		services.Message,
	)
	go gateway.Start()

	// 8. HTTP 服务器
	if err := handler.InitTrans("zh"); err != nil {
		log.Fatalf("init validator translator failed: %v", err)
	}
	handlers := handler.NewHandlers(services, gateway)
	engine := https_server.Init(handlers)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler: engine,
	}
	go func() {
		zap.L().Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen failed: %v", err)
		}
	}()

	// 9. 等待退出信号，优雅关停
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("server shutdown failed", zap.Error(err))
	}
	gateway.Close()
	if kafkaClient != nil {
		kafkaClient.Close()
	}
	zap.L().Info("server exited")
}
