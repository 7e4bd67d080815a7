// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"mind-mend-go/internal/config"
	"mind-mend-go/internal/handler"
	"mind-mend-go/internal/middleware"
	"mind-mend-go/internal/repository"
	"mind-mend-go/internal/service"
	"mind-mend-go/pkg/database"
	"mind-mend-go/pkg/genai"
	"mind-mend-go/pkg/identity"
	"mind-mend-go/pkg/log"
	"mind-mend-go/pkg/token"
	"mind-mend-go/pkg/tts"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库和 Redis
	database.InitMongo(cfg.Database.Mongo.URI, cfg.Database.Mongo.Database)
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)

	// 4. 初始化外部服务客户端
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TokenExpireDays)
	identityProvider, err := identity.NewProvider(cfg.Firebase)
	if err != nil {
		log.Fatal("身份提供商初始化失败", err)
	}
	genaiClient, err := genai.NewClient(cfg.Gemini)
	if err != nil {
		log.Fatal("生成模型客户端初始化失败", err)
	}
	defer genaiClient.Close()
	synthesizer := tts.NewClient(cfg.TTS)

	// 5. 初始化 Repository 和 Service (依赖注入)
	chatRepo := repository.NewChatRepository(database.Mongo, database.RDB)
	authService := service.NewAuthService(identityProvider, jwtManager)
	chatService := service.NewChatService(chatRepo, genaiClient, synthesizer)
	progressService := service.NewProgressService(chatRepo, genaiClient)

	// 6. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	// 添加我们自定义的中间件和 Gin 的 Recovery 中间件
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigin), middleware.RequestLogger(), gin.Recovery())

	// 7. 注册路由
	api := r.Group("/api")
	{
		// Auth 路由组
		auth := api.Group("/auth")
		{
			authHandler := handler.NewAuthHandler(authService, jwtManager)
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/signin", authHandler.Signin)
			auth.GET("/check", middleware.AuthMiddleware(jwtManager), authHandler.Check)
		}

		// AI 路由组，需要认证
		ai := api.Group("/ai")
		ai.Use(middleware.AuthMiddleware(jwtManager))
		{
			aiHandler := handler.NewAIHandler(chatService, progressService)
			ai.POST("/generate", aiHandler.Generate)
			ai.POST("/progress", aiHandler.Progress)
		}
	}

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 关闭 HTTP 服务器
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	log.Info("服务已优雅关闭")
}
