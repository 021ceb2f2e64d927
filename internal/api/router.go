package api

import (
	"github.com/gin-gonic/gin"
	appconfig "github.com/wfunc/pong-game/internal/config"
	"github.com/wfunc/pong-game/internal/game"
	"github.com/wfunc/pong-game/internal/middleware"
	"github.com/wfunc/pong-game/internal/service"
	ws "github.com/wfunc/pong-game/internal/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Router API路由器
type Router struct {
	engine         *gin.Engine
	db             *gorm.DB
	services       *service.Services
	authHandler    *AuthHandler
	userHandler    *UserHandler
	matchHandler   *MatchHandler
	wsHandler      *WebSocketHandler
	authMiddleware *middleware.AuthMiddleware
	hub            *ws.Hub
	registry       *game.Registry
	gameHandler    *ws.GameHandler
	log            *zap.Logger
}

// NewRouter 创建路由器
func NewRouter(db *gorm.DB, config *service.Config, log *zap.Logger) *Router {
	// 创建Gin引擎
	engine := gin.New()

	// 全局中间件
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())

	// 创建服务
	services := service.NewServices(db, config, log)

	// 创建实时对局组件
	hub := ws.NewHub(log)
	registry := game.NewRegistry()
	gameHandler := ws.NewGameHandler(hub, services.User, services.Match, registry, log)
	if appCfg := appconfig.Get(); appCfg != nil && appCfg.Game.ScoreWriteDelay > 0 {
		gameHandler.SetScoreWriteDelay(appCfg.Game.ScoreWriteDelay)
	}
	hub.SetHandler(gameHandler)

	// 创建处理器
	authHandler := NewAuthHandler(services.Auth, services.User)
	userHandler := NewUserHandler(services.User)
	matchHandler := NewMatchHandler(services.Match)
	wsHandler := NewWebSocketHandler(hub, services.Auth, services.User, log)

	// 创建中间件
	authMiddleware := middleware.NewAuthMiddleware(services.Auth)

	router := &Router{
		engine:         engine,
		db:             db,
		services:       services,
		authHandler:    authHandler,
		userHandler:    userHandler,
		matchHandler:   matchHandler,
		wsHandler:      wsHandler,
		authMiddleware: authMiddleware,
		hub:            hub,
		registry:       registry,
		gameHandler:    gameHandler,
		log:            log,
	}

	// 设置路由
	router.setupRoutes()

	return router
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	// 健康检查
	r.engine.GET("/health", r.healthCheck)

	// API v1路由组
	v1 := r.engine.Group("/api/v1")
	{
		// 认证相关路由（不需要认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/refresh", r.authHandler.RefreshToken)

			// 需要认证的路由
			authRequired := auth.Group("")
			authRequired.Use(r.authMiddleware.RequireAuth())
			{
				authRequired.POST("/logout", r.authHandler.Logout)
				authRequired.GET("/profile", r.authHandler.GetProfile)
			}
		}

		// 用户相关路由（需要认证）
		users := v1.Group("/users")
		users.Use(r.authMiddleware.RequireAuth())
		{
			users.GET("", r.userHandler.GetUsers)
			users.GET("/leaderboard", r.userHandler.Leaderboard)
			users.GET("/:id", r.userHandler.GetUser)
			users.POST("/:id/block", r.userHandler.BlockUser)
			users.DELETE("/:id/block", r.userHandler.UnblockUser)
		}

		// 对局相关路由（需要认证）
		matches := v1.Group("/matches")
		matches.Use(r.authMiddleware.RequireAuth())
		{
			matches.GET("/history", r.matchHandler.History)
			matches.GET("/recent", r.matchHandler.Recent)
			matches.GET("/:id", r.matchHandler.GetMatch)
		}
	}

	// WebSocket路由, 身份由握手参数解析
	r.engine.GET("/ws", r.wsHandler.HandleConnection)

	// 404处理
	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"code":    "NOT_FOUND",
			"message": "接口不存在",
		})
	})
}

// healthCheck 健康检查
func (r *Router) healthCheck(c *gin.Context) {
	// 检查数据库连接
	sqlDB, err := r.db.DB()
	if err != nil {
		c.JSON(500, gin.H{
			"status":  "unhealthy",
			"message": "数据库连接失败",
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(500, gin.H{
			"status":  "unhealthy",
			"message": "数据库ping失败",
		})
		return
	}

	c.JSON(200, gin.H{
		"status":  "healthy",
		"message": "服务运行正常",
	})
}

// Run 运行服务器
func (r *Router) Run(addr string) error {
	r.log.Info("Starting API server", zap.String("address", addr))
	return r.engine.Run(addr)
}

// GetEngine 获取Gin引擎（用于测试）
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
