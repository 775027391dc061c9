package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/hallpass-api/api/swagger"
	"github.com/noah-isme/hallpass-api/internal/bell"
	"github.com/noah-isme/hallpass-api/internal/handler"
	"github.com/noah-isme/hallpass-api/internal/middleware"
	"github.com/noah-isme/hallpass-api/internal/repository"
	"github.com/noah-isme/hallpass-api/internal/service"
	"github.com/noah-isme/hallpass-api/pkg/cache"
	"github.com/noah-isme/hallpass-api/pkg/config"
	"github.com/noah-isme/hallpass-api/pkg/database"
	"github.com/noah-isme/hallpass-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/hallpass-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/hallpass-api/pkg/middleware/requestid"
)

// @title Hall Pass API
// @version 1.0.0
// @description Schedule-driven check-in and hall-pass lifecycle engine
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, stats caching disabled", zap.Error(err))
		redisClient = nil
	}

	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		logr.Warn("invalid schedule timezone, using local", zap.String("timezone", cfg.Schedule.Timezone))
		loc = time.Local
	}
	clock := bell.NewClock(nil, loc)

	// Repositories.
	attendanceRepo := repository.NewAttendanceRepository(db)
	streakRepo := repository.NewStreakRepository(db)
	hallPassRepo := repository.NewHallPassRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Services.
	metricsSvc := service.NewMetricsService()
	policySvc := service.NewPolicyService(settingsRepo, cfg.Schedule, cfg.HallPass, logr)
	streakSvc := service.NewStreakService(streakRepo, logr, metricsSvc)
	checkInSvc := service.NewCheckInService(attendanceRepo, streakSvc, clock, policySvc, nil, logr, metricsSvc)
	hallPassSvc := service.NewHallPassService(hallPassRepo, clock, policySvc, nil, logr, metricsSvc)
	scheduleSvc := service.NewScheduleService(clock, settingsRepo, policySvc, logr)
	settingsSvc := service.NewSettingsService(settingsRepo, scheduleSvc, logr)
	studentSvc := service.NewStudentService(studentRepo, nil, logr)
	statsSvc := service.NewStatsService(attendanceRepo, redisClient, cfg.Stats.CacheTTL, logr, metricsSvc)
	exportSvc := service.NewExportService(attendanceRepo, studentRepo, logr)
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "hallpass-api",
	})

	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := scheduleSvc.ApplyCustomPeriods(startCtx); err != nil {
		logr.Warn("failed to apply custom periods", zap.Error(err))
	}
	cancel()

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	checkInHandler := handler.NewCheckInHandler(checkInSvc)
	hallPassHandler := handler.NewHallPassHandler(hallPassSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	streakHandler := handler.NewStreakHandler(streakSvc)
	statsHandler := handler.NewStatsHandler(statsSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	settingsHandler := handler.NewSettingsHandler(settingsSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	guarded := api.Group("", middleware.JWT(authSvc))
	{
		guarded.GET("/schedule/day-types", scheduleHandler.DayTypes)
		guarded.GET("/schedule/clock", scheduleHandler.Clock)

		guarded.POST("/checkins", checkInHandler.Create)
		guarded.GET("/checkins", checkInHandler.List)

		guarded.GET("/students", studentHandler.List)
		guarded.POST("/students", studentHandler.Create)
		guarded.POST("/students/import", studentHandler.Import)
		guarded.GET("/students/:id", studentHandler.Get)
		guarded.DELETE("/students/:id", studentHandler.Archive)
		guarded.GET("/students/:id/streak", streakHandler.Get)
		guarded.GET("/students/:id/history", checkInHandler.History)

		guarded.POST("/hallpass/trips", hallPassHandler.Request)
		guarded.GET("/hallpass/trips", hallPassHandler.List)
		guarded.POST("/hallpass/trips/:id/complete", hallPassHandler.Complete)
		guarded.POST("/hallpass/trips/:id/cancel", hallPassHandler.Cancel)
		guarded.POST("/hallpass/promote", hallPassHandler.Promote)
		guarded.GET("/hallpass/active", hallPassHandler.Active)
		guarded.GET("/hallpass/queue", hallPassHandler.Queue)
		guarded.GET("/hallpass/cooldown/:studentId", hallPassHandler.Cooldown)

		guarded.GET("/stats/attendance", statsHandler.Attendance)
		guarded.GET("/exports/attendance.csv", exportHandler.AttendanceCSV)
		guarded.GET("/exports/attendance.pdf", exportHandler.AttendancePDF)

		guarded.GET("/settings", settingsHandler.List)
		guarded.GET("/settings/:key", settingsHandler.Get)
		guarded.PUT("/settings/:key", settingsHandler.Set)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
