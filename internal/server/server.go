package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"taskflow/internal/config"
	"taskflow/internal/handler"
	"taskflow/internal/metrics"
	"taskflow/internal/middleware"
	"taskflow/internal/repository"
	"taskflow/internal/service"
	"taskflow/internal/storage"
	"taskflow/migrations"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
	Log    *zap.Logger
}

func Init(cfg *config.Config) (*Server, error) {
	log, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}
	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	log.Info("connected to database", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))

	fileStore, err := storage.NewDiskStore(cfg.UploadDir, cfg.UploadBaseURL)
	if err != nil {
		return nil, fmt.Errorf("init file store: %w", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// Services
	recorder := service.NewRecorder(activityRepo, log)
	board := service.NewBoardEngine(taskRepo)
	projectSvc := service.NewProjectService(projectRepo, taskRepo, userRepo, activityRepo, recorder, log)
	taskSvc := service.NewTaskService(projectRepo, taskRepo, commentRepo, attachmentRepo, userRepo, fileStore, board, recorder, log)
	commentSvc := service.NewCommentService(projectRepo, taskRepo, commentRepo, recorder)

	// Handlers
	jwtExpiry := time.Duration(cfg.JWTExpiryHours) * time.Hour
	userHandler := handler.NewUserHandler(userRepo, cfg.JWTSecret, jwtExpiry)
	projectHandler := handler.NewProjectHandler(projectSvc)
	taskHandler := handler.NewTaskHandler(taskSvc)
	commentHandler := handler.NewCommentHandler(commentSvc)

	r := gin.Default()
	r.Use(metrics.Middleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.Static("/uploads", cfg.UploadDir)

	api := r.Group("/api")

	// Public routes
	api.POST("/auth/register", userHandler.Register)
	api.POST("/auth/login", userHandler.Login)

	// Protected routes
	authorized := api.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret, userRepo))
	{
		authorized.GET("/auth/me", userHandler.Me)

		// Project routes
		authorized.GET("/projects", projectHandler.List)
		authorized.POST("/projects", projectHandler.Create)
		authorized.GET("/projects/:projectId", projectHandler.Get)
		authorized.PUT("/projects/:projectId", projectHandler.Update)
		authorized.DELETE("/projects/:projectId", projectHandler.Delete)
		authorized.POST("/projects/:projectId/members", projectHandler.AddMember)
		authorized.DELETE("/projects/:projectId/members/:memberId", projectHandler.RemoveMember)
		authorized.GET("/projects/:projectId/activity", projectHandler.Activity)

		// Task routes
		authorized.GET("/projects/:projectId/tasks", taskHandler.List)
		authorized.POST("/projects/:projectId/tasks", taskHandler.Create)
		authorized.PATCH("/projects/:projectId/tasks/reorder", taskHandler.Reorder)
		authorized.GET("/projects/:projectId/tasks/:taskId", taskHandler.Get)
		authorized.PUT("/projects/:projectId/tasks/:taskId", taskHandler.Update)
		authorized.DELETE("/projects/:projectId/tasks/:taskId", taskHandler.Delete)
		authorized.POST("/projects/:projectId/tasks/:taskId/assign", taskHandler.Assign)
		authorized.POST("/projects/:projectId/tasks/:taskId/attachments", taskHandler.UploadAttachment)
		authorized.DELETE("/projects/:projectId/tasks/:taskId/attachments/:attachmentId", taskHandler.DeleteAttachment)

		// Comment routes
		authorized.GET("/tasks/:taskId/comments", commentHandler.List)
		authorized.POST("/tasks/:taskId/comments", commentHandler.Add)
		authorized.PUT("/tasks/:taskId/comments/:commentId", commentHandler.Edit)
		authorized.DELETE("/tasks/:taskId/comments/:commentId", commentHandler.Delete)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
		Log:    log,
	}, nil
}

// runMigrations brings the schema up to date from the embedded SQL files.
func runMigrations(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	driver, err := migratepg.WithInstance(sqlDB, &migratepg.Config{})
	if err != nil {
		return err
	}
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func (s *Server) Run() {
	defer s.Log.Sync()

	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		s.Log.Info("server listening", zap.String("port", s.Config.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.Log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.Log.Fatal("forced shutdown", zap.Error(err))
	}

	s.Log.Info("server exited")
}
