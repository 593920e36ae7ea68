package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/postboard/configs"
	"github.com/maheshrc27/postboard/internal/api"
	"github.com/maheshrc27/postboard/internal/api/handlers"
	"github.com/maheshrc27/postboard/internal/api/middleware"
	job "github.com/maheshrc27/postboard/internal/jobs"
	"github.com/maheshrc27/postboard/internal/queue"
	"github.com/maheshrc27/postboard/internal/repository"
	"github.com/maheshrc27/postboard/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg := config.LoadConfig()
	if len(cfg.SecretKey) != 32 {
		log.Fatal("SECRET_KEY must be 32 bytes")
	}

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
	defer rdb.Close()

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	asynqClient := asynq.NewClient(redisConn)
	defer asynqClient.Close()

	store, err := service.NewR2Store(context.Background(), *cfg)
	if err != nil {
		log.Fatalf("Failed to configure object storage: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	clientRepo := repository.NewClientRepository(db)
	selectionRepo := repository.NewSelectionRepository(db)
	historyRepo := repository.NewPublishHistoryRepository(db)

	graphService := service.NewGraphService(*cfg)
	feedService := service.NewFeedService(*cfg, graphService, service.NewRedisFeedCache(rdb, cfg.FeedCacheTTL))
	dashboardService := service.NewDashboardService(*cfg, postRepo, clientRepo, selectionRepo, feedService)
	clientService := service.NewClientService(*cfg, db, clientRepo, selectionRepo, dashboardService)
	postService := service.NewPostService(*cfg, postRepo, clientRepo, historyRepo,
		service.NewGraphPublisher(*cfg, graphService), dashboardService)

	scheduler := queue.NewScheduler(asynqClient)
	approvalService := service.NewApprovalService(*cfg, postService, scheduler)
	workflowService := service.NewWorkflowService(postService, approvalService, scheduler, clientRepo)
	authService := service.NewAuthService(*cfg, userRepo, graphService, clientService)
	userService := service.NewUserService(userRepo)
	mediaService := service.NewMediaService(store)

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Error(err.Error(), "path", c.Path())
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	api.Register(app, middleware.NewAuthMiddleware(*cfg), api.Handlers{
		Auth:      handlers.NewAuthHandler(*cfg, authService),
		User:      handlers.NewUserHandler(userService),
		Client:    handlers.NewClientHandler(clientService),
		Post:      handlers.NewPostHandler(postService, workflowService),
		Dashboard: handlers.NewDashboardHandler(dashboardService),
		Approval:  handlers.NewApprovalHandler(approvalService),
		Media:     handlers.NewMediaHandler(mediaService),
	})

	// cron jobs
	duePostJob := job.NewDuePostJob(postService, scheduler)

	c := cron.New()
	if err := c.AddFunc("@every 1m", duePostJob.EnqueueDue); err != nil {
		log.Fatalf("Could not register due post job: %v", err)
	}
	c.Start()

	// queue
	queueW := queue.NewQueue(postService)

	server := asynq.NewServer(redisConn, asynq.Config{
		Concurrency: 10,
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskTypePublishPost, queueW.HandlePublishPostTask)

	log.Println("Starting the Asynq server...")
	if err := server.Start(mux); err != nil {
		log.Fatalf("Could not start Asynq server: %v", err)
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on http://localhost:%s", cfg.Port)

	gracefulShutdown(app, server, c)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, server *asynq.Server, c *cron.Cron) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	c.Stop()
	server.Shutdown()

	if err := app.Shutdown(); err != nil {
		log.Printf("Failed to shut down server: %v", err)
	}
	log.Println("Server shutdown complete.")
}
