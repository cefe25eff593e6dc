package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-service/internal/cache"
	"github.com/iliyamo/todo-service/internal/config"
	"github.com/iliyamo/todo-service/internal/database"
	"github.com/iliyamo/todo-service/internal/handler"
	"github.com/iliyamo/todo-service/internal/queue"
	"github.com/iliyamo/todo-service/internal/repository"
	"github.com/iliyamo/todo-service/internal/router"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("ensure schema: %v", err)
	}
	cancel()

	// Redis is optional; a nil client disables the list cache.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, todo list cache disabled")
	}
	lists := cache.NewTodoListCache(config.LoadCacheConfig(), rdb)

	users := repository.NewUserRepo(db)
	todos := repository.NewTodoRepo(db)

	authH := handler.NewAuthHandler(cfg, users)
	todoH := handler.NewTodoHandler(todos, lists)
	adminH := handler.NewAdminHandler(todos, lists)
	userH := handler.NewUserHandler(cfg, users)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH)
	router.RegisterTodos(e, todoH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)
	router.RegisterUsers(e, userH, cfg.JWTSecret)

	// Background consumer writes todo activity events to logs/activity.log.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
