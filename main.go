package main

import (
	"context"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"github.com/travelbunk/backend/src/connections"
	"github.com/travelbunk/backend/src/controllers"
	"github.com/travelbunk/backend/src/lib"
	"github.com/travelbunk/backend/src/notify"
	"github.com/travelbunk/backend/src/routes"
	"github.com/travelbunk/backend/src/store"
)

func main() {
	if err := godotenv.Load(); err == nil {
		lib.Log.Info("Loaded .env")
	}

	if err := lib.ConnectDB(); err != nil {
		lib.Log.WithError(err).Fatal("MongoDB connection failed")
	}
	if err := lib.EnsureIndexes(context.Background()); err != nil {
		lib.Log.WithError(err).Fatal("Index creation failed")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 30 * 1024 * 1024,
	})
	app.Use(cors.New())
	app.Use(lib.RequestLogger)

	users := store.NewMongoUserStore(lib.DB)
	hub := notify.NewHub()

	// With Redis configured, events fan out through pub/sub so every node
	// delivers to its own websocket clients. Without it the hub alone serves
	// a single-node deployment.
	var sink notify.Sink = hub
	if os.Getenv("REDIS_ADDR") != "" {
		rdb, err := notify.ConnectRedis()
		if err != nil {
			lib.Log.WithError(err).Fatal("Redis connection failed")
		}
		redisSink := notify.NewRedisSink(rdb, hub)
		go redisSink.Run(context.Background())
		sink = redisSink
	}

	manager := connections.NewManager(users, sink)
	controllers.Init(users, manager, sink, hub)

	routes.AuthRoutes(app)
	routes.UserRoutes(app)
	routes.ConnectionRoutes(app)
	routes.ChatRoutes(app)
	routes.BlogRoutes(app)
	routes.PhotoRoutes(app)
	routes.WSRoutes(app)

	port := lib.GetEnv("PORT", "5001")
	lib.Log.WithField("port", port).Info("Server is running")
	if err := app.Listen(":" + port); err != nil {
		lib.Log.WithError(err).Fatal("Server stopped")
	}
}
