package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"github.com/cindypham04/engrave/bootstrap"
	"github.com/cindypham04/engrave/config"
	"github.com/cindypham04/engrave/middleware"
	"github.com/cindypham04/engrave/pkg/logging"
	"github.com/cindypham04/engrave/routes"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}
	logging.Init()

	cfg := config.LoadConfig()
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		log.Fatal(err)
	}

	server := fiber.New()
	server.Use(middleware.Logger())
	server.Use(middleware.CORS())

	routes.RegisterFileRoutes(server, app.Handlers.FileHandler, app.Handlers.AnnotationHandler)
	routes.RegisterAnnotationRoutes(server, app.Handlers.AnnotationHandler)
	routes.RegisterChatRoutes(server, app.Handlers.ChatHandler)
	routes.SetupWebSocketRoutes(server, app.Handlers.WSHandler)

	port := cfg.HttpPort
	if port == "" {
		port = "3000"
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logging.Logger.Info("shutting down")
		if err := server.Shutdown(); err != nil {
			logging.Logger.Error("fail server shutdown", "error", err)
		}
		if err := app.Shutdown(); err != nil {
			logging.Logger.Error("fail app shutdown", "error", err)
		}
	}()

	log.Println("Server running on http://localhost:" + port)
	if err := server.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
