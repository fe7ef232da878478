package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dailytaiyari/backend/internal/app"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using process environment")
	}

	application, err := app.New()
	if err != nil {
		fmt.Printf("Failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Start(); err != nil {
		application.Log.Error("Failed to start background jobs", "error", err)
		os.Exit(1)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		application.Log.Info("Shutting down...")
		application.Close()
		os.Exit(0)
	}()

	addr := os.Getenv("SERVER_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	application.Log.Info("Starting server", "addr", addr)
	if err := application.Run(addr); err != nil {
		application.Log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
