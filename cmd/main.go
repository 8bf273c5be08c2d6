package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/RoyceAzure/lab/bookstore/internal/app"
	"github.com/RoyceAzure/lab/bookstore/internal/config"
)

func main() {
	application, err := app.NewApplication(config.GetConfig())
	if err != nil {
		log.Fatal(err)
	}
	log.Println("bookstore backend ready")

	// 設置訊號監聽
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Println("Received shutdown signal")

	if err := application.Close(); err != nil {
		log.Printf("close error: %v", err)
	}
}
