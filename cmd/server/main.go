package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/fieldkeeper/internal/server"
	"github.com/dmitrijs2005/fieldkeeper/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Printf("fieldkeeper server init: %v", err)
		return
	}

	app.Run(context.Background())
}
