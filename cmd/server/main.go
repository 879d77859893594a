package main

import (
	"context"
	"log"
	"os"

	"github.com/kaman1990/field-service-sub001/internal/buildinfo"
	"github.com/kaman1990/field-service-sub001/internal/server"
	"github.com/kaman1990/field-service-sub001/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
