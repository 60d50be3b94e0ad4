package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/blobhost/internal/client/cli"
	"github.com/dmitrijs2005/blobhost/internal/client/config"
	"github.com/dmitrijs2005/blobhost/internal/flagx"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	args := flagx.Positional(os.Args[1:], []string{"-a", "-t", "-p", "-c", "-config"})
	if err := app.Run(ctx, args); err != nil {
		log.Fatalf("%v", err)
	}

}
