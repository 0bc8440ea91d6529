package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophsettings/internal/client/cli"
	"github.com/dmitrijs2005/gophsettings/internal/client/config"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	app := cli.NewApp(cfg)

	if err := app.Execute(ctx, os.Args[1:]); err != nil {
		stop()
		os.Exit(1)
	}

}
