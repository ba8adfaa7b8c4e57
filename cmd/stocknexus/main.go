package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/stocknexus/stocknexus/config"
	"github.com/stocknexus/stocknexus/internal/adminapi"
	"github.com/stocknexus/stocknexus/internal/app"
	"github.com/stocknexus/stocknexus/internal/webserver"
	"go.uber.org/zap"
)

var (
	cfile   = flag.String("c", "/etc/stocknexus.yml", "config file")
	initdb  = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
	showVer = flag.Bool("v", false, "print version and exit")
)

var version = "dev"

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println("stocknexus", version)
		return
	}

	cfg := config.LoadConfig(*cfile)

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application.StartBackgroundJobs(ctx)

	webserver.Init(application)
	adminapi.InitRouter(application)

	errchan := make(chan error, 1)
	go func() {
		errchan <- webserver.Listen()
	}()

	select {
	case <-ctx.Done():
		zap.S().Info("shutdown signal received")
	case err := <-errchan:
		zap.S().Errorf("web server stopped: %v", err)
	}
}
