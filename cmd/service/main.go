package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bkatic/memopad/internal"
	"github.com/bkatic/memopad/internal/config"
	"github.com/bkatic/memopad/internal/logging"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const version = "0.2.1"

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	// secrets live in .env locally; in prod they come from the unit file
	if err := godotenv.Load(); err != nil {
		log.Tracef("no .env file loaded: %s", err)
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    false,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        sentryDSN,
		SentryServerName: "memopad-service",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using sqlite db: [%s]", cfg.SQLitePath)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)

	companionAPIKey := os.Getenv("MEMOPAD_COMPANION_API_KEY")
	if companionAPIKey == "" {
		log.Errorf("companion API key not set, use MEMOPAD_COMPANION_API_KEY env var to set it; chat will answer with the fallback message only")
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:          cfg,
			CompanionAPIKey: companionAPIKey,
			VersionInfo:     version,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(ctx, cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, shutting down ...", receivedSig)
	cancel()

	server.GracefulShutdown()
}
