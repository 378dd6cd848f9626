package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vrodas/ropero/internal/democloset"
	"github.com/vrodas/ropero/pkg/logger"
)

const (
	defaultBaseURL  = "http://localhost:9080"
	defaultGarments = 50
	defaultTopN     = 10
	defaultWorkers  = 4
	defaultTimeout  = 5 * time.Minute
)

func main() {
	cfg := &democloset.Config{}

	flag.StringVar(&cfg.BaseURL, "url", defaultBaseURL, "base URL of the ropero service")
	flag.IntVar(&cfg.NumGarments, "garments", defaultGarments, "number of garments to generate")
	flag.IntVar(&cfg.TopN, "top", defaultTopN, "ranking size to request")
	flag.IntVar(&cfg.Workers, "workers", defaultWorkers, "concurrent submission workers")
	flag.DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "overall run timeout")
	flag.StringVar(&cfg.OutputFile, "output", "", "file to save the generated garments as JSON")
	flag.StringVar(&cfg.LogFile, "log", "", "file to append log output to")
	flag.BoolVar(&cfg.WithCapsule, "capsule", true, "store a demo capsule and fetch its summary")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "enable debug logging")
	help := flag.Bool("help", false, "show help")
	flag.Parse()

	if *help {
		democloset.ShowHelp()
		return
	}

	logFile, err := democloset.SetupLogging(cfg)
	if err != nil {
		os.Stderr.WriteString("logging setup failed: " + err.Error() + "\n")
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	if err := democloset.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "demo run failed", logger.Error(err))
		os.Exit(1)
	}
}
