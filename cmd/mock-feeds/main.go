package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/aigi/internal/mockfeeds"
	"github.com/okian/aigi/pkg/logger"
)

const defaultTimeout = 30 * time.Second

func main() {
	var (
		registryPath = flag.String("registry", "models_registry.json", "Registry file to write")
		feedsDir     = flag.String("feeds", "feeds", "Feed directory to write")
		layout       = flag.String("layout", mockfeeds.LayoutObject, "Feed layout: object or table")
		omit         = flag.String("omit", "", "Comma-separated feeds to leave out")
		force        = flag.Bool("force", false, "Overwrite existing files")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		os.Stdout.WriteString(mockfeeds.Usage)
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	sources, err := mockfeeds.ParseOmit(*omit)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	cfg := mockfeeds.Config{
		RegistryPath: *registryPath,
		FeedsDir:     *feedsDir,
		Layout:       *layout,
		Omit:         sources,
		Overwrite:    *force,
		Logger:       logger.Named("mock-feeds"),
	}
	if _, err := mockfeeds.Write(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "mock data write failed", logger.Error(err))
		os.Exit(1)
	}
}
