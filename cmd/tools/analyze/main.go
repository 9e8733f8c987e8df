package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kapu/zenith-go/internal/app"
	"github.com/kapu/zenith-go/internal/config"
	"github.com/kapu/zenith-go/internal/domain"
	"github.com/kapu/zenith-go/internal/util"
	apperrors "github.com/kapu/zenith-go/pkg/errors"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool                   `json:"success,omitempty"`
	Data    *domain.AnalysisResult `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

func main() {
	youtubeURL := flag.String("youtube", "", "YouTube channel URL")
	instagramURL := flag.String("instagram", "", "Instagram profile URL")
	forceRefresh := flag.Bool("force", false, "skip the stored analysis and fetch fresh data")
	timeout := flag.Duration("timeout", 3*time.Minute, "overall analysis timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	container, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to assemble application services", zap.Error(err))
	}
	defer container.Close()

	result, err := container.Analyzer.Analyze(ctx, domain.AnalysisRequest{
		YouTubeURL:   *youtubeURL,
		InstagramURL: *instagramURL,
		ForceRefresh: *forceRefresh,
	})

	out := envelope{Success: true, Data: result}
	exitCode := 0
	if err != nil {
		out = envelope{Error: apperrors.Message(err)}
		exitCode = 1
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if encErr := encoder.Encode(out); encErr != nil {
		logger.Error("Failed to encode result", zap.Error(encErr))
		exitCode = 1
	}

	if exitCode != 0 {
		container.Close()
		_ = logger.Sync()
		os.Exit(exitCode)
	}
}
