package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/THURZIN2905/toperdido/config"
	"github.com/THURZIN2905/toperdido/logger"
	"github.com/THURZIN2905/toperdido/questionnaire"
	"github.com/THURZIN2905/toperdido/scoring"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	// Ctrl-C abandons the session; a second one kills the process.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		stop()
	}()

	client := scoring.NewClient(cfg.Client.APIBaseURL, cfg.Client.Timeout)
	runner := NewRunner(
		os.Stdin,
		os.Stdout,
		questionnaire.NewSource(client, logger.Logger),
		questionnaire.NewCoordinator(client, logger.Logger),
		client,
		questionnaire.SystemClock,
		cfg.Client.Token,
	)

	if _, err := runner.Run(ctx); err != nil {
		if errors.Is(err, ErrAbandoned) {
			fmt.Println("\nQuestionnaire abandoned, nothing was submitted.")
			return
		}
		logger.Logger.WithError(err).Fatal("questionnaire failed")
	}
}
