package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/user/skywatch/internal/scheduler"
	"github.com/user/skywatch/internal/telegram"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot and scheduled briefings",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ag, err := buildAgent(cfg)
	if err != nil {
		return err
	}
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("no Telegram token configured (set TELEGRAM_BOT_TOKEN or run 'skywatch setup')")
	}

	adapter, err := telegram.New(cfg.Telegram.Token, ag)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if cfg.Briefing.Enabled {
		if cfg.Briefing.Location == "" || cfg.Briefing.ChatID == 0 {
			return fmt.Errorf("briefing enabled but briefing.location or briefing.chat_id is not set")
		}
		sched := scheduler.New()
		query := fmt.Sprintf(
			"Give me a short morning weather briefing for %s: current conditions and today's forecast.",
			cfg.Briefing.Location)
		err := sched.Add(cfg.Briefing.Schedule, "morning-briefing", func() {
			answer, err := ag.Run(ctx, query)
			if err != nil {
				slog.Error("briefing run failed", "error", err)
				return
			}
			adapter.SendTo(cfg.Briefing.ChatID, answer)
		})
		if err != nil {
			return fmt.Errorf("schedule briefing: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	go adapter.Start(ctx)
	slog.Info("serving", "briefing_enabled", cfg.Briefing.Enabled)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	return nil
}
