package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/user/skywatch/internal/agent"
	"github.com/user/skywatch/internal/config"
	"github.com/user/skywatch/internal/tools"
	"github.com/user/skywatch/internal/weather"
	"github.com/user/skywatch/pkg/llm"
	"github.com/user/skywatch/pkg/llm/anthropic"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "skywatch",
	Short: "Conversational weather assistant backed by Claude and OpenWeatherMap",
	Long: `skywatch answers natural-language weather questions. The model decides
when to call the weather tools, the tools fetch live data, and the loop
continues until the model produces a final answer.`,
}

func main() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	defaultConfig := filepath.Join(home, ".skywatch", "config.json")

	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfig, "path to config file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	setupLogging(cfg.LogLevel)
	return cfg, nil
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}

// buildAgent wires the provider, weather client, and tool registry into a
// ready-to-run agent.
func buildAgent(cfg *config.Config) (*agent.Agent, error) {
	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("no Anthropic API key configured (set ANTHROPIC_API_KEY or run 'skywatch setup')")
	}
	if cfg.Weather.APIKey == "" {
		return nil, fmt.Errorf("no weather API key configured (set WEATHER_API_KEY or run 'skywatch setup')")
	}

	provider := anthropic.New(&llm.Config{
		BaseURL:   cfg.LLM.BaseURL,
		APIKey:    cfg.LLM.APIKey,
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
	})

	wc := weather.NewClient(cfg.Weather.APIKey, cfg.Weather.BaseURL)

	registry := agent.NewRegistry()
	registry.Register(tools.NewCurrentWeather(wc))
	registry.Register(tools.NewWeatherForecast(wc))

	return agent.New(provider, registry, cfg.MaxIterations), nil
}
