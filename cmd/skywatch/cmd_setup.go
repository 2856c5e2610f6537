package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/skywatch/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive first-run configuration",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Println(titleStyle.Render("skywatch setup"))
	fmt.Println("Press Enter to keep the current value.")
	fmt.Println()

	cfg.LLM.APIKey = promptValue(reader, "Anthropic API key", cfg.LLM.APIKey, true)
	cfg.LLM.Model = promptValue(reader, "Model", cfg.LLM.Model, false)
	cfg.Weather.APIKey = promptValue(reader, "OpenWeatherMap API key", cfg.Weather.APIKey, true)
	cfg.Telegram.Token = promptValue(reader, "Telegram bot token (optional)", cfg.Telegram.Token, true)

	if err := config.Save(configPath, cfg); err != nil {
		return err
	}
	fmt.Println()
	fmt.Println("Saved to", configPath)
	fmt.Println("Try: skywatch ask \"What's the weather like in Paris?\"")
	return nil
}

func promptValue(reader *bufio.Reader, label, current string, secret bool) string {
	display := current
	if secret && len(current) > 4 {
		display = "***" + current[len(current)-4:]
	}
	if display != "" {
		fmt.Printf("%s [%s]: ", label, display)
	} else {
		fmt.Printf("%s: ", label)
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		return current
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return current
	}
	return line
}
