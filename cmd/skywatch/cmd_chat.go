package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

// exitWords end the chat session when typed alone.
var exitWords = map[string]bool{
	"quit":    true,
	"exit":    true,
	"bye":     true,
	"goodbye": true,
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive weather chat",
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ag, err := buildAgent(cfg)
	if err != nil {
		return err
	}

	welcome := titleStyle.Render("Weather Assistant") + "\n\n" +
		"Ask me about the weather anywhere in the world.\n" +
		dimStyle.Render("Examples:") + "\n" +
		"  What's the weather like in Paris?\n" +
		"  Will it rain in Tokyo tomorrow?\n" +
		"  Compare the weather in London and Madrid\n\n" +
		dimStyle.Render("Type quit, exit, bye, or goodbye to leave.")
	fmt.Println(panelStyle.Render(welcome))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nGoodbye!")
		os.Exit(0)
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(promptStyle.Render("You: "))
		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if exitWords[strings.ToLower(line)] {
			fmt.Println("Goodbye! Stay weather-aware!")
			return nil
		}

		answer, err := ag.Run(cmd.Context(), line)
		if err != nil {
			fmt.Println(dimStyle.Render("Error: " + err.Error()))
			continue
		}
		fmt.Println(promptStyle.Render("Assistant: ") + answerStyle.Render(answer))
		fmt.Println()
	}
}
