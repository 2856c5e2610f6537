package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single weather question and print the answer",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ag, err := buildAgent(cfg)
	if err != nil {
		return err
	}

	answer, err := ag.Run(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Println(answer)
	return nil
}
