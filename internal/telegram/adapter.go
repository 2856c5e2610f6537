package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/semaphore"
)

const maxTelegramMessage = 4096

// Agent runs one user query to completion and returns the final answer.
type Agent interface {
	Run(ctx context.Context, query string) (string, error)
}

// Adapter bridges Telegram to the agent. Each incoming message is answered
// by one stateless agent run; no conversation state is kept between messages.
type Adapter struct {
	bot   *tgbotapi.BotAPI
	agent Agent
	// The agent loop is synchronous by contract; runs are serialized even
	// though updates arrive concurrently.
	sem *semaphore.Weighted
}

// New creates a Telegram adapter.
func New(token string, agent Agent) (*Adapter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &Adapter{
		bot:   bot,
		agent: agent,
		sem:   semaphore.NewWeighted(1),
	}, nil
}

// Start begins long-polling for Telegram updates. It returns when ctx is
// canceled.
func (a *Adapter) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := a.bot.GetUpdatesChan(u)

	for {
		select {
		case update := <-updates:
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			go a.handleMessage(ctx, update.Message)
		case <-ctx.Done():
			a.bot.StopReceivingUpdates()
			return
		}
	}
}

func (a *Adapter) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		a.handleCommand(msg)
		return
	}

	if err := a.sem.Acquire(ctx, 1); err != nil {
		return
	}
	defer a.sem.Release(1)

	answer, err := a.agent.Run(ctx, msg.Text)
	if err != nil {
		slog.Error("agent run failed", "chat_id", msg.Chat.ID, "error", err)
		a.SendTo(msg.Chat.ID, "Sorry, I encountered an error answering your question.")
		return
	}
	a.SendTo(msg.Chat.ID, answer)
}

func (a *Adapter) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		a.SendTo(msg.Chat.ID, "Hello! I'm an AI weather assistant. Ask me about "+
			"current conditions or the forecast for any city.")
	case "help":
		a.SendTo(msg.Chat.ID, "Ask in natural language, e.g. \"What's the weather "+
			"like in Paris?\" or \"Will it rain in Tokyo tomorrow?\". For small "+
			"towns, include the state and country: \"Bladenboro,NC,US\".")
	default:
		a.SendTo(msg.Chat.ID, "Unknown command. Available: /start, /help")
	}
}

// SendTo delivers a text message to a chat, splitting it at the Telegram
// message size limit. Markdown is attempted first and retried as plain text.
func (a *Adapter) SendTo(chatID int64, text string) {
	for _, part := range splitMessage(text) {
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ParseMode = "Markdown"
		if _, err := a.bot.Send(msg); err != nil {
			msg.ParseMode = ""
			if _, err := a.bot.Send(msg); err != nil {
				slog.Error("send message failed", "chat_id", chatID, "error", err)
			}
		}
	}
}

func splitMessage(text string) []string {
	if len(text) <= maxTelegramMessage {
		return []string{text}
	}
	var parts []string
	for len(text) > 0 {
		end := maxTelegramMessage
		if end > len(text) {
			end = len(text)
		}
		parts = append(parts, text[:end])
		text = text[end:]
	}
	return parts
}
