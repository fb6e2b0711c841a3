package telegram

import (
	"context"
	"fmt"
	"strings"

	"go-job-trend-analyzer/internal/pipeline"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot posts scrape summaries to a single chat.
type Bot struct {
	api    sender
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
		")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
		"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
		"}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(text)
}

// NotifyScrape sends one MarkdownV2 message describing the run.
func (b *Bot) NotifyScrape(ctx context.Context, result pipeline.ScrapeResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(b.chatID, FormatScrapeSummary(result))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true

	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

func statusIcon(s pipeline.Status) string {
	switch s {
	case pipeline.StatusSuccess:
		return "✅"
	case pipeline.StatusWarning:
		return "⚠️"
	default:
		return "❌"
	}
}

// FormatScrapeSummary renders the run as MarkdownV2 text.
func FormatScrapeSummary(r pipeline.ScrapeResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s *%s*\n", statusIcon(r.Status), escapeMarkdown(r.Message))
	fmt.Fprintf(&sb, "🔎 %s", escapeMarkdown(r.Query.Term))
	if r.Query.Location != "" {
		fmt.Fprintf(&sb, " in %s", escapeMarkdown(r.Query.Location))
	}
	fmt.Fprintf(&sb, " \\(%d page", r.Query.Pages)
	if r.Query.Pages != 1 {
		sb.WriteString("s")
	}
	sb.WriteString("\\)\n")

	for _, s := range r.Sources {
		line := fmt.Sprintf("%s: %d", s.Source, s.Count)
		if s.Error != "" {
			line += " (" + s.Error + ")"
		}
		fmt.Fprintf(&sb, "• %s\n", escapeMarkdown(line))
	}
	fmt.Fprintf(&sb, "🆔 `%s`", r.RunID)
	return sb.String()
}
