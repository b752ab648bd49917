package clients

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hack-community/hackmate/internal/domain/models"
)

// TelegramClient отправляет ответы бота: переводит models.Reply в сообщения
// с inline-клавиатурами и правит уже отправленные сообщения при навигации.
type TelegramClient struct {
	bot    *tgbotapi.BotAPI
	logger *slog.Logger

	mu       sync.Mutex
	rendered map[int64]renderedMessage
}

// renderedMessage — последнее отображённое состояние чата: по нему
// определяется, что правка ничего не изменит и её можно пропустить.
type renderedMessage struct {
	messageID int
	text      string
	markup    string
}

func NewTelegramClient(token string, logger *slog.Logger) (*TelegramClient, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("ошибка при создании Telegram клиента: %w", err)
	}

	return &TelegramClient{
		bot:      bot,
		logger:   logger,
		rendered: make(map[int64]renderedMessage),
	}, nil
}

// SetBaseURL устанавливает базовый URL для API Telegram (используется в тестах).
func (c *TelegramClient) SetBaseURL(url string) {
	c.bot.SetAPIEndpoint(url)
}

func (c *TelegramClient) GetBot() *tgbotapi.BotAPI {
	return c.bot
}

// SetMyCommands регистрирует команды бота в меню Telegram.
func (c *TelegramClient) SetMyCommands(_ context.Context, commands []tgbotapi.BotCommand) error {
	if _, err := c.bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		return fmt.Errorf("ошибка при установке команд бота: %w", err)
	}

	return nil
}

// SendReply отправляет ответ новым сообщением, включая всю цепочку Next.
func (c *TelegramClient) SendReply(_ context.Context, chatID int64, reply *models.Reply) error {
	for current := reply; current != nil; current = current.Next {
		if err := c.sendOne(chatID, current); err != nil {
			return err
		}
	}

	return nil
}

func (c *TelegramClient) sendOne(chatID int64, reply *models.Reply) error {
	msg := tgbotapi.NewMessage(chatID, reply.Text)

	markup := buildMarkup(reply)
	if markup != nil {
		msg.ReplyMarkup = *markup
	}

	sent, err := c.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("ошибка при отправке сообщения: %w", err)
	}

	c.remember(chatID, sent.MessageID, reply.Text, markup)

	return nil
}

// EditReply правит сообщение messageID, подставляя первый ответ цепочки,
// а остальные отправляет новыми сообщениями. Правка, не меняющая ни текст,
// ни клавиатуру, пропускается: Telegram отвечает на такие ошибкой
// "message is not modified", которая здесь также обезвреживается.
func (c *TelegramClient) EditReply(ctx context.Context, chatID int64, messageID int, reply *models.Reply) error {
	markup := buildMarkup(reply)

	if c.unchanged(chatID, messageID, reply.Text, markup) {
		c.logger.Debug("Правка пропущена: содержимое не изменилось",
			"chatID", chatID,
			"messageID", messageID,
		)
	} else {
		edit := tgbotapi.NewEditMessageText(chatID, messageID, reply.Text)
		if markup != nil {
			edit.ReplyMarkup = markup
		}

		if _, err := c.bot.Send(edit); err != nil {
			if !isNotModified(err) {
				return fmt.Errorf("ошибка при правке сообщения: %w", err)
			}
		}

		c.remember(chatID, messageID, reply.Text, markup)
	}

	if reply.Next != nil {
		return c.SendReply(ctx, chatID, reply.Next)
	}

	return nil
}

// AnswerCallback подтверждает нажатие кнопки; text показывается
// пользователю всплывающим уведомлением.
func (c *TelegramClient) AnswerCallback(_ context.Context, callbackID, text string) error {
	callback := tgbotapi.NewCallback(callbackID, text)

	if _, err := c.bot.Request(callback); err != nil {
		return fmt.Errorf("ошибка при ответе на callback: %w", err)
	}

	return nil
}

func (c *TelegramClient) remember(chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rendered[chatID] = renderedMessage{
		messageID: messageID,
		text:      text,
		markup:    markupKey(markup),
	}
}

func (c *TelegramClient) unchanged(chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	last, ok := c.rendered[chatID]

	return ok && last.messageID == messageID && last.text == text && last.markup == markupKey(markup)
}

func buildMarkup(reply *models.Reply) *tgbotapi.InlineKeyboardMarkup {
	if len(reply.Buttons) == 0 {
		return nil
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(reply.Buttons))

	for _, row := range reply.Buttons {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))

		for _, b := range row {
			if b.URL != "" {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(b.Label, b.URL))
			} else {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Token))
			}
		}

		rows = append(rows, buttons)
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)

	return &markup
}

func markupKey(markup *tgbotapi.InlineKeyboardMarkup) string {
	if markup == nil {
		return ""
	}

	var sb strings.Builder

	for _, row := range markup.InlineKeyboard {
		for _, b := range row {
			sb.WriteString(b.Text)
			sb.WriteByte('|')

			if b.CallbackData != nil {
				sb.WriteString(*b.CallbackData)
			}

			if b.URL != nil {
				sb.WriteString(*b.URL)
			}

			sb.WriteByte(';')
		}

		sb.WriteByte('\n')
	}

	return sb.String()
}

func isNotModified(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}
