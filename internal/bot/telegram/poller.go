package telegram

import (
	"context"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hack-community/hackmate/internal/bot/clients"
	"github.com/hack-community/hackmate/internal/common/metrics"
	"github.com/hack-community/hackmate/internal/common/middleware"
	"github.com/hack-community/hackmate/internal/domain/models"
)

type BotService interface {
	ProcessCommand(ctx context.Context, command *models.Command) (*models.Reply, error)

	ProcessMessage(ctx context.Context, userID int64, username, text string) (*models.Reply, error)

	ProcessCallback(ctx context.Context, userID int64, username, data string) (*models.Reply, error)
}

// Poller читает обновления Telegram длинным опросом и раздаёт их
// диспетчеру. Каждое обновление обрабатывается с собственным таймаутом,
// паника в обработчике гасится и превращается в извинение.
type Poller struct {
	client      *clients.TelegramClient
	botService  BotService
	limiter     *middleware.UserRateLimiter
	timeout     time.Duration
	logger      *slog.Logger
	updatesChan tgbotapi.UpdatesChannel
	stopChan    chan struct{}
}

func NewPoller(
	client *clients.TelegramClient,
	botService BotService,
	limiter *middleware.UserRateLimiter,
	timeout time.Duration,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		client:     client,
		botService: botService,
		limiter:    limiter,
		timeout:    timeout,
		logger:     logger,
		stopChan:   make(chan struct{}),
	}
}

func (p *Poller) Start() {
	p.logger.Info("Запуск Telegram поллера")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	p.updatesChan = p.client.GetBot().GetUpdatesChan(u)

	go func() {
		for {
			select {
			case <-p.stopChan:
				p.logger.Info("Получен сигнал остановки поллера")
				return
			case update := <-p.updatesChan:
				p.processUpdate(&update)
			}
		}
	}()
}

func (p *Poller) Stop() {
	p.logger.Info("Остановка Telegram поллера")
	close(p.stopChan)
}

func (p *Poller) processUpdate(update *tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		p.handleCallback(update.CallbackQuery)
	case update.Message != nil:
		p.handleMessage(update.Message)
	}
}

func (p *Poller) handleMessage(message *tgbotapi.Message) {
	if message.From == nil {
		return
	}

	chatID := message.Chat.ID
	userID := message.From.ID
	username := message.From.UserName
	text := message.Text

	if !p.limiter.Allow(userID) {
		p.logger.Warn("Сообщение отброшено лимитером",
			"userID", userID,
		)

		return
	}

	p.logger.Info("Получено сообщение",
		"chatID", chatID,
		"userID", userID,
		"username", username,
	)

	messageType := "message"
	if message.IsCommand() {
		messageType = "command"
	}

	metrics.RecordUserMessage(messageType)

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	defer p.recoverPanic(ctx, chatID)

	var (
		reply *models.Reply
		err   error
	)

	if message.IsCommand() {
		command := &models.Command{
			Type:     getCommandType("/" + message.Command()),
			ChatID:   chatID,
			UserID:   userID,
			Text:     text,
			Username: username,
		}

		reply, err = p.botService.ProcessCommand(ctx, command)
	} else {
		reply, err = p.botService.ProcessMessage(ctx, userID, username, text)
	}

	if err != nil {
		p.logger.Error("Ошибка при обработке сообщения",
			"error", err,
			"chatID", chatID,
		)

		reply = apologyReply()
	}

	p.deliver(ctx, chatID, reply)
}

func (p *Poller) handleCallback(callback *tgbotapi.CallbackQuery) {
	userID := callback.From.ID
	username := callback.From.UserName
	data := callback.Data

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if !p.limiter.Allow(userID) {
		// Кнопка не должна остаться с вечным спиннером даже при отбросе.
		p.answer(ctx, callback.ID, "")

		return
	}

	metrics.RecordCallback(callbackLabel(data))

	p.logger.Info("Получен callback",
		"userID", userID,
		"data", data,
	)

	var chatID int64
	if callback.Message != nil {
		chatID = callback.Message.Chat.ID
	}

	defer p.recoverPanic(ctx, chatID)

	reply, err := p.botService.ProcessCallback(ctx, userID, username, data)
	if err != nil {
		p.logger.Error("Ошибка при обработке callback",
			"error", err,
			"userID", userID,
			"data", data,
		)

		reply = apologyReply()
	}

	toast := ""
	if reply != nil {
		toast = reply.Toast
	}

	p.answer(ctx, callback.ID, toast)

	if reply == nil || chatID == 0 {
		return
	}

	if err := p.client.EditReply(ctx, chatID, callback.Message.MessageID, reply); err != nil {
		p.logger.Error("Ошибка при правке сообщения",
			"error", err,
			"chatID", chatID,
		)
	}
}

func (p *Poller) deliver(ctx context.Context, chatID int64, reply *models.Reply) {
	if reply == nil {
		return
	}

	if err := p.client.SendReply(ctx, chatID, reply); err != nil {
		p.logger.Error("Ошибка при отправке ответа",
			"error", err,
			"chatID", chatID,
		)
	}
}

func (p *Poller) answer(ctx context.Context, callbackID, text string) {
	if err := p.client.AnswerCallback(ctx, callbackID, text); err != nil {
		p.logger.Error("Ошибка при ответе на callback",
			"error", err,
		)
	}
}

func (p *Poller) recoverPanic(ctx context.Context, chatID int64) {
	if r := recover(); r != nil {
		p.logger.Error("Паника при обработке обновления",
			"panic", r,
			"chatID", chatID,
		)

		metrics.RecordHandlerFault()

		if chatID != 0 {
			p.deliver(ctx, chatID, apologyReply())
		}
	}
}

func apologyReply() *models.Reply {
	return models.NewReply("Произошла ошибка при обработке вашего сообщения. Пожалуйста, попробуйте позже.")
}

// callbackLabel сводит параметризованные токены к общему префиксу, чтобы
// не раздувать кардинальность метрики числовыми ID.
func callbackLabel(data string) string {
	return strings.TrimRight(data, "0123456789")
}

func getCommandType(commandName string) models.CommandType {
	switch commandName {
	case "/start":
		return models.CommandStart
	default:
		return models.CommandUnknown
	}
}
