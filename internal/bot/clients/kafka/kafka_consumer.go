package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	boterrors "github.com/hack-community/hackmate/internal/domain/errors"
	"github.com/hack-community/hackmate/internal/domain/models"
)

// HackathonEventMessage — событие импортёра о новом или обновлённом
// хакатоне.
type HackathonEventMessage struct {
	Event        string `json:"event"`
	Name         string `json:"name"`
	Prizes       string `json:"prizes,omitempty"`
	Registration string `json:"registration,omitempty"`
	Duration     string `json:"duration,omitempty"`
	Link         string `json:"link,omitempty"`
	TelegramChat string `json:"telegramChat,omitempty"`
	Comments     string `json:"comments,omitempty"`
}

type MessageHandler interface {
	HandleHackathonImported(ctx context.Context, hackathon *models.Hackathon) error
}

// Consumer читает события импортёра и передаёт их боту для анонса.
// Нечитаемые сообщения уходят в DLQ, а не блокируют поток.
type Consumer struct {
	reader         *kafka.Reader
	dlqWriter      *kafka.Writer
	messageHandler MessageHandler
	logger         *slog.Logger
	eventsTopic    string
	dlqTopic       string
}

func NewConsumer(
	brokers []string,
	groupID string,
	eventsTopic string,
	dlqTopic string,
	messageHandler MessageHandler,
	logger *slog.Logger,
) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        groupID,
		Topic:          eventsTopic,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		CommitInterval: 1 * time.Second,
		Logger:         kafka.LoggerFunc(logger.Debug),
		ErrorLogger:    kafka.LoggerFunc(logger.Error),
	})

	dlqWriter := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        dlqTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		Logger:       kafka.LoggerFunc(logger.Debug),
		ErrorLogger:  kafka.LoggerFunc(logger.Error),
	}

	return &Consumer{
		reader:         reader,
		dlqWriter:      dlqWriter,
		messageHandler: messageHandler,
		logger:         logger,
		eventsTopic:    eventsTopic,
		dlqTopic:       dlqTopic,
	}
}

func (c *Consumer) Start(ctx context.Context) {
	c.logger.Info("Запуск потребления событий из Kafka",
		"topic", c.eventsTopic,
	)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Остановка потребления событий из Kafka")
				return
			default:
				msg, err := c.reader.ReadMessage(ctx)
				if err != nil {
					c.logger.Error("Ошибка при чтении события из Kafka",
						"error", err,
					)

					continue
				}

				c.logger.Info("Получено событие из Kafka",
					"topic", msg.Topic,
					"partition", msg.Partition,
					"offset", msg.Offset,
				)

				if err := c.processMessage(ctx, &msg); err != nil {
					c.logger.Error("Ошибка при обработке события",
						"error", err,
					)
				}
			}
		}
	}()
}

func (c *Consumer) processMessage(ctx context.Context, msg *kafka.Message) error {
	var event HackathonEventMessage

	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.Error("Ошибка при десериализации события",
			"error", err,
		)

		if sendErr := c.sendToDLQ(ctx, msg.Value, fmt.Sprintf("Ошибка десериализации: %s", err)); sendErr != nil {
			c.logger.Error("Ошибка при отправке события в DLQ",
				"error", sendErr,
			)
		}

		return fmt.Errorf("ошибка при десериализации события: %w", err)
	}

	if event.Name == "" {
		newErr := &boterrors.ErrMissingColumn{Column: "name"}

		c.logger.Error("Событие без названия хакатона")

		if sendErr := c.sendToDLQ(ctx, msg.Value, newErr.Error()); sendErr != nil {
			c.logger.Error("Ошибка при отправке события в DLQ",
				"error", sendErr,
			)
		}

		return newErr
	}

	hackathon := &models.Hackathon{
		Name:         event.Name,
		Prizes:       event.Prizes,
		Registration: event.Registration,
		Duration:     event.Duration,
		Link:         event.Link,
		TelegramChat: event.TelegramChat,
		Comments:     event.Comments,
	}

	if err := c.messageHandler.HandleHackathonImported(ctx, hackathon); err != nil {
		c.logger.Error("Ошибка при обработке события импорта",
			"error", err,
		)

		return fmt.Errorf("ошибка при обработке события импорта: %w", err)
	}

	c.logger.Info("Событие успешно обработано",
		"hackathon", event.Name,
	)

	return nil
}

func (c *Consumer) sendToDLQ(ctx context.Context, message []byte, errMsg string) error {
	c.logger.Info("Отправка события в DLQ",
		"error", errMsg,
		"topic", c.dlqTopic,
	)

	err := c.dlqWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte("error"),
		Value: message,
		Headers: []kafka.Header{
			{Key: "error", Value: []byte(errMsg)},
			{Key: "timestamp", Value: []byte(time.Now().Format(time.RFC3339))},
		},
		Time: time.Now(),
	})

	if err != nil {
		c.logger.Error("Ошибка при отправке события в DLQ",
			"error", err,
		)

		return fmt.Errorf("ошибка при отправке события в DLQ: %w", err)
	}

	return nil
}

func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return err
	}

	return c.dlqWriter.Close()
}
