package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/hack-community/hackmate/internal/domain/models"
)

// HackathonEventMessage — формат события для бота. Поля совпадают с тем,
// что ожидает consumer на стороне бота.
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

const eventImported = "imported"

// KafkaNotifier публикует события импорта в Kafka.
type KafkaNotifier struct {
	producer    *kafka.Writer
	logger      *slog.Logger
	eventsTopic string
}

func NewKafkaNotifier(brokers []string, eventsTopic string, logger *slog.Logger) *KafkaNotifier {
	producer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        eventsTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		Logger:       kafka.LoggerFunc(logger.Debug),
		ErrorLogger:  kafka.LoggerFunc(logger.Error),
	}

	return &KafkaNotifier{
		producer:    producer,
		logger:      logger,
		eventsTopic: eventsTopic,
	}
}

func (n *KafkaNotifier) AnnounceImported(ctx context.Context, hackathon *models.Hackathon) error {
	n.logger.Info("Отправка события импорта в Kafka",
		"hackathon", hackathon.Name,
		"topic", n.eventsTopic,
	)

	message := HackathonEventMessage{
		Event:        eventImported,
		Name:         hackathon.Name,
		Prizes:       hackathon.Prizes,
		Registration: hackathon.Registration,
		Duration:     hackathon.Duration,
		Link:         hackathon.Link,
		TelegramChat: hackathon.TelegramChat,
		Comments:     hackathon.Comments,
	}

	value, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("ошибка при сериализации события: %w", err)
	}

	err = n.producer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(hackathon.Name),
		Value: value,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("ошибка при отправке события в Kafka: %w", err)
	}

	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.producer.Close()
}
