package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hack-community/hackmate/internal/config"
	"github.com/hack-community/hackmate/internal/domain/models"
)

// Notifier объявляет канал анонсов импортёра. Пустая реализация
// используется, когда рассылка выключена.
type Notifier interface {
	AnnounceImported(ctx context.Context, hackathon *models.Hackathon) error
	Close() error
}

type NotifierType string

const (
	KafkaTransport NotifierType = "KAFKA"
	NoneTransport  NotifierType = "NONE"
)

type NotifierFactory struct {
	config *config.Config
	logger *slog.Logger
}

func NewNotifierFactory(cfg *config.Config, logger *slog.Logger) *NotifierFactory {
	return &NotifierFactory{
		config: cfg,
		logger: logger,
	}
}

func (f *NotifierFactory) CreateNotifier() (Notifier, error) {
	notifierType := NotifierType(strings.ToUpper(f.config.AnnounceTransport))

	f.logger.Info("Создание нотификатора",
		"type", notifierType,
	)

	switch notifierType {
	case KafkaTransport:
		brokers := strings.Split(f.config.KafkaBrokers, ",")
		return NewKafkaNotifier(brokers, f.config.TopicHackathonEvents, f.logger), nil
	case NoneTransport:
		return &NoopNotifier{}, nil
	default:
		return nil, fmt.Errorf("неизвестный тип нотификатора: %s", notifierType)
	}
}

// NoopNotifier молча проглатывает анонсы.
type NoopNotifier struct{}

func (n *NoopNotifier) AnnounceImported(_ context.Context, _ *models.Hackathon) error {
	return nil
}

func (n *NoopNotifier) Close() error {
	return nil
}
