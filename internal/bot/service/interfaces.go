package service

import (
	"context"

	"github.com/hack-community/hackmate/internal/domain/models"
)

type UserRepository interface {
	Upsert(ctx context.Context, user *models.User) error

	FindByID(ctx context.Context, userID int64) (*models.User, error)

	FindAll(ctx context.Context) ([]*models.User, error)
}

type HackathonRepository interface {
	FindUnjoined(ctx context.Context, userID int64) ([]*models.HackathonWithCount, error)

	FindJoined(ctx context.Context, userID int64) ([]*models.HackathonWithCount, error)

	FindAll(ctx context.Context) ([]*models.Hackathon, error)
}

type ParticipationRepository interface {
	Add(ctx context.Context, userID int64, username string, hackathonID int64) error

	Exists(ctx context.Context, userID, hackathonID int64) (bool, error)

	FindParticipants(ctx context.Context, hackathonID int64) ([]*models.Participant, error)
}

// ReplySender отправляет ответ пользователю вне обычного цикла
// запрос-ответ. Используется для рассылки анонсов новых хакатонов.
type ReplySender interface {
	SendReply(ctx context.Context, chatID int64, reply *models.Reply) error
}
