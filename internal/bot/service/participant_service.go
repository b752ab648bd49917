package service

import (
	"context"
	"fmt"

	"github.com/hack-community/hackmate/internal/bot/session"
	customerrors "github.com/hack-community/hackmate/internal/domain/errors"
	"github.com/hack-community/hackmate/internal/domain/models"
)

// ParticipantService — просмотр участников одного хакатона. В отличие от
// списка хакатонов навигация здесь упирается в границу: шаг за последний
// элемент показывает терминальное сообщение, из которого можно выйти
// только назад.
type ParticipantService struct {
	participations ParticipationRepository
	sessions       *session.Store
}

func NewParticipantService(participations ParticipationRepository, sessions *session.Store) *ParticipantService {
	return &ParticipantService{
		participations: participations,
		sessions:       sessions,
	}
}

// Load запрашивает участников хакатона и показывает первого. Пустой список
// не кэшируется в сессии: пользователю предлагается стать первым участником.
func (s *ParticipantService) Load(ctx context.Context, userID, hackathonID int64) (*models.Reply, error) {
	participants, err := s.participations.FindParticipants(ctx, hackathonID)
	if err != nil {
		return nil, err
	}

	if len(participants) == 0 {
		return models.NewReply(
			"Пока нет участников для этого хакатона. Вы можете стать первым!",
			models.Row(models.Button{Label: "Вернуться к хакатонам", Token: models.TokenViewHackathons}),
			models.Row(models.Button{Label: "Главное меню", Token: models.TokenMainMenu}),
		), nil
	}

	sess := s.sessions.Get(userID)
	sess.Participants = participants
	sess.CurrentParticipant = 0

	return s.renderCurrent(sess), nil
}

// Advance: назад — с ограничением нулём, вперёд — без ограничения.
// Выход за конец списка обнаруживается при отрисовке, а не здесь.
func (s *ParticipantService) Advance(_ context.Context, userID int64, direction int) (*models.Reply, error) {
	sess := s.sessions.Get(userID)

	if len(sess.Participants) == 0 {
		return nil, &customerrors.ErrEmptyList{}
	}

	if direction < 0 {
		sess.CurrentParticipant--
		if sess.CurrentParticipant < 0 {
			sess.CurrentParticipant = 0
		}
	} else {
		sess.CurrentParticipant++
	}

	return s.renderCurrent(sess), nil
}

func (s *ParticipantService) renderCurrent(sess *models.Session) *models.Reply {
	length := len(sess.Participants)

	if sess.CurrentParticipant >= length {
		// Индекс может уйти максимум на один шаг за конец: кнопки
		// "Следующий" в терминальном сообщении нет. Большее смещение
		// прижимается обратно к границе.
		sess.CurrentParticipant = length

		return models.NewReply(
			"Больше нет участников для отображения.",
			models.Row(models.Button{Label: "⬅️ Предыдущий", Token: models.TokenPrevParticipant}),
			models.Row(models.Button{Label: "Вернуться к хакатонам", Token: models.TokenViewHackathons}),
			models.Row(models.Button{Label: "Главное меню", Token: models.TokenMainMenu}),
		)
	}

	p := sess.Participants[sess.CurrentParticipant]

	text := fmt.Sprintf("Участник %d из %d:\n\n@%s:\n%s",
		sess.CurrentParticipant+1, length, p.Username, p.Profile)

	return models.NewReply(text,
		models.Row(
			models.Button{Label: "⬅️ Предыдущий", Token: models.TokenPrevParticipant},
			models.Button{Label: "Следующий ➡️", Token: models.TokenNextParticipant},
		),
		models.Row(models.Button{Label: "Вернуться к хакатонам", Token: models.TokenViewHackathons}),
		models.Row(models.Button{Label: "Главное меню", Token: models.TokenMainMenu}),
	)
}
