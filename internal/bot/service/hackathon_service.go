package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hack-community/hackmate/internal/bot/cache"
	"github.com/hack-community/hackmate/internal/bot/session"
	customerrors "github.com/hack-community/hackmate/internal/domain/errors"
	"github.com/hack-community/hackmate/internal/domain/models"
)

// HackathonService — просмотр хакатонов с круговой навигацией: шаг за
// последний элемент возвращает к первому и наоборот.
type HackathonService struct {
	hackathons     HackathonRepository
	participations ParticipationRepository
	sessions       *session.Store
	cache          cache.HackathonCache
	logger         *slog.Logger
}

func NewHackathonService(
	hackathons HackathonRepository,
	participations ParticipationRepository,
	sessions *session.Store,
	logger *slog.Logger,
) *HackathonService {
	return &HackathonService{
		hackathons:     hackathons,
		participations: participations,
		sessions:       sessions,
		logger:         logger,
	}
}

// WithCache включает кэширование списка доступных хакатонов.
func (s *HackathonService) WithCache(hackathonCache cache.HackathonCache) *HackathonService {
	s.cache = hackathonCache
	return s
}

func (s *HackathonService) fetchUnjoined(ctx context.Context, userID int64) ([]*models.HackathonWithCount, error) {
	if s.cache != nil {
		cached, err := s.cache.GetUnjoined(ctx, userID)
		if err != nil {
			s.logger.Error("Ошибка при чтении кэша хакатонов",
				"error", err,
				"userID", userID,
			)
		} else if cached != nil {
			return cached, nil
		}
	}

	hackathons, err := s.hackathons.FindUnjoined(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetUnjoined(ctx, userID, hackathons); err != nil {
			s.logger.Error("Ошибка при записи кэша хакатонов",
				"error", err,
				"userID", userID,
			)
		}
	}

	return hackathons, nil
}

// ListUnjoined показывает первый из хакатонов, в которых пользователь ещё
// не участвует, и заполняет кэшированный список сессии.
func (s *HackathonService) ListUnjoined(ctx context.Context, userID int64) (*models.Reply, error) {
	hackathons, err := s.fetchUnjoined(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(hackathons) == 0 {
		return models.NewReply(
			"На данный момент нет доступных хакатонов, в которых вы еще не участвуете. "+
				"Проверьте позже или посмотрите свои текущие хакатоны.",
			models.Row(models.Button{Label: "Мои хакатоны", Token: models.TokenMyHackathons}),
			models.Row(mainMenuButton()),
		), nil
	}

	sess := s.sessions.Get(userID)
	sess.Hackathons = hackathons
	sess.CurrentHackathon = 0
	sess.MyHackathonsView = false

	return s.renderCurrent(sess), nil
}

func (s *HackathonService) ListJoined(ctx context.Context, userID int64) (*models.Reply, error) {
	hackathons, err := s.hackathons.FindJoined(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(hackathons) == 0 {
		return models.NewReply(
			"Вы еще не участвуете ни в одном хакатоне. Хотите просмотреть доступные хакатоны?",
			models.Row(models.Button{Label: "Просмотр хакатонов", Token: models.TokenViewHackathons}),
			models.Row(mainMenuButton()),
		), nil
	}

	sess := s.sessions.Get(userID)
	sess.Hackathons = hackathons
	sess.CurrentHackathon = 0
	sess.MyHackathonsView = true

	return s.renderCurrent(sess), nil
}

// Advance сдвигает позицию на direction (−1 или +1) по модулю длины списка.
// При пустом списке навигация невозможна: вернётся ErrEmptyList, а не
// деление на ноль.
func (s *HackathonService) Advance(_ context.Context, userID int64, direction int) (*models.Reply, error) {
	sess := s.sessions.Get(userID)

	length := len(sess.Hackathons)
	if length == 0 {
		return nil, &customerrors.ErrEmptyList{}
	}

	sess.CurrentHackathon = ((sess.CurrentHackathon+direction)%length + length) % length

	return s.renderCurrent(sess), nil
}

// Join регистрирует участие. Повторная попытка не создаёт вторую строку и
// не падает: пользователь получает ответ, что уже зарегистрирован.
// После любого исхода список доступных хакатонов перечитывается и
// позиция сбрасывается на начало.
func (s *HackathonService) Join(ctx context.Context, userID int64, username string, hackathonID int64) (*models.Reply, error) {
	exists, err := s.participations.Exists(ctx, userID, hackathonID)
	if err != nil {
		return nil, err
	}

	toast := "Вы успешно зарегистрировались на участие в этом хакатоне!"

	if exists {
		toast = "Вы уже зарегистрированы на этот хакатон."
	} else {
		err := s.participations.Add(ctx, userID, username, hackathonID)

		switch {
		case err == nil:
		case errors.Is(err, &customerrors.ErrAlreadyParticipating{}):
			// Гонка между проверкой и вставкой: уникальность пары
			// обеспечила база.
			toast = "Вы уже зарегистрированы на этот хакатон."
		default:
			return nil, err
		}
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID); err != nil {
			s.logger.Error("Ошибка при сбросе кэша хакатонов",
				"error", err,
				"userID", userID,
			)
		}
	}

	reply, err := s.ListUnjoined(ctx, userID)
	if err != nil {
		return nil, err
	}

	reply.Toast = toast

	return reply, nil
}

// SearchMenu показывает все хакатоны без фильтра по участию как меню
// выбора для поиска участников.
func (s *HackathonService) SearchMenu(ctx context.Context) (*models.Reply, error) {
	hackathons, err := s.hackathons.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if len(hackathons) == 0 {
		return models.NewReply(
			"В настоящее время нет доступных хакатонов для поиска участников.",
			models.Row(mainMenuButton()),
		), nil
	}

	rows := make([][]models.Button, 0, len(hackathons)+1)
	for _, h := range hackathons {
		rows = append(rows, models.Row(models.Button{
			Label: h.Name,
			Token: models.LookForMembersToken(h.ID),
		}))
	}

	rows = append(rows, models.Row(mainMenuButton()))

	return &models.Reply{
		Text:    "Выберите хакатон, для которого вы хотите найти участников:",
		Buttons: rows,
	}, nil
}

func (s *HackathonService) renderCurrent(sess *models.Session) *models.Reply {
	h := sess.Hackathons[sess.CurrentHackathon]

	text := fmt.Sprintf(`Хакатон: %s

Призы: %s
Регистрация: %s
Длительность: %s
Ссылка: %s
Чат Telegram: %s
Комментарии: %s
Количество участников от сообщества: %d`,
		h.Name, h.Prizes, h.Registration, h.Duration, h.Link, h.TelegramChat, h.Comments, h.ParticipantCount)

	rows := [][]models.Button{
		models.Row(
			models.Button{Label: "Предыдущий", Token: models.TokenPrevHackathon},
			models.Button{Label: "Следующий", Token: models.TokenNextHackathon},
		),
	}

	// Кнопка регистрации есть только в списке доступных хакатонов.
	if !sess.MyHackathonsView {
		rows = append(rows, models.Row(models.Button{
			Label: "Я хочу участвовать",
			Token: models.ParticipateToken(h.ID),
		}))
	}

	rows = append(rows,
		models.Row(models.Button{Label: "Посмотреть участников", Token: models.LookForMembersToken(h.ID)}),
		models.Row(mainMenuButton()),
	)

	return &models.Reply{Text: text, Buttons: rows}
}
