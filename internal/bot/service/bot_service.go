package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hack-community/hackmate/internal/bot/cache"
	"github.com/hack-community/hackmate/internal/bot/session"
	"github.com/hack-community/hackmate/internal/common/metrics"
	customerrors "github.com/hack-community/hackmate/internal/domain/errors"
	"github.com/hack-community/hackmate/internal/domain/models"
)

// BotService — диспетчер: разбирает входящее событие (команду, текст или
// callback-токен) и вызывает нужный сервис. Любая ошибка обработчика
// останавливает только текущий ход: пользователь получает общее извинение
// и главное меню, диалог продолжается.
type BotService struct {
	profiles     *ProfileService
	hackathons   *HackathonService
	participants *ParticipantService
	users        UserRepository
	sessions     *session.Store
	sender       ReplySender
	cache        cache.HackathonCache
	inviteLink   string
	logger       *slog.Logger
}

func NewBotService(
	profiles *ProfileService,
	hackathons *HackathonService,
	participants *ParticipantService,
	users UserRepository,
	sessions *session.Store,
	sender ReplySender,
	inviteLink string,
	logger *slog.Logger,
) *BotService {
	return &BotService{
		profiles:     profiles,
		hackathons:   hackathons,
		participants: participants,
		users:        users,
		sessions:     sessions,
		sender:       sender,
		inviteLink:   inviteLink,
		logger:       logger,
	}
}

// WithCache задаёт кэш, сбрасываемый целиком при импорте новых хакатонов.
func (s *BotService) WithCache(hackathonCache cache.HackathonCache) *BotService {
	s.cache = hackathonCache
	return s
}

func (s *BotService) ProcessCommand(ctx context.Context, command *models.Command) (*models.Reply, error) {
	//nolint:exhaustive // CommandUnknown обрабатывается в блоке default
	switch command.Type {
	case models.CommandStart:
		return s.handleStart(ctx, command)
	default:
		// Незарегистрированные команды игнорируются.
		return nil, nil
	}
}

func (s *BotService) handleStart(_ context.Context, command *models.Command) (*models.Reply, error) {
	welcome := `Добро пожаловать!

Я бот для поиска участников хакатонов. Чем могу помочь?

Вот что я умею:
• Помогу создать ваш профиль участника
• Покажу список доступных хакатонов
• Помогу найти участников для вашей команды

Используйте кнопки меню для навигации.

Присоединяйтесь к нашему сообществу, чтобы быть в курсе всех событий и находить единомышленников!`

	reply := models.NewReply(welcome,
		models.Row(models.Button{Label: "Присоединиться к сообществу", URL: s.inviteLink}),
	)
	reply.Next = MainMenuReply()

	s.sessions.Reset(command.UserID)

	return reply, nil
}

// ProcessMessage обрабатывает свободный текст: либо это ожидаемая анкета,
// либо непонятная реплика, на которую бот отвечает подсказкой.
func (s *BotService) ProcessMessage(ctx context.Context, userID int64, username, text string) (*models.Reply, error) {
	sess := s.sessions.Get(userID)

	if sess.AwaitingProfile {
		reply, err := s.profiles.Save(ctx, userID, username, text)
		if err != nil {
			return s.recoverReply(userID, "message", err), nil
		}

		return reply, nil
	}

	return models.NewReply(
		"Извините, я не понимаю этой команды. Пожалуйста, используйте кнопки меню для навигации.",
		models.Row(models.Button{Label: "Главное меню", Token: models.TokenMainMenu}),
	), nil
}

// ProcessCallback разбирает токен кнопки и выполняет действие. Неизвестный
// или некорректный токен — молчаливый no-op: вернётся nil-ответ.
func (s *BotService) ProcessCallback(ctx context.Context, userID int64, username, data string) (*models.Reply, error) {
	token := models.ParseToken(data)

	if token.Action == models.ActionUnknown {
		s.logger.Warn("Получен неизвестный callback-токен",
			"userID", userID,
			"data", data,
		)

		return nil, nil
	}

	reply, err := s.dispatch(ctx, userID, username, token)
	if err != nil {
		if errors.Is(err, &customerrors.ErrEmptyList{}) {
			// Ожидаемый пустой результат, а не сбой: листать нечего.
			return models.NewReply(
				"Список для навигации пуст. Откройте его заново через меню.",
				models.Row(mainMenuButton()),
			), nil
		}

		return s.recoverReply(userID, data, err), nil
	}

	return reply, nil
}

//nolint:cyclop // Разбор действий — один плоский switch, по ветке на токен.
func (s *BotService) dispatch(ctx context.Context, userID int64, username string, token models.Token) (*models.Reply, error) {
	switch token.Action {
	case models.ActionViewProfile:
		return s.profiles.View(ctx, userID)
	case models.ActionCreateProfile:
		return s.profiles.BeginCreate(ctx, userID)
	case models.ActionEditProfile:
		return s.profiles.BeginEdit(ctx, userID)
	case models.ActionViewHackathons:
		return s.hackathons.ListUnjoined(ctx, userID)
	case models.ActionMyHackathons:
		return s.hackathons.ListJoined(ctx, userID)
	case models.ActionPrevHackathon:
		return s.hackathons.Advance(ctx, userID, -1)
	case models.ActionNextHackathon:
		return s.hackathons.Advance(ctx, userID, +1)
	case models.ActionParticipate:
		return s.hackathons.Join(ctx, userID, username, token.HackathonID)
	case models.ActionSearchParticipants:
		return s.hackathons.SearchMenu(ctx)
	case models.ActionLookForMembers:
		return s.participants.Load(ctx, userID, token.HackathonID)
	case models.ActionPrevParticipant:
		return s.participants.Advance(ctx, userID, -1)
	case models.ActionNextParticipant:
		return s.participants.Advance(ctx, userID, +1)
	case models.ActionMainMenu:
		// Возврат в меню отменяет ожидание текста анкеты: кнопка "Отмена"
		// в режиме редактирования ведёт сюда.
		s.sessions.Get(userID).AwaitingProfile = false

		return MainMenuReply(), nil
	case models.ActionUnknown:
		return nil, nil
	default:
		return nil, nil
	}
}

// recoverReply — общий путь восстановления: ошибка логируется, состояние
// просмотра сбрасывается, пользователь получает извинение и главное меню.
// Незавершённый ввод анкеты при этом теряется.
func (s *BotService) recoverReply(userID int64, event string, err error) *models.Reply {
	s.logger.Error("Ошибка при обработке события",
		"error", err,
		"userID", userID,
		"event", event,
	)

	metrics.RecordHandlerFault()

	s.sessions.Reset(userID)

	reply := models.NewReply("Произошла ошибка. Пожалуйста, попробуйте еще раз.")
	reply.Next = MainMenuReply()

	return reply
}

// HandleHackathonImported вызывается потребителем Kafka при появлении
// нового хакатона: кэши сбрасываются, все известные пользователи получают
// анонс. Ошибка отправки одному пользователю не прерывает рассылку.
func (s *BotService) HandleHackathonImported(ctx context.Context, hackathon *models.Hackathon) error {
	if s.cache != nil {
		if err := s.cache.InvalidateAll(ctx); err != nil {
			s.logger.Error("Ошибка при сбросе кэша после импорта",
				"error", err,
			)
		}
	}

	users, err := s.users.FindAll(ctx)
	if err != nil {
		return err
	}

	announcement := models.NewReply(
		"Появился новый хакатон: "+hackathon.Name+"\n\nПосмотрите детали и присоединяйтесь!",
		models.Row(models.Button{Label: "Просмотр хакатонов", Token: models.TokenViewHackathons}),
	)

	sent := 0

	for _, user := range users {
		if err := s.sender.SendReply(ctx, user.ID, announcement); err != nil {
			s.logger.Error("Ошибка при отправке анонса",
				"error", err,
				"userID", user.ID,
			)

			continue
		}

		sent++
		metrics.RecordAnnouncement()
	}

	s.logger.Info("Анонс нового хакатона разослан",
		"hackathon", hackathon.Name,
		"sent", sent,
		"total", len(users),
	)

	return nil
}
