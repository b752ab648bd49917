package service

import (
	"context"
	"errors"

	"github.com/hack-community/hackmate/internal/bot/session"
	customerrors "github.com/hack-community/hackmate/internal/domain/errors"
	"github.com/hack-community/hackmate/internal/domain/models"
)

const profileInstructions = `Пожалуйста, введите информацию для вашего профиля. Включите следующее:

1. Ваше имя
2. Ваши навыки и опыт
3. Интересующие вас области в IT
4. Любую дополнительную информацию, которую вы хотите сообщить

Пример:
Анна Иванова
Навыки: Python, JavaScript, UI/UX дизайн
Опыт: 2 года веб-разработки
Интересы: Machine Learning, Blockchain
Доп. инфо: Люблю работать в команде, открыта для новых идей`

// ProfileService отвечает за создание, просмотр и редактирование анкеты.
// Структура анкеты не проверяется: формат задаётся только текстом подсказки.
type ProfileService struct {
	users    UserRepository
	sessions *session.Store
}

func NewProfileService(users UserRepository, sessions *session.Store) *ProfileService {
	return &ProfileService{
		users:    users,
		sessions: sessions,
	}
}

func (s *ProfileService) findUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, &customerrors.ErrUserNotFound{}) {
			return nil, nil
		}

		return nil, err
	}

	return user, nil
}

func (s *ProfileService) View(ctx context.Context, userID int64) (*models.Reply, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user == nil || !user.HasProfile() {
		return models.NewReply(
			"У вас еще нет профиля. Создайте его, чтобы другие участники могли узнать о ваших навыках и интересах.",
			models.Row(models.Button{Label: "Создать профиль", Token: models.TokenCreateProfile}),
			models.Row(mainMenuButton()),
		), nil
	}

	return models.NewReply(
		"Ваш текущий профиль:\n\n"+user.Profile+"\n\nХотите отредактировать свой профиль?",
		models.Row(models.Button{Label: "Редактировать профиль", Token: models.TokenEditProfile}),
		models.Row(mainMenuButton()),
	), nil
}

func (s *ProfileService) BeginCreate(_ context.Context, userID int64) (*models.Reply, error) {
	sess := s.sessions.Get(userID)
	sess.AwaitingProfile = true

	return models.NewReply(profileInstructions), nil
}

// BeginEdit показывает текущую анкету и ждёт новый текст. Для пользователя
// без анкеты редактирование превращается в создание.
func (s *ProfileService) BeginEdit(ctx context.Context, userID int64) (*models.Reply, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user == nil || !user.HasProfile() {
		return s.BeginCreate(ctx, userID)
	}

	sess := s.sessions.Get(userID)
	sess.AwaitingProfile = true

	text := "Ваш текущий профиль:\n\n" + user.Profile + `

Пожалуйста, введите новую информацию для вашего профиля, сохраняя структуру:
1. Ваше имя
2. Ваши навыки и опыт
3. Интересующие вас области в IT
4. Любую дополнительную информацию

Или нажмите 'Отмена', чтобы вернуться в меню.`

	return models.NewReply(text,
		models.Row(models.Button{Label: "Отмена", Token: models.TokenMainMenu}),
	), nil
}

// Save сохраняет текст анкеты. Флаг ожидания снимается до записи в базу:
// при ошибке записи пользователь не застревает в режиме ввода.
func (s *ProfileService) Save(ctx context.Context, userID int64, username, text string) (*models.Reply, error) {
	sess := s.sessions.Get(userID)
	if !sess.AwaitingProfile {
		return nil, &customerrors.ErrNotAwaitingProfile{UserID: userID}
	}

	sess.AwaitingProfile = false

	user := &models.User{
		ID:       userID,
		Username: username,
		Profile:  text,
	}

	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, err
	}

	reply := models.NewReply(
		"Ваш профиль был успешно сохранен! Теперь другие участники смогут узнать о ваших навыках и интересах.")
	reply.Next = MainMenuReply()

	return reply, nil
}
