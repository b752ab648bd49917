package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hack-community/hackmate/internal/domain/models"
)

func startCommand(userID int64) *models.Command {
	return &models.Command{
		Type:     models.CommandStart,
		ChatID:   userID,
		UserID:   userID,
		Text:     "/start",
		Username: "anna",
	}
}

func TestBotService_StartCommand(t *testing.T) {
	env := newTestEnv()

	reply, err := env.dispatcher.ProcessCommand(context.Background(), startCommand(1))
	require.NoError(t, err)

	assert.Contains(t, reply.Text, "Добро пожаловать")

	var inviteButton *models.Button

	for _, row := range reply.Buttons {
		for i := range row {
			if row[i].URL != "" {
				inviteButton = &row[i]
			}
		}
	}

	require.NotNil(t, inviteButton, "приветствие должно содержать кнопку-ссылку на сообщество")
	assert.Equal(t, inviteLink, inviteButton.URL)

	require.NotNil(t, reply.Next)
	assert.Contains(t, reply.Next.Text, "Главное меню")
}

func TestBotService_UnknownCommandIgnored(t *testing.T) {
	env := newTestEnv()

	command := startCommand(1)
	command.Type = models.CommandUnknown
	command.Text = "/unknown"

	reply, err := env.dispatcher.ProcessCommand(context.Background(), command)

	require.NoError(t, err)
	assert.Nil(t, reply)
}

func TestBotService_FreeTextWithoutAwaitingFlag(t *testing.T) {
	env := newTestEnv()

	reply, err := env.dispatcher.ProcessMessage(context.Background(), 1, "anna", "привет")
	require.NoError(t, err)

	assert.Contains(t, reply.Text, "не понимаю")
	assert.Contains(t, tokens(reply), models.TokenMainMenu)
}

func TestBotService_FreeTextSavesAwaitedProfile(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.dispatcher.ProcessCallback(ctx, 1, "anna", models.TokenCreateProfile)
	require.NoError(t, err)

	reply, err := env.dispatcher.ProcessMessage(ctx, 1, "anna", "Анна Иванова\nНавыки: Go")
	require.NoError(t, err)

	assert.Contains(t, reply.Text, "успешно сохранен")

	user, err := env.users.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Анна Иванова\nНавыки: Go", user.Profile)
}

func TestBotService_MainMenuCancelsProfileEdit(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	require.NoError(t, env.users.Upsert(ctx, &models.User{ID: 1, Username: "anna", Profile: "старый текст"}))

	_, err := env.dispatcher.ProcessCallback(ctx, 1, "anna", models.TokenEditProfile)
	require.NoError(t, err)

	reply, err := env.dispatcher.ProcessCallback(ctx, 1, "anna", models.TokenMainMenu)
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Главное меню")
	assert.False(t, env.sessions.Get(1).AwaitingProfile)

	// Текст после отмены не трактуется как новая анкета.
	reply, err = env.dispatcher.ProcessMessage(ctx, 1, "anna", "привет, бот")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "не понимаю")

	user, err := env.users.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "старый текст", user.Profile)
}

func TestBotService_UnknownCallbackIsSilentNoop(t *testing.T) {
	env := newTestEnv()

	reply, err := env.dispatcher.ProcessCallback(context.Background(), 1, "anna", "garbage_token")

	require.NoError(t, err)
	assert.Nil(t, reply)
}

func TestBotService_CallbackRouting(t *testing.T) {
	env := newTestEnv()
	env.addHackathon(t, "Alpha")

	ctx := context.Background()

	reply, err := env.dispatcher.ProcessCallback(ctx, 1, "anna", models.TokenViewHackathons)
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Хакатон: Alpha")

	reply, err = env.dispatcher.ProcessCallback(ctx, 1, "anna", "participate_1")
	require.NoError(t, err)
	assert.Equal(t, "Вы успешно зарегистрировались на участие в этом хакатоне!", reply.Toast)

	reply, err = env.dispatcher.ProcessCallback(ctx, 1, "anna", models.TokenMainMenu)
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Главное меню")
}

func TestBotService_StaleNavigationGivesGuidance(t *testing.T) {
	env := newTestEnv()

	// Навигация без предшествующего просмотра: список сессии пуст.
	reply, err := env.dispatcher.ProcessCallback(context.Background(), 1, "anna", models.TokenNextHackathon)

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Список для навигации пуст")
	assert.Contains(t, tokens(reply), models.TokenMainMenu)
}

func TestBotService_HandleHackathonImportedBroadcasts(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	require.NoError(t, env.users.Upsert(ctx, &models.User{ID: 1, Username: "anna", Profile: "Go"}))
	require.NoError(t, env.users.Upsert(ctx, &models.User{ID: 2, Username: "boris", Profile: "Python"}))

	err := env.dispatcher.HandleHackathonImported(ctx, &models.Hackathon{Name: "Alpha"})
	require.NoError(t, err)

	require.Len(t, env.sender.sent, 2)
	assert.Equal(t, int64(1), env.sender.sent[0].chatID)
	assert.Equal(t, int64(2), env.sender.sent[1].chatID)
	assert.Contains(t, env.sender.sent[0].reply.Text, "Alpha")
	assert.Contains(t, tokens(env.sender.sent[0].reply), models.TokenViewHackathons)
}
