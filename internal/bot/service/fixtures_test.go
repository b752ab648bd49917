package service_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	botservice "github.com/hack-community/hackmate/internal/bot/service"
	"github.com/hack-community/hackmate/internal/bot/session"
	"github.com/hack-community/hackmate/internal/domain/models"
	"github.com/hack-community/hackmate/internal/infrastructure/repositories/memory"
)

const inviteLink = "https://t.me/+test"

// testEnv собирает сервисный слой поверх in-memory репозиториев.
type testEnv struct {
	users          *memory.UserRepository
	hackathons     *memory.HackathonRepository
	participations *memory.ParticipationRepository
	sessions       *session.Store
	sender         *fakeSender

	profiles     *botservice.ProfileService
	hackathonSvc *botservice.HackathonService
	participants *botservice.ParticipantService
	dispatcher   *botservice.BotService
}

func newTestEnv() *testEnv {
	store := memory.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	env := &testEnv{
		users:          memory.NewUserRepository(store),
		hackathons:     memory.NewHackathonRepository(store),
		participations: memory.NewParticipationRepository(store),
		sessions:       session.NewStore(),
		sender:         &fakeSender{},
	}

	env.profiles = botservice.NewProfileService(env.users, env.sessions)
	env.hackathonSvc = botservice.NewHackathonService(env.hackathons, env.participations, env.sessions, logger)
	env.participants = botservice.NewParticipantService(env.participations, env.sessions)
	env.dispatcher = botservice.NewBotService(
		env.profiles,
		env.hackathonSvc,
		env.participants,
		env.users,
		env.sessions,
		env.sender,
		inviteLink,
		logger,
	)

	return env
}

func (e *testEnv) addHackathon(t *testing.T, name string) *models.Hackathon {
	t.Helper()

	h := &models.Hackathon{Name: name, Prizes: "100 000 ₽", Link: "https://example.com/" + name}
	require.NoError(t, e.hackathons.Insert(context.Background(), h))

	return h
}

func (e *testEnv) join(t *testing.T, userID int64, username string, hackathonID int64) {
	t.Helper()

	require.NoError(t, e.participations.Add(context.Background(), userID, username, hackathonID))
}

// fakeSender записывает рассылки вместо обращения к Telegram.
type fakeSender struct {
	mu   sync.Mutex
	sent []sentReply
}

type sentReply struct {
	chatID int64
	reply  *models.Reply
}

func (f *fakeSender) SendReply(_ context.Context, chatID int64, reply *models.Reply) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sent = append(f.sent, sentReply{chatID: chatID, reply: reply})

	return nil
}

// tokens разворачивает все callback-токены кнопок ответа в один срез.
func tokens(reply *models.Reply) []string {
	var result []string

	for _, row := range reply.Buttons {
		for _, b := range row {
			if b.Token != "" {
				result = append(result, b.Token)
			}
		}
	}

	return result
}
