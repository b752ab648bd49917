package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customerrors "github.com/hack-community/hackmate/internal/domain/errors"
	"github.com/hack-community/hackmate/internal/domain/models"
)

func TestHackathonService_ListUnjoined_Empty(t *testing.T) {
	env := newTestEnv()

	reply, err := env.hackathonSvc.ListUnjoined(context.Background(), 1)
	require.NoError(t, err)

	assert.Contains(t, reply.Text, "нет доступных хакатонов")
	assert.Contains(t, tokens(reply), models.TokenMyHackathons)
}

func TestHackathonService_ListUnjoined_ShowsFirst(t *testing.T) {
	env := newTestEnv()
	env.addHackathon(t, "Alpha")
	env.addHackathon(t, "Beta")

	reply, err := env.hackathonSvc.ListUnjoined(context.Background(), 1)
	require.NoError(t, err)

	assert.Contains(t, reply.Text, "Хакатон: Alpha")
	assert.Contains(t, reply.Text, "Количество участников от сообщества: 0")
	assert.Contains(t, tokens(reply), "participate_1")
}

func TestHackathonService_AdvanceWrapsAround(t *testing.T) {
	env := newTestEnv()
	env.addHackathon(t, "Alpha")
	env.addHackathon(t, "Beta")
	env.addHackathon(t, "Gamma")

	ctx := context.Background()

	_, err := env.hackathonSvc.ListUnjoined(ctx, 1)
	require.NoError(t, err)

	// Назад с первого — на последний.
	reply, err := env.hackathonSvc.Advance(ctx, 1, -1)
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Хакатон: Gamma")

	// Вперёд с последнего — снова на первый.
	reply, err = env.hackathonSvc.Advance(ctx, 1, +1)
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Хакатон: Alpha")

	// Полный круг вперёд возвращает к исходному элементу.
	for i := 0; i < 3; i++ {
		reply, err = env.hackathonSvc.Advance(ctx, 1, +1)
		require.NoError(t, err)
	}

	assert.Contains(t, reply.Text, "Хакатон: Alpha")
}

func TestHackathonService_AdvanceEmptyList(t *testing.T) {
	env := newTestEnv()

	_, err := env.hackathonSvc.Advance(context.Background(), 1, +1)

	require.Error(t, err)
	assert.ErrorIs(t, err, &customerrors.ErrEmptyList{})
}

func TestHackathonService_JoinMovesHackathonBetweenLists(t *testing.T) {
	env := newTestEnv()
	alpha := env.addHackathon(t, "Alpha")
	env.addHackathon(t, "Beta")

	ctx := context.Background()

	reply, err := env.hackathonSvc.Join(ctx, 1, "anna", alpha.ID)
	require.NoError(t, err)

	assert.Equal(t, "Вы успешно зарегистрировались на участие в этом хакатоне!", reply.Toast)
	// После регистрации показывается список доступных, Alpha в нём больше нет.
	assert.Contains(t, reply.Text, "Хакатон: Beta")

	joined, err := env.hackathons.FindJoined(ctx, 1)
	require.NoError(t, err)
	require.Len(t, joined, 1)
	assert.Equal(t, "Alpha", joined[0].Name)
	assert.Equal(t, 1, joined[0].ParticipantCount)

	unjoined, err := env.hackathons.FindUnjoined(ctx, 1)
	require.NoError(t, err)
	require.Len(t, unjoined, 1)
	assert.Equal(t, "Beta", unjoined[0].Name)
}

func TestHackathonService_JoinTwiceKeepsSingleRow(t *testing.T) {
	env := newTestEnv()
	alpha := env.addHackathon(t, "Alpha")

	ctx := context.Background()

	_, err := env.hackathonSvc.Join(ctx, 1, "anna", alpha.ID)
	require.NoError(t, err)

	reply, err := env.hackathonSvc.Join(ctx, 1, "anna", alpha.ID)
	require.NoError(t, err)

	assert.Equal(t, "Вы уже зарегистрированы на этот хакатон.", reply.Toast)

	joined, err := env.hackathons.FindJoined(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, joined, 1)
	assert.Equal(t, 1, joined[0].ParticipantCount)
}

func TestHackathonService_MyHackathonsHidesParticipateButton(t *testing.T) {
	env := newTestEnv()
	alpha := env.addHackathon(t, "Alpha")
	env.join(t, 1, "anna", alpha.ID)

	ctx := context.Background()

	reply, err := env.hackathonSvc.ListJoined(ctx, 1)
	require.NoError(t, err)

	assert.Contains(t, reply.Text, "Хакатон: Alpha")
	assert.NotContains(t, tokens(reply), "participate_1")
	assert.Contains(t, tokens(reply), "look_for_members_1")
}

func TestHackathonService_ListJoined_Empty(t *testing.T) {
	env := newTestEnv()

	reply, err := env.hackathonSvc.ListJoined(context.Background(), 1)
	require.NoError(t, err)

	assert.Contains(t, reply.Text, "не участвуете ни в одном")
	assert.Contains(t, tokens(reply), models.TokenViewHackathons)
}

func TestHackathonService_SearchMenuListsAllHackathons(t *testing.T) {
	env := newTestEnv()
	alpha := env.addHackathon(t, "Alpha")
	env.addHackathon(t, "Beta")
	env.join(t, 1, "anna", alpha.ID)

	reply, err := env.hackathonSvc.SearchMenu(context.Background())
	require.NoError(t, err)

	// Меню поиска не фильтрует по участию.
	assert.Contains(t, tokens(reply), "look_for_members_1")
	assert.Contains(t, tokens(reply), "look_for_members_2")
}
