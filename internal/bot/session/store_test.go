package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hack-community/hackmate/internal/bot/session"
	"github.com/hack-community/hackmate/internal/domain/models"
)

func TestStore_GetCreatesSession(t *testing.T) {
	store := session.NewStore()

	sess := store.Get(1)
	require.NotNil(t, sess)
	assert.Equal(t, int64(1), sess.UserID)
	assert.Equal(t, 1, store.Len())

	again := store.Get(1)
	assert.Same(t, sess, again)
	assert.Equal(t, 1, store.Len())
}

func TestStore_ResetClearsBrowsingState(t *testing.T) {
	store := session.NewStore()

	sess := store.Get(1)
	sess.Hackathons = []*models.HackathonWithCount{{}}
	sess.CurrentHackathon = 1
	sess.MyHackathonsView = true
	sess.Participants = []*models.Participant{{Username: "anna"}}
	sess.CurrentParticipant = 1
	sess.AwaitingProfile = true

	store.Reset(1)

	assert.Nil(t, sess.Hackathons)
	assert.Zero(t, sess.CurrentHackathon)
	assert.False(t, sess.MyHackathonsView)
	assert.Nil(t, sess.Participants)
	assert.Zero(t, sess.CurrentParticipant)
	assert.False(t, sess.AwaitingProfile)
}

func TestStore_ResetUnknownUserIsNoop(t *testing.T) {
	store := session.NewStore()

	store.Reset(99)

	assert.Zero(t, store.Len())
}

func TestStore_EvictIdle(t *testing.T) {
	store := session.NewStore()

	idle := store.Get(1)
	idle.LastSeen = time.Now().Add(-2 * time.Hour)

	store.Get(2)

	evicted := store.EvictIdle(1 * time.Hour)

	assert.Equal(t, 1, evicted)
	assert.Equal(t, 1, store.Len())

	// Выселенный пользователь получает свежую сессию при возвращении.
	fresh := store.Get(1)
	assert.NotSame(t, idle, fresh)
}
